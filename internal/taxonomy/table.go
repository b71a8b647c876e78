package taxonomy

// matrix lists, per source category, the relation types it may use.
// Order within a row is the order suggestions are offered in.
var matrix = [categoryCount][]RelationType{
	Identity:        {Supports, Enables, Constrains, Mentors, Informs, ReflectsOn},
	Memory:          {Supports, Enables, Constrains, Informs},
	Resources:       {Supports, Enables, Constrains, Informs},
	Context:         {Supports, Enables, Constrains, Informs},
	Conventions:     {Supports, Enables, Constrains, Informs},
	Objectives:      {Supports, Enables, Constrains, Mentors, Informs, ReflectsOn},
	Projects:        {Supports, Enables, Constrains, Mentors, Informs, ReflectsOn},
	Habits:          {Supports, Enables, Constrains, Mentors, Informs, ReflectsOn},
	Risks:           {Mentors, Informs, ReflectsOn, Threatens},
	DecisionJournal: {Supports, Enables, Constrains, Mentors, Informs, ReflectsOn},
	Relationships:   {Supports, Enables, Constrains, Mentors, Informs, ReflectsOn},
	Retros:          {Supports, Enables, Constrains, Mentors, Informs, ReflectsOn},
}

// pair is an ordered (from, to) category pair.
type pair struct {
	from, to Category
}

// fallbackRelation is the default for any pair not listed in defaults.
const fallbackRelation = Supports

// defaults holds the preferred relation type for specific category pairs.
// Every value must be allowed by matrix[from].
var defaults = map[pair]RelationType{
	{Habits, Projects}:   Supports,
	{Habits, Objectives}: Supports,

	{Projects, Objectives}: Supports,

	{Resources, Projects}: Enables,
	{Resources, Habits}:   Enables,

	{Context, Projects}:   Constrains,
	{Context, Objectives}: Constrains,

	{Memory, DecisionJournal}: Informs,
	{Memory, Projects}:        Informs,

	{Retros, Projects}: ReflectsOn,
	{Retros, Habits}:   ReflectsOn,

	{Conventions, Habits}:   Constrains,
	{Conventions, Projects}: Constrains,

	// Risks cannot "support" anything, so every Risks pair is listed.
	{Risks, Identity}:        Threatens,
	{Risks, Memory}:          Threatens,
	{Risks, Resources}:       Threatens,
	{Risks, Context}:         Threatens,
	{Risks, Conventions}:     Threatens,
	{Risks, Objectives}:      Threatens,
	{Risks, Projects}:        Threatens,
	{Risks, Habits}:          Threatens,
	{Risks, Risks}:           Threatens,
	{Risks, DecisionJournal}: Threatens,
	{Risks, Relationships}:   Threatens,
	{Risks, Retros}:          Threatens,
}

// keywords drive category detection. Keywords are lowercase.
var keywords = [categoryCount][]string{
	Identity:        {"values", "mission", "principles", "identity", "purpose", "vision"},
	Memory:          {"learned", "experience", "remember", "past", "history", "lesson"},
	Resources:       {"tool", "budget", "asset", "infrastructure", "capability", "equipment"},
	Context:         {"environment", "situation", "current", "market", "team", "setting"},
	Conventions:     {"standard", "rule", "process", "methodology", "practice", "protocol"},
	Objectives:      {"goal", "target", "achieve", "outcome", "result", "objective"},
	Projects:        {"initiative", "effort", "implementation", "build", "create", "project"},
	Habits:          {"routine", "practice", "daily", "regular", "consistency", "habit"},
	Risks:           {"threat", "danger", "vulnerability", "concern", "issue", "risk"},
	DecisionJournal: {"decided", "choice", "option", "alternative", "decision", "choose"},
	Relationships:   {"person", "team", "stakeholder", "connection", "network", "relationship"},
	Retros:          {"retrospective", "review", "reflection", "lesson", "feedback", "retro"},
}

// DefaultEntry is one row of the default-relation table, for export.
type DefaultEntry struct {
	From Category     `json:"from"`
	To   Category     `json:"to"`
	Type RelationType `json:"type"`
}

// Defaults returns the explicit default-relation rows ordered by
// (from, to) table order.
func Defaults() []DefaultEntry {
	var out []DefaultEntry
	for _, from := range Categories() {
		for _, to := range Categories() {
			if rt, ok := defaults[pair{from, to}]; ok {
				out = append(out, DefaultEntry{From: from, To: to, Type: rt})
			}
		}
	}
	return out
}

// Keywords returns a copy of the detection keywords for c.
func Keywords(c Category) []string {
	if !c.Valid() {
		return nil
	}
	return append([]string(nil), keywords[c]...)
}
