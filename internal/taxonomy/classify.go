package taxonomy

import "strings"

// DetectCategory guesses the category of an entity from its name and
// observations.
//
// Each category scores one point per keyword present anywhere in the
// lowercased text; repeats do not count twice. The strictly highest score
// wins and ties keep the earlier category. With no keyword hit at all the
// result is DefaultCategory.
func DetectCategory(name string, observations []string) Category {
	text := strings.ToLower(name + " " + strings.Join(observations, " "))

	best, bestScore := DefaultCategory, 0
	for c, words := range keywords {
		score := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = Category(c), score
		}
	}
	return best
}
