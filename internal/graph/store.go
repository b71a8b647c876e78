package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// lockRetryDelay is how often a blocked operation retries the file lock.
const lockRetryDelay = 25 * time.Millisecond

// Store is the knowledge graph bound to one JSONL file for its lifetime.
//
// Each operation runs load, compute and save as one critical section: an
// in-process mutex plus an advisory lock on "<path>.lock" that other
// processes sharing the file also honour. Mutations take the lock
// exclusively, reads take it shared.
type Store struct {
	path string
	log  *zap.Logger
	sink DiagnosticSink

	mu      sync.Mutex
	lock    *flock.Flock
	newOpID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithDiagnosticSink forwards operation diagnostics to sink.
func WithDiagnosticSink(sink DiagnosticSink) Option {
	return func(s *Store) { s.sink = sink }
}

// New creates a Store for the graph file at path. The file does not need
// to exist yet.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		log:     zap.NewNop(),
		lock:    flock.New(path + ".lock"),
		newOpID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the graph file location.
func (s *Store) Path() string {
	return s.path
}

// op carries per-operation state: its id, a scoped logger and the
// diagnostics collected so far.
type op struct {
	id    string
	name  string
	log   *zap.Logger
	diags []Diagnostic
}

func (o *op) warn(kind DiagnosticKind, subject, message string) {
	o.log.Warn(string(kind), zap.String("subject", subject), zap.String("message", message))
	o.diags = append(o.diags, Diagnostic{
		OpID:    o.id,
		Op:      o.name,
		Kind:    kind,
		Subject: subject,
		Message: message,
	})
}

func (o *op) warnings() []string {
	out := make([]string, 0, len(o.diags))
	for _, d := range o.diags {
		if d.Kind != KindMalformedRecord {
			out = append(out, d.Message)
		}
	}
	return out
}

// view runs fn against a freshly loaded graph without saving it.
func (s *Store) view(ctx context.Context, name string, fn func(*op, *KnowledgeGraph) error) error {
	return s.run(ctx, name, false, fn)
}

// update runs fn against a freshly loaded graph and saves the result when
// fn succeeds. Nothing is written when fn returns an error.
func (s *Store) update(ctx context.Context, name string, fn func(*op, *KnowledgeGraph) error) error {
	return s.run(ctx, name, true, fn)
}

func (s *Store) run(ctx context.Context, name string, write bool, fn func(*op, *KnowledgeGraph) error) error {
	o := &op{id: s.newOpID(), name: name}
	o.log = s.log.With(zap.String("op", name), zap.String("op_id", o.id))
	defer s.flush(ctx, o)

	release, err := s.acquire(ctx, write)
	if err != nil {
		return err
	}
	defer release()

	g, err := loadGraph(s.path, func(line int, err error) {
		o.warn(KindMalformedRecord, fmt.Sprintf("%s:%d", filepath.Base(s.path), line), err.Error())
	})
	if err != nil {
		return err
	}

	if err := fn(o, g); err != nil {
		return err
	}

	if !write {
		return nil
	}
	if err := saveGraph(s.path, g); err != nil {
		return err
	}
	o.log.Debug("graph saved",
		zap.Int("entities", len(g.Entities)),
		zap.Int("relations", len(g.Relations)),
	)
	return nil
}

// acquire takes the in-process mutex and the file lock. The returned
// function releases both.
func (s *Store) acquire(ctx context.Context, exclusive bool) (func(), error) {
	s.mu.Lock()

	dir := filepath.Dir(s.path)
	if !exclusive {
		// Nothing to read and nowhere to put a lock file.
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return s.mu.Unlock, nil
		}
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("creating graph directory: %w", err)
	}

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = s.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("acquiring graph lock: %w", err)
	}
	if !locked {
		s.mu.Unlock()
		return nil, fmt.Errorf("acquiring graph lock: %s is busy", s.path)
	}

	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.log.Warn("releasing graph lock", zap.Error(err))
		}
		s.mu.Unlock()
	}, nil
}

// flush hands the operation's diagnostics to the sink.
func (s *Store) flush(ctx context.Context, o *op) {
	if s.sink == nil || len(o.diags) == 0 {
		return
	}
	if err := s.sink.Record(ctx, o.diags); err != nil {
		o.log.Warn("recording diagnostics", zap.Error(err))
	}
}
