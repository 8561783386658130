// Package store is the persistence boundary for todos: load with
// normalization, whole-collection save, stats, and change subscriptions.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/kv"
)

// DefaultKey is the slot todos are persisted under.
const DefaultKey = "todos"

// Store reads and writes the todo collection through a kv backend.
// Subscriptions are safe for concurrent use; Load and Save are not meant to
// be raced against each other from one process.
type Store struct {
	backend kv.Backend
	key     string
	log     *log.Logger
	now     func() time.Time

	mu       sync.Mutex
	subs     map[int]func()
	nextSub  int
	lastSeen []byte // last bytes this store wrote or observed
}

// Option configures a Store.
type Option func(*Store)

func WithKey(key string) Option { return func(s *Store) { s.key = key } }

func WithLogger(l *log.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock overrides time.Now, used for synthesized ids and timestamps.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func New(b kv.Backend, opts ...Option) *Store {
	s := &Store{
		backend: b,
		key:     DefaultKey,
		log:     log.New(io.Discard),
		now:     time.Now,
		subs:    map[int]func(){},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Key returns the slot name.
func (s *Store) Key() string { return s.key }

// Load returns the normalized collection. Missing, unreadable or malformed
// data yields an empty collection; the cause is logged, never returned.
func (s *Store) Load() []model.Todo {
	raw, ok, err := s.backend.Get(s.key)
	if err != nil {
		s.log.Warn("load failed, using empty list", "key", s.key, "err", err)
		return []model.Todo{}
	}
	if !ok {
		return []model.Todo{}
	}
	s.remember(raw)
	todos, err := s.decode(raw)
	if err != nil {
		s.log.Warn("malformed todos, using empty list", "key", s.key, "err", err)
		return []model.Todo{}
	}
	return todos
}

func (s *Store) decode(raw []byte) ([]model.Todo, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return []model.Todo{}, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	recs := make([]looseTodo, 0, len(elems))
	for i, e := range elems {
		var r looseTodo
		if err := json.Unmarshal(e, &r); err != nil {
			s.log.Warn("skipping non-object record", "index", i, "err", err)
			continue
		}
		recs = append(recs, r)
	}

	n := normalizer{now: s.now().UTC().Truncate(time.Millisecond)}
	todos := n.normalize(recs)
	for _, is := range n.issues {
		s.log.Debug("normalized record", "index", is.Index, "field", is.Field, "msg", is.Msg)
	}
	if s.log.GetLevel() <= log.DebugLevel {
		if vs, err := validate(raw); err == nil {
			for _, v := range vs {
				s.log.Debug("schema deviation", "at", v.Path, "msg", v.Msg)
			}
		}
	}
	return todos, nil
}

// Save writes the entire collection in one backend write, then notifies
// in-process subscribers.
func (s *Store) Save(todos []model.Todo) error {
	b, err := Encode(todos)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	// Remember first: some backends notify watchers from inside Set.
	s.remember(b)
	if err := s.backend.Set(s.key, b); err != nil {
		return fmt.Errorf("write %s: %w", s.key, err)
	}
	s.publish()
	return nil
}

// Stats counts todos by completion state.
func (s *Store) Stats(todos []model.Todo) model.Stats {
	return model.Summarize(todos)
}

// CurrentStats loads the slot and summarizes it; used by polling views.
func (s *Store) CurrentStats() model.Stats {
	return model.Summarize(s.Load())
}

// Diagnose validates the raw slot against the persisted schema.
// An absent slot has no violations.
func (s *Store) Diagnose() ([]Violation, error) {
	raw, ok, err := s.backend.Get(s.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}
	if !ok {
		return nil, nil
	}
	return validate(raw)
}

// Subscribe registers fn to run after every successful Save through this
// store. The returned func removes the subscription.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// OnExternalChange calls fn whenever the slot changes and the new content
// differs from what this store last wrote or read. Writes made through this
// store never trigger it. It stops when ctx is done.
func (s *Store) OnExternalChange(ctx context.Context, fn func()) error {
	return kv.Watch(ctx, s.backend, s.key, func() {
		raw, _, err := s.backend.Get(s.key)
		if err != nil {
			s.log.Warn("read after change notification", "key", s.key, "err", err)
			return
		}
		if !s.remember(raw) {
			return
		}
		fn()
	})
}

// remember records raw as the latest known content and reports whether it
// differs from the previous one.
func (s *Store) remember(raw []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSeen != nil && bytes.Equal(s.lastSeen, raw) {
		return false
	}
	s.lastSeen = append(s.lastSeen[:0], raw...)
	return true
}
