package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/harrisonrobin/tasktrack/pkg/model"
	"github.com/harrisonrobin/tasktrack/pkg/snapshot"
)

const (
	// DefaultPersistTimeout bounds a single snapshot load or save.
	DefaultPersistTimeout = 5 * time.Second

	maxIDAttempts = 8
)

// IDGenerator returns a new opaque task id.
type IDGenerator func() string

// NewXID is the default IDGenerator: a 20 character, sortable, globally unique id.
func NewXID() string {
	return xid.New().String()
}

// Store owns the task collection. Every mutation is saved through the
// snapshot adapter before the lock is released.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]model.Task
	order []string

	adapter snapshot.Adapter
	now     func() time.Time
	newID   IDGenerator
	timeout time.Duration
	logger  *log.Logger

	loadErr    error
	persistErr error
}

// Option configures a Store.
type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Store) { s.newID = gen }
}

func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a store and loads the existing snapshot from adapter. A missing
// snapshot yields an empty store. Any other load failure is logged, kept in
// LoadErr, and also yields an empty store. A nil adapter keeps everything in
// memory.
func New(ctx context.Context, adapter snapshot.Adapter, opts ...Option) *Store {
	s := &Store{
		tasks:   make(map[string]model.Task),
		adapter: adapter,
		now:     time.Now,
		newID:   NewXID,
		timeout: DefaultPersistTimeout,
		logger:  log.New(os.Stderr, "", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.adapter != nil {
		s.load(ctx)
	}
	return s
}

func (s *Store) load(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	loaded, err := s.adapter.Load(ctx)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return
		}
		s.loadErr = &PersistenceError{Op: "load", Err: err}
		s.logger.Printf("Warning: starting with an empty task store: %v", s.loadErr)
		return
	}

	order := make([]string, 0, len(loaded))
	for id, t := range loaded {
		t.ID = id
		s.tasks[id] = t.Clone()
		order = append(order, id)
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := s.tasks[order[i]], s.tasks[order[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	s.order = order
}

// LoadErr returns the error hit while loading the snapshot, if any.
func (s *Store) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// LastPersistErr returns the error from the most recent save, or nil if it succeeded.
func (s *Store) LastPersistErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}

// saveLocked writes the whole collection. Callers must hold the write lock.
func (s *Store) saveLocked() {
	if s.adapter == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	snap := make(map[string]model.Task, len(s.tasks))
	for id, t := range s.tasks {
		snap[id] = t.Clone()
	}

	if err := s.adapter.Save(ctx, snap); err != nil {
		s.persistErr = &PersistenceError{Op: "save", Err: err}
		s.logger.Printf("Warning: task changes kept in memory only: %v", s.persistErr)
		return
	}
	s.persistErr = nil
}

// CreateTask validates priority, assigns a fresh id, and stores a pending task.
// A nil tags slice is stored as empty.
func (s *Store) CreateTask(title, description string, priority int, due *time.Time, tags []string) (model.Task, error) {
	if !model.ValidPriority(priority) {
		return model.Task{}, fmt.Errorf("%w: got %d", ErrInvalidPriority, priority)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.uniqueIDLocked()
	if err != nil {
		return model.Task{}, err
	}

	task := model.Task{
		ID:          id,
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      model.StatusPending,
		CreatedAt:   s.now().UTC(),
		DueDate:     due,
		Tags:        tags,
	}
	task = task.Clone()

	s.tasks[id] = task
	s.order = append(s.order, id)
	s.saveLocked()

	return task.Clone(), nil
}

func (s *Store) uniqueIDLocked() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, exists := s.tasks[id]; !exists {
			return id, nil
		}
	}
	return "", ErrIDCollision
}

// UpdateTaskStatus sets the status of task id. It returns false without
// error when the id is unknown. Any status may move to any other status.
func (s *Store) UpdateTaskStatus(id string, status model.Status) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return false, nil
	}
	task.Status = status
	s.tasks[id] = task
	s.saveLocked()

	return true, nil
}

// GetTask returns a copy of task id.
func (s *Store) GetTask(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return model.Task{}, false
	}
	return task.Clone(), true
}

// ListTasks returns copies of every task in iteration order.
func (s *Store) ListTasks() []model.Task {
	return s.filter(func(model.Task) bool { return true })
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// filter returns copies of the tasks matching keep, in iteration order.
func (s *Store) filter(keep func(model.Task) bool) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterLocked(keep)
}

func (s *Store) filterLocked(keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0)
	for _, id := range s.order {
		t := s.tasks[id]
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}
