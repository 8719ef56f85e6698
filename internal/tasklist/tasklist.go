// Package tasklist holds the in-memory task list and keeps it in sync with the
// key-value store.
//
// Every mutation rewrites the whole list under a single key. Lists are
// expected to hold tens to low hundreds of tasks; a larger list would need a
// batched flush instead.
package tasklist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"todo/internal/kvstore"
	"todo/internal/logging"
	"todo/internal/service"
)

// ErrCorrupt is returned by Hydrate when the stored blob cannot be decoded.
var ErrCorrupt = errors.New("stored tasks are corrupt")

// List is the task list state container.
// Stored order is insertion order.
type List struct {
	mu    sync.Mutex
	store kvstore.Store
	key   string
	tasks []service.Task
	now   func() time.Time
	newID func() string
	log   logrus.FieldLogger
}

// New creates an empty list persisted under key in store.
func New(store kvstore.Store, key string, log logrus.FieldLogger) *List {
	if log == nil {
		log = logging.Discard()
	}
	return &List{
		store: store,
		key:   key,
		now:   time.Now,
		newID: newID,
		log:   log.WithField("key", key),
	}
}

// SetClock replaces the clock used for CreatedAt (for testing).
func (l *List) SetClock(now func() time.Time) {
	l.now = now
}

// SetIDGenerator replaces the task ID generator (for testing).
func (l *List) SetIDGenerator(gen func() string) {
	l.newID = gen
}

// newID returns a time-ordered UUID so IDs created in one session never collide.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Hydrate replaces the in-memory list with the stored one.
// An absent or empty blob yields an empty list. A blob that does not decode
// leaves the list empty and returns an error wrapping ErrCorrupt.
func (l *List) Hydrate(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.tasks = nil

	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		return fmt.Errorf("failed to read tasks: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		l.log.Debug("no stored tasks")
		return nil
	}

	var tasks []service.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	l.tasks = tasks
	l.log.WithField("tasks", len(tasks)).Debug("tasks hydrated")
	return nil
}

// Tasks returns a copy of the list in stored order.
func (l *List) Tasks() []service.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.tasks)
}

// Len returns the number of tasks.
func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Add appends a new task built from d.
// The task gets a fresh ID, IsCompleted=false and CreatedAt=now.
func (l *List) Add(ctx context.Context, d service.Draft) (service.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	task := service.Task{
		ID:          l.newID(),
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		IsCompleted: false,
		CreatedAt:   service.FormatCreatedAt(l.now()),
	}

	next := append(clone(l.tasks), task)
	if err := l.commit(ctx, next); err != nil {
		return service.Task{}, err
	}
	l.log.WithField("id", task.ID).Debug("task added")
	return task, nil
}

// Update applies p to the task with the given id.
// A missing id is a no-op.
func (l *List) Update(ctx context.Context, id string, p service.Patch) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 || p.Empty() {
		return nil
	}

	next := clone(l.tasks)
	next[i] = p.Apply(next[i])
	return l.commit(ctx, next)
}

// Delete removes the first task with the given id.
// A missing id is a no-op.
func (l *List) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return nil
	}

	next := make([]service.Task, 0, len(l.tasks)-1)
	next = append(next, l.tasks[:i]...)
	next = append(next, l.tasks[i+1:]...)
	return l.commit(ctx, next)
}

// ToggleComplete flips the completion flag of the task with the given id.
// A missing id is a no-op.
func (l *List) ToggleComplete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return nil
	}

	next := clone(l.tasks)
	next[i].IsCompleted = !next[i].IsCompleted
	return l.commit(ctx, next)
}

// Forget drops the in-memory list without touching the store.
func (l *List) Forget() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = nil
}

// commit writes next to the store and, only if that succeeds, makes it the
// current list. Callers hold l.mu.
func (l *List) commit(ctx context.Context, next []service.Task) error {
	if next == nil {
		next = []service.Task{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := l.store.Set(ctx, l.key, string(data)); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	l.tasks = next
	l.log.WithField("tasks", len(next)).Debug("tasks persisted")
	return nil
}

func (l *List) indexOf(id string) int {
	for i, t := range l.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func clone(tasks []service.Task) []service.Task {
	if tasks == nil {
		return nil
	}
	out := make([]service.Task, len(tasks))
	copy(out, tasks)
	return out
}
