// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"todo/internal/service"
)

// ErrNotFound is returned when a task id is unknown to the fake.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu       sync.RWMutex
	loggedIn bool
	tasks    []service.Task
	nextID   int
	closed   bool

	// Error injection for testing
	LoginErr  error
	LogoutErr error
	TasksErr  error
	AddErr    error
	UpdateErr error
	DeleteErr error
	ToggleErr error
}

// NewFakeService creates a new logged-out FakeService with no tasks.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// SetLoggedIn sets the session flag directly.
func (f *FakeService) SetLoggedIn(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = v
}

// Seed appends a task as-is.
func (f *FakeService) Seed(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
}

// Snapshot returns a copy of the stored tasks, bypassing TasksErr.
func (f *FakeService) Snapshot() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Closed reports whether Close was called.
func (f *FakeService) Closed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.closed
}

// LoggedIn implements service.Service.
func (f *FakeService) LoggedIn() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loggedIn
}

// Login implements service.Service. It accepts admin/password.
func (f *FakeService) Login(ctx context.Context, username, password string) (bool, error) {
	if f.LoginErr != nil {
		return false, f.LoginErr
	}
	if username != "admin" || password != "password" {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = true
	return true, nil
}

// Logout implements service.Service.
func (f *FakeService) Logout(ctx context.Context) error {
	if f.LogoutErr != nil {
		return f.LogoutErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedIn = false
	f.tasks = nil
	return nil
}

// Tasks implements service.Service.
func (f *FakeService) Tasks(ctx context.Context) ([]service.Task, error) {
	if f.TasksErr != nil {
		return nil, f.TasksErr
	}
	return f.Snapshot(), nil
}

// AddTask implements service.Service.
func (f *FakeService) AddTask(ctx context.Context, d service.Draft) (service.Task, error) {
	if f.AddErr != nil {
		return service.Task{}, f.AddErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	// Generate a simple ID
	f.nextID++
	task := service.Task{
		ID:          fmt.Sprintf("task-%d", f.nextID),
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		CreatedAt:   "2024-01-01T00:00:00.000Z",
	}
	f.tasks = append(f.tasks, task)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, p service.Patch) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	f.tasks[i] = p.Apply(f.tasks[i])
	return nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

// ToggleComplete implements service.Service.
func (f *FakeService) ToggleComplete(ctx context.Context, id string) error {
	if f.ToggleErr != nil {
		return f.ToggleErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	f.tasks[i].IsCompleted = !f.tasks[i].IsCompleted
	return nil
}

// Close implements service.Service.
func (f *FakeService) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *FakeService) indexOf(id string) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
