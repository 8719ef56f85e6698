// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for session and task operations.
// Commands only talk to this interface; storage details stay in the backend.
type Service interface {
	// LoggedIn reports whether a session is active.
	LoggedIn() bool

	// Login checks the credentials and starts a session on success.
	// Invalid credentials return false with a nil error and change nothing.
	Login(ctx context.Context, username, password string) (bool, error)

	// Logout ends the session and discards every stored task.
	Logout(ctx context.Context) error

	// Tasks returns the tasks in stored (insertion) order.
	Tasks(ctx context.Context) ([]Task, error)

	// AddTask creates a task from the draft and returns it.
	AddTask(ctx context.Context, d Draft) (Task, error)

	// UpdateTask applies a partial update. Unknown ids are ignored.
	UpdateTask(ctx context.Context, id string, p Patch) error

	// DeleteTask removes a task. Unknown ids are ignored.
	DeleteTask(ctx context.Context, id string) error

	// ToggleComplete flips the completion flag. Unknown ids are ignored.
	ToggleComplete(ctx context.Context, id string) error

	// Close releases the backend.
	Close() error
}
