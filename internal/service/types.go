// Package service defines the backend-agnostic interface for task operations.
package service

import "time"

// CreatedAtLayout is the ISO-8601 layout used for Task.CreatedAt.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Task represents a single task item.
// Field names double as the persisted JSON format.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"dueDate,omitempty"` // free-form, never validated here
	IsCompleted bool   `json:"isCompleted"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// Draft holds the caller-supplied fields of a new task.
type Draft struct {
	Title       string
	Description string
	DueDate     string
}

// Patch holds a partial update. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	DueDate     *string
	IsCompleted *bool
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil && p.IsCompleted == nil
}

// Apply returns t with the non-nil fields of p replaced.
func (p Patch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	return t
}

// FormatCreatedAt renders t the way Task.CreatedAt is stored (UTC, milliseconds).
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}
