package domain

import "time"

// Priority levels accepted for a task. The field is free-form mutable;
// these are the values the clients render.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task represents a user-owned activity item with an optional due date.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	IsCompleted bool       `json:"is_completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasDueDate reports whether the task carries a due timestamp.
func (t *Task) HasDueDate() bool {
	return t != nil && t.DueDate != nil && !t.DueDate.IsZero()
}
