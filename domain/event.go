package domain

import "time"

// EventType classifies a task change broadcast to live consumers.
type EventType string

const (
	EventTaskCreated EventType = "task.created"
	EventTaskUpdated EventType = "task.updated"
	EventTaskDeleted EventType = "task.deleted"
)

// TaskEvent is the payload pushed on a user's stream when a task changes.
// Deleted tasks carry only the identity.
type TaskEvent struct {
	Type       EventType `json:"type"`
	TaskID     string    `json:"task_id"`
	UserID     string    `json:"user_id"`
	Task       *Task     `json:"task,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
