package models

import "time"

// TaskPriority represents the urgency of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task is a task record supplied by the client as suggestion input. It is
// never persisted by this service; it only feeds the generation handlers.
type Task struct {
	ID          string       `json:"id" validate:"required"`
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description,omitempty"`
	Completed   bool         `json:"completed"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Priority    TaskPriority `json:"priority" validate:"omitempty,task_priority"`
	Type        string       `json:"type,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	ReminderSet bool         `json:"reminder_set"`
	Subject     string       `json:"subject,omitempty"`
	TimeSpent   int          `json:"time_spent_minutes,omitempty" validate:"omitempty,min=0"`
	Difficulty  int          `json:"difficulty,omitempty" validate:"omitempty,min=1,max=10"`
}
