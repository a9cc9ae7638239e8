package models

import "time"

type TaskCategory string

const (
	TaskCategoryDaily     TaskCategory = "daily"
	TaskCategoryStudy     TaskCategory = "study"
	TaskCategoryHealth    TaskCategory = "health"
	TaskCategoryShopping  TaskCategory = "shopping"
	TaskCategoryWork      TaskCategory = "work"
	TaskCategoryPersonal  TaskCategory = "personal"
	TaskCategoryReligious TaskCategory = "religious"
)

// Priority is ordered: higher value is more urgent.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return "unknown"
	}
}

type RecurringPattern string

const (
	RecurringDaily    RecurringPattern = "daily"
	RecurringWeekly   RecurringPattern = "weekly"
	RecurringMonthly  RecurringPattern = "monthly"
	RecurringWeekdays RecurringPattern = "weekdays"
	RecurringWeekends RecurringPattern = "weekends"
)

type Task struct {
	ID               string           `json:"id"`
	Title            string           `json:"title" validate:"required,max=200"`
	Description      string           `json:"description,omitempty" validate:"max=2000"`
	Category         TaskCategory     `json:"category" validate:"required,oneof=daily study health shopping work personal religious"`
	Priority         Priority         `json:"priority" validate:"min=1,max=4"`
	DueAt            *time.Time       `json:"due_at,omitempty"`
	IsCompleted      bool             `json:"is_completed"`
	IsRecurring      bool             `json:"is_recurring"`
	RecurringPattern RecurringPattern `json:"recurring_pattern,omitempty" validate:"required_if=IsRecurring true,omitempty,oneof=daily weekly monthly weekdays weekends"`
	Tags             []string         `json:"tags"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// IsOverdue reports whether the task has a due date in the past and is not completed.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted && t.DueAt != nil && t.DueAt.Before(now)
}
