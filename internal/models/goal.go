package models

import (
	"math"
	"time"
)

type GoalPriority string

const (
	GoalPriorityLow    GoalPriority = "low"
	GoalPriorityMedium GoalPriority = "medium"
	GoalPriorityHigh   GoalPriority = "high"
)

type GoalStatus string

const (
	GoalNotStarted GoalStatus = "not-started"
	GoalInProgress GoalStatus = "in-progress"
	GoalCompleted  GoalStatus = "completed"
	GoalOverdue    GoalStatus = "overdue"
)

// Goal is a measurable target. Progress and status are derived from the values.
type Goal struct {
	ID           string       `json:"id"`
	Title        string       `json:"title" validate:"required,max=200"`
	Description  string       `json:"description" validate:"max=2000"`
	Category     string       `json:"category" validate:"required,max=50"`
	Priority     GoalPriority `json:"priority" validate:"required,oneof=low medium high"`
	TargetValue  float64      `json:"target_value" validate:"gt=0"`
	CurrentValue float64      `json:"current_value" validate:"gte=0"`
	Unit         string       `json:"unit" validate:"max=30"`
	StartDate    string       `json:"start_date" validate:"required,datetime=2006-01-02"`
	TargetDate   string       `json:"target_date" validate:"required,datetime=2006-01-02"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Progress returns the rounded completion percentage, capped at 100.
func (g Goal) Progress() int {
	if g.TargetValue <= 0 {
		return 0
	}
	p := int(math.Round(g.CurrentValue / g.TargetValue * 100))
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// Status derives the goal status relative to today (YYYY-MM-DD).
func (g Goal) Status(today string) GoalStatus {
	switch {
	case g.CurrentValue >= g.TargetValue:
		return GoalCompleted
	case g.TargetDate < today:
		return GoalOverdue
	case g.CurrentValue > 0:
		return GoalInProgress
	default:
		return GoalNotStarted
	}
}
