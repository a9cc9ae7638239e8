package models

import "time"

type HabitFrequency string

const (
	FrequencyDaily  HabitFrequency = "daily"
	FrequencyWeekly HabitFrequency = "weekly"
	FrequencyCustom HabitFrequency = "custom"
)

type HabitCategory string

const (
	HabitCategoryReligious HabitCategory = "religious"
	HabitCategoryHealth    HabitCategory = "health"
	HabitCategoryStudy     HabitCategory = "study"
	HabitCategoryPersonal  HabitCategory = "personal"
)

// Habit represents a recurring practice with a streak counter.
// LongestStreak is a high-water mark and never decreases.
type Habit struct {
	ID            string         `json:"id"`
	Name          string         `json:"name" validate:"required,max=200"`
	Description   string         `json:"description,omitempty" validate:"max=2000"`
	Frequency     HabitFrequency `json:"frequency" validate:"required,oneof=daily weekly custom"`
	PeriodDays    int            `json:"period_days,omitempty" validate:"required_if=Frequency custom,omitempty,min=1,max=365"`
	TargetCount   int            `json:"target_count" validate:"min=1"`
	CurrentStreak int            `json:"current_streak" validate:"min=0"`
	LongestStreak int            `json:"longest_streak" validate:"gtefield=CurrentStreak"`
	IsActive      bool           `json:"is_active"`
	ReminderTime  string         `json:"reminder_time,omitempty" validate:"omitempty,hhmm"`
	Category      HabitCategory  `json:"category" validate:"required,oneof=religious health study personal"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// HabitLog records a single completion. Logs are append-only.
type HabitLog struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	CompletedAt time.Time `json:"completed_at"`
	Count       int       `json:"count"`
}

// HabitDay is the derived completion state of a habit on one calendar day.
type HabitDay struct {
	Date      string `json:"date"`
	Count     int    `json:"count"`
	Completed bool   `json:"completed"`
}

// HabitStats summarises completion over a window of days.
type HabitStats struct {
	HabitID        string  `json:"habit_id"`
	Name           string  `json:"name"`
	CompletedDays  int     `json:"completed_days"`
	TotalDays      int     `json:"total_days"`
	CompletionRate float64 `json:"completion_rate"`
	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
}
