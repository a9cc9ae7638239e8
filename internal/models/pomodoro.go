package models

import "time"

type PomodoroMode string

const (
	ModeWork       PomodoroMode = "work"
	ModeShortBreak PomodoroMode = "break"
	ModeLongBreak  PomodoroMode = "longBreak"
)

// PomodoroSession records a finished pomodoro interval.
type PomodoroSession struct {
	ID          string       `json:"id"`
	Mode        PomodoroMode `json:"mode"`
	DurationMin int          `json:"duration_min"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
}

type PomodoroStats struct {
	TotalSessions int `json:"total_sessions"`
	TodaySessions int `json:"today_sessions"`
	TodayFocusMin int `json:"today_focus_min"`
	TotalFocusMin int `json:"total_focus_min"`
}
