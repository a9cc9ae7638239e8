package storage

import (
	"context"
	"time"

	"github.com/julianstephens/hayati/internal/models"
)

type TaskStore interface {
	AddTask(ctx context.Context, task models.Task) error
	GetTask(ctx context.Context, id string) (models.Task, error)
	// GetAllTasks returns every task ordered by creation time, newest first.
	GetAllTasks(ctx context.Context) ([]models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) error
	DeleteTask(ctx context.Context, id string) error
	UpsertTask(ctx context.Context, task models.Task) error
}

type HabitStore interface {
	AddHabit(ctx context.Context, habit models.Habit) error
	// GetHabit returns the habit whether or not it is active.
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	// GetAllHabits returns active habits, newest first.
	GetAllHabits(ctx context.Context) ([]models.Habit, error)
	GetAllHabitsIncludingInactive(ctx context.Context) ([]models.Habit, error)
	UpdateHabit(ctx context.Context, habit models.Habit) error
	UpdateHabitStreak(ctx context.Context, id string, current, longest int, updatedAt time.Time) error
	// DeleteHabit clears the active flag. Logs are kept.
	DeleteHabit(ctx context.Context, id string) error
	UpsertHabit(ctx context.Context, habit models.Habit) error

	AddHabitLog(ctx context.Context, log models.HabitLog) error
	// GetHabitLogs returns logs with from <= completed_at < to, oldest first.
	GetHabitLogs(ctx context.Context, habitID string, from, to time.Time) ([]models.HabitLog, error)
	// GetPreviousHabitLog returns the latest log of the habit that precedes the
	// given log (by completion time, then id).
	GetPreviousHabitLog(ctx context.Context, log models.HabitLog) (models.HabitLog, error)
	GetAllHabitLogs(ctx context.Context) ([]models.HabitLog, error)
	UpsertHabitLog(ctx context.Context, log models.HabitLog) error
}

type PrayerStore interface {
	GetPrayerTime(ctx context.Context, date string) (models.PrayerTime, error)
	SavePrayerTime(ctx context.Context, pt models.PrayerTime) error
	AddPrayerLog(ctx context.Context, log models.PrayerLog) error
	GetPrayerLogs(ctx context.Context, date string) ([]models.PrayerLog, error)
}

type SettingsStore interface {
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error
}

type GoalStore interface {
	AddGoal(ctx context.Context, goal models.Goal) error
	GetGoal(ctx context.Context, id string) (models.Goal, error)
	GetAllGoals(ctx context.Context) ([]models.Goal, error)
	UpdateGoal(ctx context.Context, goal models.Goal) error
	DeleteGoal(ctx context.Context, id string) error
	UpsertGoal(ctx context.Context, goal models.Goal) error
}

type PomodoroStore interface {
	AddPomodoroSession(ctx context.Context, session models.PomodoroSession) error
	// GetPomodoroSessions returns sessions completed in [from, to), oldest first.
	GetPomodoroSessions(ctx context.Context, from, to time.Time) ([]models.PomodoroSession, error)
	// PomodoroTotals returns the number of work sessions and their summed minutes.
	PomodoroTotals(ctx context.Context) (sessions int, focusMin int, err error)
}

// Provider is the full store boundary used by the application.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Migrate(ctx context.Context, logFn func(string)) (int, error)
	Close() error

	TaskStore
	HabitStore
	PrayerStore
	SettingsStore
	GoalStore
	PomodoroStore

	// Utils
	GetConfigPath() string
}
