package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/hayati/internal/models"
)

const habitColumns = `id, name, description, frequency, period_days, target_count, current_streak,
	longest_streak, is_active, reminder_time, category, created_at, updated_at`

const habitLogColumns = `id, habit_id, completed_at, count`

func habitArgs(h models.Habit) []interface{} {
	return []interface{}{
		h.ID, h.Name, nullString(h.Description), string(h.Frequency), h.PeriodDays, h.TargetCount,
		h.CurrentStreak, h.LongestStreak, h.IsActive, nullString(h.ReminderTime), string(h.Category),
		ts(h.CreatedAt), ts(h.UpdatedAt),
	}
}

func scanHabit(sc scanner) (models.Habit, error) {
	var (
		h                    models.Habit
		desc, reminder       sql.NullString
		frequency, category  string
		createdAt, updatedAt string
	)
	if err := sc.Scan(&h.ID, &h.Name, &desc, &frequency, &h.PeriodDays, &h.TargetCount, &h.CurrentStreak,
		&h.LongestStreak, &h.IsActive, &reminder, &category, &createdAt, &updatedAt); err != nil {
		return models.Habit{}, err
	}
	h.Description = desc.String
	h.ReminderTime = reminder.String
	h.Frequency = models.HabitFrequency(frequency)
	h.Category = models.HabitCategory(category)
	var err error
	if h.CreatedAt, err = parseTS(createdAt); err != nil {
		return models.Habit{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if h.UpdatedAt, err = parseTS(updatedAt); err != nil {
		return models.Habit{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return h, nil
}

func scanHabitLog(sc scanner) (models.HabitLog, error) {
	var (
		l           models.HabitLog
		completedAt string
	)
	if err := sc.Scan(&l.ID, &l.HabitID, &completedAt, &l.Count); err != nil {
		return models.HabitLog{}, err
	}
	var err error
	if l.CompletedAt, err = parseTS(completedAt); err != nil {
		return models.HabitLog{}, fmt.Errorf("parsing completed_at: %w", err)
	}
	return l, nil
}

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) error {
	_, err := s.exec(ctx, "add habit", `INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, habitArgs(habit)...)
	return err
}

func (s *Store) UpsertHabit(ctx context.Context, habit models.Habit) error {
	_, err := s.exec(ctx, "upsert habit", `INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			frequency = excluded.frequency,
			period_days = excluded.period_days,
			target_count = excluded.target_count,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			is_active = excluded.is_active,
			reminder_time = excluded.reminder_time,
			category = excluded.category,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`, habitArgs(habit)...)
	return err
}

func (s *Store) GetHabit(ctx context.Context, id string) (models.Habit, error) {
	var habit models.Habit
	err := s.queryRow(ctx, "get habit", "habit", id, func(sc scanner) error {
		var err error
		habit, err = scanHabit(sc)
		return err
	}, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	return habit, err
}

func (s *Store) listHabits(ctx context.Context, op, query string, args ...interface{}) ([]models.Habit, error) {
	habits := []models.Habit{}
	err := s.queryRows(ctx, op, func(sc scanner) error {
		h, err := scanHabit(sc)
		if err != nil {
			return err
		}
		habits = append(habits, h)
		return nil
	}, query, args...)
	return habits, err
}

func (s *Store) GetAllHabits(ctx context.Context) ([]models.Habit, error) {
	return s.listHabits(ctx, "list habits",
		`SELECT `+habitColumns+` FROM habits WHERE is_active = ? ORDER BY created_at DESC, id DESC`, true)
}

func (s *Store) GetAllHabitsIncludingInactive(ctx context.Context) ([]models.Habit, error) {
	return s.listHabits(ctx, "list all habits",
		`SELECT `+habitColumns+` FROM habits ORDER BY created_at DESC, id DESC`)
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) error {
	args := habitArgs(habit)
	return s.execOne(ctx, "update habit", "habit", habit.ID, `UPDATE habits SET
			name = ?, description = ?, frequency = ?, period_days = ?, target_count = ?,
			current_streak = ?, longest_streak = ?, is_active = ?, reminder_time = ?, category = ?,
			created_at = ?, updated_at = ?
		WHERE id = ?`, append(args[1:], habit.ID)...)
}

func (s *Store) UpdateHabitStreak(ctx context.Context, id string, current, longest int, updatedAt time.Time) error {
	return s.execOne(ctx, "update habit streak", "habit", id,
		`UPDATE habits SET current_streak = ?, longest_streak = ?, updated_at = ? WHERE id = ?`,
		current, longest, ts(updatedAt), id)
}

func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	return s.execOne(ctx, "delete habit", "habit", id,
		`UPDATE habits SET is_active = ?, updated_at = ? WHERE id = ?`, false, ts(time.Now()), id)
}

func (s *Store) AddHabitLog(ctx context.Context, log models.HabitLog) error {
	_, err := s.exec(ctx, "add habit log", `INSERT INTO habit_logs (`+habitLogColumns+`) VALUES (?, ?, ?, ?)`,
		log.ID, log.HabitID, ts(log.CompletedAt), log.Count)
	return err
}

func (s *Store) UpsertHabitLog(ctx context.Context, log models.HabitLog) error {
	_, err := s.exec(ctx, "upsert habit log", `INSERT INTO habit_logs (`+habitLogColumns+`) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			habit_id = excluded.habit_id,
			completed_at = excluded.completed_at,
			count = excluded.count`,
		log.ID, log.HabitID, ts(log.CompletedAt), log.Count)
	return err
}

func (s *Store) listHabitLogs(ctx context.Context, op, query string, args ...interface{}) ([]models.HabitLog, error) {
	logs := []models.HabitLog{}
	err := s.queryRows(ctx, op, func(sc scanner) error {
		l, err := scanHabitLog(sc)
		if err != nil {
			return err
		}
		logs = append(logs, l)
		return nil
	}, query, args...)
	return logs, err
}

func (s *Store) GetHabitLogs(ctx context.Context, habitID string, from, to time.Time) ([]models.HabitLog, error) {
	return s.listHabitLogs(ctx, "list habit logs", `SELECT `+habitLogColumns+` FROM habit_logs
		WHERE habit_id = ? AND completed_at >= ? AND completed_at < ?
		ORDER BY completed_at ASC, id ASC`, habitID, ts(from), ts(to))
}

func (s *Store) GetAllHabitLogs(ctx context.Context) ([]models.HabitLog, error) {
	return s.listHabitLogs(ctx, "list all habit logs",
		`SELECT `+habitLogColumns+` FROM habit_logs ORDER BY completed_at ASC, id ASC`)
}

func (s *Store) GetPreviousHabitLog(ctx context.Context, log models.HabitLog) (models.HabitLog, error) {
	var prev models.HabitLog
	at := ts(log.CompletedAt)
	err := s.queryRow(ctx, "get previous habit log", "habit log before", log.ID, func(sc scanner) error {
		var err error
		prev, err = scanHabitLog(sc)
		return err
	}, `SELECT `+habitLogColumns+` FROM habit_logs
		WHERE habit_id = ? AND (completed_at < ? OR (completed_at = ? AND id < ?))
		ORDER BY completed_at DESC, id DESC
		LIMIT 1`, log.HabitID, at, at, log.ID)
	return prev, err
}
