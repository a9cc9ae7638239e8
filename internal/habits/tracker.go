// Package habits tracks habit completions and derives streaks from the log history.
package habits

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/hayati/internal/constants"
	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/logger"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/storage"
	"github.com/julianstephens/hayati/internal/utils"
	"github.com/julianstephens/hayati/internal/validation"
)

const maxCalendarDays = 366

// SettingsSource returns the current user settings.
type SettingsSource interface {
	Settings() models.Settings
}

// Reminders arms and cancels per-habit reminders.
type Reminders interface {
	ScheduleHabitReminder(habitID, name, timeOfDay string) error
	CancelHabitReminder(habitID string)
}

type noReminders struct{}

func (noReminders) ScheduleHabitReminder(string, string, string) error { return nil }
func (noReminders) CancelHabitReminder(string)                         {}

type Tracker struct {
	store     storage.HabitStore
	settings  SettingsSource
	reminders Reminders
	now       func() time.Time

	// mu serializes streak updates so two logs cannot both read the same
	// previous state.
	mu sync.Mutex
}

type Option func(*Tracker)

func WithReminders(r Reminders) Option {
	return func(t *Tracker) {
		if r != nil {
			t.reminders = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(store storage.HabitStore, settings SettingsSource, opts ...Option) *Tracker {
	t := &Tracker{
		store:     store,
		settings:  settings,
		reminders: noReminders{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetReminders replaces the reminder sink after construction.
func (t *Tracker) SetReminders(r Reminders) {
	if r == nil {
		r = noReminders{}
	}
	t.reminders = r
}

func (t *Tracker) location() *time.Location {
	return utils.MustLocation(t.settings.Settings().Timezone)
}

// HabitInput carries the user-editable fields of a habit. Nil fields are
// left unchanged on update and defaulted on create.
type HabitInput struct {
	Name         *string                `json:"name,omitempty"`
	Description  *string                `json:"description,omitempty"`
	Frequency    *models.HabitFrequency `json:"frequency,omitempty"`
	PeriodDays   *int                   `json:"period_days,omitempty"`
	TargetCount  *int                   `json:"target_count,omitempty"`
	ReminderTime *string                `json:"reminder_time,omitempty"`
	Category     *models.HabitCategory  `json:"category,omitempty"`
}

func (in HabitInput) apply(h models.Habit) models.Habit {
	if in.Name != nil {
		h.Name = *in.Name
	}
	if in.Description != nil {
		h.Description = *in.Description
	}
	if in.Frequency != nil {
		h.Frequency = *in.Frequency
	}
	if in.PeriodDays != nil {
		h.PeriodDays = *in.PeriodDays
	}
	if in.TargetCount != nil {
		h.TargetCount = *in.TargetCount
	}
	if in.ReminderTime != nil {
		h.ReminderTime = *in.ReminderTime
	}
	if in.Category != nil {
		h.Category = *in.Category
	}
	if h.Frequency != models.FrequencyCustom {
		h.PeriodDays = int(periodDays(h))
	}
	return h
}

func (t *Tracker) Create(ctx context.Context, in HabitInput) (models.Habit, error) {
	now := t.now().UTC()
	h := in.apply(models.Habit{
		ID:          uuid.NewString(),
		Frequency:   models.FrequencyDaily,
		TargetCount: 1,
		IsActive:    true,
		Category:    models.HabitCategoryPersonal,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err := validation.Struct(h); err != nil {
		return models.Habit{}, err
	}
	if err := t.store.AddHabit(ctx, h); err != nil {
		return models.Habit{}, err
	}
	t.armReminder(h)
	return h, nil
}

func (t *Tracker) Update(ctx context.Context, id string, in HabitInput) (models.Habit, error) {
	h, err := t.store.GetHabit(ctx, id)
	if err != nil {
		return models.Habit{}, err
	}
	h = in.apply(h)
	h.UpdatedAt = t.now().UTC()
	if err := validation.Struct(h); err != nil {
		return models.Habit{}, err
	}
	if err := t.store.UpdateHabit(ctx, h); err != nil {
		return models.Habit{}, err
	}
	t.armReminder(h)
	return h, nil
}

// Delete deactivates the habit. Its logs are kept.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	if err := t.store.DeleteHabit(ctx, id); err != nil {
		return err
	}
	t.reminders.CancelHabitReminder(id)
	return nil
}

func (t *Tracker) Get(ctx context.Context, id string) (models.Habit, error) {
	return t.store.GetHabit(ctx, id)
}

// List returns the active habits, newest first.
func (t *Tracker) List(ctx context.Context) ([]models.Habit, error) {
	return t.store.GetAllHabits(ctx)
}

// Rearm schedules reminders for every active habit that has a reminder time.
func (t *Tracker) Rearm(ctx context.Context) (int, error) {
	habits, err := t.store.GetAllHabits(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, h := range habits {
		if h.ReminderTime != "" && t.armReminder(h) {
			n++
		}
	}
	return n, nil
}

func (t *Tracker) armReminder(h models.Habit) bool {
	if !h.IsActive || h.ReminderTime == "" {
		t.reminders.CancelHabitReminder(h.ID)
		return false
	}
	if err := t.reminders.ScheduleHabitReminder(h.ID, h.Name, h.ReminderTime); err != nil {
		logger.Warn("Failed to schedule habit reminder", "habit", h.ID, "error", err)
		return false
	}
	return true
}

// LogCompletion appends a completion and then derives the streak from the
// stored history. The streak is only touched once the log is durable.
func (t *Tracker) LogCompletion(ctx context.Context, habitID string, count int) (models.HabitLog, error) {
	if count < 1 {
		return models.HabitLog{}, apperrors.Validation("count must be at least 1")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	habit, err := t.store.GetHabit(ctx, habitID)
	if apperrors.IsNotFound(err) {
		return models.HabitLog{}, apperrors.Validation("habit %q does not exist", habitID)
	}
	if err != nil {
		return models.HabitLog{}, err
	}
	if !habit.IsActive {
		return models.HabitLog{}, apperrors.Validation("habit %q is not active", habitID)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.HabitLog{}, apperrors.Persistence("log habit", err)
	}
	log := models.HabitLog{ID: id.String(), HabitID: habitID, CompletedAt: t.now().UTC(), Count: count}
	if err := t.store.AddHabitLog(ctx, log); err != nil {
		if !apperrors.IsPersistence(err) {
			err = apperrors.Persistence("log habit", err)
		}
		return models.HabitLog{}, err
	}

	loc := t.location()
	current := 1
	prev, err := t.store.GetPreviousHabitLog(ctx, log)
	switch {
	case err == nil:
		current = nextStreak(habit.CurrentStreak, periodIndex(habit, prev.CompletedAt, loc), periodIndex(habit, log.CompletedAt, loc))
	case !apperrors.IsNotFound(err):
		return log, err
	}

	longest := habit.LongestStreak
	if current > longest {
		longest = current
	}
	if err := t.store.UpdateHabitStreak(ctx, habitID, current, longest, log.CompletedAt); err != nil {
		return log, err
	}
	logger.Debug("Habit logged", "habit", habitID, "count", count, "streak", current, "longest", longest)
	return log, nil
}

var farFuture = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

// RecomputeStreak rebuilds the streak counters from the full log history.
// The longest streak never decreases.
func (t *Tracker) RecomputeStreak(ctx context.Context, habitID string) (models.Habit, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	habit, err := t.store.GetHabit(ctx, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	logs, err := t.store.GetHabitLogs(ctx, habitID, time.Time{}, farFuture)
	if err != nil {
		return models.Habit{}, err
	}

	current, longest := replay(habit, logs, t.location())
	if habit.LongestStreak > longest {
		longest = habit.LongestStreak
	}
	habit.CurrentStreak = current
	habit.LongestStreak = longest
	habit.UpdatedAt = t.now().UTC()
	if err := t.store.UpdateHabitStreak(ctx, habitID, current, longest, habit.UpdatedAt); err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// replay folds logs (oldest first) into the final and best streak.
func replay(h models.Habit, logs []models.HabitLog, loc *time.Location) (int, int) {
	current, best := 0, 0
	var prev int64
	for i, l := range logs {
		idx := periodIndex(h, l.CompletedAt, loc)
		if i == 0 {
			current = 1
		} else {
			current = nextStreak(current, prev, idx)
		}
		prev = idx
		if current > best {
			best = current
		}
	}
	return current, best
}

// Logs returns the habit's logs with completion in [from, to), oldest first.
func (t *Tracker) Logs(ctx context.Context, habitID string, from, to time.Time) ([]models.HabitLog, error) {
	return t.store.GetHabitLogs(ctx, habitID, from, to)
}

// Calendar reports per-day completion for the dates from..to inclusive
// (YYYY-MM-DD). A day is completed when the logs of the period containing it
// add up to the habit's target count.
func (t *Tracker) Calendar(ctx context.Context, habitID, from, to string) ([]models.HabitDay, error) {
	loc := t.location()
	start, err := utils.ParseDateInLocation(from, loc)
	if err != nil {
		return nil, apperrors.Validation("invalid from date %q", from)
	}
	end, err := utils.ParseDateInLocation(to, loc)
	if err != nil {
		return nil, apperrors.Validation("invalid to date %q", to)
	}
	if end.Before(start) {
		return nil, apperrors.Validation("to date %s is before from date %s", to, from)
	}
	if dayNumber(end, loc)-dayNumber(start, loc) >= maxCalendarDays {
		return nil, apperrors.Validation("calendar range is limited to %d days", maxCalendarDays)
	}

	habit, err := t.store.GetHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	return t.calendar(ctx, habit, start, end, loc)
}

func (t *Tracker) calendar(ctx context.Context, habit models.Habit, start, end time.Time, loc *time.Location) ([]models.HabitDay, error) {
	firstPeriod := periodIndex(habit, start, loc)
	lastPeriod := periodIndex(habit, end, loc)
	logs, err := t.store.GetHabitLogs(ctx, habit.ID,
		periodStart(habit, firstPeriod, loc), periodStart(habit, lastPeriod+1, loc))
	if err != nil {
		return nil, err
	}

	perPeriod := map[int64]int{}
	perDay := map[string]int{}
	for _, l := range logs {
		perPeriod[periodIndex(habit, l.CompletedAt, loc)] += l.Count
		perDay[utils.DateKey(l.CompletedAt, loc)] += l.Count
	}

	target := habit.TargetCount
	if target < 1 {
		target = 1
	}
	days := []models.HabitDay{}
	for d := start; !d.After(end); d = time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, loc) {
		key := d.Format(constants.DateFormat)
		days = append(days, models.HabitDay{
			Date:      key,
			Count:     perDay[key],
			Completed: perPeriod[periodIndex(habit, d, loc)] >= target,
		})
	}
	return days, nil
}

// Stats summarises completion of every active habit over the last days days,
// counting only days since each habit was created.
func (t *Tracker) Stats(ctx context.Context, days int) ([]models.HabitStats, error) {
	if days < 1 || days > maxCalendarDays {
		return nil, apperrors.Validation("days must be between 1 and %d", maxCalendarDays)
	}
	loc := t.location()
	today := utils.StartOfDay(t.now(), loc)
	windowStart := time.Date(today.Year(), today.Month(), today.Day()-days+1, 0, 0, 0, 0, loc)

	habits, err := t.store.GetAllHabits(ctx)
	if err != nil {
		return nil, err
	}
	stats := make([]models.HabitStats, 0, len(habits))
	for _, h := range habits {
		start := windowStart
		if created := utils.StartOfDay(h.CreatedAt, loc); created.After(start) {
			start = created
		}
		st := models.HabitStats{
			HabitID:       h.ID,
			Name:          h.Name,
			CurrentStreak: h.CurrentStreak,
			LongestStreak: h.LongestStreak,
		}
		if !start.After(today) {
			cal, err := t.calendar(ctx, h, start, today, loc)
			if err != nil {
				return nil, err
			}
			st.TotalDays = len(cal)
			for _, d := range cal {
				if d.Completed {
					st.CompletedDays++
				}
			}
			st.CompletionRate = math.Round(float64(st.CompletedDays)/float64(st.TotalDays)*1000) / 10
		}
		stats = append(stats, st)
	}
	return stats, nil
}
