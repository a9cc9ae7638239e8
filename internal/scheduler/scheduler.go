// Package scheduler arms reminder notifications for tasks, habits and prayers
// on a single cooperative delay queue.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/hayati/internal/constants"
	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/logger"
	"github.com/julianstephens/hayati/internal/metrics"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/notifier"
	"github.com/julianstephens/hayati/internal/utils"
)

// TaskState is the reminder state of one task.
type TaskState string

const (
	TaskUnscheduled    TaskState = "unscheduled"
	TaskDuePending     TaskState = "due-pending"
	TaskFiredDue       TaskState = "fired-due"
	TaskOverduePending TaskState = "overdue-pending"
	TaskFiredOverdue   TaskState = "fired-overdue"
	TaskCleared        TaskState = "cleared"
)

type Notifier interface {
	Show(ctx context.Context, opts notifier.Options) (*notifier.Notification, error)
}

type SettingsSource interface {
	Settings() models.Settings
}

type PrayerSource interface {
	ForDate(ctx context.Context, day time.Time) (models.PrayerTime, error)
}

type Config struct {
	Clock    Clock
	Notifier Notifier
	Settings SettingsSource
	Prayers  PrayerSource
	Metrics  *metrics.Registry
}

type Scheduler struct {
	queue    *Queue
	clock    Clock
	notifier Notifier
	settings SettingsSource
	prayers  PrayerSource
	metrics  *metrics.Registry
	log      *log.Logger

	mu         sync.Mutex
	taskStates map[string]TaskState
	// lastPrayer maps a prayer notification key to the minute it last fired.
	lastPrayer map[string]string
}

func New(cfg Config) *Scheduler {
	if cfg.Clock == nil {
		cfg.Clock = realClock{}
	}
	return &Scheduler{
		queue:      NewQueue(cfg.Clock),
		clock:      cfg.Clock,
		notifier:   cfg.Notifier,
		settings:   cfg.Settings,
		prayers:    cfg.Prayers,
		metrics:    cfg.Metrics,
		log:        logger.With("component", "scheduler"),
		taskStates: make(map[string]TaskState),
		lastPrayer: make(map[string]string),
	}
}

// Queue exposes the underlying delay queue.
func (s *Scheduler) Queue() *Queue { return s.queue }

func (s *Scheduler) location() *time.Location {
	return utils.MustLocation(s.settings.Settings().Timezone)
}

// Run processes timers until ctx is cancelled or the scheduler is disposed.
func (s *Scheduler) Run(ctx context.Context) error {
	return s.queue.Run(ctx)
}

// Tick fires every timer due at now. Run calls it; tests call it directly.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) int {
	n := s.queue.Tick(ctx, now)
	s.metrics.SetPending(s.queue.Len())
	return n
}

// Dispose cancels every outstanding timer.
func (s *Scheduler) Dispose() {
	s.queue.Dispose()
	s.metrics.SetPending(0)
	s.log.Debug("Scheduler disposed")
}

func (s *Scheduler) arm(key Key, at time.Time, fn Callback) error {
	err := s.queue.Arm(key, at, fn)
	s.metrics.SetPending(s.queue.Len())
	return err
}

func (s *Scheduler) show(ctx context.Context, kind Kind, opts notifier.Options) bool {
	s.metrics.ReminderFired(string(kind))
	shown, err := s.notifier.Show(ctx, opts)
	switch {
	case apperrors.IsPermission(err):
		s.log.Debug("Notification not shown", "kind", kind, "error", err)
	case err != nil:
		s.log.Warn("Failed to show notification", "kind", kind, "error", err)
	}
	return shown != nil
}

// ScheduleTaskReminder arms the due reminder at dueAt minus the due offset and
// the overdue reminder at dueAt plus the overdue offset. Existing timers for
// the task are replaced. Fire times already in the past are skipped, and a task
// whose reminders have already finished keeps its terminal state.
func (s *Scheduler) ScheduleTaskReminder(taskID, title string, dueAt time.Time) error {
	if taskID == "" {
		return apperrors.Validation("task id is required")
	}
	settings := s.settings.Settings()
	now := s.clock.Now()
	dueMin := settings.DueReminderMin
	overdueMin := settings.OverdueReminderMin

	s.ClearTaskTimers(taskID)

	dueKey := Key{Kind: KindTaskDue, ID: taskID}
	overdueKey := Key{Kind: KindTaskOverdue, ID: taskID}
	reminderAt := dueAt.Add(-time.Duration(dueMin) * time.Minute)
	overdueAt := dueAt.Add(time.Duration(overdueMin) * time.Minute)

	state := TaskUnscheduled
	if reminderAt.After(now) {
		err := s.arm(dueKey, reminderAt, func(ctx context.Context, _ time.Time) {
			s.setTaskState(taskID, TaskFiredDue)
			opts := messages(s.settings.Settings().Language).taskDue(title, dueMin)
			opts.Category = models.CategoryTasks
			opts.Tag = TaskTag(taskID)
			s.show(ctx, KindTaskDue, opts)
			if _, ok := s.queue.Pending(overdueKey); ok {
				s.setTaskState(taskID, TaskOverduePending)
			}
		})
		if err != nil {
			return err
		}
		state = TaskDuePending
	}
	if overdueAt.After(now) {
		err := s.arm(overdueKey, overdueAt, func(ctx context.Context, _ time.Time) {
			s.setTaskState(taskID, TaskFiredOverdue)
			opts := messages(s.settings.Settings().Language).taskOverdue(title, overdueMin)
			opts.Category = models.CategoryTasks
			opts.Tag = TaskTag(taskID)
			s.show(ctx, KindTaskOverdue, opts)
		})
		if err != nil {
			return err
		}
		if state == TaskUnscheduled {
			state = TaskOverduePending
		}
	}

	if state == TaskUnscheduled {
		// Nothing left to arm; a finished reminder stays finished.
		if prev := s.TaskState(taskID); prev == TaskFiredOverdue || prev == TaskCleared {
			return nil
		}
	}
	s.setTaskState(taskID, state)
	s.log.Debug("Task reminders armed", "task", taskID, "state", state)
	return nil
}

// ClearTaskTimers cancels both reminders of the task. Other tasks are unaffected.
func (s *Scheduler) ClearTaskTimers(taskID string) {
	due := s.queue.Cancel(Key{Kind: KindTaskDue, ID: taskID})
	overdue := s.queue.Cancel(Key{Kind: KindTaskOverdue, ID: taskID})
	if due || overdue {
		s.setTaskState(taskID, TaskCleared)
	}
	s.metrics.SetPending(s.queue.Len())
}

func (s *Scheduler) setTaskState(taskID string, state TaskState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStates[taskID] = state
}

// TaskState returns the reminder state of the task.
func (s *Scheduler) TaskState(taskID string) TaskState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.taskStates[taskID]
	if !ok {
		return TaskUnscheduled
	}
	return state
}

// ScheduleHabitReminder arms a daily reminder at timeOfDay (HH:MM). After it
// fires it re-arms itself for the following day.
func (s *Scheduler) ScheduleHabitReminder(habitID, name, timeOfDay string) error {
	return s.scheduleHabit(habitID, name, timeOfDay, s.clock.Now())
}

func (s *Scheduler) scheduleHabit(habitID, name, timeOfDay string, from time.Time) error {
	if habitID == "" {
		return apperrors.Validation("habit id is required")
	}
	at, err := utils.NextOccurrence(timeOfDay, latest(from, s.clock.Now()), s.location())
	if err != nil {
		return apperrors.WrapValidation("schedule habit reminder", err)
	}

	return s.arm(Key{Kind: KindHabit, ID: habitID}, at, func(ctx context.Context, firedAt time.Time) {
		opts := messages(s.settings.Settings().Language).habit(name)
		opts.Category = models.CategoryHabits
		opts.Tag = HabitTag(habitID)
		s.show(ctx, KindHabit, opts)

		if err := s.scheduleHabit(habitID, name, timeOfDay, firedAt); err != nil && !errors.Is(err, ErrDisposed) {
			s.log.Warn("Failed to re-arm habit reminder", "habit", habitID, "error", err)
		}
	})
}

func (s *Scheduler) CancelHabitReminder(habitID string) {
	s.queue.Cancel(Key{Kind: KindHabit, ID: habitID})
	s.metrics.SetPending(s.queue.Len())
}

// ScheduleHabitDigest arms the daily habit review reminder and the weekly
// progress report according to the current settings. Disabled reminders are
// cancelled.
func (s *Scheduler) ScheduleHabitDigest() error {
	now := s.clock.Now()
	if err := s.scheduleDaily(now); err != nil {
		return err
	}
	return s.scheduleWeekly(now)
}

func (s *Scheduler) scheduleDaily(from time.Time) error {
	settings := s.settings.Settings()
	key := Key{Kind: KindHabitDigest}
	if settings.HabitDailyReminder == "" {
		s.queue.Cancel(key)
		return nil
	}

	at, err := utils.NextOccurrence(settings.HabitDailyReminder, latest(from, s.clock.Now()), utils.MustLocation(settings.Timezone))
	if err != nil {
		return apperrors.WrapValidation("schedule habit digest", err)
	}
	return s.arm(key, at, func(ctx context.Context, firedAt time.Time) {
		opts := messages(s.settings.Settings().Language).habitDigest()
		opts.Category = models.CategoryHabits
		opts.Tag = "habits:daily"
		s.show(ctx, KindHabitDigest, opts)
		if err := s.scheduleDaily(firedAt); err != nil && !errors.Is(err, ErrDisposed) {
			s.log.Warn("Failed to re-arm habit digest", "error", err)
		}
	})
}

func (s *Scheduler) scheduleWeekly(from time.Time) error {
	settings := s.settings.Settings()
	key := Key{Kind: KindHabitWeekly}
	if !settings.WeeklyProgress {
		s.queue.Cancel(key)
		return nil
	}

	at, err := utils.NextWeekdayOccurrence(time.Sunday, constants.WeeklyProgressTime, latest(from, s.clock.Now()), utils.MustLocation(settings.Timezone))
	if err != nil {
		return err
	}
	return s.arm(key, at, func(ctx context.Context, firedAt time.Time) {
		opts := messages(s.settings.Settings().Language).weeklyReport()
		opts.Category = models.CategoryHabits
		opts.Tag = "habits:weekly"
		s.show(ctx, KindHabitWeekly, opts)
		if err := s.scheduleWeekly(firedAt); err != nil && !errors.Is(err, ErrDisposed) {
			s.log.Warn("Failed to re-arm weekly report", "error", err)
		}
	})
}

// StartPrayerPolling checks prayer times at the start of every minute.
func (s *Scheduler) StartPrayerPolling() error {
	return s.pollPrayers(s.clock.Now())
}

func (s *Scheduler) pollPrayers(from time.Time) error {
	next := latest(from, s.clock.Now()).Truncate(constants.PrayerPollInterval).Add(constants.PrayerPollInterval)
	return s.arm(Key{Kind: KindPrayerPoll}, next, func(ctx context.Context, at time.Time) {
		if _, err := s.CheckPrayerTimes(ctx, at); err != nil {
			s.log.Warn("Prayer time check failed", "error", err)
		}
		if err := s.pollPrayers(at); err != nil && !errors.Is(err, ErrDisposed) {
			s.log.Warn("Failed to re-arm prayer polling", "error", err)
		}
	})
}

func (s *Scheduler) StopPrayerPolling() {
	s.queue.Cancel(Key{Kind: KindPrayerPoll})
}

// CheckPrayerTimes compares now's HH:MM with today's prayer times and with
// each time minus the before-time offset. Each event notifies at most once per
// minute. It returns the number of notifications requested.
func (s *Scheduler) CheckPrayerTimes(ctx context.Context, now time.Time) (int, error) {
	settings := s.settings.Settings()
	if !settings.Notifications || !settings.PrayerReminders {
		return 0, nil
	}
	if s.prayers == nil {
		return 0, nil
	}

	loc := utils.MustLocation(settings.Timezone)
	times, err := s.prayers.ForDate(ctx, now.In(loc))
	if err != nil {
		return 0, err
	}

	local := now.In(loc)
	current := local.Format(constants.TimeFormat)
	minute := local.Format(constants.DateFormat + " " + constants.TimeFormat)
	msgs := messages(settings.Language)

	requested := 0
	for _, name := range models.Prayers {
		at := times.TimeOf(name)
		if at == "" {
			continue
		}
		display := name.DisplayName(settings.Language)

		if settings.PrayerAtTime && current == at && s.markPrayer("at-"+string(name), minute) {
			opts := msgs.prayerAt(display)
			opts.Category = models.CategoryPrayers
			opts.Tag = PrayerTag(name, times.Date)
			s.show(ctx, KindPrayerPoll, opts)
			requested++
		}

		if settings.PrayerBeforeMin > 0 {
			mins, err := utils.ParseTimeToMinutes(at)
			if err != nil {
				continue
			}
			if current == utils.FormatMinutes(mins-settings.PrayerBeforeMin) && s.markPrayer("before-"+string(name), minute) {
				opts := msgs.prayerBefore(display, settings.PrayerBeforeMin)
				opts.Category = models.CategoryPrayers
				opts.Tag = PrayerTag(name, times.Date)
				s.show(ctx, KindPrayerPoll, opts)
				requested++
			}
		}
	}
	return requested, nil
}

// markPrayer records that key fired in minute and reports whether it had not
// fired in that minute before.
func (s *Scheduler) markPrayer(key, minute string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastPrayer[key] == minute {
		return false
	}
	s.lastPrayer[key] = minute
	return true
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
