// Package app wires the stores and services of one running Hayati instance.
// Everything that used to be process-wide state (store connection, settings
// cache, timer map) hangs off an App built at startup and torn down by Stop.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/hayati/internal/backup"
	"github.com/julianstephens/hayati/internal/config"
	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/goals"
	"github.com/julianstephens/hayati/internal/habits"
	"github.com/julianstephens/hayati/internal/logger"
	"github.com/julianstephens/hayati/internal/metrics"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/notifier"
	"github.com/julianstephens/hayati/internal/pomodoro"
	"github.com/julianstephens/hayati/internal/portability"
	"github.com/julianstephens/hayati/internal/prayer"
	"github.com/julianstephens/hayati/internal/scheduler"
	"github.com/julianstephens/hayati/internal/storage"
	"github.com/julianstephens/hayati/internal/tasks"
	"github.com/julianstephens/hayati/internal/validation"
)

// SnoozeDuration is how far the snooze action pushes a task's due time.
const SnoozeDuration = 10 * time.Minute

type Options struct {
	Config config.Config
	Store  storage.Provider

	// Optional overrides, mostly for tests.
	Calculator prayer.Calculator
	Senders    []notifier.Sender
	Clock      scheduler.Clock
	Metrics    *metrics.Registry
}

type App struct {
	Config    config.Config
	Store     storage.Provider
	Metrics   *metrics.Registry
	Notifier  *notifier.Notifier
	Scheduler *scheduler.Scheduler
	Prayers   *prayer.Service
	Habits    *habits.Tracker
	Tasks     *tasks.Service
	Goals     *goals.Service
	Pomodoro  *pomodoro.Service
	Data      *portability.Service
	// Backups is nil for PostgreSQL stores.
	Backups *backup.Manager

	mu       sync.RWMutex
	settings models.Settings

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan error
}

// New builds the application around an initialized store and loads the
// settings row into the cache.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Store == nil {
		return nil, errors.New("app: store is required")
	}
	settings, err := opts.Store.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	a := &App{
		Config:   opts.Config,
		Store:    opts.Store,
		Metrics:  opts.Metrics,
		settings: settings,
	}
	if a.Metrics == nil {
		a.Metrics = metrics.New()
	}

	a.Notifier = notifier.New(a, a.notifierOptions(opts)...)

	a.Prayers = prayer.NewService(opts.Store, opts.Calculator, a)
	a.Prayers.SetMetrics(a.Metrics)

	a.Scheduler = scheduler.New(scheduler.Config{
		Clock:    opts.Clock,
		Notifier: a.Notifier,
		Settings: a,
		Prayers:  a.Prayers,
		Metrics:  a.Metrics,
	})

	a.Habits = habits.NewTracker(opts.Store, a, habits.WithReminders(a.Scheduler))
	a.Tasks = tasks.NewService(opts.Store, tasks.WithReminders(a.Scheduler))
	a.Goals = goals.NewService(opts.Store, a)
	a.Pomodoro = pomodoro.NewService(opts.Store, a, a.Notifier)

	var backuper portability.Backuper
	if path := opts.Store.GetConfigPath(); path != "" && !config.IsPostgres(path) {
		a.Backups = backup.NewManager(path)
		backuper = a.Backups
	}
	a.Data = portability.NewService(opts.Store, backuper)
	return a, nil
}

func (a *App) notifierOptions(opts Options) []notifier.Option {
	nopts := []notifier.Option{
		notifier.WithRateLimit(opts.Config.Notifier.RatePerMinute),
		notifier.WithMetrics(a.Metrics),
	}
	if opts.Senders != nil {
		return append(nopts, notifier.WithSenders(opts.Senders...))
	}

	var senders []notifier.Sender
	if id := opts.Config.Notifier.TrayIdentifier; id != "" {
		senders = append(senders, notifier.NewTraySender(id))
	}
	if opts.Config.Notifier.DesktopEnabled {
		senders = append(senders, notifier.DesktopSender{})
	}
	return append(nopts, notifier.WithSenders(senders...))
}

// PomodoroConfig returns the timer configuration from the config file, or
// the defaults when it is incomplete.
func (a *App) PomodoroConfig() pomodoro.Config {
	p := a.Config.Pomodoro
	cfg := pomodoro.Config{
		WorkMin:         p.WorkMin,
		ShortBreakMin:   p.ShortBreakMin,
		LongBreakMin:    p.LongBreakMin,
		LongBreakEvery:  p.LongBreakEvery,
		AutoStartBreaks: p.AutoStartBreaks,
		AutoStartWork:   p.AutoStartWork,
	}
	if cfg.Validate() != nil {
		return pomodoro.DefaultConfig()
	}
	return cfg
}

// Settings returns the cached settings row.
func (a *App) Settings() models.Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings
}

// UpdateSettings applies patch, persists the result and refreshes whatever
// depends on the changed fields.
func (a *App) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.Settings, error) {
	a.mu.Lock()
	prev := a.settings
	next := patch.Apply(prev)
	if err := validation.Struct(next); err != nil {
		a.mu.Unlock()
		return models.Settings{}, err
	}
	if patch.LocationChanged() {
		if err := prayer.ValidateCoordinates(next.Latitude, next.Longitude); err != nil {
			a.mu.Unlock()
			return models.Settings{}, err
		}
		next.CalculationMethod = prayer.NormalizeMethod(next.CalculationMethod)
	}
	if err := a.Store.SaveSettings(ctx, next); err != nil {
		a.mu.Unlock()
		return models.Settings{}, err
	}
	a.settings = next
	a.mu.Unlock()

	logger.Info("Settings updated")
	a.afterSettingsChange(ctx, prev, next, patch.LocationChanged())
	return next, nil
}

// ReloadSettings re-reads the settings row, e.g. after an import replaced it.
func (a *App) ReloadSettings(ctx context.Context) error {
	settings, err := a.Store.GetSettings(ctx)
	if err != nil {
		return err
	}
	a.mu.Lock()
	prev := a.settings
	a.settings = settings
	a.mu.Unlock()

	locationChanged := prev.Latitude != settings.Latitude || prev.Longitude != settings.Longitude ||
		prev.CalculationMethod != settings.CalculationMethod || prev.Timezone != settings.Timezone
	a.afterSettingsChange(ctx, prev, settings, locationChanged)
	return nil
}

func (a *App) afterSettingsChange(ctx context.Context, prev, next models.Settings, locationChanged bool) {
	if err := a.Scheduler.ScheduleHabitDigest(); err != nil {
		logger.Warn("Failed to reschedule habit digest", "error", err)
	}
	if prev.DueReminderMin != next.DueReminderMin || prev.OverdueReminderMin != next.OverdueReminderMin || prev.Timezone != next.Timezone {
		if _, err := a.Tasks.Rearm(ctx); err != nil {
			logger.Warn("Failed to re-arm task reminders", "error", err)
		}
	}
	if prev.Timezone != next.Timezone {
		if _, err := a.Habits.Rearm(ctx); err != nil {
			logger.Warn("Failed to re-arm habit reminders", "error", err)
		}
	}
	if locationChanged {
		if _, err := a.Prayers.ForDate(ctx, time.Now()); err != nil {
			logger.Warn("Failed to recalculate prayer times", "error", err)
		}
	}
}

// Import restores a snapshot and reloads everything derived from the store.
func (a *App) Import(ctx context.Context, snap portability.Snapshot) (portability.ImportResult, error) {
	res, err := a.Data.Import(ctx, snap)
	if err != nil {
		return res, err
	}
	if res.SettingsApplied {
		if err := a.ReloadSettings(ctx); err != nil {
			return res, err
		}
	}
	if _, err := a.Tasks.Rearm(ctx); err != nil {
		logger.Warn("Failed to re-arm task reminders after import", "error", err)
	}
	if _, err := a.Habits.Rearm(ctx); err != nil {
		logger.Warn("Failed to re-arm habit reminders after import", "error", err)
	}
	return res, nil
}

// LogHabit records a completion and counts it.
func (a *App) LogHabit(ctx context.Context, habitID string, count int) (models.HabitLog, error) {
	log, err := a.Habits.LogCompletion(ctx, habitID, count)
	if err != nil {
		a.Metrics.Error(apperrors.KindOf(err).String())
		return models.HabitLog{}, err
	}
	a.Metrics.HabitLogged()
	return log, nil
}

// Start arms every reminder derived from the store and runs the scheduler in
// the background until Stop.
func (a *App) Start(ctx context.Context) error {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if a.cancel != nil {
		return errors.New("app already started")
	}

	taskCount, err := a.Tasks.Rearm(ctx)
	if err != nil {
		return fmt.Errorf("failed to arm task reminders: %w", err)
	}
	habitCount, err := a.Habits.Rearm(ctx)
	if err != nil {
		return fmt.Errorf("failed to arm habit reminders: %w", err)
	}
	if err := a.Scheduler.ScheduleHabitDigest(); err != nil {
		return fmt.Errorf("failed to arm habit digest: %w", err)
	}
	if err := a.Scheduler.StartPrayerPolling(); err != nil {
		return fmt.Errorf("failed to start prayer polling: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan error, 1)
	go func() {
		a.done <- a.Scheduler.Run(runCtx)
	}()

	logger.Info("Scheduler started", "tasks", taskCount, "habits", habitCount, "permission", a.Notifier.CheckPermission())
	return nil
}

// Resync picks up changes written to the store by another process (the CLI
// while serve is running): settings are reloaded, reminders re-armed, and
// timers whose task or habit no longer exists are dropped.
func (a *App) Resync(ctx context.Context) error {
	if err := a.ReloadSettings(ctx); err != nil {
		return err
	}
	all, err := a.Store.GetAllTasks(ctx)
	if err != nil {
		return err
	}
	active, err := a.Store.GetAllHabits(ctx)
	if err != nil {
		return err
	}
	taskIDs := make(map[string]bool, len(all))
	for _, t := range all {
		taskIDs[t.ID] = true
	}
	habitIDs := make(map[string]bool, len(active))
	for _, h := range active {
		habitIDs[h.ID] = true
	}

	for _, key := range a.Scheduler.Queue().Keys() {
		switch key.Kind {
		case scheduler.KindTaskDue, scheduler.KindTaskOverdue:
			if !taskIDs[key.ID] {
				a.Scheduler.ClearTaskTimers(key.ID)
			}
		case scheduler.KindHabit:
			if !habitIDs[key.ID] {
				a.Scheduler.CancelHabitReminder(key.ID)
			}
		}
	}

	if _, err := a.Tasks.Rearm(ctx); err != nil {
		return fmt.Errorf("failed to re-arm task reminders: %w", err)
	}
	if _, err := a.Habits.Rearm(ctx); err != nil {
		return fmt.Errorf("failed to re-arm habit reminders: %w", err)
	}
	return nil
}

// Stop halts the scheduler and disposes every outstanding timer. It is safe
// to call without Start and more than once.
func (a *App) Stop() {
	a.runMu.Lock()
	defer a.runMu.Unlock()
	if a.cancel != nil {
		a.cancel()
		if err := <-a.done; err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, scheduler.ErrDisposed) {
			logger.Warn("Scheduler stopped with error", "error", err)
		}
		a.cancel = nil
	}
	a.Scheduler.Dispose()
}

// Close stops the scheduler and closes the store.
func (a *App) Close() error {
	a.Stop()
	return a.Store.Close()
}

// HandleAction routes a notification action back to the subject named by
// tag. Actions that only navigate the UI are accepted and ignored.
func (a *App) HandleAction(ctx context.Context, tag, action string) error {
	kind, rest, _ := strings.Cut(tag, ":")
	switch action {
	case scheduler.ActionSkip, scheduler.ActionReview, scheduler.ActionViewReport:
		return nil
	case scheduler.ActionComplete:
		if kind != "task" || rest == "" {
			break
		}
		_, err := a.Tasks.Complete(ctx, rest)
		return err
	case scheduler.ActionSnooze:
		if kind != "task" || rest == "" {
			break
		}
		_, err := a.Tasks.Snooze(ctx, rest, SnoozeDuration)
		return err
	case scheduler.ActionLogHabit:
		if kind != "habit" || rest == "" {
			break
		}
		_, err := a.LogHabit(ctx, rest, 1)
		return err
	case scheduler.ActionLogged:
		name, date, ok := strings.Cut(rest, ":")
		if kind != "prayer" || !ok {
			break
		}
		_, err := a.Prayers.LogPrayer(ctx, models.PrayerName(name), date, time.Now(), "")
		return err
	default:
		return apperrors.Validation("unknown notification action %q", action)
	}
	return apperrors.Validation("action %q does not apply to %q", action, tag)
}
