package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/hayati/internal/config"
	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/habits"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/notifier"
	"github.com/julianstephens/hayati/internal/pomodoro"
	"github.com/julianstephens/hayati/internal/portability"
	"github.com/julianstephens/hayati/internal/scheduler"
	"github.com/julianstephens/hayati/internal/storage/sqlite"
	"github.com/julianstephens/hayati/internal/tasks"
	"github.com/julianstephens/hayati/internal/utils"
)

type fakeCalculator struct{}

func (fakeCalculator) Calculate(day time.Time, lat, lon float64, method string, loc *time.Location) (models.PrayerTime, error) {
	return models.PrayerTime{
		Date: utils.DateKey(day, loc), Fajr: "04:30", Sunrise: "06:00", Dhuhr: "12:00", Asr: "15:30", Maghrib: "18:30", Isha: "20:00",
		Latitude: lat, Longitude: lon, Method: method,
	}, nil
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []notifier.Message
}

func (s *recordingSender) Name() string    { return "test" }
func (s *recordingSender) Available() bool { return true }
func (s *recordingSender) Send(_ context.Context, msg notifier.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

func newApp(t *testing.T) (*App, *recordingSender) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "hayati.db"), 5*time.Second)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	sender := &recordingSender{}
	a, err := New(context.Background(), Options{
		Config:     config.Config{Notifier: config.NotifierConfig{RatePerMinute: 100}},
		Store:      store,
		Calculator: fakeCalculator{},
		Senders:    []notifier.Sender{sender},
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a, sender
}

func TestUpdateSettings(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()

	lang := "en"
	got, err := a.UpdateSettings(ctx, models.SettingsPatch{Language: &lang})
	if err != nil {
		t.Fatalf("UpdateSettings() failed: %v", err)
	}
	if got.Language != "en" || a.Settings().Language != "en" {
		t.Errorf("language not applied: returned %q, cached %q", got.Language, a.Settings().Language)
	}
	stored, err := a.Store.GetSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Language != "en" {
		t.Errorf("stored language = %q", stored.Language)
	}
	if _, ok := a.Scheduler.Queue().Pending(scheduler.Key{Kind: scheduler.KindHabitDigest}); !ok {
		t.Error("expected habit digest to be armed after a settings change")
	}
}

func TestUpdateSettingsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		patch func() models.SettingsPatch
	}{
		{"language", func() models.SettingsPatch { v := "fr"; return models.SettingsPatch{Language: &v} }},
		{"latitude", func() models.SettingsPatch { v := 91.0; return models.SettingsPatch{Latitude: &v} }},
		{"timezone", func() models.SettingsPatch { v := "Mars/Olympus"; return models.SettingsPatch{Timezone: &v} }},
		{"reminder time", func() models.SettingsPatch { v := "25:00"; return models.SettingsPatch{HabitDailyReminder: &v} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newApp(t)
			before := a.Settings()
			_, err := a.UpdateSettings(context.Background(), tt.patch())
			if !apperrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if a.Settings() != before {
				t.Error("cache changed after a rejected update")
			}
		})
	}
}

func TestHandleAction(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()

	title := "Call the bank"
	due := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	task, err := a.Tasks.Create(ctx, tasks.TaskInput{Title: &title, DueAt: &due})
	if err != nil {
		t.Fatal(err)
	}

	if err := a.HandleAction(ctx, "task:"+task.ID, "snooze"); err != nil {
		t.Fatalf("snooze failed: %v", err)
	}
	snoozed, _ := a.Tasks.Get(ctx, task.ID)
	if got := snoozed.DueAt.Sub(due); got != SnoozeDuration {
		t.Errorf("snooze moved due by %s, want %s", got, SnoozeDuration)
	}

	if err := a.HandleAction(ctx, "task:"+task.ID, "complete"); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	done, _ := a.Tasks.Get(ctx, task.ID)
	if !done.IsCompleted {
		t.Error("task not completed")
	}
	if a.Scheduler.Queue().Len() != 0 {
		t.Errorf("completed task left %d timers", a.Scheduler.Queue().Len())
	}

	name := "Quran"
	habit, err := a.Habits.Create(ctx, habits.HabitInput{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.HandleAction(ctx, "habit:"+habit.ID, "log-habit"); err != nil {
		t.Fatalf("log-habit failed: %v", err)
	}
	habit, _ = a.Habits.Get(ctx, habit.ID)
	if habit.CurrentStreak != 1 {
		t.Errorf("streak = %d, want 1", habit.CurrentStreak)
	}

	today := utils.DateKey(time.Now(), utils.MustLocation(a.Settings().Timezone))
	if err := a.HandleAction(ctx, "prayer:dhuhr:"+today, "logged"); err != nil {
		t.Fatalf("logged failed: %v", err)
	}
	logs, _ := a.Prayers.Logs(ctx, today)
	if len(logs) != 1 || logs[0].PrayerName != models.Dhuhr {
		t.Errorf("prayer logs = %+v", logs)
	}

	for _, bad := range []struct{ tag, action string }{
		{"task:" + task.ID, "dance"},
		{"habit:" + habit.ID, "complete"},
		{"prayer:dhuhr", "logged"},
	} {
		if err := a.HandleAction(ctx, bad.tag, bad.action); !apperrors.IsValidation(err) {
			t.Errorf("HandleAction(%q, %q) = %v, want validation error", bad.tag, bad.action, err)
		}
	}
	if err := a.HandleAction(ctx, "habit-digest", "review"); err != nil {
		t.Errorf("navigation action returned %v", err)
	}
}

func TestStartArmsAndStopDisposes(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()

	title := "Submit report"
	due := time.Now().Add(3 * time.Hour)
	task, err := a.Tasks.Create(ctx, tasks.TaskInput{Title: &title, DueAt: &due})
	if err != nil {
		t.Fatal(err)
	}
	// Drop the timers armed on create so Start has to rebuild them from the store.
	a.Scheduler.ClearTaskTimers(task.ID)

	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := a.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}

	q := a.Scheduler.Queue()
	for _, key := range []scheduler.Key{
		{Kind: scheduler.KindPrayerPoll},
		{Kind: scheduler.KindHabitDigest},
		{Kind: scheduler.KindHabitWeekly},
		{Kind: scheduler.KindTaskDue, ID: task.ID},
		{Kind: scheduler.KindTaskOverdue, ID: task.ID},
	} {
		if _, ok := q.Pending(key); !ok {
			t.Errorf("timer %s not armed", key)
		}
	}

	a.Stop()
	if q.Len() != 0 {
		t.Errorf("Stop() left %d timers", q.Len())
	}
	a.Stop()
}

func TestImportReloadsSettings(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()

	settings := a.Settings()
	settings.Language = "en"
	settings.City = "Makkah"
	snap := portability.Snapshot{
		Version:  "1.0",
		Tasks:    []models.Task{},
		Habits:   []models.Habit{},
		Settings: &settings,
	}
	res, err := a.Import(ctx, snap)
	if err != nil {
		t.Fatalf("Import() failed: %v", err)
	}
	if !res.SettingsApplied {
		t.Error("settings not applied")
	}
	if res.BackupPath == "" {
		t.Error("expected a backup before import")
	}
	if got := a.Settings(); got.Language != "en" || got.City != "Makkah" {
		t.Errorf("cache not reloaded: %+v", got)
	}
}

func TestResyncPicksUpExternalWrites(t *testing.T) {
	a, _ := newApp(t)
	ctx := context.Background()

	title := "Call the plumber"
	due := time.Now().Add(2 * time.Hour)
	gone, err := a.Tasks.Create(ctx, tasks.TaskInput{Title: &title, DueAt: &due})
	if err != nil {
		t.Fatal(err)
	}
	reminder := "07:00"
	name := "Read Quran"
	habit, err := a.Habits.Create(ctx, habits.HabitInput{Name: &name, ReminderTime: &reminder})
	if err != nil {
		t.Fatal(err)
	}

	// Another process deletes both and adds a task of its own.
	if err := a.Store.DeleteTask(ctx, gone.ID); err != nil {
		t.Fatal(err)
	}
	if err := a.Store.DeleteHabit(ctx, habit.ID); err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	added := models.Task{
		ID: "external", Title: "From the CLI", Category: models.TaskCategoryPersonal,
		Priority: models.PriorityMedium, DueAt: &due, Tags: []string{}, CreatedAt: now, UpdatedAt: now,
	}
	if err := a.Store.AddTask(ctx, added); err != nil {
		t.Fatal(err)
	}

	if err := a.Resync(ctx); err != nil {
		t.Fatalf("Resync() failed: %v", err)
	}

	q := a.Scheduler.Queue()
	if _, ok := q.Pending(scheduler.Key{Kind: scheduler.KindTaskOverdue, ID: gone.ID}); ok {
		t.Error("timer of deleted task survived")
	}
	if _, ok := q.Pending(scheduler.Key{Kind: scheduler.KindHabit, ID: habit.ID}); ok {
		t.Error("reminder of deleted habit survived")
	}
	if _, ok := q.Pending(scheduler.Key{Kind: scheduler.KindTaskOverdue, ID: "external"}); !ok {
		t.Error("externally added task was not armed")
	}
}

func TestPomodoroConfigFallsBackToDefaults(t *testing.T) {
	a, _ := newApp(t)
	if got := a.PomodoroConfig(); got != pomodoro.DefaultConfig() {
		t.Errorf("PomodoroConfig() = %+v, want defaults", got)
	}

	a.Config.Pomodoro = config.PomodoroConfig{WorkMin: 50, ShortBreakMin: 10, LongBreakMin: 30, LongBreakEvery: 2}
	if got := a.PomodoroConfig(); got.WorkMin != 50 || got.LongBreakEvery != 2 {
		t.Errorf("PomodoroConfig() = %+v", got)
	}
}
