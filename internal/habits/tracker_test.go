package habits

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/storage/sqlite"
)

type staticSettings struct{}

func (staticSettings) Settings() models.Settings {
	s := models.DefaultSettings()
	s.Timezone = "UTC"
	return s
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

type recordingReminders struct {
	armed     map[string]string
	cancelled []string
}

func (r *recordingReminders) ScheduleHabitReminder(id, name, tod string) error {
	r.armed[id] = tod
	return nil
}

func (r *recordingReminders) CancelHabitReminder(id string) {
	delete(r.armed, id)
	r.cancelled = append(r.cancelled, id)
}

func setupTracker(t *testing.T) (*Tracker, *sqlite.Store, *clock) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "hayati.db"), 5*time.Second)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	// Wednesday
	c := &clock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
	return NewTracker(store, staticSettings{}, WithClock(c.now)), store, c
}

func ptr[T any](v T) *T { return &v }

func createHabit(t *testing.T, tr *Tracker, freq models.HabitFrequency, periodDays, target int) models.Habit {
	t.Helper()
	in := HabitInput{
		Name:        ptr("Morning adhkar"),
		Frequency:   ptr(freq),
		TargetCount: ptr(target),
		Category:    ptr(models.HabitCategoryReligious),
	}
	if periodDays > 0 {
		in.PeriodDays = ptr(periodDays)
	}
	h, err := tr.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return h
}

func logAt(t *testing.T, tr *Tracker, c *clock, id string, at time.Time) models.Habit {
	t.Helper()
	c.t = at
	if _, err := tr.LogCompletion(context.Background(), id, 1); err != nil {
		t.Fatalf("LogCompletion() at %v failed: %v", at, err)
	}
	h, err := tr.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	return h
}

func day(d, hour int) time.Time {
	return time.Date(2025, 1, d, hour, 0, 0, 0, time.UTC)
}

func TestDailyStreak(t *testing.T) {
	tr, _, c := setupTracker(t)
	h := createHabit(t, tr, models.FrequencyDaily, 0, 1)

	steps := []struct {
		at          time.Time
		wantCurrent int
		wantLongest int
	}{
		{day(1, 8), 1, 1},
		{day(1, 20), 1, 1},
		{day(2, 23), 2, 2},
		{day(3, 0), 3, 3},
		{day(5, 7), 1, 3},
		{day(6, 7), 2, 3},
	}
	for i, s := range steps {
		got := logAt(t, tr, c, h.ID, s.at)
		if got.CurrentStreak != s.wantCurrent || got.LongestStreak != s.wantLongest {
			t.Errorf("step %d: streak = %d/%d, want %d/%d", i, got.CurrentStreak, got.LongestStreak, s.wantCurrent, s.wantLongest)
		}
	}
}

func TestWeeklyStreakUsesCalendarWeeks(t *testing.T) {
	tr, _, c := setupTracker(t)
	h := createHabit(t, tr, models.FrequencyWeekly, 0, 1)

	// 2025-01-05 is a Sunday and 2025-01-06 a Monday.
	steps := []struct {
		at   time.Time
		want int
	}{
		{day(1, 9), 1},
		{day(5, 21), 1},
		{day(6, 6), 2},
		{day(19, 6), 3},
		{day(27, 6), 1},
	}
	for i, s := range steps {
		if got := logAt(t, tr, c, h.ID, s.at); got.CurrentStreak != s.want {
			t.Errorf("step %d (%s): current = %d, want %d", i, s.at.Weekday(), got.CurrentStreak, s.want)
		}
	}
}

func TestCustomStreakAnchoredAtCreation(t *testing.T) {
	tr, _, c := setupTracker(t)
	h := createHabit(t, tr, models.FrequencyCustom, 3, 1)

	// Periods: Jan 1-3, Jan 4-6, Jan 7-9, ...
	steps := []struct {
		at   time.Time
		want int
	}{
		{day(3, 9), 1},
		{day(4, 9), 2},
		{day(6, 9), 2},
		{day(9, 9), 3},
		{day(16, 9), 1},
	}
	for i, s := range steps {
		if got := logAt(t, tr, c, h.ID, s.at); got.CurrentStreak != s.want {
			t.Errorf("step %d: current = %d, want %d", i, got.CurrentStreak, s.want)
		}
	}
}

func TestLogCompletionValidation(t *testing.T) {
	tr, _, _ := setupTracker(t)
	ctx := context.Background()
	h := createHabit(t, tr, models.FrequencyDaily, 0, 1)

	if _, err := tr.LogCompletion(ctx, h.ID, 0); !apperrors.IsValidation(err) {
		t.Errorf("count 0 error = %v, want validation error", err)
	}
	if _, err := tr.LogCompletion(ctx, "missing", 1); !apperrors.IsValidation(err) {
		t.Errorf("missing habit error = %v, want validation error", err)
	}
	if err := tr.Delete(ctx, h.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := tr.LogCompletion(ctx, h.ID, 1); !apperrors.IsValidation(err) {
		t.Errorf("inactive habit error = %v, want validation error", err)
	}
}

func TestLongestNeverBelowCurrent(t *testing.T) {
	tr, _, c := setupTracker(t)
	h := createHabit(t, tr, models.FrequencyDaily, 0, 1)
	rng := rand.New(rand.NewSource(42))

	at := day(1, 6)
	for i := 0; i < 60; i++ {
		at = at.Add(time.Duration(rng.Intn(60)) * time.Hour)
		got := logAt(t, tr, c, h.ID, at)
		if got.LongestStreak < got.CurrentStreak {
			t.Fatalf("after log %d: longest %d < current %d", i, got.LongestStreak, got.CurrentStreak)
		}
	}
}

type failingLogStore struct {
	*sqlite.Store
}

func (failingLogStore) AddHabitLog(context.Context, models.HabitLog) error {
	return errors.New("disk I/O error")
}

func TestLogCompletionWriteFailureKeepsStreak(t *testing.T) {
	tr, store, c := setupTracker(t)
	h := createHabit(t, tr, models.FrequencyDaily, 0, 1)
	logAt(t, tr, c, h.ID, day(1, 8))
	before := logAt(t, tr, c, h.ID, day(2, 8))

	failing := NewTracker(failingLogStore{store}, staticSettings{}, WithClock(c.now))
	c.t = day(3, 8)
	_, err := failing.LogCompletion(context.Background(), h.ID, 1)
	if !apperrors.IsPersistence(err) {
		t.Fatalf("LogCompletion() error = %v, want persistence error", err)
	}

	after, err := tr.Get(context.Background(), h.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if after.CurrentStreak != before.CurrentStreak || after.LongestStreak != before.LongestStreak {
		t.Errorf("streak = %d/%d after failed write, want %d/%d",
			after.CurrentStreak, after.LongestStreak, before.CurrentStreak, before.LongestStreak)
	}
	logs, err := store.GetHabitLogs(context.Background(), h.ID, day(1, 0), day(4, 0))
	if err != nil {
		t.Fatalf("GetHabitLogs() failed: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("logs = %d, want 2", len(logs))
	}
}

func TestRecomputeStreakRepairs(t *testing.T) {
	tr, store, c := setupTracker(t)
	ctx := context.Background()
	h := createHabit(t, tr, models.FrequencyDaily, 0, 1)
	for d := 1; d <= 4; d++ {
		logAt(t, tr, c, h.ID, day(d, 9))
	}

	if err := store.UpdateHabitStreak(ctx, h.ID, 0, 0, c.t); err != nil {
		t.Fatalf("UpdateHabitStreak() failed: %v", err)
	}
	got, err := tr.RecomputeStreak(ctx, h.ID)
	if err != nil {
		t.Fatalf("RecomputeStreak() failed: %v", err)
	}
	if got.CurrentStreak != 4 || got.LongestStreak != 4 {
		t.Errorf("RecomputeStreak() = %d/%d, want 4/4", got.CurrentStreak, got.LongestStreak)
	}

	if err := store.UpdateHabitStreak(ctx, h.ID, 4, 9, c.t); err != nil {
		t.Fatalf("UpdateHabitStreak() failed: %v", err)
	}
	got, err = tr.RecomputeStreak(ctx, h.ID)
	if err != nil {
		t.Fatalf("RecomputeStreak() failed: %v", err)
	}
	if got.LongestStreak != 9 {
		t.Errorf("RecomputeStreak() lowered longest to %d", got.LongestStreak)
	}
}

func TestSoftDeleteKeepsLogs(t *testing.T) {
	tr, _, c := setupTracker(t)
	ctx := context.Background()
	h := createHabit(t, tr, models.FrequencyDaily, 0, 1)
	logAt(t, tr, c, h.ID, day(2, 9))

	if err := tr.Delete(ctx, h.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	list, err := tr.List(ctx)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List() = %d habits after delete, want 0", len(list))
	}
	logs, err := tr.Logs(ctx, h.ID, day(1, 0), day(3, 0))
	if err != nil {
		t.Fatalf("Logs() failed: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("Logs() = %d after delete, want 1", len(logs))
	}
}

func TestCalendarDaily(t *testing.T) {
	tr, _, c := setupTracker(t)
	h := createHabit(t, tr, models.FrequencyDaily, 0, 2)
	logAt(t, tr, c, h.ID, day(2, 8))
	logAt(t, tr, c, h.ID, day(2, 18))
	logAt(t, tr, c, h.ID, day(3, 8))

	cal, err := tr.Calendar(context.Background(), h.ID, "2025-01-01", "2025-01-04")
	if err != nil {
		t.Fatalf("Calendar() failed: %v", err)
	}
	want := []models.HabitDay{
		{Date: "2025-01-01", Count: 0, Completed: false},
		{Date: "2025-01-02", Count: 2, Completed: true},
		{Date: "2025-01-03", Count: 1, Completed: false},
		{Date: "2025-01-04", Count: 0, Completed: false},
	}
	if len(cal) != len(want) {
		t.Fatalf("Calendar() returned %d days, want %d", len(cal), len(want))
	}
	for i := range want {
		if cal[i] != want[i] {
			t.Errorf("day %d = %+v, want %+v", i, cal[i], want[i])
		}
	}
}

func TestCalendarWeeklyMarksWholeWeek(t *testing.T) {
	tr, _, c := setupTracker(t)
	h := createHabit(t, tr, models.FrequencyWeekly, 0, 1)
	// Wednesday 2025-01-08; week runs Mon 6 .. Sun 12.
	logAt(t, tr, c, h.ID, day(8, 12))

	cal, err := tr.Calendar(context.Background(), h.ID, "2025-01-05", "2025-01-13")
	if err != nil {
		t.Fatalf("Calendar() failed: %v", err)
	}
	for _, d := range cal {
		inWeek := d.Date >= "2025-01-06" && d.Date <= "2025-01-12"
		if d.Completed != inWeek {
			t.Errorf("%s completed = %v, want %v", d.Date, d.Completed, inWeek)
		}
	}
}

func TestCalendarValidation(t *testing.T) {
	tr, _, _ := setupTracker(t)
	h := createHabit(t, tr, models.FrequencyDaily, 0, 1)
	ctx := context.Background()

	cases := [][2]string{
		{"2025-01-05", "2025-01-01"},
		{"bad", "2025-01-01"},
		{"2024-01-01", "2025-06-01"},
	}
	for _, tc := range cases {
		if _, err := tr.Calendar(ctx, h.ID, tc[0], tc[1]); !apperrors.IsValidation(err) {
			t.Errorf("Calendar(%s, %s) error = %v, want validation error", tc[0], tc[1], err)
		}
	}
}

func TestStats(t *testing.T) {
	tr, _, c := setupTracker(t)
	h := createHabit(t, tr, models.FrequencyDaily, 0, 1)
	logAt(t, tr, c, h.ID, day(1, 10))
	logAt(t, tr, c, h.ID, day(3, 10))
	c.t = day(4, 12)

	stats, err := tr.Stats(context.Background(), 30)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("Stats() returned %d entries, want 1", len(stats))
	}
	got := stats[0]
	if got.TotalDays != 4 || got.CompletedDays != 2 || got.CompletionRate != 50 {
		t.Errorf("Stats() = %+v, want 2/4 at 50%%", got)
	}
	if _, err := tr.Stats(context.Background(), 0); !apperrors.IsValidation(err) {
		t.Errorf("Stats(0) error = %v, want validation error", err)
	}
}

func TestRemindersFollowHabitLifecycle(t *testing.T) {
	tr, _, _ := setupTracker(t)
	rem := &recordingReminders{armed: map[string]string{}}
	tr.SetReminders(rem)
	ctx := context.Background()

	h, err := tr.Create(ctx, HabitInput{Name: ptr("Read"), ReminderTime: ptr("07:30")})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if rem.armed[h.ID] != "07:30" {
		t.Errorf("reminder not armed on create: %v", rem.armed)
	}

	if _, err := tr.Update(ctx, h.ID, HabitInput{ReminderTime: ptr("21:00")}); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	if rem.armed[h.ID] != "21:00" {
		t.Errorf("reminder not re-armed on update: %v", rem.armed)
	}

	if _, err := tr.Update(ctx, h.ID, HabitInput{ReminderTime: ptr("25:00")}); !apperrors.IsValidation(err) {
		t.Errorf("Update() with bad time error = %v, want validation error", err)
	}

	if err := tr.Delete(ctx, h.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok := rem.armed[h.ID]; ok {
		t.Error("reminder still armed after delete")
	}
}

func TestCreateValidation(t *testing.T) {
	tr, _, _ := setupTracker(t)
	tests := []struct {
		name string
		in   HabitInput
	}{
		{"missing name", HabitInput{}},
		{"custom without period", HabitInput{Name: ptr("x"), Frequency: ptr(models.FrequencyCustom)}},
		{"zero target", HabitInput{Name: ptr("x"), TargetCount: ptr(0)}},
		{"bad category", HabitInput{Name: ptr("x"), Category: ptr(models.HabitCategory("fun"))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tr.Create(context.Background(), tt.in); !apperrors.IsValidation(err) {
				t.Errorf("Create() error = %v, want validation error", err)
			}
		})
	}
}
