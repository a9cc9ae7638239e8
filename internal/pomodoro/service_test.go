package pomodoro

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/notifier"
	"github.com/julianstephens/hayati/internal/storage/sqlite"
)

type staticSettings struct{}

func (staticSettings) Settings() models.Settings {
	s := models.DefaultSettings()
	s.Timezone = "UTC"
	s.Language = "en"
	return s
}

type fakeNotifier struct{ shown []notifier.Options }

func (f *fakeNotifier) Show(_ context.Context, opts notifier.Options) (*notifier.Notification, error) {
	f.shown = append(f.shown, opts)
	return &notifier.Notification{}, nil
}

func setupService(t *testing.T) (*Service, *fakeNotifier) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "hayati.db"), 5*time.Second)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	n := &fakeNotifier{}
	svc := NewService(store, staticSettings{}, n)
	svc.now = func() time.Time { return t0.Add(8 * time.Hour) }
	return svc, n
}

func TestRecordAndStats(t *testing.T) {
	svc, n := setupService(t)
	ctx := context.Background()

	records := []Completion{
		{Mode: models.ModeWork, DurationMin: 25, CompletedAt: t0.AddDate(0, 0, -1)},
		{Mode: models.ModeWork, DurationMin: 25, CompletedAt: t0},
		{Mode: models.ModeShortBreak, DurationMin: 5, CompletedAt: t0.Add(5 * time.Minute)},
		{Mode: models.ModeWork, DurationMin: 50, CompletedAt: t0.Add(time.Hour)},
	}
	for _, c := range records {
		if _, err := svc.Record(ctx, c); err != nil {
			t.Fatalf("Record() failed: %v", err)
		}
	}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := models.PomodoroStats{TotalSessions: 3, TodaySessions: 2, TodayFocusMin: 75, TotalFocusMin: 100}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	if len(n.shown) != 4 || n.shown[0].Title != "Break time!" || n.shown[2].Title != "Back to work!" {
		t.Errorf("notifications = %+v", n.shown)
	}
}

func TestRecordDerivesStart(t *testing.T) {
	svc, _ := setupService(t)
	s, err := svc.Record(context.Background(), Completion{Mode: models.ModeWork, DurationMin: 25, CompletedAt: t0})
	if err != nil {
		t.Fatal(err)
	}
	if !s.StartedAt.Equal(t0.Add(-25 * time.Minute)) {
		t.Errorf("started at %v", s.StartedAt)
	}

	if _, err := svc.Record(context.Background(), Completion{Mode: models.ModeWork}); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestHistory(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	_, _ = svc.Record(ctx, Completion{Mode: models.ModeWork, DurationMin: 25, CompletedAt: t0})
	_, _ = svc.Record(ctx, Completion{Mode: models.ModeWork, DurationMin: 25, CompletedAt: t0.AddDate(0, 0, 2)})

	got, err := svc.History(ctx, t0.Add(-time.Hour), t0.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("history = %d sessions, want 1", len(got))
	}
	if _, err := svc.History(ctx, t0, t0); !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}
