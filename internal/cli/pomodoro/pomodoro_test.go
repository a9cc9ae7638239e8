package pomodoro

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/config"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/notifier"
	"github.com/julianstephens/hayati/internal/storage/sqlite"
)

func setupTestDB(t *testing.T, cfg config.Config) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"), 5*time.Second)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}
	ctx := &cli.Context{Ctx: context.Background(), Config: cfg, Store: store, Senders: []notifier.Sender{}}
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx
}

func TestPomodoroRecordAndStats(t *testing.T) {
	ctx := setupTestDB(t, config.Config{})

	if err := (&PomodoroRecordCmd{Minutes: 25, Mode: "work"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&PomodoroRecordCmd{Minutes: 5, Mode: "break"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&PomodoroRecordCmd{Minutes: 0, Mode: "work"}).Run(ctx); err == nil {
		t.Error("zero-length session should be rejected")
	}

	sessions, focusMin, err := ctx.Store.PomodoroTotals(ctx.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sessions != 1 || focusMin != 25 {
		t.Errorf("totals = %d sessions / %d min, want 1 / 25", sessions, focusMin)
	}

	if err := (&PomodoroStatsCmd{}).Run(ctx); err != nil {
		t.Errorf("stats failed: %v", err)
	}
	if err := (&PomodoroHistoryCmd{Days: 1}).Run(ctx); err != nil {
		t.Errorf("history failed: %v", err)
	}
	if err := (&PomodoroHistoryCmd{Days: 0}).Run(ctx); err == nil {
		t.Error("history with zero days should fail")
	}
}

func TestPomodoroRunAbandoned(t *testing.T) {
	ctx := setupTestDB(t, config.Config{})
	if _, err := ctx.App(); err != nil {
		t.Fatal(err)
	}
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	ctx.Ctx = cancelled

	if err := (&PomodoroRunCmd{Mode: "work"}).Run(ctx); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	got, err := ctx.Store.GetPomodoroSessions(context.Background(), time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("abandoned session was recorded: %+v", got)
	}
}

func TestLabel(t *testing.T) {
	for mode, want := range map[models.PomodoroMode]string{
		models.ModeWork:       "Focus",
		models.ModeShortBreak: "Short break",
		models.ModeLongBreak:  "Long break",
	} {
		if got := label(mode); got != want {
			t.Errorf("label(%s) = %q, want %q", mode, got, want)
		}
	}
}

func TestFocus(t *testing.T) {
	if got := focus(135); got != "2h 15m" {
		t.Errorf("focus(135) = %q", got)
	}
}
