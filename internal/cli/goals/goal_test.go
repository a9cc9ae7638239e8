package goals

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/notifier"
	"github.com/julianstephens/hayati/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"), 5*time.Second)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}
	ctx := &cli.Context{Ctx: context.Background(), Store: store, Senders: []notifier.Sender{}}
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx
}

func TestGoalAddCmd(t *testing.T) {
	tests := []struct {
		name    string
		cmd     GoalAddCmd
		wantErr bool
	}{
		{"valid", GoalAddCmd{Title: "Read 12 books", Target: 12, Unit: "books", Category: "study", Priority: "high", Start: "2030-01-01", By: "2030-12-31"}, false},
		{"zero target", GoalAddCmd{Title: "x", Target: 0, Category: "personal", Priority: "low", By: "2030-12-31"}, true},
		{"target before start", GoalAddCmd{Title: "x", Target: 1, Category: "personal", Priority: "low", Start: "2030-06-01", By: "2030-01-01"}, true},
		{"bad date", GoalAddCmd{Title: "x", Target: 1, Category: "personal", Priority: "low", By: "next year"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestDB(t)
			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGoalProgress(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&GoalAddCmd{Title: "Run 100km", Target: 100, Unit: "km", Category: "health", Priority: "medium", Start: "2030-01-01", By: "2030-12-31"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	all, err := ctx.Store.GetAllGoals(ctx.Background())
	if err != nil || len(all) != 1 {
		t.Fatalf("goals = %v, err %v", all, err)
	}
	id := all[0].ID

	if err := (&GoalProgressCmd{ID: id, Value: 40}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&GoalProgressCmd{ID: id, Value: -1}).Run(ctx); err == nil {
		t.Error("negative progress should be rejected")
	}
	g, err := ctx.Store.GetGoal(ctx.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if g.CurrentValue != 40 || g.Progress() != 40 {
		t.Errorf("goal = %+v", g)
	}

	if err := (&GoalProgressCmd{ID: id, Value: 120}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&GoalListCmd{Status: string(models.GoalCompleted), ShowIDs: true}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}

	title := "Run 150km"
	target := 150.0
	if err := (&GoalEditCmd{ID: id, Title: &title, Target: &target}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if err := (&GoalDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&GoalDeleteCmd{ID: id}).Run(ctx); err == nil {
		t.Error("deleting a missing goal should fail")
	}
}

func TestBar(t *testing.T) {
	if got := bar(0); got != "[....................]" {
		t.Errorf("bar(0) = %q", got)
	}
	if got := bar(50); got != "[##########..........]" {
		t.Errorf("bar(50) = %q", got)
	}
	if got := bar(100); got != "[####################]" {
		t.Errorf("bar(100) = %q", got)
	}
}
