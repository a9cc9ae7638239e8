package tasks

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

func onlyTask(t *testing.T, ctx *cli.Context) models.Task {
	t.Helper()
	all, err := ctx.Store.GetAllTasks(ctx.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 task, got %d", len(all))
	}
	return all[0]
}

func TestTaskAddCmd(t *testing.T) {
	tests := []struct {
		name    string
		cmd     TaskAddCmd
		wantErr bool
	}{
		{"defaults", TaskAddCmd{Title: "Buy milk", Category: "shopping", Priority: "medium"}, false},
		{"with due and tags", TaskAddCmd{Title: "Report", Category: "work", Priority: "urgent", Due: "2030-01-02 09:30", Tags: []string{"q1"}}, false},
		{"recurring", TaskAddCmd{Title: "Read", Category: "study", Priority: "low", Recurring: "weekdays"}, false},
		{"missing title", TaskAddCmd{Category: "daily", Priority: "medium"}, true},
		{"bad due", TaskAddCmd{Title: "x", Category: "daily", Priority: "medium", Due: "tomorrow"}, true},
		{"bad pattern", TaskAddCmd{Title: "x", Category: "daily", Priority: "medium", Recurring: "hourly"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestDB(t)
			err := tt.cmd.Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			got := onlyTask(t, ctx)
			if got.Title != tt.cmd.Title || string(got.Category) != tt.cmd.Category || got.Priority != priorities[tt.cmd.Priority] {
				t.Errorf("stored task = %+v", got)
			}
			if (tt.cmd.Due != "") != (got.DueAt != nil) {
				t.Errorf("due = %v, flag %q", got.DueAt, tt.cmd.Due)
			}
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&TaskAddCmd{Title: "Call mum", Category: "personal", Priority: "high", Due: "2030-05-01 18:00"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	id := onlyTask(t, ctx).ID

	title := "Call mum back"
	if err := (&TaskEditCmd{ID: id, Title: &title, ClearDue: true, Tags: []string{"family"}}).Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	got := onlyTask(t, ctx)
	if got.Title != title || got.DueAt != nil || len(got.Tags) != 1 {
		t.Errorf("after edit: %+v", got)
	}

	if err := (&TaskSnoozeCmd{ID: id, For: 30 * time.Minute}).Run(ctx); err != nil {
		t.Fatalf("snooze failed: %v", err)
	}
	if got := onlyTask(t, ctx); got.DueAt == nil || time.Until(*got.DueAt) < 25*time.Minute {
		t.Errorf("snoozed due = %v", got.DueAt)
	}

	if err := (&TaskDoneCmd{ID: id}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !onlyTask(t, ctx).IsCompleted {
		t.Error("task should be completed")
	}
	if err := (&TaskListCmd{Status: "completed", ShowIDs: true}).Run(ctx); err != nil {
		t.Errorf("list failed: %v", err)
	}

	if err := (&TaskDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&TaskDeleteCmd{ID: id}).Run(ctx); err == nil {
		t.Error("deleting a missing task should fail")
	}
}

func TestTaskEditRejectsUnknownPriority(t *testing.T) {
	ctx := setupTestDB(t)
	if err := (&TaskAddCmd{Title: "x", Category: "daily", Priority: "medium"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	p := "critical"
	if err := (&TaskEditCmd{ID: onlyTask(t, ctx).ID, Priority: &p}).Run(ctx); err == nil {
		t.Error("expected error for unknown priority")
	}
}
