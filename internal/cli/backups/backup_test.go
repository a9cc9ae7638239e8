package backups

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/notifier"
	"github.com/julianstephens/hayati/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath, 5*time.Second)
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init storage: %v", err)
	}
	ctx := &cli.Context{Ctx: context.Background(), Store: store, Senders: []notifier.Sender{}}
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx, dbPath
}

func addTask(t *testing.T, ctx *cli.Context, title string) {
	t.Helper()
	now := time.Now().UTC()
	err := ctx.Store.AddTask(ctx.Background(), models.Task{
		ID: title, Title: title, Category: models.TaskCategoryDaily, Priority: models.PriorityMedium,
		Tags: []string{}, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestBackupCreateListRestore(t *testing.T) {
	ctx, dbPath := setupTestDB(t)
	addTask(t, ctx, "before")

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	a, err := ctx.App()
	if err != nil {
		t.Fatal(err)
	}
	list, err := a.Backups.List()
	if err != nil || len(list) != 1 {
		t.Fatalf("backups = %v, err %v", list, err)
	}
	name := filepath.Base(list[0].Path)

	addTask(t, ctx, "after")

	if err := (&BackupRestoreCmd{BackupFile: name, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	store := sqlite.NewStore(dbPath, 5*time.Second)
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	tasks, err := store.GetAllTasks(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Title != "before" {
		t.Errorf("restored tasks = %+v", tasks)
	}
}

func TestBackupRestoreCancelled(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	a, err := ctx.App()
	if err != nil {
		t.Fatal(err)
	}
	list, err := a.Backups.List()
	if err != nil || len(list) == 0 {
		t.Fatalf("backups = %v, err %v", list, err)
	}

	cmd := &BackupRestoreCmd{BackupFile: list[0].Path, in: strings.NewReader("n\n")}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("cancelled restore returned error: %v", err)
	}
	if _, err := ctx.Store.GetSettings(ctx.Background()); err != nil {
		t.Errorf("store should stay open after a cancelled restore: %v", err)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "hayati-20300101-120000.db")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	if got, err := resolve(file, dir); err != nil || got != file {
		t.Errorf("absolute: got %q, %v", got, err)
	}
	if got, err := resolve(filepath.Base(file), dir); err != nil || got != file {
		t.Errorf("in backup dir: got %q, %v", got, err)
	}
	if _, err := resolve("missing.db", dir); err == nil {
		t.Error("expected error for a missing file")
	}
}
