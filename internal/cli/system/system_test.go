package system

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/notifier"
	"github.com/julianstephens/hayati/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := &cli.Context{
		Ctx:     context.Background(),
		Store:   sqlite.NewStore(dbPath, 5*time.Second),
		Senders: []notifier.Sender{},
	}
	t.Cleanup(func() {
		if err := ctx.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return ctx, dbPath
}

func ptr[T any](v T) *T { return &v }
