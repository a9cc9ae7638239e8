package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/config"
	"github.com/julianstephens/hayati/internal/portability"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(ctx.Background()); err != nil {
		return err
	}
	fmt.Printf("Initialized hayati storage at: %s\n", displayLocation(ctx.Store.GetConfigPath()))

	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", displayLocation(c.Source))
		res, err := c.copyFrom(ctx)
		if err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Printf("✓ Copied %d tasks, %d habits (%d logs), %d goals\n", res.Tasks, res.Habits, res.HabitLogs, res.Goals)
	}
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if config.IsPostgres(dbPath) {
		return errors.New("--force only supports SQLite databases")
	}
	if c.Source != "" {
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing database: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing database: %w", err)
		}
		fmt.Printf("Deleted existing database at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing database: %w", err)
	}
	return nil
}

// copyFrom exports every row of the source database and upserts it into the
// freshly initialized one.
func (c *InitCmd) copyFrom(ctx *cli.Context) (portability.ImportResult, error) {
	src, err := cli.OpenStore(cli.Database{Location: c.Source, Source: cli.SourceFlag}, ctx.Config.Store.Timeout)
	if err != nil {
		return portability.ImportResult{}, err
	}
	if err := src.Load(ctx.Background()); err != nil {
		return portability.ImportResult{}, fmt.Errorf("failed to open source: %w", err)
	}
	defer src.Close()

	snap, err := portability.NewService(src, nil).Export(ctx.Background())
	if err != nil {
		return portability.ImportResult{}, err
	}
	return portability.NewService(ctx.Store, nil).Import(ctx.Background(), snap)
}

// displayLocation hides connection strings behind their masked form.
func displayLocation(loc string) string {
	if config.IsPostgres(loc) {
		return maskPassword(loc)
	}
	return loc
}
