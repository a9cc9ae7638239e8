package data

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/portability"
)

type ExportCmd struct {
	Format string `short:"f" help:"Export format (json|csv). CSV contains tasks only." default:"json" enum:"json,csv"`
	Output string `short:"o" help:"Output file, or - for stdout. Defaults to a dated file in the current directory."`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	path := c.Output
	if path == "" {
		path = portability.FileName(c.Format, time.Now())
	}
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	snap, err := a.Data.Export(ctx.Background())
	if err != nil {
		return err
	}
	if c.Format == "csv" {
		err = portability.ExportTasksCSV(w, snap.Tasks)
	} else {
		err = portability.WriteJSON(w, snap)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if path != "-" {
		fmt.Printf("✓ Exported %d tasks, %d habits, %d goals to %s\n", len(snap.Tasks), len(snap.Habits), len(snap.Goals), path)
	}
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"JSON export to import." type:"existingfile"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	snap, err := portability.ReadJSON(f)
	if err != nil {
		return err
	}
	res, err := a.Import(ctx.Background(), snap)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if res.BackupPath != "" {
		fmt.Printf("Backup created before import: %s\n", res.BackupPath)
	}
	fmt.Printf("✓ Imported %d tasks, %d habits (%d logs), %d goals\n", res.Tasks, res.Habits, res.HabitLogs, res.Goals)
	if res.SettingsApplied {
		fmt.Println("  Settings restored")
	}
	return nil
}
