package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/cli/backups"
	"github.com/julianstephens/hayati/internal/cli/data"
	"github.com/julianstephens/hayati/internal/cli/goals"
	"github.com/julianstephens/hayati/internal/cli/habits"
	"github.com/julianstephens/hayati/internal/cli/pomodoro"
	"github.com/julianstephens/hayati/internal/cli/prayers"
	"github.com/julianstephens/hayati/internal/cli/settings"
	"github.com/julianstephens/hayati/internal/cli/system"
	"github.com/julianstephens/hayati/internal/cli/tasks"
	"github.com/julianstephens/hayati/internal/config"
	"github.com/julianstephens/hayati/internal/constants"
	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file (YAML, JSON or TOML). Defaults to ~/.config/hayati/config.*." type:"path"`
	DB      string `name:"db" help:"SQLite path or PostgreSQL connection string. PostgreSQL passwords must come from HAYATI_DB_CONNECTION, the OS keyring or .pgpass."`
	Verbose bool   `name:"debug" help:"Log debug output to stderr."`

	Init     system.InitCmd       `cmd:"" help:"Initialize hayati storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Serve    system.ServeCmd      `cmd:"" help:"Run reminders and the HTTP API for the tray app."`
	Notify   system.NotifyCmd     `cmd:"" help:"Send a test notification."`
	Debug    system.DebugCmd      `cmd:"" help:"Debug commands for troubleshooting."`
	Task     tasks.TaskCmd        `cmd:"" help:"Manage tasks."`
	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and streaks."`
	Prayer   prayers.PrayerCmd    `cmd:"" help:"Prayer times and logs."`
	Goal     goals.GoalCmd        `cmd:"" help:"Manage goals."`
	Pomodoro pomodoro.PomodoroCmd `cmd:"" help:"Focus timer and history."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	Export   data.ExportCmd       `cmd:"" help:"Export data as JSON or tasks as CSV."`
	Import   data.ImportCmd       `cmd:"" help:"Import a JSON export."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the database connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
	} `cmd:"" help:"Manage database credentials in the OS keyring."`
}

// Commands that open or create the database themselves.
var skipLoad = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Tasks, habits, prayer times and focus sessions"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)
	command := strings.Fields(kctx.Command())[0]

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(logger.Config{
		Debug:     CLI.Verbose || cfg.Log.Debug,
		ConfigDir: cfg.ConfigDir,
		Stderr:    command == "serve",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := &cli.Context{Ctx: ctx, Config: cfg}
	if command != "keyring" {
		appCtx.Store, err = cli.OpenStore(cli.ResolveDatabase(CLI.DB, cfg), cfg.Store.Timeout)
		if err != nil {
			apperrors.Fatal(err)
		}
	}

	if !skipLoad[command] {
		if err := appCtx.Store.Load(ctx); err != nil {
			_ = appCtx.Close()
			apperrors.Fatal(err)
		}
	}

	err = kctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close store", "error", closeErr)
	}
	apperrors.Fatal(err)
}
