package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/keyring"
	"github.com/julianstephens/hayati/internal/notifier"
	"github.com/julianstephens/hayati/internal/utils"
	"github.com/julianstephens/hayati/internal/validation"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the database could not be opened.
	needsDB bool
	// warnOnly checks never fail the run.
	warnOnly bool
	run      func(*cli.Context) error
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Settings", needsDB: true, run: checkSettings},
	{name: "Data validation", needsDB: true, run: checkData},
	{name: "Clock/timezone", needsDB: true, run: checkClockTimezone},
	{name: "Prayer times", needsDB: true, run: checkPrayerTimes},
	{name: "Notification route", needsDB: true, warnOnly: true, run: checkNotificationRoute},
	{name: "Backups present", needsDB: true, warnOnly: true, run: checkBackupsPresent},
	{name: "OS keyring", warnOnly: true, run: checkKeyring},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		return errors.New("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	return ctx.Store.Load(ctx.Background())
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings(ctx.Background())
	if err != nil {
		return err
	}
	return validation.Struct(settings)
}

func checkData(ctx *cli.Context) error {
	tasks, err := ctx.Store.GetAllTasks(ctx.Background())
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if err := validation.Struct(t); err != nil {
			return fmt.Errorf("task %s: %w", t.ID, err)
		}
	}
	habits, err := ctx.Store.GetAllHabitsIncludingInactive(ctx.Background())
	if err != nil {
		return err
	}
	for _, h := range habits {
		if err := validation.Struct(h); err != nil {
			return fmt.Errorf("habit %s: %w", h.ID, err)
		}
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	settings, err := ctx.Store.GetSettings(ctx.Background())
	if err != nil {
		return err
	}
	if _, err := utils.LoadLocation(settings.Timezone); err != nil {
		return fmt.Errorf("timezone %q cannot be loaded: %w", settings.Timezone, err)
	}
	return nil
}

func checkPrayerTimes(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	_, err = a.Prayers.ForDate(ctx.Background(), time.Now())
	return err
}

func checkNotificationRoute(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if a.Notifier.CheckPermission() != notifier.PermissionGranted {
		return errors.New("no notification route is available; start the tray app or enable notifier.desktop_fallback")
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	if a.Backups == nil {
		return errors.New("backups are not managed for PostgreSQL databases")
	}
	backups, err := a.Backups.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'hayati backup create'")
	}
	return nil
}

func checkKeyring(*cli.Context) error {
	if !keyring.Default().Available() {
		return keyring.ErrKeyringUnavailable
	}
	return nil
}
