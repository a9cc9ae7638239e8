package prayers

import (
	"fmt"
	"time"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/constants"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/prayer"
	"github.com/julianstephens/hayati/internal/utils"
)

type PrayerCmd struct {
	Times   PrayerTimesCmd   `cmd:"" help:"Show the day's prayer times." default:"1"`
	Next    PrayerNextCmd    `cmd:"" help:"Show the next prayer and the time left."`
	Log     PrayerLogCmd     `cmd:"" help:"Record a performed prayer."`
	Methods PrayerMethodsCmd `cmd:"" help:"List calculation methods."`
}

type PrayerTimesCmd struct {
	Date   string   `arg:"" optional:"" help:"Date (YYYY-MM-DD). Defaults to today."`
	Lat    *float64 `help:"Latitude (overrides settings)."`
	Lon    *float64 `help:"Longitude (overrides settings)."`
	Method string   `short:"m" help:"Calculation method (overrides settings)."`
}

func (c *PrayerTimesCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	settings := a.Settings()
	loc := ctx.Location()

	date := c.Date
	if date == "" {
		date = utils.DateKey(time.Now(), loc)
	}
	lat, lon, method := settings.Latitude, settings.Longitude, settings.CalculationMethod
	if c.Lat != nil {
		lat = *c.Lat
	}
	if c.Lon != nil {
		lon = *c.Lon
	}
	if c.Method != "" {
		method = c.Method
	}

	times, err := a.Prayers.GetTimes(ctx.Background(), date, lat, lon, method)
	if err != nil {
		return err
	}
	logs, err := a.Prayers.Logs(ctx.Background(), date)
	if err != nil {
		return err
	}
	logged := make(map[models.PrayerName]models.PrayerLog, len(logs))
	for _, l := range logs {
		logged[l.PrayerName] = l
	}

	fmt.Printf("Prayer times for %s (%.4f, %.4f, %s):\n", times.Date, times.Latitude, times.Longitude, times.Method)
	for _, ev := range models.PrayerEvents {
		mark := " "
		if l, ok := logged[ev]; ok {
			mark = "✓"
			if !l.IsOnTime {
				mark = "~"
			}
		}
		fmt.Printf("  [%s] %-8s %-7s %s\n", mark, ev.DisplayName("en"), ev.DisplayName("ar"), times.TimeOf(ev))
	}
	return nil
}

type PrayerNextCmd struct{}

func (c *PrayerNextCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	next, err := a.Prayers.GetNextPrayer(ctx.Background(), time.Now())
	if err != nil {
		return err
	}
	when := "today"
	if next.Tomorrow {
		when = "tomorrow"
	}
	fmt.Printf("Next: %s (%s) at %s %s, in %s\n", next.Name.DisplayName("en"), next.ArabicName, next.Time, when, next.Display)
	return nil
}

type PrayerLogCmd struct {
	Name     string `arg:"" help:"Prayer (fajr|dhuhr|asr|maghrib|isha)." enum:"fajr,dhuhr,asr,maghrib,isha"`
	Date     string `short:"d" help:"Prayer date (YYYY-MM-DD). Defaults to today."`
	At       string `help:"Completion time (HH:MM). Defaults to now."`
	Location string `short:"l" help:"Where the prayer was performed. Defaults to the configured city."`
}

func (c *PrayerLogCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	loc := ctx.Location()
	now := time.Now()

	completedAt := now
	if c.At != "" {
		day := now
		if c.Date != "" {
			if day, err = utils.ParseDateInLocation(c.Date, loc); err != nil {
				return fmt.Errorf("invalid date %q, expected %s", c.Date, constants.DateFormat)
			}
		}
		if completedAt, err = utils.OnDate(day, c.At, loc); err != nil {
			return fmt.Errorf("invalid time %q, expected HH:MM", c.At)
		}
	}

	log, err := a.Prayers.LogPrayer(ctx.Background(), models.PrayerName(c.Name), c.Date, completedAt, c.Location)
	if err != nil {
		return err
	}
	status := "on time"
	if !log.IsOnTime {
		status = "late"
	}
	fmt.Printf("✓ Logged %s for %s (%s)\n", log.PrayerName.DisplayName("en"), log.PrayerDate, status)
	return nil
}

type PrayerMethodsCmd struct{}

func (c *PrayerMethodsCmd) Run(*cli.Context) error {
	fmt.Println("Calculation methods:")
	for _, m := range prayer.Methods() {
		fmt.Printf("  %s\n", m)
	}
	return nil
}
