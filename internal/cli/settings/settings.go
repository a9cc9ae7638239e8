package settings

import (
	"fmt"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/models"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Language           *string  `help:"Interface language (ar|en)."`
	Theme              *string  `help:"Theme (light|dark)."`
	Notifications      *bool    `help:"Enable or disable all notifications."`
	TaskReminders      *bool    `help:"Enable or disable task reminders."`
	HabitReminders     *bool    `help:"Enable or disable habit reminders."`
	PrayerReminders    *bool    `help:"Enable or disable prayer reminders."`
	Latitude           *float64 `help:"Latitude used for prayer times."`
	Longitude          *float64 `help:"Longitude used for prayer times."`
	City               *string  `help:"City name shown with prayer times."`
	Timezone           *string  `help:"IANA timezone, or Local."`
	CalculationMethod  *string  `help:"Prayer calculation method (see 'hayati prayer methods')."`
	DueReminderMin     *int     `help:"Minutes before a task is due to remind."`
	OverdueReminderMin *int     `help:"Minutes after a task is due to send the overdue reminder."`
	PrayerBeforeMin    *int     `help:"Minutes before a prayer to remind (0 disables)."`
	PrayerAtTime       *bool    `help:"Notify at the prayer time."`
	HabitDailyReminder *string  `help:"Time of the daily habit digest (HH:MM), empty to disable."`
	WeeklyProgress     *bool    `help:"Enable or disable the weekly progress summary."`
	Sound              *bool    `help:"Play a sound with notifications."`
	Desktop            *bool    `help:"Allow desktop notifications."`
	Persistent         *bool    `help:"Keep notifications on screen until dismissed."`
}

func (c *SettingsCmd) patch() (models.SettingsPatch, bool) {
	p := models.SettingsPatch{
		Language:           c.Language,
		Theme:              c.Theme,
		Notifications:      c.Notifications,
		TaskReminders:      c.TaskReminders,
		HabitReminders:     c.HabitReminders,
		PrayerReminders:    c.PrayerReminders,
		Latitude:           c.Latitude,
		Longitude:          c.Longitude,
		City:               c.City,
		Timezone:           c.Timezone,
		CalculationMethod:  c.CalculationMethod,
		DueReminderMin:     c.DueReminderMin,
		OverdueReminderMin: c.OverdueReminderMin,
		PrayerBeforeMin:    c.PrayerBeforeMin,
		PrayerAtTime:       c.PrayerAtTime,
		HabitDailyReminder: c.HabitDailyReminder,
		WeeklyProgress:     c.WeeklyProgress,
		Sound:              c.Sound,
		Desktop:            c.Desktop,
		Persistent:         c.Persistent,
	}
	return p, p != models.SettingsPatch{}
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	if c.List {
		printSettings(a.Settings())
		return nil
	}

	patch, changed := c.patch()
	if !changed {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}
	if _, err := a.UpdateSettings(ctx.Background(), patch); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}

func printSettings(s models.Settings) {
	fmt.Println("Current Settings:")
	fmt.Printf("  Language:              %s\n", s.Language)
	fmt.Printf("  Theme:                 %s\n", s.Theme)
	fmt.Printf("  Timezone:              %s\n", s.Timezone)

	fmt.Println("\nLocation:")
	fmt.Printf("  City:                  %s\n", s.City)
	fmt.Printf("  Coordinates:           %.4f, %.4f\n", s.Latitude, s.Longitude)
	fmt.Printf("  Calculation Method:    %s\n", s.CalculationMethod)

	fmt.Println("\nNotification Settings:")
	fmt.Printf("  Notifications:         %v\n", s.Notifications)
	fmt.Printf("  Task Reminders:        %v\n", s.TaskReminders)
	fmt.Printf("  Habit Reminders:       %v\n", s.HabitReminders)
	fmt.Printf("  Prayer Reminders:      %v\n", s.PrayerReminders)
	fmt.Printf("  Due Reminder:          %d min before\n", s.DueReminderMin)
	fmt.Printf("  Overdue Reminder:      %d min after\n", s.OverdueReminderMin)
	fmt.Printf("  Prayer Reminder:       %d min before\n", s.PrayerBeforeMin)
	fmt.Printf("  At Prayer Time:        %v\n", s.PrayerAtTime)
	digest := s.HabitDailyReminder
	if digest == "" {
		digest = "off"
	}
	fmt.Printf("  Habit Digest:          %s\n", digest)
	fmt.Printf("  Weekly Progress:       %v\n", s.WeeklyProgress)
	fmt.Printf("  Sound:                 %v\n", s.Sound)
	fmt.Printf("  Desktop:               %v\n", s.Desktop)
	fmt.Printf("  Persistent:            %v\n", s.Persistent)
}
