package models

import "github.com/julianstephens/hayati/internal/constants"

// DefaultSettings returns the settings row written on first initialization.
func DefaultSettings() Settings {
	return Settings{
		Language:           constants.DefaultLanguage,
		Theme:              constants.DefaultTheme,
		Notifications:      true,
		TaskReminders:      true,
		HabitReminders:     true,
		PrayerReminders:    true,
		Latitude:           constants.DefaultLatitude,
		Longitude:          constants.DefaultLongitude,
		City:               constants.DefaultCity,
		Timezone:           constants.DefaultTimezone,
		CalculationMethod:  constants.DefaultCalculationMethod,
		DueReminderMin:     constants.DefaultDueReminderMin,
		OverdueReminderMin: constants.DefaultOverdueReminderMin,
		PrayerBeforeMin:    constants.DefaultPrayerBeforeMin,
		PrayerAtTime:       true,
		HabitDailyReminder: constants.DefaultHabitDailyReminder,
		WeeklyProgress:     true,
		Sound:              true,
		Desktop:            true,
		Persistent:         false,
	}
}

// Apply returns a copy of s with every non-nil field of p applied.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Language != nil {
		s.Language = *p.Language
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.TaskReminders != nil {
		s.TaskReminders = *p.TaskReminders
	}
	if p.HabitReminders != nil {
		s.HabitReminders = *p.HabitReminders
	}
	if p.PrayerReminders != nil {
		s.PrayerReminders = *p.PrayerReminders
	}
	if p.Latitude != nil {
		s.Latitude = *p.Latitude
	}
	if p.Longitude != nil {
		s.Longitude = *p.Longitude
	}
	if p.City != nil {
		s.City = *p.City
	}
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	if p.CalculationMethod != nil {
		s.CalculationMethod = *p.CalculationMethod
	}
	if p.DueReminderMin != nil {
		s.DueReminderMin = *p.DueReminderMin
	}
	if p.OverdueReminderMin != nil {
		s.OverdueReminderMin = *p.OverdueReminderMin
	}
	if p.PrayerBeforeMin != nil {
		s.PrayerBeforeMin = *p.PrayerBeforeMin
	}
	if p.PrayerAtTime != nil {
		s.PrayerAtTime = *p.PrayerAtTime
	}
	if p.HabitDailyReminder != nil {
		s.HabitDailyReminder = *p.HabitDailyReminder
	}
	if p.WeeklyProgress != nil {
		s.WeeklyProgress = *p.WeeklyProgress
	}
	if p.Sound != nil {
		s.Sound = *p.Sound
	}
	if p.Desktop != nil {
		s.Desktop = *p.Desktop
	}
	if p.Persistent != nil {
		s.Persistent = *p.Persistent
	}
	return s
}

// LocationChanged reports whether applying p would change the inputs of the
// prayer time calculation.
func (p SettingsPatch) LocationChanged() bool {
	return p.Latitude != nil || p.Longitude != nil || p.CalculationMethod != nil || p.Timezone != nil
}
