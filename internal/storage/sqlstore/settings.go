package sqlstore

import (
	"context"

	"github.com/julianstephens/hayati/internal/models"
)

const settingsColumns = `language, theme, notifications, task_reminders, habit_reminders, prayer_reminders,
	latitude, longitude, city, timezone, calculation_method, due_reminder_min, overdue_reminder_min,
	prayer_before_min, prayer_at_time, habit_daily_reminder, weekly_progress, sound, desktop, persistent`

func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	var st models.Settings
	err := s.queryRow(ctx, "get settings", "settings", "1", func(sc scanner) error {
		return sc.Scan(&st.Language, &st.Theme, &st.Notifications, &st.TaskReminders, &st.HabitReminders,
			&st.PrayerReminders, &st.Latitude, &st.Longitude, &st.City, &st.Timezone, &st.CalculationMethod,
			&st.DueReminderMin, &st.OverdueReminderMin, &st.PrayerBeforeMin, &st.PrayerAtTime,
			&st.HabitDailyReminder, &st.WeeklyProgress, &st.Sound, &st.Desktop, &st.Persistent)
	}, `SELECT `+settingsColumns+` FROM settings WHERE id = 1`)
	return st, err
}

// SaveSettings writes the singleton row, creating it if needed.
func (s *Store) SaveSettings(ctx context.Context, st models.Settings) error {
	_, err := s.exec(ctx, "save settings", `INSERT INTO settings (id, `+settingsColumns+`)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			language = excluded.language,
			theme = excluded.theme,
			notifications = excluded.notifications,
			task_reminders = excluded.task_reminders,
			habit_reminders = excluded.habit_reminders,
			prayer_reminders = excluded.prayer_reminders,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			city = excluded.city,
			timezone = excluded.timezone,
			calculation_method = excluded.calculation_method,
			due_reminder_min = excluded.due_reminder_min,
			overdue_reminder_min = excluded.overdue_reminder_min,
			prayer_before_min = excluded.prayer_before_min,
			prayer_at_time = excluded.prayer_at_time,
			habit_daily_reminder = excluded.habit_daily_reminder,
			weekly_progress = excluded.weekly_progress,
			sound = excluded.sound,
			desktop = excluded.desktop,
			persistent = excluded.persistent`,
		st.Language, st.Theme, st.Notifications, st.TaskReminders, st.HabitReminders, st.PrayerReminders,
		st.Latitude, st.Longitude, st.City, st.Timezone, st.CalculationMethod, st.DueReminderMin,
		st.OverdueReminderMin, st.PrayerBeforeMin, st.PrayerAtTime, st.HabitDailyReminder,
		st.WeeklyProgress, st.Sound, st.Desktop, st.Persistent)
	return err
}
