package models

// Settings is the singleton user settings row.
type Settings struct {
	Language           string  `json:"language" validate:"oneof=ar en"`
	Theme              string  `json:"theme" validate:"oneof=light dark"`
	Notifications      bool    `json:"notifications"`
	TaskReminders      bool    `json:"task_reminders"`
	HabitReminders     bool    `json:"habit_reminders"`
	PrayerReminders    bool    `json:"prayer_reminders"`
	Latitude           float64 `json:"latitude" validate:"latitude"`
	Longitude          float64 `json:"longitude" validate:"longitude"`
	City               string  `json:"city" validate:"max=100"`
	Timezone           string  `json:"timezone" validate:"timezone_or_local"`
	CalculationMethod  string  `json:"calculation_method" validate:"required"`
	DueReminderMin     int     `json:"due_reminder_min" validate:"min=0,max=1440"`
	OverdueReminderMin int     `json:"overdue_reminder_min" validate:"min=0,max=1440"`
	PrayerBeforeMin    int     `json:"prayer_before_min" validate:"min=0,max=120"`
	PrayerAtTime       bool    `json:"prayer_at_time"`
	HabitDailyReminder string  `json:"habit_daily_reminder" validate:"omitempty,hhmm"`
	WeeklyProgress     bool    `json:"weekly_progress"`
	Sound              bool    `json:"sound"`
	Desktop            bool    `json:"desktop"`
	Persistent         bool    `json:"persistent"`
}

// NotificationCategory groups notifications so they can be toggled together.
type NotificationCategory string

const (
	CategoryTasks   NotificationCategory = "tasks"
	CategoryHabits  NotificationCategory = "habits"
	CategoryPrayers NotificationCategory = "prayers"
	CategorySystem  NotificationCategory = "system"
)

// CategoryEnabled reports whether notifications of the given category may be shown.
// The global flag overrides every category.
func (s Settings) CategoryEnabled(c NotificationCategory) bool {
	if !s.Notifications {
		return false
	}
	switch c {
	case CategoryTasks:
		return s.TaskReminders
	case CategoryHabits:
		return s.HabitReminders
	case CategoryPrayers:
		return s.PrayerReminders
	default:
		return true
	}
}

// SettingsPatch carries a partial settings update. Nil fields are left unchanged.
type SettingsPatch struct {
	Language           *string  `json:"language,omitempty"`
	Theme              *string  `json:"theme,omitempty"`
	Notifications      *bool    `json:"notifications,omitempty"`
	TaskReminders      *bool    `json:"task_reminders,omitempty"`
	HabitReminders     *bool    `json:"habit_reminders,omitempty"`
	PrayerReminders    *bool    `json:"prayer_reminders,omitempty"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	City               *string  `json:"city,omitempty"`
	Timezone           *string  `json:"timezone,omitempty"`
	CalculationMethod  *string  `json:"calculation_method,omitempty"`
	DueReminderMin     *int     `json:"due_reminder_min,omitempty"`
	OverdueReminderMin *int     `json:"overdue_reminder_min,omitempty"`
	PrayerBeforeMin    *int     `json:"prayer_before_min,omitempty"`
	PrayerAtTime       *bool    `json:"prayer_at_time,omitempty"`
	HabitDailyReminder *string  `json:"habit_daily_reminder,omitempty"`
	WeeklyProgress     *bool    `json:"weekly_progress,omitempty"`
	Sound              *bool    `json:"sound,omitempty"`
	Desktop            *bool    `json:"desktop,omitempty"`
	Persistent         *bool    `json:"persistent,omitempty"`
}
