package constants

const (
	LanguageArabic  = "ar"
	LanguageEnglish = "en"

	ThemeLight = "light"
	ThemeDark  = "dark"

	DefaultLanguage           = LanguageArabic
	DefaultTheme              = ThemeLight
	DefaultLatitude           = 30.0444
	DefaultLongitude          = 31.2357
	DefaultCity               = "Cairo"
	DefaultTimezone           = "Local"
	DefaultCalculationMethod  = "egyptian"
	DefaultDueReminderMin     = 15
	DefaultOverdueReminderMin = 30
	DefaultPrayerBeforeMin    = 5
	DefaultHabitDailyReminder = "20:00"

	// Weekly progress reminder fires on Sunday at this time.
	WeeklyProgressTime = "20:00"

	// Pomodoro defaults
	DefaultPomodoroWorkMin          = 25
	DefaultPomodoroShortBreakMin    = 5
	DefaultPomodoroLongBreakMin     = 15
	DefaultPomodoroLongBreakEvery   = 4
	DefaultPomodoroAutoStartBreaks  = false
	DefaultPomodoroAutoStartWorking = false
)
