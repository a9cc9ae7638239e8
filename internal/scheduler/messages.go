package scheduler

import (
	"fmt"

	"github.com/julianstephens/hayati/internal/constants"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/notifier"
)

// Action ids understood by the application when the host reports a click.
const (
	ActionComplete   = "complete"
	ActionSnooze     = "snooze"
	ActionLogHabit   = "log-habit"
	ActionSkip       = "skip"
	ActionLogged     = "logged"
	ActionReview     = "review"
	ActionViewReport = "view-report"
)

// Tags name the subject of a notification so actions can be routed back.
func TaskTag(taskID string) string   { return "task:" + taskID }
func HabitTag(habitID string) string { return "habit:" + habitID }
func PrayerTag(name models.PrayerName, date string) string {
	return "prayer:" + string(name) + ":" + date
}

type catalog struct {
	taskDue      func(title string, min int) notifier.Options
	taskOverdue  func(title string, min int) notifier.Options
	habit        func(name string) notifier.Options
	prayerAt     func(prayer string) notifier.Options
	prayerBefore func(prayer string, min int) notifier.Options
	habitDigest  func() notifier.Options
	weeklyReport func() notifier.Options
}

var arabic = catalog{
	taskDue: func(title string, min int) notifier.Options {
		return notifier.Options{
			Title: "مهمة قادمة",
			Body:  fmt.Sprintf("%s - مستحقة خلال %d دقيقة", title, min),
			Actions: []notifier.Action{
				{ID: ActionComplete, Label: "إكمال"},
				{ID: ActionSnooze, Label: "تأجيل"},
			},
		}
	},
	taskOverdue: func(title string, min int) notifier.Options {
		return notifier.Options{
			Title: "مهمة متأخرة",
			Body:  fmt.Sprintf("%s - متأخرة %d دقيقة", title, min),
			Actions: []notifier.Action{
				{ID: ActionComplete, Label: "إكمال الآن"},
			},
		}
	},
	habit: func(name string) notifier.Options {
		return notifier.Options{
			Title: "تذكير عادة",
			Body:  "حان وقت ممارسة عادة: " + name,
			Actions: []notifier.Action{
				{ID: ActionLogHabit, Label: "تم"},
				{ID: ActionSkip, Label: "تخطي"},
			},
		}
	},
	prayerAt: func(prayer string) notifier.Options {
		return notifier.Options{
			Title: "حان وقت الصلاة",
			Body:  "حان الآن وقت صلاة " + prayer,
			Actions: []notifier.Action{
				{ID: ActionLogged, Label: "تم الأداء"},
			},
		}
	},
	prayerBefore: func(prayer string, min int) notifier.Options {
		return notifier.Options{
			Title: "تنبيه صلاة",
			Body:  fmt.Sprintf("صلاة %s خلال %d دقائق", prayer, min),
		}
	},
	habitDigest: func() notifier.Options {
		return notifier.Options{
			Title:   "تذكير العادات اليومية",
			Body:    "حان وقت مراجعة عاداتك اليومية وتسجيل تقدمك",
			Actions: []notifier.Action{{ID: ActionReview, Label: "مراجعة"}},
		}
	},
	weeklyReport: func() notifier.Options {
		return notifier.Options{
			Title:   "تقرير العادات الأسبوعي",
			Body:    "اطلع على تقدمك الأسبوعي في العادات وخطط للأسبوع القادم",
			Actions: []notifier.Action{{ID: ActionViewReport, Label: "عرض التقرير"}},
		}
	},
}

var english = catalog{
	taskDue: func(title string, min int) notifier.Options {
		return notifier.Options{
			Title: "Upcoming Task",
			Body:  fmt.Sprintf("%s - due in %d minutes", title, min),
			Actions: []notifier.Action{
				{ID: ActionComplete, Label: "Complete"},
				{ID: ActionSnooze, Label: "Snooze"},
			},
		}
	},
	taskOverdue: func(title string, min int) notifier.Options {
		return notifier.Options{
			Title: "Overdue Task",
			Body:  fmt.Sprintf("%s - %d minutes overdue", title, min),
			Actions: []notifier.Action{
				{ID: ActionComplete, Label: "Complete Now"},
			},
		}
	},
	habit: func(name string) notifier.Options {
		return notifier.Options{
			Title: "Habit Reminder",
			Body:  "Time for your habit: " + name,
			Actions: []notifier.Action{
				{ID: ActionLogHabit, Label: "Done"},
				{ID: ActionSkip, Label: "Skip"},
			},
		}
	},
	prayerAt: func(prayer string) notifier.Options {
		return notifier.Options{
			Title: "Prayer Time",
			Body:  "It is now time for " + prayer,
			Actions: []notifier.Action{
				{ID: ActionLogged, Label: "Logged"},
			},
		}
	},
	prayerBefore: func(prayer string, min int) notifier.Options {
		return notifier.Options{
			Title: "Prayer Reminder",
			Body:  fmt.Sprintf("%s in %d minutes", prayer, min),
		}
	},
	habitDigest: func() notifier.Options {
		return notifier.Options{
			Title:   "Daily Habits Reminder",
			Body:    "Time to review your habits and log your progress",
			Actions: []notifier.Action{{ID: ActionReview, Label: "Review"}},
		}
	},
	weeklyReport: func() notifier.Options {
		return notifier.Options{
			Title:   "Weekly Habits Report",
			Body:    "Review your weekly habit progress and plan the week ahead",
			Actions: []notifier.Action{{ID: ActionViewReport, Label: "View Report"}},
		}
	},
}

func messages(language string) catalog {
	if language == constants.LanguageEnglish {
		return english
	}
	return arabic
}
