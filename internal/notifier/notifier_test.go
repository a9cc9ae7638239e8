package notifier

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/models"
)

type staticSettings models.Settings

func (s staticSettings) Settings() models.Settings { return models.Settings(s) }

type fakeSender struct {
	name      string
	available bool
	err       error
	sent      []Message
}

func (f *fakeSender) Name() string    { return f.name }
func (f *fakeSender) Available() bool { return f.available }
func (f *fakeSender) Send(_ context.Context, msg Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestShowGating(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*models.Settings)
		category models.NotificationCategory
		wantSent bool
	}{
		{"enabled", func(*models.Settings) {}, models.CategoryTasks, true},
		{"global off", func(s *models.Settings) { s.Notifications = false }, models.CategoryTasks, false},
		{"desktop off", func(s *models.Settings) { s.Desktop = false }, models.CategorySystem, false},
		{"task category off", func(s *models.Settings) { s.TaskReminders = false }, models.CategoryTasks, false},
		{"habit category off", func(s *models.Settings) { s.HabitReminders = false }, models.CategoryHabits, false},
		{"prayer category off", func(s *models.Settings) { s.PrayerReminders = false }, models.CategoryPrayers, false},
		{"other category unaffected", func(s *models.Settings) { s.PrayerReminders = false }, models.CategoryTasks, true},
		{"no category", func(s *models.Settings) { s.TaskReminders = false }, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := models.DefaultSettings()
			tt.mutate(&s)
			sender := &fakeSender{name: "fake", available: true}
			n := New(staticSettings(s), WithSenders(sender))

			got, err := n.Show(context.Background(), Options{Title: "t", Body: "b", Category: tt.category})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantSent != (got != nil) {
				t.Errorf("shown = %v, want %v", got != nil, tt.wantSent)
			}
			if tt.wantSent != (len(sender.sent) == 1) {
				t.Errorf("sent %d messages", len(sender.sent))
			}
		})
	}
}

func TestShowDuration(t *testing.T) {
	s := models.DefaultSettings()
	sender := &fakeSender{name: "fake", available: true}
	n := New(staticSettings(s), WithSenders(sender))

	got, err := n.Show(context.Background(), Options{Title: "t"})
	if err != nil {
		t.Fatal(err)
	}
	if got.DurationMs != 5000 || got.Persistent {
		t.Errorf("got duration %d persistent %v", got.DurationMs, got.Persistent)
	}
	if !sender.sent[0].Sound {
		t.Error("expected sound from settings")
	}

	s.Persistent = true
	s.Sound = false
	n = New(staticSettings(s), WithSenders(sender))
	got, err = n.Show(context.Background(), Options{Title: "t"})
	if err != nil {
		t.Fatal(err)
	}
	if got.DurationMs != 0 || !got.Persistent {
		t.Errorf("persistent notification got duration %d", got.DurationMs)
	}
	if sender.sent[1].Sound {
		t.Error("expected no sound")
	}
}

func TestShowRequiresTitle(t *testing.T) {
	n := New(staticSettings(models.DefaultSettings()), WithSenders(&fakeSender{available: true}))
	_, err := n.Show(context.Background(), Options{Body: "b"})
	if !apperrors.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestShowFallsBack(t *testing.T) {
	tray := &fakeSender{name: "tray", available: true, err: errors.New("connection refused")}
	desktop := &fakeSender{name: "desktop", available: true}
	n := New(staticSettings(models.DefaultSettings()), WithSenders(tray, desktop))

	got, err := n.Show(context.Background(), Options{Title: "t"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Route != "desktop" {
		t.Errorf("route = %q, want desktop", got.Route)
	}
}

func TestShowNoRoute(t *testing.T) {
	tests := []struct {
		name    string
		senders []Sender
	}{
		{"none available", []Sender{&fakeSender{name: "tray"}}},
		{"all failing", []Sender{&fakeSender{name: "tray", available: true, err: errors.New("boom")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New(staticSettings(models.DefaultSettings()), WithSenders(tt.senders...))
			got, err := n.Show(context.Background(), Options{Title: "t"})
			if got != nil {
				t.Error("expected no notification")
			}
			if !apperrors.IsPermission(err) {
				t.Errorf("expected permission error, got %v", err)
			}
		})
	}
}

func TestShowRateLimit(t *testing.T) {
	sender := &fakeSender{name: "fake", available: true}
	n := New(staticSettings(models.DefaultSettings()), WithSenders(sender), WithRateLimit(3))

	for i := 0; i < 5; i++ {
		if _, err := n.Show(context.Background(), Options{Title: "t"}); err != nil {
			t.Fatal(err)
		}
	}
	if len(sender.sent) != 3 {
		t.Errorf("sent %d, want 3", len(sender.sent))
	}
}

func TestCheckPermission(t *testing.T) {
	s := staticSettings(models.DefaultSettings())
	if got := New(s, WithSenders(&fakeSender{}, &fakeSender{available: true})).CheckPermission(); got != PermissionGranted {
		t.Errorf("got %s", got)
	}
	if got := New(s, WithSenders(&fakeSender{})).CheckPermission(); got != PermissionDenied {
		t.Errorf("got %s", got)
	}
}

func TestDesktopSender(t *testing.T) {
	oldNotify, oldBeep := desktopNotify, desktopBeep
	defer func() { desktopNotify, desktopBeep = oldNotify, oldBeep }()

	var title, body string
	beeps := 0
	desktopNotify = func(ti, b string) error { title, body = ti, b; return nil }
	desktopBeep = func() error { beeps++; return errors.New("no speaker") }

	err := DesktopSender{}.Send(context.Background(), Message{Title: "T", Body: "B", Sound: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if title != "T" || body != "B" || beeps != 1 {
		t.Errorf("got %q %q beeps=%d", title, body, beeps)
	}

	desktopNotify = func(string, string) error { return errors.New("no dbus") }
	if err := (DesktopSender{}).Send(context.Background(), Message{Title: "T"}); err == nil {
		t.Error("expected error")
	}
}
