package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilRegistryIsSafe(t *testing.T) {
	var r *Registry
	r.ReminderFired("task-due")
	r.NotificationShown("tray", "tasks")
	r.NotificationDropped("rate")
	r.HabitLogged()
	r.PrayerCacheLookup(true)
	r.ObserveRequest("GET", "/x", "200", time.Millisecond)
	r.RequestStarted()
	r.RequestFinished()
	r.SetPending(3)
	r.Error("validation")
	if r.Handler() == nil || r.Gatherer() == nil {
		t.Error("nil registry should still return a handler and gatherer")
	}
}

func TestCounters(t *testing.T) {
	r := New()
	r.ReminderFired("task-due")
	r.ReminderFired("task-due")
	r.ReminderFired("habit")
	r.PrayerCacheLookup(false)
	r.SetPending(4)

	if got := testutil.ToFloat64(r.RemindersFired.WithLabelValues("task-due")); got != 2 {
		t.Errorf("task-due fired = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.PrayerCacheLookups.WithLabelValues("miss")); got != 1 {
		t.Errorf("cache misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.RemindersPending); got != 4 {
		t.Errorf("pending = %v, want 4", got)
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.HabitLogged()
	if got := testutil.ToFloat64(b.HabitLogs); got != 0 {
		t.Errorf("second registry saw %v habit logs", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.HabitLogged()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "hayati_habit_logs_total 1") {
		t.Errorf("metrics output missing habit counter:\n%s", body)
	}
}
