// Package metrics holds the Prometheus collectors of one application instance.
// Every method is safe to call on a nil *Registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hayati"

type Registry struct {
	reg *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ActiveRequests      prometheus.Gauge

	RemindersFired     *prometheus.CounterVec
	RemindersPending   prometheus.Gauge
	NotificationsShown *prometheus.CounterVec
	NotificationsDrops *prometheus.CounterVec
	HabitLogs          prometheus.Counter
	PrayerCacheLookups *prometheus.CounterVec
	ErrorsTotal        *prometheus.CounterVec
}

func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Registry{
		reg: reg,
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path"}),
		ActiveRequests: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Current number of active HTTP requests",
		}),
		RemindersFired: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_fired_total",
			Help:      "Scheduled reminders that fired, by kind",
		}, []string{"kind"}),
		RemindersPending: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reminders_pending",
			Help:      "Timers currently armed in the scheduler",
		}),
		NotificationsShown: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_shown_total",
			Help:      "Notifications delivered, by route and category",
		}, []string{"route", "category"}),
		NotificationsDrops: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dropped_total",
			Help:      "Notifications not delivered, by reason",
		}, []string{"reason"}),
		HabitLogs: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "habit_logs_total",
			Help:      "Habit completions logged",
		}),
		PrayerCacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prayer_cache_lookups_total",
			Help:      "Prayer time cache lookups, by result",
		}, []string{"result"}),
		ErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors returned to callers, by kind",
		}, []string{"kind"}),
	}
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

func (r *Registry) Handler() http.Handler {
	if r == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Registry) ObserveRequest(method, path, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (r *Registry) RequestStarted() {
	if r != nil {
		r.ActiveRequests.Inc()
	}
}

func (r *Registry) RequestFinished() {
	if r != nil {
		r.ActiveRequests.Dec()
	}
}

func (r *Registry) ReminderFired(kind string) {
	if r != nil {
		r.RemindersFired.WithLabelValues(kind).Inc()
	}
}

func (r *Registry) SetPending(n int) {
	if r != nil {
		r.RemindersPending.Set(float64(n))
	}
}

func (r *Registry) NotificationShown(route, category string) {
	if r != nil {
		r.NotificationsShown.WithLabelValues(route, category).Inc()
	}
}

func (r *Registry) NotificationDropped(reason string) {
	if r != nil {
		r.NotificationsDrops.WithLabelValues(reason).Inc()
	}
}

func (r *Registry) HabitLogged() {
	if r != nil {
		r.HabitLogs.Inc()
	}
}

func (r *Registry) PrayerCacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.PrayerCacheLookups.WithLabelValues(result).Inc()
}

func (r *Registry) Error(kind string) {
	if r != nil {
		r.ErrorsTotal.WithLabelValues(kind).Inc()
	}
}
