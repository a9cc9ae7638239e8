// Package notifier shows user notifications through the tray host when it is
// running and through the OS notification service otherwise.
package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/julianstephens/hayati/internal/constants"
	apperrors "github.com/julianstephens/hayati/internal/errors"
	"github.com/julianstephens/hayati/internal/logger"
	"github.com/julianstephens/hayati/internal/metrics"
	"github.com/julianstephens/hayati/internal/models"
)

type Permission string

const (
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Action is a button offered on the notification. The host reports the chosen
// action back through the API.
type Action struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Options struct {
	Title    string                      `json:"title"`
	Body     string                      `json:"body"`
	Category models.NotificationCategory `json:"category,omitempty"`
	Actions  []Action                    `json:"actions,omitempty"`
	// Tag identifies the subject of the notification, e.g. "task:<id>".
	Tag string `json:"tag,omitempty"`
}

// Notification describes a notification that was handed to a route.
type Notification struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Category   string    `json:"category,omitempty"`
	Route      string    `json:"route"`
	Persistent bool      `json:"persistent"`
	DurationMs uint32    `json:"duration_ms"`
	ShownAt    time.Time `json:"shown_at"`
}

// Message is what a Sender delivers.
type Message struct {
	Title      string
	Body       string
	DurationMs uint32
	Sound      bool
	Tag        string
	Actions    []Action
}

type Sender interface {
	Name() string
	Available() bool
	Send(ctx context.Context, msg Message) error
}

type SettingsSource interface {
	Settings() models.Settings
}

type Notifier struct {
	settings SettingsSource
	senders  []Sender
	limiter  *rate.Limiter
	metrics  *metrics.Registry
	now      func() time.Time
	log      *log.Logger
}

type Option func(*Notifier)

// WithSenders replaces the default routes. Senders are tried in order.
func WithSenders(senders ...Sender) Option {
	return func(n *Notifier) { n.senders = senders }
}

// WithRateLimit allows perMinute notifications per minute with bursts of the same size.
// A value <= 0 disables limiting.
func WithRateLimit(perMinute int) Option {
	return func(n *Notifier) {
		if perMinute <= 0 {
			n.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		n.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
}

func WithMetrics(m *metrics.Registry) Option {
	return func(n *Notifier) { n.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

// New returns a notifier routing to the tray host first and the desktop second.
func New(settings SettingsSource, opts ...Option) *Notifier {
	n := &Notifier{
		settings: settings,
		senders:  []Sender{NewTraySender(constants.TrayAppIdentifier), DesktopSender{}},
		now:      time.Now,
		log:      logger.With("component", "notifier"),
	}
	WithRateLimit(constants.DefaultNotifyRatePerMin)(n)
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Show displays a notification. It returns nil, nil when notifications are
// turned off for the category or the burst limit drops it, and a
// PermissionError when no route can deliver it.
func (n *Notifier) Show(ctx context.Context, opts Options) (*Notification, error) {
	if opts.Title == "" {
		return nil, apperrors.Validation("notification title is required")
	}

	s := n.settings.Settings()
	if !s.Notifications || !s.Desktop {
		return nil, nil
	}
	if opts.Category != "" && !s.CategoryEnabled(opts.Category) {
		return nil, nil
	}

	if !n.limiter.Allow() {
		n.log.Warn("Notification dropped by rate limit", "title", opts.Title, "category", opts.Category)
		n.metrics.NotificationDropped("rate_limit")
		return nil, nil
	}

	msg := Message{
		Title:   opts.Title,
		Body:    opts.Body,
		Sound:   s.Sound,
		Tag:     opts.Tag,
		Actions: opts.Actions,
	}
	if !s.Persistent {
		msg.DurationMs = constants.NotificationDurationMs
	}

	var errs []error
	for _, sender := range n.senders {
		if !sender.Available() {
			continue
		}
		if err := sender.Send(ctx, msg); err != nil {
			n.log.Debug("Notification route failed", "route", sender.Name(), "error", err)
			errs = append(errs, err)
			continue
		}
		n.metrics.NotificationShown(sender.Name(), string(opts.Category))
		return &Notification{
			ID:         uuid.New().String(),
			Title:      opts.Title,
			Body:       opts.Body,
			Category:   string(opts.Category),
			Route:      sender.Name(),
			Persistent: s.Persistent,
			DurationMs: msg.DurationMs,
			ShownAt:    n.now(),
		}, nil
	}

	n.metrics.NotificationDropped("no_route")
	if len(errs) == 0 {
		return nil, apperrors.Permission("no notification route is available")
	}
	return nil, apperrors.Permission("notification could not be delivered: %v", errors.Join(errs...))
}

// CheckPermission reports granted when at least one route is available.
func (n *Notifier) CheckPermission() Permission {
	for _, sender := range n.senders {
		if sender.Available() {
			return PermissionGranted
		}
	}
	return PermissionDenied
}
