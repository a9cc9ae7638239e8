package cli

import (
	"context"
	"sync"
	"time"

	"github.com/julianstephens/hayati/internal/app"
	"github.com/julianstephens/hayati/internal/config"
	"github.com/julianstephens/hayati/internal/logger"
	"github.com/julianstephens/hayati/internal/notifier"
	"github.com/julianstephens/hayati/internal/storage"
	"github.com/julianstephens/hayati/internal/utils"
)

// Context is passed to every command's Run method.
type Context struct {
	Ctx    context.Context
	Config config.Config
	Store  storage.Provider

	// Senders overrides the notification routes of the built app.
	Senders []notifier.Sender

	mu  sync.Mutex
	app *app.App
}

// App builds the application on first use. The store must already be loaded.
func (c *Context) App() (*app.App, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.app != nil {
		return c.app, nil
	}
	a, err := app.New(c.Background(), app.Options{
		Config:  c.Config,
		Store:   c.Store,
		Senders: c.Senders,
	})
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

// Background returns the command context, cancelled on SIGINT/SIGTERM.
func (c *Context) Background() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// Close stops the app, if one was built, and closes the store.
func (c *Context) Close() error {
	c.mu.Lock()
	if c.app != nil {
		c.app.Stop()
		c.app = nil
	}
	c.mu.Unlock()
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	a, err := c.App()
	if err != nil || a.Backups == nil {
		return
	}
	if _, err := a.Backups.Create(c.Background()); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Check returns a check mark for true and a dash otherwise.
func Check(b bool) string {
	if b {
		return "✓"
	}
	return "-"
}

// Location returns the timezone from settings, falling back to the local zone.
func (c *Context) Location() *time.Location {
	a, err := c.App()
	if err != nil {
		return time.Local
	}
	return utils.MustLocation(a.Settings().Timezone)
}
