package system

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/hayati/internal/api"
	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/constants"
	"github.com/julianstephens/hayati/internal/logger"
)

// ServeCmd runs the scheduler and the HTTP API until interrupted.
type ServeCmd struct {
	Addr   string        `help:"Listen address (overrides api.addr)."`
	Resync time.Duration `help:"How often to pick up changes made by other processes." default:"5m"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	if err := a.Start(ctx.Background()); err != nil {
		return err
	}
	defer a.Stop()

	cfg := ctx.Config.API
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if cfg.Addr == "" {
		cfg.Addr = constants.DefaultAPIAddr
	}

	runCtx, cancel := context.WithCancel(ctx.Background())
	defer cancel()
	if c.Resync > 0 {
		// Runs before the deferred Stop, so no resync outlives the app.
		defer startResync(runCtx, c.Resync, a)()
	}

	fmt.Printf("✓ hayati %s serving on http://%s\n", constants.Version, cfg.Addr)
	if err := api.NewServer(a, cfg).Run(runCtx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	fmt.Println("Shutting down.")
	return nil
}

type resyncer interface {
	Resync(ctx context.Context) error
}

// startResync resyncs r every interval until the returned stop function is
// called. stop waits for an in-flight resync to finish.
func startResync(ctx context.Context, every time.Duration, r resyncer) (stop func()) {
	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				if err := r.Resync(loopCtx); err != nil {
					logger.Warn("Resync failed", "error", err)
				}
			}
		}
	}()
	return func() {
		cancel()
		wg.Wait()
	}
}
