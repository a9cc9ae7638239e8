package system

import (
	"fmt"

	"github.com/julianstephens/hayati/internal/cli"
	"github.com/julianstephens/hayati/internal/models"
	"github.com/julianstephens/hayati/internal/notifier"
)

// NotifyCmd sends a one-off notification to check that a route works.
type NotifyCmd struct {
	Title    string `help:"Notification title." default:"hayati"`
	Body     string `help:"Notification body." default:"Notifications are working."`
	Category string `help:"Category used for the settings check (tasks, habits, prayers, system)." default:"system" enum:"tasks,habits,prayers,system"`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	n, err := a.Notifier.Show(ctx.Background(), notifier.Options{
		Title:    c.Title,
		Body:     c.Body,
		Category: models.NotificationCategory(c.Category),
		Tag:      "test",
	})
	if err != nil {
		return err
	}
	if n == nil {
		fmt.Println("⚠ Notification not shown (disabled in settings or rate limited)")
		return nil
	}
	fmt.Printf("✓ Notification shown via %s (id %s)\n", n.Route, n.ID)
	return nil
}
