package notifier

import (
	"context"
	"os"
	"runtime"

	"github.com/gen2brain/beeep"
)

var (
	desktopNotify = func(title, body string) error {
		return beeep.Notify(title, body, "")
	}
	desktopBeep = func() error {
		return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
	}
	getenv = os.Getenv
)

// DesktopSender shows an OS-native notification when no tray host is running.
type DesktopSender struct{}

func (DesktopSender) Name() string { return "desktop" }

// Available reports false on Linux sessions without a display or session bus.
func (DesktopSender) Available() bool {
	if runtime.GOOS != "linux" {
		return true
	}
	return getenv("DISPLAY") != "" || getenv("WAYLAND_DISPLAY") != "" || getenv("DBUS_SESSION_BUS_ADDRESS") != ""
}

func (DesktopSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := desktopNotify(msg.Title, msg.Body); err != nil {
		return err
	}
	if msg.Sound {
		// A failed beep does not undo a shown notification.
		_ = desktopBeep()
	}
	return nil
}
