package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/hayati/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// TraySender delivers notifications to the tray host over its loopback webhook.
// The host advertises itself through a lockfile holding "port|pid|secret".
type TraySender struct {
	identifier string
	client     *http.Client
}

func NewTraySender(identifier string) *TraySender {
	if identifier == "" {
		identifier = constants.TrayAppIdentifier
	}
	return &TraySender{
		identifier: identifier,
		client:     &http.Client{Timeout: constants.NotifierRequestTimeout},
	}
}

func (t *TraySender) Name() string { return "tray" }

func (t *TraySender) Available() bool {
	_, err := t.endpoint()
	return err == nil
}

type trayEndpoint struct {
	port   string
	secret string
}

func (t *TraySender) endpoint() (trayEndpoint, error) {
	dir, err := trayConfigDir(t.identifier)
	if err != nil {
		return trayEndpoint{}, err
	}
	return readLockfile(filepath.Join(dir, constants.NotifierLockfileName))
}

// webhookPayload is the body accepted by the tray host.
type webhookPayload struct {
	Title      string   `json:"title"`
	Text       string   `json:"text"`
	DurationMs uint32   `json:"duration_ms"`
	Sound      bool     `json:"sound"`
	Tag        string   `json:"tag,omitempty"`
	Actions    []Action `json:"actions,omitempty"`
}

func (t *TraySender) Send(ctx context.Context, msg Message) error {
	ep, err := t.endpoint()
	if err != nil {
		return err
	}
	return post(ctx, t.client, ep, webhookPayload{
		Title:      msg.Title,
		Text:       msg.Body,
		DurationMs: msg.DurationMs,
		Sound:      msg.Sound,
		Tag:        msg.Tag,
		Actions:    msg.Actions,
	})
}

// trayConfigDir returns the tray host's config directory, honouring a custom
// lockfile_dir from its settings.json.
func trayConfigDir(identifier string) (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	dir := filepath.Join(configDir, identifier)

	raw, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		return dir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(raw, &store); err == nil && store.Settings.LockfileDir != "" {
		return store.Settings.LockfileDir, nil
	}
	return dir, nil
}

func readLockfile(path string) (trayEndpoint, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return trayEndpoint{}, errors.New("hayati-tray is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return trayEndpoint{}, errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return trayEndpoint{}, errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return trayEndpoint{}, fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return trayEndpoint{}, errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return trayEndpoint{}, errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return trayEndpoint{}, errors.New("hayati-tray process not running")
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return trayEndpoint{}, fmt.Errorf("process with PID %d is not hayati-tray (is %s)", pid, process.Executable())
	}

	return trayEndpoint{port: port, secret: secret}, nil
}

func post(ctx context.Context, client *http.Client, ep trayEndpoint, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://127.0.0.1:"+ep.port, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(constants.NotifierSecretHeader, ep.secret)

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(msg)))
}
