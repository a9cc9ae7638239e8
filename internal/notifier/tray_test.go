package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/hayati/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func stubConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) { return dir, nil }
	return dir
}

func TestTrayConfigDir(t *testing.T) {
	base := stubConfigDir(t)

	want := filepath.Join(base, constants.TrayAppIdentifier)
	dir, err := trayConfigDir(constants.TrayAppIdentifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != want {
		t.Errorf("expected %s, got %s", want, dir)
	}

	if err := os.MkdirAll(want, 0755); err != nil {
		t.Fatal(err)
	}
	custom := "/custom/hayati/dir"
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, custom)
	if err := os.WriteFile(filepath.Join(want, "settings.json"), []byte(settings), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = trayConfigDir(constants.TrayAppIdentifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != custom {
		t.Errorf("expected %s, got %s", custom, dir)
	}
}

func TestReadLockfile(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		executable string
		wantErr    string
	}{
		{"two part format", "8080|12345", "hayati-tray", "malformed"},
		{"garbage", "invalid", "hayati-tray", "malformed"},
		{"empty secret", "8080|12345|", "hayati-tray", "secret"},
		{"empty port", "|12345|s3cret", "hayati-tray", "port"},
		{"port out of range", "99999|12345|s3cret", "hayati-tray", "range"},
		{"bad pid", "8080|abc|s3cret", "hayati-tray", "process ID"},
		{"process not running", "8080|12345|s3cret", "", "not running"},
		{"wrong executable", "8080|12345|s3cret", "other-app", "not hayati-tray"},
		{"valid", "8080|12345|s3cret\n", "hayati-tray", ""},
		{"valid with suffix", "8080|12345|s3cret", "hayati-tray.exe", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubProcess(t, tt.executable)
			path := filepath.Join(t.TempDir(), constants.NotifierLockfileName)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			ep, err := readLockfile(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ep.port != "8080" || ep.secret != "s3cret" {
				t.Errorf("got %+v", ep)
			}
		})
	}

	if _, err := readLockfile(filepath.Join(t.TempDir(), "missing.lock")); err == nil {
		t.Error("expected error for missing lockfile")
	}
}

func TestTraySenderSend(t *testing.T) {
	var received webhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get(constants.NotifierSecretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Unauthorized"))
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if received.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	parts := strings.Split(server.URL, ":")
	port := parts[len(parts)-1]

	base := stubConfigDir(t)
	stubProcess(t, "hayati-tray")
	identifier := "test.tray"
	dir := filepath.Join(base, identifier)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	writeLock := func(secret string) {
		t.Helper()
		content := port + "|4242|" + secret
		if err := os.WriteFile(filepath.Join(dir, constants.NotifierLockfileName), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	sender := NewTraySender(identifier)
	if sender.Available() {
		t.Fatal("expected tray to be unavailable without a lockfile")
	}

	writeLock("test-secret")
	if !sender.Available() {
		t.Fatal("expected tray to be available")
	}

	msg := Message{
		Title:      "Prayer",
		Body:       "hello",
		DurationMs: 5000,
		Sound:      true,
		Actions:    []Action{{ID: "logged", Label: "Logged"}},
	}
	if err := sender.Send(context.Background(), msg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received.Title != "Prayer" || received.Text != "hello" || received.DurationMs != 5000 || len(received.Actions) != 1 {
		t.Errorf("unexpected payload %+v", received)
	}

	if err := sender.Send(context.Background(), Message{Title: "x", Body: "fail"}); err == nil {
		t.Error("expected error for server failure")
	}

	writeLock("wrong-secret")
	err := sender.Send(context.Background(), Message{Title: "x", Body: "hello"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}
