package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLog(t *testing.T, h *TestHelper, name string) string {
	t.Helper()
	path := filepath.Join(h.Settings.Settings.Paths.Logs, name)
	if err := os.WriteFile(path, []byte("log line\n"), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func resetLogsFlags() {
	logsAccess = false
	logsError = false
	logsFollow = false
	logsLines = 20
}

func TestRunLogs(t *testing.T) {
	t.Run("tails both logs", func(t *testing.T) {
		h, _ := setupTest(t)
		resetLogsFlags()
		access := writeLog(t, h, "example.com.access.log")
		errLog := writeLog(t, h, "example.com.error.log")

		if err := runLogs(nil, []string{"example.com"}); err != nil {
			t.Fatalf("runLogs failed: %v", err)
		}
		if len(h.Runner.Calls) != 1 {
			t.Fatalf("expected 1 tail invocation, got %d", len(h.Runner.Calls))
		}
		call := h.Runner.Calls[0]
		if call[0] != "/usr/bin/tail" {
			t.Errorf("wrong command: %v", call)
		}
		joined := ""
		for _, a := range call {
			joined += a + " "
		}
		for _, want := range []string{"-n", "20", access, errLog} {
			found := false
			for _, a := range call {
				if a == want {
					found = true
				}
			}
			if !found {
				t.Errorf("args missing %q: %s", want, joined)
			}
		}
	})

	t.Run("access only", func(t *testing.T) {
		h, _ := setupTest(t)
		resetLogsFlags()
		logsAccess = true
		access := writeLog(t, h, "example.com.access.log")
		errLog := writeLog(t, h, "example.com.error.log")

		if err := runLogs(nil, []string{"example.com"}); err != nil {
			t.Fatalf("runLogs failed: %v", err)
		}
		call := h.Runner.Calls[0]
		for _, a := range call {
			if a == errLog {
				t.Errorf("error log must not be tailed: %v", call)
			}
		}
		found := false
		for _, a := range call {
			if a == access {
				found = true
			}
		}
		if !found {
			t.Errorf("access log missing: %v", call)
		}
	})

	t.Run("follow flag", func(t *testing.T) {
		h, _ := setupTest(t)
		resetLogsFlags()
		logsFollow = true
		writeLog(t, h, "example.com.access.log")
		writeLog(t, h, "example.com.error.log")

		if err := runLogs(nil, []string{"example.com"}); err != nil {
			t.Fatalf("runLogs failed: %v", err)
		}
		call := h.Runner.Calls[0]
		if call[1] != "-f" {
			t.Errorf("expected -f, got %v", call)
		}
	})

	t.Run("no logs", func(t *testing.T) {
		h, _ := setupTest(t)
		resetLogsFlags()

		if err := runLogs(nil, []string{"example.com"}); err == nil {
			t.Fatal("expected error when no log files exist")
		}
		if len(h.Runner.Calls) != 0 {
			t.Error("tail must not run without log files")
		}
	})
}
