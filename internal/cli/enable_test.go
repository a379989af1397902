package cli

import (
	"fmt"
	"testing"

	"github.com/nginxmgr/nginxmgr/internal/errors"
)

func TestRunEnable(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, st := setupTest(t)
		noReload = false
		if err := st.Create("example.com", "server {}\n", false); err != nil {
			t.Fatalf("seeding store: %v", err)
		}

		if err := runEnable(nil, []string{"example.com"}); err != nil {
			t.Fatalf("runEnable failed: %v", err)
		}
		if enabled, _ := st.IsEnabled("example.com"); !enabled {
			t.Error("site not enabled")
		}
		if h.Nginx.TestCalls != 1 || h.Nginx.ReloadCalls != 1 {
			t.Errorf("expected 1 test and 1 reload, got %d/%d", h.Nginx.TestCalls, h.Nginx.ReloadCalls)
		}
	})

	t.Run("test failure disables again", func(t *testing.T) {
		h, st := setupTest(t)
		noReload = false
		h.Nginx.TestFunc = func() error { return fmt.Errorf("test failed") }
		if err := st.Create("example.com", "broken\n", false); err != nil {
			t.Fatalf("seeding store: %v", err)
		}

		if err := runEnable(nil, []string{"example.com"}); err == nil {
			t.Fatal("expected error")
		}
		if enabled, _ := st.IsEnabled("example.com"); enabled {
			t.Error("failing config left enabled")
		}
	})

	t.Run("not found", func(t *testing.T) {
		setupTest(t)
		noReload = false

		err := runEnable(nil, []string{"missing.example.com"})
		if !errors.Is(err, errors.ErrSiteNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("no-reload only links", func(t *testing.T) {
		h, st := setupTest(t)
		noReload = true
		t.Cleanup(func() { noReload = false })
		if err := st.Create("example.com", "server {}\n", false); err != nil {
			t.Fatalf("seeding store: %v", err)
		}

		if err := runEnable(nil, []string{"example.com"}); err != nil {
			t.Fatalf("runEnable failed: %v", err)
		}
		if h.Nginx.TestCalls != 0 || h.Nginx.ReloadCalls != 0 {
			t.Error("no-reload must not run nginx")
		}
	})
}

func TestRunDisable(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, st := setupTest(t)
		noReload = false
		if err := st.Create("example.com", "server {}\n", false); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
		if err := st.Enable("example.com"); err != nil {
			t.Fatalf("seeding store: %v", err)
		}

		if err := runDisable(nil, []string{"example.com"}); err != nil {
			t.Fatalf("runDisable failed: %v", err)
		}
		if enabled, _ := st.IsEnabled("example.com"); enabled {
			t.Error("site still enabled")
		}
		if h.Nginx.ReloadCalls != 1 {
			t.Errorf("expected 1 reload, got %d", h.Nginx.ReloadCalls)
		}
		if !st.Exists("example.com") {
			t.Error("disable must keep the config file")
		}
	})

	t.Run("not enabled", func(t *testing.T) {
		_, st := setupTest(t)
		noReload = false
		if err := st.Create("example.com", "server {}\n", false); err != nil {
			t.Fatalf("seeding store: %v", err)
		}

		err := runDisable(nil, []string{"example.com"})
		if !errors.Is(err, errors.ErrSiteNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}
