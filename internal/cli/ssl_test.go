package cli

import (
	"fmt"
	"testing"

	"github.com/nginxmgr/nginxmgr/internal/errors"
)

func TestRunSSLInstall(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		h, st := setupTest(t)
		sslEmail = ""
		if err := st.Create("example.com", "server {}\n", false); err != nil {
			t.Fatalf("seeding store: %v", err)
		}

		if err := runSSLInstall(nil, []string{"example.com"}); err != nil {
			t.Fatalf("runSSLInstall failed: %v", err)
		}
		if len(h.Issuer.IssueCalls) != 1 || h.Issuer.IssueCalls[0] != "example.com" {
			t.Errorf("unexpected issue calls: %v", h.Issuer.IssueCalls)
		}
		// certbot rewrote the config, nginx must pick it up
		if h.Nginx.ReloadCalls != 1 {
			t.Errorf("expected 1 reload, got %d", h.Nginx.ReloadCalls)
		}
	})

	t.Run("site not found", func(t *testing.T) {
		setupTest(t)
		sslEmail = ""

		err := runSSLInstall(nil, []string{"missing.example.com"})
		if !errors.Is(err, errors.ErrSiteNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("certbot failure", func(t *testing.T) {
		h, st := setupTest(t)
		sslEmail = ""
		h.Issuer.IssueFunc = func(domain string) error {
			return errors.External("certbot failed", fmt.Errorf("exit status 1"), "challenge failed")
		}
		if err := st.Create("example.com", "server {}\n", false); err != nil {
			t.Fatalf("seeding store: %v", err)
		}

		err := runSSLInstall(nil, []string{"example.com"})
		if !errors.Is(err, errors.ErrExternalTool) {
			t.Fatalf("expected external tool error, got %v", err)
		}
	})

	t.Run("requires root", func(t *testing.T) {
		h, _ := setupTest(t)
		sslEmail = ""
		h.SetRootAccess(false)

		if err := runSSLInstall(nil, []string{"example.com"}); err == nil {
			t.Fatal("expected root error")
		}
	})
}

func TestRunSSLRenew(t *testing.T) {
	t.Run("single domain", func(t *testing.T) {
		h, _ := setupTest(t)
		renewAll = false

		if err := runSSLRenew(nil, []string{"example.com"}); err != nil {
			t.Fatalf("runSSLRenew failed: %v", err)
		}
		if len(h.Certs.RenewCalls) != 1 || h.Certs.RenewCalls[0] != "example.com" {
			t.Errorf("unexpected renew calls: %v", h.Certs.RenewCalls)
		}
	})

	t.Run("all", func(t *testing.T) {
		h, _ := setupTest(t)
		renewAll = true
		t.Cleanup(func() { renewAll = false })

		if err := runSSLRenew(nil, nil); err != nil {
			t.Fatalf("runSSLRenew failed: %v", err)
		}
		if h.Certs.AllCalls != 1 {
			t.Errorf("expected 1 RenewAll call, got %d", h.Certs.AllCalls)
		}
	})

	t.Run("no domain and no --all", func(t *testing.T) {
		setupTest(t)
		renewAll = false

		if err := runSSLRenew(nil, nil); !errors.Is(err, errors.ErrInvalidInput) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestRunSSLStatus(t *testing.T) {
	t.Run("with certificates", func(t *testing.T) {
		h, _ := setupTest(t)
		h.Certs.Domains = []string{"example.com", "api.example.com"}

		if err := runSSLStatus(nil, nil); err != nil {
			t.Fatalf("runSSLStatus failed: %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		setupTest(t)

		if err := runSSLStatus(nil, nil); err != nil {
			t.Fatalf("runSSLStatus failed: %v", err)
		}
	})
}
