package lifecycle

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/nginxmgr/nginxmgr/internal/certbot"
	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/nginx"
	"github.com/nginxmgr/nginxmgr/internal/site"
	"github.com/nginxmgr/nginxmgr/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	st := store.New(filepath.Join(dir, "sites-available"), filepath.Join(dir, "sites-enabled"))
	if err := st.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs failed: %v", err)
	}
	return st
}

func proxySite(ssl bool) *site.Site {
	return &site.Site{
		Domain:    "example.com",
		Port:      80,
		Mode:      site.ModeProxy,
		ProxyPass: "http://127.0.0.1:3000",
		ProxyPath: "/",
		SSL:       ssl,
	}
}

func TestDeploy(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		st := testStore(t)
		ctrl := &nginx.MockController{}
		d := New(st, ctrl, nil)

		res, err := d.Deploy(proxySite(false), "server {}\n", false)
		if err != nil {
			t.Fatalf("Deploy failed: %v", err)
		}
		if res.State != StateActive {
			t.Errorf("expected state %s, got %s", StateActive, res.State)
		}
		if !st.Exists("example.com") {
			t.Error("config file not written")
		}
		enabled, _ := st.IsEnabled("example.com")
		if !enabled {
			t.Error("site not enabled")
		}
		if ctrl.TestCalls != 1 || ctrl.ReloadCalls != 1 {
			t.Errorf("expected 1 test and 1 reload, got %d/%d", ctrl.TestCalls, ctrl.ReloadCalls)
		}
	})

	t.Run("syntax failure rolls back fresh site", func(t *testing.T) {
		st := testStore(t)
		ctrl := &nginx.MockController{
			TestFunc: func() error {
				return errors.External("nginx config test failed", fmt.Errorf("exit status 1"), "unknown directive \"servr\"")
			},
		}
		d := New(st, ctrl, nil)

		res, err := d.Deploy(proxySite(false), "servr {}\n", false)
		if err == nil {
			t.Fatal("expected error")
		}
		if res.State != StateRolledBack {
			t.Errorf("expected state %s, got %s", StateRolledBack, res.State)
		}
		if st.Exists("example.com") {
			t.Error("config file left behind after rollback")
		}
		if enabled, _ := st.IsEnabled("example.com"); enabled {
			t.Error("symlink left behind after rollback")
		}
		if out := errors.CommandOutput(err); out == "" {
			t.Error("nginx output not surfaced")
		}
		if ctrl.ReloadCalls != 0 {
			t.Error("nginx must not be reloaded after a failed test")
		}
	})

	t.Run("syntax failure restores overwritten config", func(t *testing.T) {
		st := testStore(t)
		prior := "server { listen 80; }\n"
		if err := st.Create("example.com", prior, false); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
		if err := st.Enable("example.com"); err != nil {
			t.Fatalf("seeding store: %v", err)
		}

		ctrl := &nginx.MockController{
			TestFunc: func() error { return fmt.Errorf("test failed") },
		}
		d := New(st, ctrl, nil)

		res, err := d.Deploy(proxySite(false), "broken\n", true)
		if err == nil {
			t.Fatal("expected error")
		}
		if res.State != StateRolledBack {
			t.Errorf("expected state %s, got %s", StateRolledBack, res.State)
		}
		got, err := st.Read("example.com")
		if err != nil {
			t.Fatalf("reading restored config: %v", err)
		}
		if got != prior {
			t.Errorf("previous config not restored:\n%s", got)
		}
		if enabled, _ := st.IsEnabled("example.com"); !enabled {
			t.Error("previously enabled site left disabled")
		}
	})

	t.Run("syntax failure keeps overwritten site disabled", func(t *testing.T) {
		st := testStore(t)
		prior := "server { listen 80; }\n"
		if err := st.Create("example.com", prior, false); err != nil {
			t.Fatalf("seeding store: %v", err)
		}

		ctrl := &nginx.MockController{
			TestFunc: func() error { return fmt.Errorf("test failed") },
		}
		d := New(st, ctrl, nil)

		if _, err := d.Deploy(proxySite(false), "broken\n", true); err == nil {
			t.Fatal("expected error")
		}
		got, err := st.Read("example.com")
		if err != nil {
			t.Fatalf("reading restored config: %v", err)
		}
		if got != prior {
			t.Errorf("previous config not restored:\n%s", got)
		}
		if enabled, _ := st.IsEnabled("example.com"); enabled {
			t.Error("previously disabled site left enabled after rollback")
		}
	})

	t.Run("conflict without overwrite", func(t *testing.T) {
		st := testStore(t)
		if err := st.Create("example.com", "old\n", false); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
		d := New(st, &nginx.MockController{}, nil)

		_, err := d.Deploy(proxySite(false), "new\n", false)
		if !errors.Is(err, errors.ErrSiteExists) {
			t.Fatalf("expected conflict, got %v", err)
		}
		got, _ := st.Read("example.com")
		if got != "old\n" {
			t.Errorf("existing config modified: %q", got)
		}
	})

	t.Run("certificate success", func(t *testing.T) {
		st := testStore(t)
		ctrl := &nginx.MockController{}
		issuer := &certbot.MockIssuer{}
		d := New(st, ctrl, issuer)

		res, err := d.Deploy(proxySite(true), "server {}\n", false)
		if err != nil {
			t.Fatalf("Deploy failed: %v", err)
		}
		if res.State != StateSSLActive {
			t.Errorf("expected state %s, got %s", StateSSLActive, res.State)
		}
		if len(issuer.IssueCalls) != 1 || issuer.IssueCalls[0] != "example.com" {
			t.Errorf("unexpected issue calls: %v", issuer.IssueCalls)
		}
		// one reload for the HTTP site, one after certbot rewrote it
		if ctrl.ReloadCalls != 2 {
			t.Errorf("expected 2 reloads, got %d", ctrl.ReloadCalls)
		}
	})

	t.Run("certificate failure keeps site active", func(t *testing.T) {
		st := testStore(t)
		ctrl := &nginx.MockController{}
		issuer := &certbot.MockIssuer{
			IssueFunc: func(domain string) error { return fmt.Errorf("challenge failed") },
		}
		d := New(st, ctrl, issuer)

		res, err := d.Deploy(proxySite(true), "server {}\n", false)
		if err != nil {
			t.Fatalf("certificate failure must not fail the deploy: %v", err)
		}
		if res.State != StateSSLFailed {
			t.Errorf("expected state %s, got %s", StateSSLFailed, res.State)
		}
		if res.SSLErr == nil {
			t.Error("certificate error not reported")
		}
		if !st.Exists("example.com") {
			t.Error("HTTP site must survive a certificate failure")
		}
		if enabled, _ := st.IsEnabled("example.com"); !enabled {
			t.Error("HTTP site must stay enabled after a certificate failure")
		}
	})
}

func TestRemove(t *testing.T) {
	t.Run("enabled site", func(t *testing.T) {
		st := testStore(t)
		ctrl := &nginx.MockController{}
		d := New(st, ctrl, nil)

		if _, err := d.Deploy(proxySite(false), "server {}\n", false); err != nil {
			t.Fatalf("Deploy failed: %v", err)
		}
		if err := d.Remove("example.com"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if st.Exists("example.com") {
			t.Error("config file not deleted")
		}
		if _, err := os.Lstat(filepath.Join(st.Enabled(), "example.com")); !os.IsNotExist(err) {
			t.Error("symlink not removed")
		}
	})

	t.Run("disabled site skips reload", func(t *testing.T) {
		st := testStore(t)
		if err := st.Create("example.com", "server {}\n", false); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
		ctrl := &nginx.MockController{}
		d := New(st, ctrl, nil)

		if err := d.Remove("example.com"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if ctrl.ReloadCalls != 0 {
			t.Errorf("expected no reload for a disabled site, got %d", ctrl.ReloadCalls)
		}
	})

	t.Run("not found", func(t *testing.T) {
		st := testStore(t)
		d := New(st, &nginx.MockController{}, nil)

		err := d.Remove("missing.com")
		if !errors.Is(err, errors.ErrSiteNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("merged layout has no symlink to unlink", func(t *testing.T) {
		confd := filepath.Join(t.TempDir(), "conf.d")
		st := store.New(confd, confd)
		ctrl := &nginx.MockController{}
		d := New(st, ctrl, nil)

		if _, err := d.Deploy(proxySite(false), "server {}\n", false); err != nil {
			t.Fatalf("Deploy failed: %v", err)
		}
		if err := d.Remove("example.com"); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		if st.Exists("example.com") {
			t.Error("config file not deleted")
		}
		if ctrl.ReloadCalls != 2 {
			t.Errorf("expected a reload for the deploy and one for the remove, got %d", ctrl.ReloadCalls)
		}
	})
}

func TestEnableDisable(t *testing.T) {
	st := testStore(t)
	ctrl := &nginx.MockController{}
	d := New(st, ctrl, nil)

	if err := st.Create("example.com", "server {}\n", false); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	if err := d.Enable("example.com"); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if enabled, _ := st.IsEnabled("example.com"); !enabled {
		t.Error("site not enabled")
	}

	if err := d.Disable("example.com"); err != nil {
		t.Fatalf("Disable failed: %v", err)
	}
	if enabled, _ := st.IsEnabled("example.com"); enabled {
		t.Error("site still enabled")
	}
}

func TestEnableTestFailure(t *testing.T) {
	st := testStore(t)
	ctrl := &nginx.MockController{
		TestFunc: func() error { return fmt.Errorf("test failed") },
	}
	d := New(st, ctrl, nil)

	if err := st.Create("example.com", "broken\n", false); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	if err := d.Enable("example.com"); err == nil {
		t.Fatal("expected error")
	}
	if enabled, _ := st.IsEnabled("example.com"); enabled {
		t.Error("failing config left enabled")
	}
	if ctrl.ReloadCalls != 0 {
		t.Error("nginx must not be reloaded after a failed test")
	}
}

func TestEnableSSLNotFound(t *testing.T) {
	st := testStore(t)
	d := New(st, &nginx.MockController{}, &certbot.MockIssuer{})

	err := d.EnableSSL("missing.com")
	if !errors.Is(err, errors.ErrSiteNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
