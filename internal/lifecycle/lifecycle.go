// Package lifecycle drives a site config through write, enable, syntax
// test, reload, and optional certificate issuance, rolling the filesystem
// back to its prior state when the syntax test fails.
package lifecycle

import (
	"github.com/nginxmgr/nginxmgr/internal/certbot"
	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/logger"
	"github.com/nginxmgr/nginxmgr/internal/nginx"
	"github.com/nginxmgr/nginxmgr/internal/site"
	"github.com/nginxmgr/nginxmgr/internal/store"
)

// State names the stages a deployment passes through.
type State string

const (
	StateDrafted     State = "drafted"      // config rendered, nothing on disk
	StateWritten     State = "written"      // file created and enabled
	StateTestPending State = "test_pending" // nginx -t running
	StateActive      State = "active"       // nginx reloaded, site serving
	StateRolledBack  State = "rolled_back"  // syntax test failed, prior state restored
	StateSSLPending  State = "ssl_pending"  // certbot running
	StateSSLActive   State = "ssl_active"   // certificate issued and installed
	StateSSLFailed   State = "ssl_failed"   // certbot failed, site still serving HTTP
)

// Result reports how far a deployment got.
type Result struct {
	Domain string `json:"domain"`
	State  State  `json:"state"`
	// SSLErr holds the certificate failure when State is StateSSLFailed.
	// Certificate failure does not undo the HTTP deployment.
	SSLErr error `json:"-"`
}

// Deployer composes the store, the nginx controller, and the certificate
// issuer into whole-site operations.
type Deployer struct {
	store  *store.Store
	nginx  nginx.Controller
	issuer certbot.Issuer
}

// New creates a Deployer. issuer may be nil when TLS is never requested.
func New(st *store.Store, ctrl nginx.Controller, issuer certbot.Issuer) *Deployer {
	return &Deployer{store: st, nginx: ctrl, issuer: issuer}
}

// Deploy writes the rendered config for s, enables it, and validates it
// with nginx before reloading. On syntax failure the filesystem is
// restored to its pre-deploy state: a fresh site is disabled and deleted,
// an overwrite gets its previous bytes and enabled state back. When s.SSL
// is set the
// certificate is requested after the HTTP site is serving; certbot
// failure is reported in the result but leaves the site active.
func (d *Deployer) Deploy(s *site.Site, rendered string, overwrite bool) (*Result, error) {
	res := &Result{Domain: s.Domain, State: StateDrafted}

	if err := d.store.EnsureDirs(); err != nil {
		return res, err
	}

	// Keep the previous config and enabled state so a failed overwrite
	// can be undone.
	var prior string
	var hadPrior, priorEnabled bool
	if overwrite && d.store.Exists(s.Domain) {
		text, err := d.store.Read(s.Domain)
		if err != nil {
			return res, err
		}
		prior = text
		hadPrior = true
		priorEnabled, err = d.store.IsEnabled(s.Domain)
		if err != nil {
			return res, err
		}
	}

	if err := d.store.Create(s.Domain, rendered, overwrite); err != nil {
		return res, err
	}
	if err := d.store.Enable(s.Domain); err != nil {
		d.undo(s.Domain, prior, hadPrior, priorEnabled)
		return res, err
	}
	res.State = StateWritten
	logger.Info("wrote and enabled %s", s.Domain)

	res.State = StateTestPending
	if err := d.nginx.Test(); err != nil {
		logger.Warn("config test failed for %s, rolling back", s.Domain)
		d.undo(s.Domain, prior, hadPrior, priorEnabled)
		res.State = StateRolledBack
		return res, err
	}

	if err := d.nginx.Reload(); err != nil {
		d.undo(s.Domain, prior, hadPrior, priorEnabled)
		res.State = StateRolledBack
		return res, err
	}
	res.State = StateActive
	logger.Info("site %s is active", s.Domain)

	if !s.SSL {
		return res, nil
	}

	res.State = StateSSLPending
	if err := d.issueCert(s.Domain); err != nil {
		logger.Warn("certificate request for %s failed, site stays on HTTP", s.Domain)
		res.State = StateSSLFailed
		res.SSLErr = err
		return res, nil
	}
	res.State = StateSSLActive
	logger.Info("certificate installed for %s", s.Domain)
	return res, nil
}

// EnableSSL requests a certificate for an already-active site and reloads
// nginx so the rewritten config takes effect.
func (d *Deployer) EnableSSL(domain string) error {
	if !d.store.Exists(domain) {
		return errors.NotFound(domain)
	}
	return d.issueCert(domain)
}

func (d *Deployer) issueCert(domain string) error {
	if d.issuer == nil {
		return errors.Wrap(errors.ErrCodeExternal, "no certificate tool configured", nil)
	}
	if err := d.issuer.Issue(domain); err != nil {
		return err
	}
	// The nginx plugin rewrote the config file; pick up the new listener.
	return d.nginx.Reload()
}

// Remove disables a site, deletes its config file, and reloads nginx so
// traffic stops. A site that was never enabled is just deleted without a
// reload. On a merged layout deleting the file is what disables it.
func (d *Deployer) Remove(domain string) error {
	if !d.store.Exists(domain) {
		return errors.NotFound(domain)
	}

	enabled, err := d.store.IsEnabled(domain)
	if err != nil {
		return err
	}
	if enabled && !d.store.Merged() {
		if err := d.store.Disable(domain); err != nil {
			return err
		}
	}
	if err := d.store.Delete(domain); err != nil {
		return err
	}
	if enabled {
		if err := d.nginx.Reload(); err != nil {
			return err
		}
	}
	logger.Info("removed site %s", domain)
	return nil
}

// Enable links a site into the enabled directory and reloads nginx.
func (d *Deployer) Enable(domain string) error {
	if err := d.store.Enable(domain); err != nil {
		return err
	}
	if err := d.nginx.Test(); err != nil {
		// A bad config must not be left enabled.
		if !d.store.Merged() {
			_ = d.store.Disable(domain)
		}
		return err
	}
	return d.nginx.Reload()
}

// Disable unlinks a site from the enabled directory and reloads nginx.
// The config file is kept.
func (d *Deployer) Disable(domain string) error {
	if err := d.store.Disable(domain); err != nil {
		return err
	}
	return d.nginx.Reload()
}

// undo restores the filesystem to its state before Deploy touched it.
// An overwritten site gets its previous bytes back and is re-enabled only
// when it was enabled before the deploy.
func (d *Deployer) undo(domain, prior string, hadPrior, priorEnabled bool) {
	if hadPrior {
		if !d.store.Merged() {
			_ = d.store.Disable(domain)
		}
		if err := d.store.Create(domain, prior, true); err != nil {
			logger.Error("restoring previous config for %s: %v", domain, err)
		}
		if priorEnabled {
			if err := d.store.Enable(domain); err != nil {
				logger.Error("re-enabling %s: %v", domain, err)
			}
		}
		return
	}
	if err := d.store.Delete(domain); err != nil {
		logger.Error("cleaning up %s: %v", domain, err)
	}
}
