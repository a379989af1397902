// Package certbot wraps the certbot binary. The nginx plugin rewrites a
// site's config file in place to add the TLS listener, certificate paths,
// and the HTTP to HTTPS redirect; this tool never authors TLS directives
// itself.
package certbot

import (
	"path/filepath"
	"strings"

	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/executor"
	"github.com/nginxmgr/nginxmgr/internal/logger"
)

// Issuer is the certificate-tool interface the lifecycle consumes.
type Issuer interface {
	// Issue obtains a certificate for domain and rewrites its nginx
	// config in place
	Issue(domain string) error
}

// Cert holds the filesystem paths of an issued certificate.
type Cert struct {
	Domain   string
	CertPath string
	KeyPath  string
}

// letsencryptDir is the base directory for Let's Encrypt certificates.
const letsencryptDir = "/etc/letsencrypt/live"

// Client is the exec-backed Issuer.
type Client struct {
	exec  executor.CommandExecutor
	email string
}

// NewClient creates a Client using the system executor. The e-mail is
// passed to Let's Encrypt registration; it may be empty, in which case
// certbot registers without one.
func NewClient(email string) *Client {
	return &Client{exec: executor.NewSystemExecutor(), email: email}
}

// NewClientWithExecutor creates a Client with a custom executor (for testing).
func NewClientWithExecutor(email string, exec executor.CommandExecutor) *Client {
	return &Client{exec: exec, email: email}
}

// IsInstalled checks if certbot is in PATH.
func (c *Client) IsInstalled() bool {
	_, err := c.exec.LookPath("certbot")
	return err == nil
}

// run executes certbot with the given arguments.
func (c *Client) run(args []string) error {
	if !c.IsInstalled() {
		return errors.Wrap(errors.ErrCodeExternal, "certbot is not installed, install it with: apt install certbot python3-certbot-nginx", nil)
	}

	logger.Debug("running certbot %s", strings.Join(args, " "))
	output, err := c.exec.Execute("certbot", args...)
	if err != nil {
		return errors.External("certbot failed", err, string(output))
	}
	return nil
}

// Paths returns the conventional certificate paths for a domain.
func Paths(domain string) *Cert {
	return &Cert{
		Domain:   domain,
		CertPath: filepath.Join(letsencryptDir, domain, "fullchain.pem"),
		KeyPath:  filepath.Join(letsencryptDir, domain, "privkey.pem"),
	}
}

// Issue obtains a certificate via the certbot nginx plugin, which
// rewrites the site's config in place and installs the redirect.
func (c *Client) Issue(domain string) error {
	args := []string{
		"--nginx",
		"-d", domain,
		"--agree-tos",
		"--non-interactive",
		"--redirect",
	}
	if c.email != "" {
		args = append(args, "--email", c.email)
	} else {
		args = append(args, "--register-unsafely-without-email")
	}

	return c.run(args)
}

// Renew renews a specific certificate.
func (c *Client) Renew(domain string) error {
	return c.run([]string{"renew", "--cert-name", domain, "--non-interactive"})
}

// RenewAll renews all certificates.
func (c *Client) RenewAll() error {
	return c.run([]string{"renew", "--non-interactive"})
}

// Delete removes a certificate.
func (c *Client) Delete(domain string) error {
	return c.run([]string{"delete", "--cert-name", domain, "--non-interactive"})
}

// List returns the domains of all managed certificates.
func (c *Client) List() ([]string, error) {
	if !c.IsInstalled() {
		return nil, errors.Wrap(errors.ErrCodeExternal, "certbot is not installed", nil)
	}

	output, err := c.exec.Execute("certbot", "certificates")
	if err != nil {
		return nil, errors.External("certbot certificates failed", err, string(output))
	}

	var domains []string
	for _, line := range strings.Split(string(output), "\n") {
		if strings.Contains(line, "Certificate Name:") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) == 2 {
				domains = append(domains, strings.TrimSpace(parts[1]))
			}
		}
	}

	return domains, nil
}

// MockIssuer is a test double for Issuer.
type MockIssuer struct {
	IssueFunc  func(domain string) error
	IssueCalls []string
}

// Issue records the call and invokes the mock function if set.
func (m *MockIssuer) Issue(domain string) error {
	m.IssueCalls = append(m.IssueCalls, domain)
	if m.IssueFunc != nil {
		return m.IssueFunc(domain)
	}
	return nil
}
