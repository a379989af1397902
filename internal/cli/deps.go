package cli

import (
	"bufio"
	"os"
	"os/exec"

	"github.com/nginxmgr/nginxmgr/internal/certbot"
	"github.com/nginxmgr/nginxmgr/internal/config"
	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/nginx"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	Settings    SettingsLoader
	Nginx       nginx.Controller
	NewIssuer   func(email string) certbot.Issuer
	Certs       CertManager
	RootChecker RootChecker
	StdinReader StdinReader
	Runner      CommandRunner
}

// SettingsLoader handles settings loading and saving
type SettingsLoader interface {
	Load() (*config.Settings, error)
	Save(s *config.Settings) error
}

// RootChecker checks root privileges
type RootChecker interface {
	RequireRoot() error
}

// StdinReader reads from stdin
type StdinReader interface {
	ReadString(delim byte) (string, error)
}

// CertManager covers the certificate operations that do not touch a
// site's config file
type CertManager interface {
	Renew(domain string) error
	RenewAll() error
	List() ([]string, error)
}

// CommandRunner runs external commands that take over the terminal,
// like $EDITOR and tail -f
type CommandRunner interface {
	RunInteractive(name string, args ...string) error
	LookPath(file string) (string, error)
}

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	Settings:    &realSettingsLoader{},
	Nginx:       nginx.NewService(),
	NewIssuer:   func(email string) certbot.Issuer { return certbot.NewClient(email) },
	Certs:       certbot.NewClient(""),
	RootChecker: &realRootChecker{},
	StdinReader: &realStdinReader{},
	Runner:      &realCommandRunner{},
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

type realSettingsLoader struct{}

func (r *realSettingsLoader) Load() (*config.Settings, error) {
	return config.Load()
}

func (r *realSettingsLoader) Save(s *config.Settings) error {
	return s.Save()
}

type realRootChecker struct{}

func (r *realRootChecker) RequireRoot() error {
	if os.Geteuid() != 0 {
		return errors.ErrRootRequired
	}
	return nil
}

type realStdinReader struct {
	reader *bufio.Reader
}

func (r *realStdinReader) ReadString(delim byte) (string, error) {
	if r.reader == nil {
		r.reader = bufio.NewReader(os.Stdin)
	}
	return r.reader.ReadString(delim)
}

type realCommandRunner struct{}

func (r *realCommandRunner) RunInteractive(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (r *realCommandRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
