// Package store is the repository over the sites-available/sites-enabled
// directory pair.
//
// The filesystem is the single source of truth: a config file under
// sites-available is a site, a symlink under sites-enabled makes it
// active, and List re-scans the directories on every call. Existing files
// are inspected with a best-effort text scan; fields that cannot be
// parsed are reported as unknown, never as an error, so hand-edited
// configs stay listable.
package store

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/logger"
	"github.com/nginxmgr/nginxmgr/internal/site"
)

// Info is what a directory scan can tell about one config file.
type Info struct {
	Domain  string    `json:"domain"`
	Port    int       `json:"port,omitempty"` // 0 when unparsable
	Mode    site.Mode `json:"mode"`
	SSL     bool      `json:"ssl"`
	Enabled bool      `json:"enabled"`
}

// Store manages config files under an available/enabled directory pair.
type Store struct {
	available string
	enabled   string
}

// New creates a Store for the given directories.
func New(available, enabled string) *Store {
	return &Store{available: available, enabled: enabled}
}

// Available returns the sites-available directory.
func (s *Store) Available() string { return s.available }

// Enabled returns the sites-enabled directory.
func (s *Store) Enabled() string { return s.enabled }

// Merged reports whether available and enabled are the same directory.
// conf.d-style layouts keep every live config in one place: the file
// itself is the enabled entry and there are no symlinks to manage.
func (s *Store) Merged() bool { return s.available == s.enabled }

// Path returns the config file path for a domain.
func (s *Store) Path(domain string) string {
	return filepath.Join(s.available, domain)
}

// EnsureDirs creates the available and enabled directories if missing.
func (s *Store) EnsureDirs() error {
	for _, dir := range []string{s.available, s.enabled} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to create config directory", err)
		}
	}
	return nil
}

var (
	listenPattern = regexp.MustCompile(`(?m)^\s*listen\s+(\d+)`)
	sslPattern    = regexp.MustCompile(`(?m)^\s*(listen\s+443\b|ssl_certificate\s)`)
	proxyPattern  = regexp.MustCompile(`(?m)^\s*proxy_pass\s`)
	rootPattern   = regexp.MustCompile(`(?m)^\s*root\s`)
)

// List scans sites-available and returns one Info per config file,
// sorted by domain. Parse failures degrade to unknown fields.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.available)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to read sites-available", err)
	}

	infos := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		info := Info{Domain: entry.Name(), Mode: site.ModeUnknown}
		info.Enabled, _ = s.IsEnabled(entry.Name())

		content, err := os.ReadFile(filepath.Join(s.available, entry.Name()))
		if err != nil {
			logger.Warn("could not read %s: %v", entry.Name(), err)
			infos = append(infos, info)
			continue
		}
		text := string(content)

		if m := listenPattern.FindStringSubmatch(text); m != nil {
			if port, err := strconv.Atoi(m[1]); err == nil {
				info.Port = port
			}
		}
		info.SSL = sslPattern.MatchString(text)
		switch {
		case proxyPattern.MatchString(text):
			info.Mode = site.ModeProxy
		case rootPattern.MatchString(text):
			info.Mode = site.ModeStatic
		}

		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Domain < infos[j].Domain
	})

	return infos, nil
}

// Exists reports whether a config file exists for the domain.
func (s *Store) Exists(domain string) bool {
	_, err := os.Stat(s.Path(domain))
	return err == nil
}

// Create writes the config file for a domain. Unless overwrite is set it
// fails with a conflict error when a file for the domain already exists.
// The symlink is created separately via Enable, always after the file.
func (s *Store) Create(domain, text string, overwrite bool) error {
	if err := s.EnsureDirs(); err != nil {
		return err
	}

	if !overwrite && s.Exists(domain) {
		return errors.Conflict(domain)
	}

	if err := os.WriteFile(s.Path(domain), []byte(text), 0644); err != nil {
		return errors.WrapDomain(errors.ErrCodeInternal, domain, "failed to write config file", err)
	}

	return nil
}

// Read returns the raw config text for a domain.
func (s *Store) Read(domain string) (string, error) {
	content, err := os.ReadFile(s.Path(domain))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NotFound(domain)
		}
		return "", errors.WrapDomain(errors.ErrCodeInternal, domain, "failed to read config file", err)
	}
	return string(content), nil
}

// Delete removes a site: the symlink first (ignored if absent), then the
// file, so the enabled directory never points at a deleted file. On a
// merged layout there is no symlink and only the file is removed.
func (s *Store) Delete(domain string) error {
	if !s.Exists(domain) {
		return errors.NotFound(domain)
	}

	if !s.Merged() {
		if err := s.Disable(domain); err != nil && !errors.Is(err, errors.ErrSiteNotFound) {
			return err
		}
	}

	if err := os.Remove(s.Path(domain)); err != nil {
		return errors.WrapDomain(errors.ErrCodeInternal, domain, "failed to remove config file", err)
	}

	return nil
}

// Enable activates a site by linking it into sites-enabled.
// Enabling an already enabled site is a no-op, which on a merged layout
// covers every existing file: the config is live as soon as it is written.
func (s *Store) Enable(domain string) error {
	source := s.Path(domain)
	target := filepath.Join(s.enabled, domain)

	if _, err := os.Stat(source); os.IsNotExist(err) {
		return errors.NotFound(domain)
	}

	if _, err := os.Lstat(target); err == nil {
		return nil
	}

	if err := os.Symlink(source, target); err != nil {
		return errors.WrapDomain(errors.ErrCodeInternal, domain, "failed to enable site", err)
	}

	return nil
}

// Disable deactivates a site by removing its symlink. It refuses to
// remove anything that is not a symlink, and a merged layout has no
// disabled state at all: the only way to stop serving is Delete.
func (s *Store) Disable(domain string) error {
	if s.Merged() {
		return errors.WrapDomain(errors.ErrCodeValidation, domain,
			"this layout keeps configs in a single directory and has no disabled state, remove the site instead", nil)
	}

	target := filepath.Join(s.enabled, domain)

	info, err := os.Lstat(target)
	if os.IsNotExist(err) {
		return errors.NotFound(domain)
	}
	if err != nil {
		return errors.WrapDomain(errors.ErrCodeInternal, domain, "failed to check site status", err)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return errors.WrapDomain(errors.ErrCodeInternal, domain, "enabled entry is not a symlink, refusing to remove", nil)
	}

	if err := os.Remove(target); err != nil {
		return errors.WrapDomain(errors.ErrCodeInternal, domain, "failed to disable site", err)
	}

	return nil
}

// IsEnabled checks whether the sites-enabled symlink exists.
func (s *Store) IsEnabled(domain string) (bool, error) {
	_, err := os.Lstat(filepath.Join(s.enabled, domain))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.WrapDomain(errors.ErrCodeInternal, domain, "failed to check site status", err)
	}
	return true, nil
}

// BrokenLinks returns entries in sites-enabled whose targets no longer
// exist, for diagnostics.
func (s *Store) BrokenLinks() ([]string, error) {
	entries, err := os.ReadDir(s.enabled)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, "failed to read sites-enabled", err)
	}

	var broken []string
	for _, entry := range entries {
		link := filepath.Join(s.enabled, entry.Name())
		info, err := os.Lstat(link)
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			continue
		}
		if _, err := os.Stat(link); err != nil {
			broken = append(broken, entry.Name())
		}
	}
	return broken, nil
}
