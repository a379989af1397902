// Package config manages the nginxmgr settings file.
//
// Settings live in YAML at ~/.config/nginxmgr/config.yaml and hold the
// nginx directory layout plus defaults applied when prompting for new
// sites. The settings file is optional: when it does not exist, Load
// returns the conventional Debian layout.
//
// Example config.yaml:
//
//	paths:
//	  available: /etc/nginx/sites-available
//	  enabled: /etc/nginx/sites-enabled
//	  logs: /var/log/nginx
//	certbot_email: admin@example.com
//	defaults:
//	  port: 80
//	  index: index.html
//	  proxy_path: /
//
// Site definitions are NOT stored here: the filesystem under
// sites-available/sites-enabled is the single source of truth and is
// re-scanned on every operation.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/platform"
)

// Paths contains the nginx directory layout.
type Paths struct {
	Available string `yaml:"available"`
	Enabled   string `yaml:"enabled"`
	Logs      string `yaml:"logs"`
}

// Defaults contains the values offered when prompting for new sites.
type Defaults struct {
	Port      int    `yaml:"port"`
	Index     string `yaml:"index"`
	ProxyPath string `yaml:"proxy_path"`
}

// Settings represents the application settings.
type Settings struct {
	Paths        Paths    `yaml:"paths"`
	CertbotEmail string   `yaml:"certbot_email,omitempty"`
	Defaults     Defaults `yaml:"defaults"`
}

const settingsDir = ".config/nginxmgr"
const settingsFile = "config.yaml"

// New creates Settings with the conventional Debian nginx layout.
func New() *Settings {
	return &Settings{
		Paths: Paths{
			Available: "/etc/nginx/sites-available",
			Enabled:   "/etc/nginx/sites-enabled",
			Logs:      "/var/log/nginx",
		},
		Defaults: Defaults{
			Port:      80,
			Index:     "index.html",
			ProxyPath: "/",
		},
	}
}

// Detected creates Settings with the nginx layout of this host. Used
// when no settings file exists yet.
func Detected() *Settings {
	s := New()
	p := platform.Detect()
	s.Paths.Available = p.Available
	s.Paths.Enabled = p.Enabled
	s.Paths.Logs = p.Logs
	return s
}

// Dir returns the settings directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfig, "failed to get home directory", err)
	}
	return filepath.Join(home, settingsDir), nil
}

// Path returns the settings file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFile), nil
}

// Load reads the settings from disk, returning defaults when the file
// does not exist.
func Load() (*Settings, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Detected(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "failed to read settings", err)
	}

	s := New()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, "failed to parse settings", err)
	}
	s.applyDefaults()

	return s, nil
}

// Save writes the settings to disk, creating the directory if needed.
func (s *Settings) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, "failed to create settings directory", err)
	}

	path, err := Path()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeConfig, "failed to marshal settings", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, "failed to write settings", err)
	}

	return nil
}

// applyDefaults fills fields a hand-edited file may have left empty.
func (s *Settings) applyDefaults() {
	def := New()
	if s.Paths.Available == "" {
		s.Paths.Available = def.Paths.Available
	}
	if s.Paths.Enabled == "" {
		s.Paths.Enabled = def.Paths.Enabled
	}
	if s.Paths.Logs == "" {
		s.Paths.Logs = def.Paths.Logs
	}
	if s.Defaults.Port == 0 {
		s.Defaults.Port = def.Defaults.Port
	}
	if s.Defaults.Index == "" {
		s.Defaults.Index = def.Defaults.Index
	}
	if s.Defaults.ProxyPath == "" {
		s.Defaults.ProxyPath = def.Defaults.ProxyPath
	}
}
