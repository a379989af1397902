// Package site defines the Site entity and its validation rules.
//
// A Site describes a single nginx virtual host: its domain, listen port,
// serving mode (reverse proxy or static files), the mode-specific fields,
// ordered extra location blocks, and whether TLS should be layered on by
// certbot after activation.
//
// A Site is an in-memory value only. The rendered config file under
// sites-available is the persistent representation; nothing else is stored.
package site

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/nginxmgr/nginxmgr/internal/errors"
)

// Mode determines how a site serves requests.
type Mode string

// Serving modes.
const (
	ModeProxy   Mode = "proxy"   // reverse proxy to an upstream
	ModeStatic  Mode = "static"  // serve files from a document root
	ModeUnknown Mode = "unknown" // reported by best-effort parsing only
)

// ValidModes returns the modes a site can be created with.
func ValidModes() []Mode {
	return []Mode{ModeProxy, ModeStatic}
}

// IsValidMode checks if the given mode can be used to create a site.
func IsValidMode(m Mode) bool {
	return m == ModeProxy || m == ModeStatic
}

// Directive is a single nginx directive inside a location block.
type Directive struct {
	Name  string
	Value string
}

// Location is an extra location block. Blocks render in the order the
// user added them.
type Location struct {
	Path       string
	Directives []Directive
}

// Site represents a virtual host configuration.
type Site struct {
	Domain    string
	Port      int
	Mode      Mode
	ProxyPass string     // proxy mode: upstream URL
	ProxyPath string     // proxy mode: URL path prefix, default "/"
	Root      string     // static mode: document root
	Index     []string   // static mode: index files
	Locations []Location // extra location blocks, insertion order
	SSL       bool       // run certbot after activation
}

// Allows an optional wildcard label, then standard hostname labels.
var domainPattern = regexp.MustCompile(`^(\*\.)?([a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// ValidateDomain checks a domain name.
func ValidateDomain(domain string) error {
	if domain == "" {
		return errors.Validation("domain cannot be empty")
	}
	if !domainPattern.MatchString(domain) {
		return errors.Validationf("invalid domain name: %s", domain)
	}
	return nil
}

// ValidatePort checks a listen port.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return errors.Validationf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// ValidatePath checks a URL path prefix.
func ValidatePath(path string) error {
	if !strings.HasPrefix(path, "/") {
		return errors.Validationf("path must start with /: %q", path)
	}
	return nil
}

// ValidateProxyPass checks an upstream URL. A bare host:port is accepted.
func ValidateProxyPass(proxyPass string) error {
	if proxyPass == "" {
		return errors.Validation("proxy upstream cannot be empty")
	}
	raw := proxyPass
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	if _, err := url.Parse(raw); err != nil {
		return errors.Validationf("invalid proxy upstream %q: %v", proxyPass, err)
	}
	return nil
}

// Validate checks all fields and the mode-specific invariants: exactly the
// fields of the chosen mode must be populated.
func (s *Site) Validate() error {
	if err := ValidateDomain(s.Domain); err != nil {
		return err
	}
	if err := ValidatePort(s.Port); err != nil {
		return err
	}

	switch s.Mode {
	case ModeProxy:
		if err := ValidateProxyPass(s.ProxyPass); err != nil {
			return err
		}
		if s.ProxyPath == "" {
			return errors.Validation("proxy path cannot be empty")
		}
		if err := ValidatePath(s.ProxyPath); err != nil {
			return err
		}
		if s.Root != "" {
			return errors.Validation("root directory is only valid for static sites")
		}
	case ModeStatic:
		if s.Root == "" {
			return errors.Validation("root directory is required for static sites")
		}
		if !strings.HasPrefix(s.Root, "/") {
			return errors.Validationf("root directory must be absolute: %s", s.Root)
		}
		if len(s.Index) == 0 {
			return errors.Validation("at least one index file is required for static sites")
		}
		if s.ProxyPass != "" {
			return errors.Validation("proxy upstream is only valid for proxy sites")
		}
	default:
		return errors.Validationf("invalid mode: %s", s.Mode)
	}

	for _, loc := range s.Locations {
		if err := ValidatePath(loc.Path); err != nil {
			return err
		}
	}

	return nil
}
