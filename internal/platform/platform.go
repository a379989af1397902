// Package platform detects where nginx keeps its site configuration on
// this host. The sites-available/sites-enabled split is a Debian
// convention; RHEL-family systems use a flat conf.d directory and
// Homebrew installs use their own prefix.
package platform

import (
	"fmt"
	"os"
	"runtime"
)

// Layout names the detected configuration convention.
type Layout string

const (
	LayoutDebian   Layout = "debian"   // sites-available + sites-enabled symlinks
	LayoutRHEL     Layout = "rhel"     // flat conf.d, no symlinks
	LayoutHomebrew Layout = "homebrew" // macOS Homebrew servers directory
)

// Paths is the directory layout nginx reads its sites from.
type Paths struct {
	Layout    Layout
	Available string
	Enabled   string
	Logs      string
}

// stat is swapped out in tests.
var stat = os.Stat

func pathExists(path string) bool {
	_, err := stat(path)
	return err == nil
}

// Detect returns the nginx layout of this host. Hosts where nothing can
// be detected get the Debian layout, which is also what generated
// configs assume.
func Detect() Paths {
	if runtime.GOOS == "darwin" {
		if p, ok := detectHomebrew(); ok {
			return p
		}
	}

	if pathExists("/etc/nginx/sites-available") {
		return debianPaths()
	}
	if pathExists("/etc/nginx/conf.d") {
		return Paths{
			Layout:    LayoutRHEL,
			Available: "/etc/nginx/conf.d",
			Enabled:   "/etc/nginx/conf.d",
			Logs:      "/var/log/nginx",
		}
	}
	return debianPaths()
}

func debianPaths() Paths {
	return Paths{
		Layout:    LayoutDebian,
		Available: "/etc/nginx/sites-available",
		Enabled:   "/etc/nginx/sites-enabled",
		Logs:      "/var/log/nginx",
	}
}

func detectHomebrew() (Paths, bool) {
	// Apple Silicon prefix first, then Intel.
	for _, prefix := range []string{"/opt/homebrew", "/usr/local"} {
		if pathExists(prefix + "/etc/nginx") {
			return Paths{
				Layout:    LayoutHomebrew,
				Available: prefix + "/etc/nginx/servers",
				Enabled:   prefix + "/etc/nginx/servers",
				Logs:      prefix + "/var/log/nginx",
			}, true
		}
	}
	return Paths{}, false
}

// Platform returns a string describing the current platform.
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
