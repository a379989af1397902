package cli

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/nginxmgr/nginxmgr/internal/config"
	"github.com/nginxmgr/nginxmgr/internal/executor"
	"github.com/nginxmgr/nginxmgr/internal/output"
	"github.com/nginxmgr/nginxmgr/internal/platform"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks on the system and the managed sites.

Checks:
  - Root privileges
  - Nginx installation and config syntax
  - Certbot installation
  - sites-available / sites-enabled directories
  - Broken symlinks in sites-enabled

Examples:
  nginxmgr doctor
  nginxmgr doctor --json`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	System        []CheckResult `json:"system"`
	Configuration []CheckResult `json:"configuration"`
	Sites         []CheckResult `json:"sites"`
}

var nginxVersionPattern = regexp.MustCompile(`nginx/(\d+\.\d+\.\d+)`)

func runDoctor(cmd *cobra.Command, args []string) error {
	exec := executor.NewSystemExecutor()

	s, err := buildStack()
	if err != nil {
		return err
	}

	report := &DoctorReport{
		System:        checkSystem(exec, s),
		Configuration: checkConfiguration(s),
		Sites:         checkSites(s),
	}

	if jsonOutput {
		return output.JSON(report)
	}

	displayDoctorResults(report)
	return nil
}

func checkSystem(exec executor.CommandExecutor, s *stack) []CheckResult {
	results := []CheckResult{}

	if os.Geteuid() == 0 {
		results = append(results, CheckResult{"success", "Running as root"})
	} else {
		results = append(results, CheckResult{"warning", "Not running as root, mutating commands will fail"})
	}

	p := platform.Detect()
	results = append(results, CheckResult{"success", fmt.Sprintf("Detected %s layout (%s)", p.Layout, p.Available)})

	if _, err := exec.LookPath("nginx"); err == nil {
		version := "unknown"
		// nginx prints its version banner on stderr
		if out, err := exec.Execute("nginx", "-v"); err == nil || len(out) > 0 {
			if m := nginxVersionPattern.FindStringSubmatch(string(out)); len(m) >= 2 {
				version = m[1]
			}
		}
		results = append(results, CheckResult{"success", fmt.Sprintf("Nginx installed (%s)", version)})
	} else {
		results = append(results, CheckResult{"error", "Nginx not installed"})
	}

	if _, err := exec.LookPath("certbot"); err == nil {
		results = append(results, CheckResult{"success", "Certbot installed"})
	} else {
		// Only an error when a managed site already carries TLS.
		status := "warning"
		if sites, err := s.store.List(); err == nil {
			for _, info := range sites {
				if info.SSL {
					status = "error"
					break
				}
			}
		}
		results = append(results, CheckResult{status, "Certbot not installed (optional)"})
	}

	return results
}

// tildePath abbreviates the home directory prefix for display. An unset
// HOME leaves the path untouched.
func tildePath(path string) string {
	home := os.Getenv("HOME")
	if home == "" {
		return path
	}
	return strings.Replace(path, home, "~", 1)
}

func checkConfiguration(s *stack) []CheckResult {
	results := []CheckResult{}

	for _, dir := range []string{s.store.Available(), s.store.Enabled()} {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			results = append(results, CheckResult{"success", fmt.Sprintf("Directory exists (%s)", dir)})
		} else {
			results = append(results, CheckResult{"error", fmt.Sprintf("Directory missing (%s)", dir)})
		}
	}

	if path, err := config.Path(); err == nil {
		if _, err := os.Stat(path); err == nil {
			results = append(results, CheckResult{"success", fmt.Sprintf("Settings file exists (%s)", tildePath(path))})
		} else {
			results = append(results, CheckResult{"warning", "No settings file, using defaults"})
		}
	}

	if err := deps.Nginx.Test(); err == nil {
		results = append(results, CheckResult{"success", "Nginx config syntax OK"})
	} else {
		results = append(results, CheckResult{"error", "Nginx config syntax error"})
	}

	return results
}

func checkSites(s *stack) []CheckResult {
	results := []CheckResult{}

	broken, err := s.store.BrokenLinks()
	if err != nil {
		results = append(results, CheckResult{"warning", fmt.Sprintf("Could not scan sites-enabled: %v", err)})
		return results
	}
	for _, name := range broken {
		results = append(results, CheckResult{"error", fmt.Sprintf("Broken symlink in sites-enabled: %s", name)})
	}

	sites, err := s.store.List()
	if err != nil {
		results = append(results, CheckResult{"warning", fmt.Sprintf("Could not list sites: %v", err)})
		return results
	}
	for _, info := range sites {
		state := "disabled"
		if info.Enabled {
			state = "enabled"
		}
		results = append(results, CheckResult{"success", fmt.Sprintf("%s - %s", info.Domain, state)})
	}
	if len(sites) == 0 && len(broken) == 0 {
		results = append(results, CheckResult{"success", "No sites configured"})
	}

	return results
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("Checking system...")
	for _, check := range report.System {
		displayCheck(check)
	}
	output.Print("")

	output.Print("Checking configuration...")
	for _, check := range report.Configuration {
		displayCheck(check)
	}
	output.Print("")

	output.Print("Checking sites...")
	for _, check := range report.Sites {
		displayCheck(check)
	}
}

func displayCheck(check CheckResult) {
	switch check.Status {
	case "success":
		output.Success("%s", check.Message)
	case "warning":
		output.Warn("%s", check.Message)
	case "error":
		output.Error("%s", check.Message)
	}
}
