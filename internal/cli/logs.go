package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/output"
	"github.com/nginxmgr/nginxmgr/internal/site"
	"github.com/spf13/cobra"
)

var (
	logsAccess bool
	logsError  bool
	logsFollow bool
	logsLines  int
)

var logsCmd = &cobra.Command{
	Use:   "logs <domain>",
	Short: "View logs for a site",
	Long: `View the per-domain access and error logs a generated
configuration writes to.

By default, shows both logs. Use --access or --error to show one.

Examples:
  nginxmgr logs example.com           # Show both logs
  nginxmgr logs example.com --access  # Show only the access log
  nginxmgr logs example.com -f        # Follow in real-time
  nginxmgr logs example.com -n 50     # Show last 50 lines`,
	Args: cobra.ExactArgs(1),
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVar(&logsAccess, "access", false, "Show access log only")
	logsCmd.Flags().BoolVar(&logsError, "error", false, "Show error log only")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 20, "Number of lines to show")

	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	domain := args[0]

	if err := site.ValidateDomain(domain); err != nil {
		return err
	}

	s, err := buildStack()
	if err != nil {
		return err
	}
	if !s.store.Exists(domain) {
		output.Warn("Site %s is not managed here, trying its logs anyway", domain)
	}

	accessLog := filepath.Join(s.settings.Paths.Logs, domain+".access.log")
	errorLog := filepath.Join(s.settings.Paths.Logs, domain+".error.log")

	showAccess := true
	showError := true
	if logsAccess && !logsError {
		showError = false
	} else if logsError && !logsAccess {
		showAccess = false
	}

	var logFiles []string
	if showAccess {
		if _, err := os.Stat(accessLog); err == nil {
			logFiles = append(logFiles, accessLog)
		} else {
			output.Warn("Access log not found: %s", accessLog)
		}
	}
	if showError {
		if _, err := os.Stat(errorLog); err == nil {
			logFiles = append(logFiles, errorLog)
		} else {
			output.Warn("Error log not found: %s", errorLog)
		}
	}
	if len(logFiles) == 0 {
		return errors.Validationf("no log files found for %s", domain)
	}

	tailArgs := []string{}
	if logsFollow {
		tailArgs = append(tailArgs, "-f")
	}
	tailArgs = append(tailArgs, "-n", fmt.Sprintf("%d", logsLines))
	tailArgs = append(tailArgs, logFiles...)

	tailPath, err := deps.Runner.LookPath("tail")
	if err != nil {
		return errors.Wrap(errors.ErrCodeExternal, "tail command not found", err)
	}

	if len(logFiles) == 1 {
		output.Info("Showing logs from: %s", logFiles[0])
	} else {
		output.Info("Showing logs from:")
		for _, f := range logFiles {
			output.Print("  - %s", f)
		}
	}
	output.Print("")

	return deps.Runner.RunInteractive(tailPath, tailArgs...)
}
