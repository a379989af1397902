package cli

import (
	"github.com/nginxmgr/nginxmgr/internal/site"
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable <domain>",
	Short: "Enable a site",
	Long: `Enable a site by symlinking it into sites-enabled, then test and
reload nginx. The symlink is removed again if the test fails.

Examples:
  nginxmgr enable example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runEnable,
}

func init() {
	enableCmd.Flags().BoolVar(&noReload, "no-reload", false, "Create the symlink without testing or reloading nginx")

	rootCmd.AddCommand(enableCmd)
}

func runEnable(cmd *cobra.Command, args []string) error {
	domain := args[0]

	if err := site.ValidateDomain(domain); err != nil {
		return err
	}
	if err := requireRoot(); err != nil {
		return err
	}

	s, err := buildStack()
	if err != nil {
		return err
	}

	if noReload {
		if err := s.store.Enable(domain); err != nil {
			return err
		}
	} else if err := s.deployer.Enable(domain); err != nil {
		return err
	}

	return outputResult(
		CommandResult{Success: true, Domain: domain, Action: "enable"},
		"Site %s enabled", domain,
	)
}
