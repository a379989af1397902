package cli

import (
	"github.com/nginxmgr/nginxmgr/internal/site"
	"github.com/spf13/cobra"
)

var disableCmd = &cobra.Command{
	Use:   "disable <domain>",
	Short: "Disable a site",
	Long: `Disable a site by removing its symlink from sites-enabled and
reloading nginx. The configuration file is kept.

Examples:
  nginxmgr disable example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runDisable,
}

func init() {
	disableCmd.Flags().BoolVar(&noReload, "no-reload", false, "Remove the symlink without reloading nginx")

	rootCmd.AddCommand(disableCmd)
}

func runDisable(cmd *cobra.Command, args []string) error {
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
		if err := s.store.Disable(domain); err != nil {
			return err
		}
	} else if err := s.deployer.Disable(domain); err != nil {
		return err
	}

	return outputResult(
		CommandResult{Success: true, Domain: domain, Action: "disable"},
		"Site %s disabled", domain,
	)
}
