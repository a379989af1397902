package cli

import (
	"github.com/nginxmgr/nginxmgr/internal/output"
	"github.com/nginxmgr/nginxmgr/internal/site"
	"github.com/spf13/cobra"
)

var forceRemove bool

var removeCmd = &cobra.Command{
	Use:     "remove <domain>",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a site",
	Long: `Disable a site, reload nginx, and delete its configuration file.

Examples:
  nginxmgr remove example.com
  nginxmgr rm example.com --force`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "Remove without confirmation")

	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
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

	if !forceRemove {
		if !confirm("Are you sure you want to remove site '%s'?", domain) {
			output.Info("Removal cancelled")
			return nil
		}
	}

	if err := s.deployer.Remove(domain); err != nil {
		return err
	}

	return outputResult(
		CommandResult{Success: true, Domain: domain, Action: "remove"},
		"Site %s removed", domain,
	)
}
