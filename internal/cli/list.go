package cli

import (
	"strconv"

	"github.com/nginxmgr/nginxmgr/internal/output"
	"github.com/nginxmgr/nginxmgr/internal/store"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all sites",
	Long: `List all site configurations in sites-available.

Examples:
  nginxmgr list
  nginxmgr ls
  nginxmgr list --json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := buildStack()
	if err != nil {
		return err
	}

	sites, err := s.store.List()
	if err != nil {
		return err
	}

	if len(sites) == 0 {
		if jsonOutput {
			return output.JSON([]store.Info{})
		}
		output.Info("No sites configured")
		return nil
	}

	if jsonOutput {
		return output.JSON(sites)
	}

	headers := []string{"DOMAIN", "PORT", "MODE", "SSL", "ENABLED"}
	rows := make([][]string, 0, len(sites))
	for _, info := range sites {
		port := strconv.Itoa(info.Port)
		if info.Port == 0 {
			port = "-"
		}
		rows = append(rows, []string{
			info.Domain,
			port,
			string(info.Mode),
			yesNo(info.SSL),
			yesNo(info.Enabled),
		})
	}

	output.Table(headers, rows)
	return nil
}
