package cli

import (
	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/output"
	"github.com/nginxmgr/nginxmgr/internal/site"
	"github.com/spf13/cobra"
)

var showRaw bool

var showCmd = &cobra.Command{
	Use:   "show <domain>",
	Short: "Show a site configuration",
	Long: `Show a site's parsed details, or the raw configuration file
with --raw.

Examples:
  nginxmgr show example.com
  nginxmgr show example.com --raw
  nginxmgr show example.com --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the raw configuration file")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	domain := args[0]

	if err := site.ValidateDomain(domain); err != nil {
		return err
	}

	s, err := buildStack()
	if err != nil {
		return err
	}

	text, err := s.store.Read(domain)
	if err != nil {
		return err
	}

	if showRaw {
		output.Print("%s", text)
		return nil
	}

	sites, err := s.store.List()
	if err != nil {
		return err
	}
	for _, info := range sites {
		if info.Domain != domain {
			continue
		}
		if jsonOutput {
			return output.JSON(info)
		}
		output.Print("")
		output.Print("Domain:   %s", info.Domain)
		output.Print("File:     %s", s.store.Path(domain))
		if info.Port > 0 {
			output.Print("Port:     %d", info.Port)
		}
		output.Print("Mode:     %s", info.Mode)
		output.Print("SSL:      %s", yesNo(info.SSL))
		output.Print("Enabled:  %s", yesNo(info.Enabled))
		output.Print("")
		return nil
	}
	return errors.NotFound(domain)
}
