package cli

import (
	"os"

	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/output"
	"github.com/nginxmgr/nginxmgr/internal/site"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <domain>",
	Short: "Edit a site configuration file",
	Long: `Open the site's configuration file in an editor.

Uses $EDITOR or falls back to vi.

Examples:
  nginxmgr edit example.com
  EDITOR=nano nginxmgr edit example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	domain := args[0]

	if err := site.ValidateDomain(domain); err != nil {
		return err
	}

	s, err := buildStack()
	if err != nil {
		return err
	}
	if !s.store.Exists(domain) {
		return errors.NotFound(domain)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	editorPath, err := deps.Runner.LookPath(editor)
	if err != nil {
		return errors.Validationf("editor not found: %s", editor)
	}

	configPath := s.store.Path(domain)
	output.Info("Opening %s with %s...", configPath, editor)
	if err := deps.Runner.RunInteractive(editorPath, configPath); err != nil {
		return errors.Wrap(errors.ErrCodeExternal, "editor exited with error", err)
	}

	output.Success("Editor closed")
	output.Info("Run 'nginx -t' or 'nginxmgr doctor' to validate your changes")
	return nil
}
