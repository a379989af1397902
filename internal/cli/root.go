package cli

import (
	"os"

	"github.com/nginxmgr/nginxmgr/internal/logger"
	"github.com/nginxmgr/nginxmgr/internal/session"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nginxmgr",
	Short: "Nginx virtual host manager",
	Long: `nginxmgr generates, enables, and removes nginx virtual host
configurations using the sites-available/sites-enabled layout.

Run it without a subcommand for the interactive menu, or use the
subcommands directly for scripting. TLS certificates are obtained
through certbot.`,
	RunE: runInteractive,
}

// runInteractive starts the menu session when no subcommand is given.
func runInteractive(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}
	s, err := buildStack()
	if err != nil {
		return err
	}
	sess := session.New(session.NewUIPrompter(), s.settings, s.store, s.renderer, s.deployer)
	return sess.Run()
}

// Execute runs the root command
func Execute() {
	// Initialize logger based on verbose flag (parsed by cobra)
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
}
