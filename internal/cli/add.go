package cli

import (
	"strings"

	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/lifecycle"
	"github.com/nginxmgr/nginxmgr/internal/output"
	"github.com/nginxmgr/nginxmgr/internal/site"
	"github.com/spf13/cobra"
)

var (
	addMode      string
	addPort      int
	addProxy     string
	addProxyPath string
	addRoot      string
	addIndex     string
	addSSL       bool
	addOverwrite bool
	noReload     bool
	dryRun       bool
)

var addCmd = &cobra.Command{
	Use:   "add <domain>",
	Short: "Add a new site",
	Long: `Generate a virtual host configuration, enable it, and reload nginx.

The configuration is validated with nginx -t before the reload; when
validation fails everything is rolled back.

Examples:
  nginxmgr add example.com --mode proxy --proxy http://127.0.0.1:3000
  nginxmgr add example.com --mode static --root /var/www/example
  nginxmgr add example.com --mode proxy --proxy http://127.0.0.1:8080 --ssl
  nginxmgr add example.com --mode static --root /var/www/example --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addMode, "mode", "m", "proxy", "Site mode (proxy, static)")
	addCmd.Flags().IntVarP(&addPort, "port", "p", 0, "Listen port (default from settings)")
	addCmd.Flags().StringVar(&addProxy, "proxy", "", "Upstream URL (proxy mode)")
	addCmd.Flags().StringVar(&addProxyPath, "proxy-path", "", "Location path for the proxy (default from settings)")
	addCmd.Flags().StringVarP(&addRoot, "root", "r", "", "Document root (static mode)")
	addCmd.Flags().StringVar(&addIndex, "index", "", "Index files, space separated (static mode)")
	addCmd.Flags().BoolVar(&addSSL, "ssl", false, "Request a Let's Encrypt certificate after activation")
	addCmd.Flags().BoolVar(&addOverwrite, "overwrite", false, "Replace an existing configuration")
	addCmd.Flags().BoolVar(&noReload, "no-reload", false, "Write and enable without testing or reloading nginx")
	addCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the configuration without touching the system")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	domain := args[0]

	if err := site.ValidateDomain(domain); err != nil {
		return err
	}
	if !site.IsValidMode(site.Mode(addMode)) {
		return errors.Validationf("invalid mode %q, valid modes: proxy, static", addMode)
	}

	s, err := buildStack()
	if err != nil {
		return err
	}

	sc := &site.Site{
		Domain:    domain,
		Port:      addPort,
		Mode:      site.Mode(addMode),
		ProxyPass: addProxy,
		ProxyPath: addProxyPath,
		Root:      addRoot,
		Index:     strings.Fields(addIndex),
		SSL:       addSSL,
	}
	applySiteDefaults(sc, s)

	rendered, err := s.renderer.Render(sc)
	if err != nil {
		return err
	}

	if dryRun {
		return outputAddDryRun(sc, s.store.Path(domain), rendered)
	}

	if err := requireRoot(); err != nil {
		return err
	}
	if s.store.Exists(domain) && !addOverwrite {
		return errors.Conflict(domain)
	}

	if noReload {
		if err := s.store.Create(domain, rendered, addOverwrite); err != nil {
			return err
		}
		if err := s.store.Enable(domain); err != nil {
			return err
		}
		return outputResult(
			CommandResult{Success: true, Domain: domain, Action: "add", State: string(lifecycle.StateWritten)},
			"Site %s written and enabled, nginx not reloaded", domain,
		)
	}

	res, err := s.deployer.Deploy(sc, rendered, addOverwrite)
	if err != nil {
		if out := errors.CommandOutput(err); out != "" {
			output.Error("nginx rejected the configuration:")
			output.Block(out)
		}
		return err
	}

	if res.State == lifecycle.StateSSLFailed {
		output.Warn("Certificate request failed, site stays on HTTP: %v", res.SSLErr)
		if out := errors.CommandOutput(res.SSLErr); out != "" {
			output.Block(out)
		}
	}

	return outputResult(
		CommandResult{Success: true, Domain: domain, Action: "add", State: string(res.State)},
		"Site %s created and enabled", domain,
	)
}

// applySiteDefaults fills unset fields from the settings.
func applySiteDefaults(sc *site.Site, s *stack) {
	if sc.Port == 0 {
		sc.Port = s.settings.Defaults.Port
	}
	if sc.Mode == site.ModeProxy && sc.ProxyPath == "" {
		sc.ProxyPath = s.settings.Defaults.ProxyPath
	}
	if sc.Mode == site.ModeStatic && len(sc.Index) == 0 {
		sc.Index = strings.Fields(s.settings.Defaults.Index)
	}
}

func outputAddDryRun(sc *site.Site, path, rendered string) error {
	if jsonOutput {
		return output.JSON(map[string]interface{}{
			"domain": sc.Domain,
			"path":   path,
			"config": rendered,
		})
	}
	output.Info("Would write %s:", path)
	output.Block(rendered)
	return nil
}
