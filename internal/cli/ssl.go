package cli

import (
	"github.com/nginxmgr/nginxmgr/internal/certbot"
	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/output"
	"github.com/nginxmgr/nginxmgr/internal/site"
	"github.com/spf13/cobra"
)

var (
	sslEmail string
	renewAll bool
)

var sslCmd = &cobra.Command{
	Use:   "ssl",
	Short: "TLS certificate management",
	Long:  `Manage Let's Encrypt certificates through certbot.`,
}

var sslInstallCmd = &cobra.Command{
	Use:   "install <domain>",
	Short: "Install a certificate for a site",
	Long: `Obtain a Let's Encrypt certificate for an existing site. The
certbot nginx plugin rewrites the configuration in place and installs
the HTTP to HTTPS redirect.

Examples:
  nginxmgr ssl install example.com --email admin@example.com
  nginxmgr ssl install example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runSSLInstall,
}

var sslRenewCmd = &cobra.Command{
	Use:   "renew [domain]",
	Short: "Renew certificate(s)",
	Long: `Renew certificates.

Examples:
  nginxmgr ssl renew example.com    # Renew a specific domain
  nginxmgr ssl renew --all          # Renew all certificates`,
	RunE: runSSLRenew,
}

var sslStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show managed certificates",
	Long: `List the certificates certbot manages on this host.

Examples:
  nginxmgr ssl status`,
	RunE: runSSLStatus,
}

func init() {
	sslInstallCmd.Flags().StringVarP(&sslEmail, "email", "e", "", "Email address for Let's Encrypt (default from settings)")

	sslRenewCmd.Flags().BoolVar(&renewAll, "all", false, "Renew all certificates")

	sslCmd.AddCommand(sslInstallCmd)
	sslCmd.AddCommand(sslRenewCmd)
	sslCmd.AddCommand(sslStatusCmd)

	rootCmd.AddCommand(sslCmd)
}

func runSSLInstall(cmd *cobra.Command, args []string) error {
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

	// The --email flag overrides the settings file.
	deployer := s.deployer
	if sslEmail != "" {
		deployer = newDeployerWithEmail(s, sslEmail)
	}

	output.Info("Requesting certificate for %s...", domain)
	if err := deployer.EnableSSL(domain); err != nil {
		if out := errors.CommandOutput(err); out != "" {
			output.Error("certbot failed:")
			output.Block(out)
		}
		return err
	}

	cert := certbot.Paths(domain)
	if jsonOutput {
		return output.JSON(map[string]interface{}{
			"success":   true,
			"domain":    domain,
			"cert_path": cert.CertPath,
			"key_path":  cert.KeyPath,
		})
	}

	output.Success("Certificate installed for %s", domain)
	output.Print("  Certificate: %s", cert.CertPath)
	output.Print("  Private Key: %s", cert.KeyPath)
	return nil
}

func runSSLRenew(cmd *cobra.Command, args []string) error {
	if err := requireRoot(); err != nil {
		return err
	}

	if renewAll {
		output.Info("Renewing all certificates...")
		if err := deps.Certs.RenewAll(); err != nil {
			return err
		}
		return outputResult(
			map[string]interface{}{"success": true, "renewed": "all"},
			"All certificates renewed",
		)
	}

	if len(args) == 0 {
		return errors.Validation("specify a domain or use --all to renew all certificates")
	}

	domain := args[0]
	if err := site.ValidateDomain(domain); err != nil {
		return err
	}

	output.Info("Renewing certificate for %s...", domain)
	if err := deps.Certs.Renew(domain); err != nil {
		return err
	}

	return outputResult(
		CommandResult{Success: true, Domain: domain, Action: "renew"},
		"Certificate renewed for %s", domain,
	)
}

func runSSLStatus(cmd *cobra.Command, args []string) error {
	domains, err := deps.Certs.List()
	if err != nil {
		return err
	}

	if len(domains) == 0 {
		if jsonOutput {
			return output.JSON([]string{})
		}
		output.Info("No certificates found")
		return nil
	}

	if jsonOutput {
		return output.JSON(domains)
	}

	output.Print("Managed certificates:")
	for _, domain := range domains {
		output.Print("  - %s", domain)
	}
	return nil
}
