package cli

import (
	"fmt"
	"strings"

	"github.com/nginxmgr/nginxmgr/internal/config"
	"github.com/nginxmgr/nginxmgr/internal/lifecycle"
	"github.com/nginxmgr/nginxmgr/internal/output"
	"github.com/nginxmgr/nginxmgr/internal/render"
	"github.com/nginxmgr/nginxmgr/internal/store"
)

// stack bundles everything a command needs to operate on sites.
type stack struct {
	settings *config.Settings
	store    *store.Store
	renderer *render.Renderer
	deployer *lifecycle.Deployer
}

// buildStack loads settings and wires the store, renderer, and deployer.
func buildStack() (*stack, error) {
	settings, err := deps.Settings.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	st := store.New(settings.Paths.Available, settings.Paths.Enabled)
	return &stack{
		settings: settings,
		store:    st,
		renderer: render.New(settings.Paths.Logs),
		deployer: lifecycle.New(st, deps.Nginx, deps.NewIssuer(settings.CertbotEmail)),
	}, nil
}

// newDeployerWithEmail rebuilds the deployer with a different
// registration e-mail than the settings file carries.
func newDeployerWithEmail(s *stack, email string) *lifecycle.Deployer {
	return lifecycle.New(s.store, deps.Nginx, deps.NewIssuer(email))
}

// requireRoot checks for root privileges via the injected checker
func requireRoot() error {
	return deps.RootChecker.RequireRoot()
}

// confirm asks a y/N question on stdin. Defaults to no.
func confirm(format string, args ...interface{}) bool {
	output.Print(format+" [y/N]: ", args...)
	answer, _ := deps.StdinReader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}

// CommandResult is the JSON shape shared by the mutating commands.
type CommandResult struct {
	Success bool   `json:"success"`
	Domain  string `json:"domain"`
	Action  string `json:"action,omitempty"`
	State   string `json:"state,omitempty"`
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
