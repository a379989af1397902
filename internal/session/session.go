// Package session implements the interactive menu that runs when the
// tool is started without a subcommand. Every flow validates its input
// as it is typed and recovers from failures at the menu boundary, so a
// failed operation returns to the menu instead of exiting.
package session

import (
	"strconv"
	"strings"

	"github.com/nginxmgr/nginxmgr/internal/config"
	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/lifecycle"
	"github.com/nginxmgr/nginxmgr/internal/output"
	"github.com/nginxmgr/nginxmgr/internal/render"
	"github.com/nginxmgr/nginxmgr/internal/site"
	"github.com/nginxmgr/nginxmgr/internal/store"
)

// Menu entries, in display order.
const (
	menuList   = "List sites"
	menuCreate = "Create a new site"
	menuShow   = "Show a site"
	menuDelete = "Delete a site"
	menuQuit   = "Quit"
)

var menuItems = []string{menuList, menuCreate, menuShow, menuDelete, menuQuit}

// Session holds the dependencies of the interactive menu.
type Session struct {
	prompter Prompter
	settings *config.Settings
	store    *store.Store
	renderer *render.Renderer
	deployer *lifecycle.Deployer
}

// New creates a Session.
func New(p Prompter, settings *config.Settings, st *store.Store, r *render.Renderer, d *lifecycle.Deployer) *Session {
	return &Session{
		prompter: p,
		settings: settings,
		store:    st,
		renderer: r,
		deployer: d,
	}
}

// Run loops the main menu until the user quits. Ctrl-C and Ctrl-D
// leave the loop cleanly.
func (s *Session) Run() error {
	for {
		_, choice, err := s.prompter.Select("nginx site manager", menuItems)
		if isExit(err) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case menuList:
			err = s.list()
		case menuCreate:
			err = s.create()
		case menuShow:
			err = s.show()
		case menuDelete:
			err = s.remove()
		case menuQuit:
			return nil
		}

		if isExit(err) {
			// Interrupting a flow cancels it, not the session.
			output.Info("cancelled")
			continue
		}
		if err != nil {
			output.Error("%v", err)
			if out := errors.CommandOutput(err); out != "" {
				output.Block(out)
			}
		}
	}
}

func (s *Session) list() error {
	sites, err := s.store.List()
	if err != nil {
		return err
	}
	if len(sites) == 0 {
		output.Info("no sites configured")
		return nil
	}

	rows := make([][]string, 0, len(sites))
	for _, info := range sites {
		rows = append(rows, []string{
			info.Domain,
			strconv.Itoa(info.Port),
			string(info.Mode),
			yesNo(info.SSL),
			yesNo(info.Enabled),
		})
	}
	output.Table([]string{"DOMAIN", "PORT", "MODE", "SSL", "ENABLED"}, rows)
	return nil
}

func (s *Session) create() error {
	domain, err := s.prompter.Input("Domain", "", site.ValidateDomain)
	if err != nil {
		return err
	}

	overwrite := false
	if s.store.Exists(domain) {
		overwrite, err = s.prompter.Confirm("Site "+domain+" already exists, overwrite", false)
		if err != nil {
			return err
		}
		if !overwrite {
			return nil
		}
	}

	port, err := s.askPort()
	if err != nil {
		return err
	}

	_, mode, err := s.prompter.Select("Site type", []string{string(site.ModeProxy), string(site.ModeStatic)})
	if err != nil {
		return err
	}

	sc := &site.Site{Domain: domain, Port: port, Mode: site.Mode(mode)}
	switch sc.Mode {
	case site.ModeProxy:
		if err := s.askProxy(sc); err != nil {
			return err
		}
	case site.ModeStatic:
		if err := s.askStatic(sc); err != nil {
			return err
		}
	}

	if err := s.askLocations(sc); err != nil {
		return err
	}

	sc.SSL, err = s.prompter.Confirm("Request a Let's Encrypt certificate", false)
	if err != nil {
		return err
	}

	rendered, err := s.renderer.Render(sc)
	if err != nil {
		return err
	}
	output.Print("Generated configuration:")
	output.Block(rendered)

	write, err := s.prompter.Confirm("Write and enable this site", true)
	if err != nil || !write {
		return err
	}

	res, err := s.deployer.Deploy(sc, rendered, overwrite)
	if err != nil {
		return err
	}
	s.report(res)
	return nil
}

func (s *Session) askPort() (int, error) {
	def := strconv.Itoa(s.settings.Defaults.Port)
	value, err := s.prompter.Input("Listen port", def, func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Validation("port must be a number")
		}
		return site.ValidatePort(n)
	})
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

func (s *Session) askProxy(sc *site.Site) error {
	pass, err := s.prompter.Input("Upstream URL (e.g. http://127.0.0.1:3000)", "", site.ValidateProxyPass)
	if err != nil {
		return err
	}
	path, err := s.prompter.Input("Location path", s.settings.Defaults.ProxyPath, site.ValidatePath)
	if err != nil {
		return err
	}
	sc.ProxyPass = pass
	sc.ProxyPath = path
	return nil
}

func (s *Session) askStatic(sc *site.Site) error {
	root, err := s.prompter.Input("Document root", "/var/www/"+sc.Domain, site.ValidatePath)
	if err != nil {
		return err
	}
	index, err := s.prompter.Input("Index files", s.settings.Defaults.Index, nil)
	if err != nil {
		return err
	}
	sc.Root = root
	sc.Index = strings.Fields(index)
	return nil
}

// askLocations collects extra location blocks. Directives are typed one
// per line as "name value" and an empty line closes the block.
func (s *Session) askLocations(sc *site.Site) error {
	for {
		more, err := s.prompter.Confirm("Add an extra location block", false)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}

		path, err := s.prompter.Input("Location path", "", site.ValidatePath)
		if err != nil {
			return err
		}
		loc := site.Location{Path: path}
		for {
			line, err := s.prompter.Input("Directive (empty line to finish)", "", nil)
			if err != nil {
				return err
			}
			if line == "" {
				break
			}
			name, value, ok := strings.Cut(line, " ")
			if !ok {
				output.Warn("directives take the form: name value")
				continue
			}
			loc.Directives = append(loc.Directives, site.Directive{
				Name:  name,
				Value: strings.TrimSpace(value),
			})
		}
		sc.Locations = append(sc.Locations, loc)
	}
}

func (s *Session) show() error {
	domain, err := s.pickSite("Show which site")
	if err != nil || domain == "" {
		return err
	}
	text, err := s.store.Read(domain)
	if err != nil {
		return err
	}
	output.Print("%s:", s.store.Path(domain))
	output.Block(text)
	return nil
}

func (s *Session) remove() error {
	domain, err := s.pickSite("Delete which site")
	if err != nil || domain == "" {
		return err
	}
	sure, err := s.prompter.Confirm("Really delete "+domain, false)
	if err != nil || !sure {
		return err
	}
	if err := s.deployer.Remove(domain); err != nil {
		return err
	}
	output.Success("deleted %s", domain)
	return nil
}

// pickSite presents the configured sites as a menu. Returns "" when
// there is nothing to pick.
func (s *Session) pickSite(label string) (string, error) {
	sites, err := s.store.List()
	if err != nil {
		return "", err
	}
	if len(sites) == 0 {
		output.Info("no sites configured")
		return "", nil
	}
	domains := make([]string, 0, len(sites))
	for _, info := range sites {
		domains = append(domains, info.Domain)
	}
	_, domain, err := s.prompter.Select(label, domains)
	if err != nil {
		return "", err
	}
	return domain, nil
}

func (s *Session) report(res *lifecycle.Result) {
	switch res.State {
	case lifecycle.StateActive:
		output.Success("site %s is live", res.Domain)
	case lifecycle.StateSSLActive:
		output.Success("site %s is live with TLS", res.Domain)
	case lifecycle.StateSSLFailed:
		output.Success("site %s is live", res.Domain)
		output.Warn("certificate request failed, site stays on HTTP: %v", res.SSLErr)
		if out := errors.CommandOutput(res.SSLErr); out != "" {
			output.Block(out)
		}
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
