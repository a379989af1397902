// Package render produces nginx server blocks from Site values.
//
// Templates are embedded in the binary, one per serving mode. The
// rendered output is always plain HTTP: TLS directives are added later,
// in place, by certbot, never by the renderer. Rendering is pure string
// production with no side effects.
package render

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/site"
)

//go:embed templates/*.tmpl
var templates embed.FS

// DefaultLogDir is where per-domain access/error logs are pointed when no
// log directory is configured.
const DefaultLogDir = "/var/log/nginx"

// Renderer renders server blocks for sites.
type Renderer struct {
	logDir string
}

// New creates a Renderer writing log directives under logDir.
// An empty logDir falls back to DefaultLogDir.
func New(logDir string) *Renderer {
	if logDir == "" {
		logDir = DefaultLogDir
	}
	return &Renderer{logDir: strings.TrimRight(logDir, "/")}
}

// templateData is what the embedded templates see.
type templateData struct {
	Domain    string
	Port      int
	ProxyPass string
	ProxyPath string
	Root      string
	Index     []string
	Locations []site.Location
	LogDir    string
}

// Render validates s and produces a complete server block.
// Exactly one listen and one server_name directive are emitted.
func (r *Renderer) Render(s *site.Site) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	name := string(s.Mode) + ".tmpl"
	content, err := templates.ReadFile("templates/" + name)
	if err != nil {
		return "", errors.Validationf("no template for mode %s", s.Mode)
	}

	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	tmpl, err := template.New(name).Funcs(funcMap).Parse(string(content))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to parse template", err)
	}

	data := templateData{
		Domain:    s.Domain,
		Port:      s.Port,
		ProxyPass: s.ProxyPass,
		ProxyPath: s.ProxyPath,
		Root:      s.Root,
		Index:     s.Index,
		Locations: s.Locations,
		LogDir:    r.logDir,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, "failed to render template", err)
	}

	return buf.String(), nil
}
