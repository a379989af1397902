package cli

import (
	"errors"
	"strings"

	"github.com/nginxmgr/nginxmgr/internal/certbot"
	"github.com/nginxmgr/nginxmgr/internal/config"
	"github.com/nginxmgr/nginxmgr/internal/nginx"
)

// MockSettingsLoader is a test double for SettingsLoader
type MockSettingsLoader struct {
	Settings  *config.Settings
	LoadErr   error
	SaveErr   error
	SaveCalls int
}

func (m *MockSettingsLoader) Load() (*config.Settings, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Settings == nil {
		m.Settings = config.New()
	}
	return m.Settings, nil
}

func (m *MockSettingsLoader) Save(s *config.Settings) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Settings = s
	return nil
}

// MockRootChecker is a test double for RootChecker
type MockRootChecker struct {
	IsRoot bool
	Calls  int
}

func (m *MockRootChecker) RequireRoot() error {
	m.Calls++
	if !m.IsRoot {
		return errors.New("root privileges required, run with sudo")
	}
	return nil
}

// MockStdinReader is a test double for StdinReader
type MockStdinReader struct {
	Input string
	pos   int
}

func (m *MockStdinReader) ReadString(delim byte) (string, error) {
	if m.pos >= len(m.Input) {
		return "", errors.New("EOF")
	}
	idx := strings.IndexByte(m.Input[m.pos:], delim)
	if idx == -1 {
		result := m.Input[m.pos:]
		m.pos = len(m.Input)
		return result, nil
	}
	result := m.Input[m.pos : m.pos+idx+1]
	m.pos += idx + 1
	return result, nil
}

// MockCertManager is a test double for CertManager
type MockCertManager struct {
	Domains    []string
	RenewErr   error
	RenewCalls []string
	AllCalls   int
}

func (m *MockCertManager) Renew(domain string) error {
	m.RenewCalls = append(m.RenewCalls, domain)
	return m.RenewErr
}

func (m *MockCertManager) RenewAll() error {
	m.AllCalls++
	return m.RenewErr
}

func (m *MockCertManager) List() ([]string, error) {
	return m.Domains, nil
}

// MockCommandRunner is a test double for CommandRunner
type MockCommandRunner struct {
	Calls        [][]string
	RunErr       error
	LookPathFunc func(file string) (string, error)
}

func (m *MockCommandRunner) RunInteractive(name string, args ...string) error {
	m.Calls = append(m.Calls, append([]string{name}, args...))
	return m.RunErr
}

func (m *MockCommandRunner) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	return "/usr/bin/" + file, nil
}

// TestHelper wires mock dependencies against temp directories.
type TestHelper struct {
	Settings *MockSettingsLoader
	Nginx    *nginx.MockController
	Issuer   *certbot.MockIssuer
	Certs    *MockCertManager
	Root     *MockRootChecker
	Stdin    *MockStdinReader
	Runner   *MockCommandRunner
}

// NewTestHelper replaces the package dependencies with mocks pointing at
// the given directories and restores the originals on cleanup.
func NewTestHelper(t interface {
	Helper()
	Cleanup(func())
}, availableDir, enabledDir, logsDir string) *TestHelper {
	t.Helper()

	settings := config.New()
	settings.Paths.Available = availableDir
	settings.Paths.Enabled = enabledDir
	settings.Paths.Logs = logsDir

	h := &TestHelper{
		Settings: &MockSettingsLoader{Settings: settings},
		Nginx:    &nginx.MockController{},
		Issuer:   &certbot.MockIssuer{},
		Certs:    &MockCertManager{},
		Root:     &MockRootChecker{IsRoot: true},
		Stdin:    &MockStdinReader{Input: "y\n"},
		Runner:   &MockCommandRunner{},
	}

	old := deps
	deps = &Dependencies{
		Settings:    h.Settings,
		Nginx:       h.Nginx,
		NewIssuer:   func(email string) certbot.Issuer { return h.Issuer },
		Certs:       h.Certs,
		RootChecker: h.Root,
		StdinReader: h.Stdin,
		Runner:      h.Runner,
	}
	t.Cleanup(func() {
		deps = old
	})

	return h
}

// SetRootAccess sets whether root access is available
func (h *TestHelper) SetRootAccess(isRoot bool) {
	h.Root.IsRoot = isRoot
}

// SetStdinInput sets the stdin input
func (h *TestHelper) SetStdinInput(input string) {
	h.Stdin.Input = input
	h.Stdin.pos = 0
}
