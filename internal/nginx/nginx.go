// Package nginx wraps the two control actions this tool needs from the
// web server: config syntax testing and reload. Both are opaque
// pass/fail commands whose combined output is captured and surfaced
// verbatim on failure.
package nginx

import (
	"github.com/nginxmgr/nginxmgr/internal/errors"
	"github.com/nginxmgr/nginxmgr/internal/executor"
	"github.com/nginxmgr/nginxmgr/internal/logger"
)

// Controller is the web-server control interface the lifecycle consumes.
type Controller interface {
	// Test validates the server's config syntax
	Test() error

	// Reload applies the current config
	Reload() error
}

// Service is the exec-backed Controller.
type Service struct {
	exec executor.CommandExecutor
}

// NewService creates a Service using the system executor.
func NewService() *Service {
	return &Service{exec: executor.NewSystemExecutor()}
}

// NewServiceWithExecutor creates a Service with a custom executor (for testing).
func NewServiceWithExecutor(exec executor.CommandExecutor) *Service {
	return &Service{exec: exec}
}

// IsInstalled checks if nginx is in PATH.
func (s *Service) IsInstalled() bool {
	_, err := s.exec.LookPath("nginx")
	return err == nil
}

// Test runs nginx -t.
func (s *Service) Test() error {
	logger.Debug("running nginx -t")
	output, err := s.exec.Execute("nginx", "-t")
	if err != nil {
		return errors.External("nginx config test failed", err, string(output))
	}
	return nil
}

// Reload reloads nginx, preferring systemctl with nginx -s reload as
// fallback for systems without systemd.
func (s *Service) Reload() error {
	logger.Debug("reloading nginx")
	output, err := s.exec.Execute("systemctl", "reload", "nginx")
	if err != nil {
		output, err = s.exec.Execute("nginx", "-s", "reload")
		if err != nil {
			return errors.External("failed to reload nginx", err, string(output))
		}
	}
	return nil
}

// MockController is a test double for Controller.
type MockController struct {
	TestFunc   func() error
	ReloadFunc func() error

	TestCalls   int
	ReloadCalls int
}

// Test records the call and invokes the mock function if set.
func (m *MockController) Test() error {
	m.TestCalls++
	if m.TestFunc != nil {
		return m.TestFunc()
	}
	return nil
}

// Reload records the call and invokes the mock function if set.
func (m *MockController) Reload() error {
	m.ReloadCalls++
	if m.ReloadFunc != nil {
		return m.ReloadFunc()
	}
	return nil
}
