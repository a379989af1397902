package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSettings(t *testing.T) {
	// Redirect the settings path into a temp dir
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	defer os.Setenv("HOME", originalHome)

	t.Run("New", func(t *testing.T) {
		s := New()
		if s.Paths.Available != "/etc/nginx/sites-available" {
			t.Errorf("unexpected available path: %s", s.Paths.Available)
		}
		if s.Paths.Enabled != "/etc/nginx/sites-enabled" {
			t.Errorf("unexpected enabled path: %s", s.Paths.Enabled)
		}
		if s.Defaults.Port != 80 {
			t.Errorf("expected default port 80, got %d", s.Defaults.Port)
		}
		if s.Defaults.ProxyPath != "/" {
			t.Errorf("expected default proxy path /, got %s", s.Defaults.ProxyPath)
		}
	})

	t.Run("LoadNonexistent", func(t *testing.T) {
		s, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		// Paths are detected from the host when no file exists
		want := Detected()
		if s.Paths.Available != want.Paths.Available {
			t.Errorf("unexpected available path: %s", s.Paths.Available)
		}
		if s.Defaults.Port != 80 {
			t.Errorf("expected default port 80, got %d", s.Defaults.Port)
		}
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		s := New()
		s.Paths.Available = filepath.Join(tempDir, "sites-available")
		s.Paths.Enabled = filepath.Join(tempDir, "sites-enabled")
		s.CertbotEmail = "admin@example.com"
		s.Defaults.Port = 8080

		if err := s.Save(); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		loaded, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Paths.Available != s.Paths.Available {
			t.Errorf("available path not persisted: %s", loaded.Paths.Available)
		}
		if loaded.CertbotEmail != "admin@example.com" {
			t.Errorf("certbot email not persisted: %s", loaded.CertbotEmail)
		}
		if loaded.Defaults.Port != 8080 {
			t.Errorf("default port not persisted: %d", loaded.Defaults.Port)
		}
	})

	t.Run("PartialFileGetsDefaults", func(t *testing.T) {
		path, err := Path()
		if err != nil {
			t.Fatalf("Path failed: %v", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir failed: %v", err)
		}
		partial := "certbot_email: ops@example.com\n"
		if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		s, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if s.CertbotEmail != "ops@example.com" {
			t.Errorf("email not loaded: %s", s.CertbotEmail)
		}
		if s.Paths.Enabled != "/etc/nginx/sites-enabled" {
			t.Errorf("missing path should fall back to default, got %s", s.Paths.Enabled)
		}
		if s.Defaults.Index != "index.html" {
			t.Errorf("missing index should fall back to default, got %s", s.Defaults.Index)
		}
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		path, _ := Path()
		if err := os.WriteFile(path, []byte("paths: [not a map"), 0644); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if _, err := Load(); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}
