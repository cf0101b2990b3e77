package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaultsAndOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kbadmin.toml")
	content := `
api_url = "https://kb.internal.example"
api_timeout = "30s"
keystore = "/var/lib/kbadmin/api_key"
catalog = "/etc/kbadmin/forms"
theme = "slate"
theme_variant = "dark"
listen = "0.0.0.0:9000"
base_path = "/admin"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.APIBaseURL != "https://kb.internal.example" {
		t.Fatalf("unexpected api url: %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != 30*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.APITimeout)
	}
	if cfg.KeystorePath != "/var/lib/kbadmin/api_key" {
		t.Fatalf("unexpected keystore: %q", cfg.KeystorePath)
	}
	if cfg.CatalogDir != "/etc/kbadmin/forms" {
		t.Fatalf("unexpected catalog: %q", cfg.CatalogDir)
	}
	if cfg.Theme != "slate" || cfg.ThemeVariant != "dark" {
		t.Fatalf("unexpected theme: %q/%q", cfg.Theme, cfg.ThemeVariant)
	}
	if cfg.Listen != "0.0.0.0:9000" {
		t.Fatalf("unexpected listen: %q", cfg.Listen)
	}
	if cfg.BasePath != "/admin" {
		t.Fatalf("unexpected base path: %q", cfg.BasePath)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kbadmin.toml")
	content := `
api_url = "http://10.0.0.5:8000"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	defaults := defaultConfig()
	if cfg.APIBaseURL != "http://10.0.0.5:8000" {
		t.Fatalf("unexpected api url: %q", cfg.APIBaseURL)
	}
	if cfg.APITimeout != defaults.APITimeout {
		t.Fatalf("expected default timeout, got %v", cfg.APITimeout)
	}
	if cfg.Listen != defaults.Listen {
		t.Fatalf("expected default listen, got %q", cfg.Listen)
	}
	if cfg.KeystorePath != defaults.KeystorePath {
		t.Fatalf("expected default keystore, got %q", cfg.KeystorePath)
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kbadmin.toml")
	content := `
api_timeout = "abc"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := loadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadConfigNonPositiveTimeout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kbadmin.toml")
	content := `
api_timeout = "0s"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := loadConfig(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestResolveConfigExplicitMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, err := resolveConfig(missing); err == nil {
		t.Fatalf("expected error for missing explicit file")
	}
}

func TestResolveConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.toml")
	content := `
listen = "127.0.0.1:7777"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configEnvVar, path)

	cfg, err := resolveConfig("")
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.Listen != "127.0.0.1:7777" {
		t.Fatalf("expected env config applied, got %q", cfg.Listen)
	}
}
