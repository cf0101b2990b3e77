package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// configEnvVar overrides the config file location when --config is not set.
const configEnvVar = "KBADMIN_CONFIG"

// defaultConfigFile is looked up in the working directory when neither the
// flag nor the env var names a file. A missing default file is not an error.
const defaultConfigFile = "kbadmin.toml"

// Config is the resolved runtime configuration: defaults, overlaid with the
// TOML file, overlaid with flags.
type Config struct {
	APIBaseURL   string
	APITimeout   time.Duration
	KeystorePath string
	CatalogDir   string
	Theme        string
	ThemeVariant string
	Listen       string
	BasePath     string
}

type fileConfig struct {
	APIBaseURL   string `toml:"api_url"`
	APITimeout   string `toml:"api_timeout"`
	KeystorePath string `toml:"keystore"`
	CatalogDir   string `toml:"catalog"`
	Theme        string `toml:"theme"`
	ThemeVariant string `toml:"theme_variant"`
	Listen       string `toml:"listen"`
	BasePath     string `toml:"base_path"`
}

func defaultConfig() Config {
	return Config{
		APIBaseURL:   "http://127.0.0.1:8000",
		APITimeout:   15 * time.Second,
		KeystorePath: defaultKeystorePath(),
		Listen:       "127.0.0.1:8088",
	}
}

// defaultKeystorePath places the stored API key under the user config dir,
// falling back to a dotfile next to the working directory when the platform
// reports no config dir.
func defaultKeystorePath() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "kbadmin", "api_key")
	}
	return filepath.Join(".kbadmin", "api_key")
}

// resolveConfig picks the config file (flag, then env, then the default name
// in the working directory) and loads it over the defaults. An explicitly
// named file must exist; the implicit default may be absent.
func resolveConfig(flagPath string) (Config, error) {
	path := strings.TrimSpace(flagPath)
	explicit := path != ""
	if !explicit {
		path = strings.TrimSpace(os.Getenv(configEnvVar))
		explicit = path != ""
	}
	if !explicit {
		path = defaultConfigFile
		if _, err := os.Stat(path); err != nil {
			return defaultConfig(), nil
		}
	}
	return loadConfig(path)
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	if meta.IsDefined("api_url") {
		if v := strings.TrimSpace(raw.APIBaseURL); v != "" {
			cfg.APIBaseURL = v
		}
	}

	if meta.IsDefined("api_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.APITimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse api_timeout: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("api_timeout must be positive, got %s", d)
		}
		cfg.APITimeout = d
	}

	if meta.IsDefined("keystore") {
		if v := strings.TrimSpace(raw.KeystorePath); v != "" {
			cfg.KeystorePath = v
		}
	}

	if meta.IsDefined("catalog") {
		cfg.CatalogDir = strings.TrimSpace(raw.CatalogDir)
	}

	if meta.IsDefined("theme") {
		cfg.Theme = strings.TrimSpace(raw.Theme)
	}

	if meta.IsDefined("theme_variant") {
		cfg.ThemeVariant = strings.TrimSpace(raw.ThemeVariant)
	}

	if meta.IsDefined("listen") {
		if v := strings.TrimSpace(raw.Listen); v != "" {
			cfg.Listen = v
		}
	}

	if meta.IsDefined("base_path") {
		cfg.BasePath = strings.TrimSpace(raw.BasePath)
	}

	return cfg, nil
}
