package main

import "testing"

func TestThemeConfigEmptyNameMeansNoTheme(t *testing.T) {
	cfg, err := themeConfig(Config{})
	if err != nil {
		t.Fatalf("theme config: %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected nil renderer config, got %+v", cfg)
	}
}

func TestThemeConfigResolvesVariantTokens(t *testing.T) {
	cfg, err := themeConfig(Config{Theme: "slate", ThemeVariant: "dark"})
	if err != nil {
		t.Fatalf("theme config: %v", err)
	}
	if cfg == nil {
		t.Fatalf("expected renderer config")
	}
	if cfg.Theme != "slate" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection: %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Tokens["surface"] != "#14161c" {
		t.Fatalf("expected dark surface token, got %q", cfg.Tokens["surface"])
	}
	if cfg.CSSVars["--surface"] != "#14161c" {
		t.Fatalf("expected css var derived from token, got %q", cfg.CSSVars["--surface"])
	}
	if cfg.Tokens["danger"] != "#c43d3d" {
		t.Fatalf("expected base token to survive variant merge, got %q", cfg.Tokens["danger"])
	}
}

func TestThemeConfigUnknownTheme(t *testing.T) {
	if _, err := themeConfig(Config{Theme: "neon"}); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestThemeConfigUnknownVariant(t *testing.T) {
	if _, err := themeConfig(Config{Theme: "paper", ThemeVariant: "dark"}); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}
