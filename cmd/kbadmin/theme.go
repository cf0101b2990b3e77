package main

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-kbadmin/pkg/renderers/html"
)

// builtinManifests returns the console color schemes shipped with the binary.
// Deployments that want their own look override the class tokens through a
// catalog-adjacent manifest in a later config key; for now the set is fixed.
func builtinManifests() map[string]*theme.Manifest {
	return map[string]*theme.Manifest{
		"slate": {
			Name:    "slate",
			Version: "1.0.0",
			Tokens: map[string]string{
				"surface": "#f4f5f7",
				"panel":   "#ffffff",
				"ink":     "#1f2430",
				"muted":   "#5c6370",
				"accent":  "#2f6fed",
				"danger":  "#c43d3d",
			},
			Variants: map[string]theme.Variant{
				"dark": {
					Tokens: map[string]string{
						"surface": "#14161c",
						"panel":   "#1d2026",
						"ink":     "#e6e8ee",
						"muted":   "#9aa1ad",
						"accent":  "#6c9bff",
					},
				},
			},
		},
		"paper": {
			Name:    "paper",
			Version: "1.0.0",
			Tokens: map[string]string{
				"surface": "#fbf8f1",
				"panel":   "#fffdf8",
				"ink":     "#2b2a26",
				"muted":   "#6f6a5e",
				"accent":  "#8a6d3b",
				"danger":  "#a94442",
			},
		},
	}
}

// themeConfig resolves the configured theme name and variant into the
// renderer config the HTML renderer consumes. No configured theme means the
// renderer's built-in classes and no CSS vars.
func themeConfig(cfg Config) (*theme.RendererConfig, error) {
	name := strings.TrimSpace(cfg.Theme)
	if name == "" {
		return nil, nil
	}
	manifests := builtinManifests()
	manifest, ok := manifests[name]
	if !ok {
		return nil, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(manifestNames(manifests), ", "))
	}
	variant := strings.TrimSpace(cfg.ThemeVariant)
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("theme %q has no variant %q", name, variant)
		}
	}
	return html.ThemeFromSelection(&theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}), nil
}

func manifestNames(manifests map[string]*theme.Manifest) []string {
	names := make([]string, 0, len(manifests))
	for name := range manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
