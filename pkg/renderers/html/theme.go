package html

import (
	"sort"

	theme "github.com/goliatone/go-theme"
)

// Class token keys the renderer looks up in the theme Tokens map. Absent
// keys fall back to the kb- defaults so an unthemed renderer still emits
// styleable markup.
const (
	classForm    = "form"
	classSection = "section"
	classField   = "field"
	classLabel   = "label"
	classInput   = "input"
	classHint    = "hint"
	classErrors  = "errors"
	classActions = "actions"
	classSubmit  = "submit"
)

func defaultClassTokens() map[string]string {
	return map[string]string{
		classForm:    "kb-form",
		classSection: "kb-section",
		classField:   "kb-field",
		classLabel:   "kb-label",
		classInput:   "kb-input",
		classHint:    "kb-hint",
		classErrors:  "kb-errors",
		classActions: "kb-actions",
		classSubmit:  "kb-submit",
	}
}

// ThemeFromSelection flattens a go-theme selection into the renderer config
// consumed by WithTheme. Variant tokens override base manifest tokens;
// CSS custom properties are derived from the merged token set.
func ThemeFromSelection(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}

	manifest := selection.Manifest
	tokens := make(map[string]string, len(manifest.Tokens))
	for key, value := range manifest.Tokens {
		tokens[key] = value
	}

	assets := theme.Assets{
		Prefix: manifest.Assets.Prefix,
		Files:  make(map[string]string, len(manifest.Assets.Files)),
	}
	for key, value := range manifest.Assets.Files {
		assets.Files[key] = value
	}

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
		for key, value := range variant.Assets.Files {
			assets.Files[key] = value
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
		Tokens:  tokens,
		CSSVars: cssVars,
		AssetURL: func(key string) string {
			if key == "" {
				return ""
			}
			file, ok := assets.Files[key]
			if !ok {
				return ""
			}
			prefix := assets.Prefix
			if prefix == "" {
				return file
			}
			return prefix + "/" + file
		},
	}
}

// classTokens merges theme token overrides over the defaults. Only keys the
// renderer understands are consulted; unrelated theme tokens pass through
// untouched as CSS vars.
func classTokens(cfg *theme.RendererConfig) map[string]string {
	classes := defaultClassTokens()
	if cfg == nil {
		return classes
	}
	for key := range classes {
		if override, ok := cfg.Tokens["class."+key]; ok && override != "" {
			classes[key] = override
		}
	}
	return classes
}

// cssVarLines renders CSS custom properties in sorted order for a <style>
// block. Deterministic output keeps rendered pages diffable.
func cssVarLines(cfg *theme.RendererConfig) []map[string]string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return nil
	}
	names := make([]string, 0, len(cfg.CSSVars))
	for name := range cfg.CSSVars {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]map[string]string, 0, len(names))
	for _, name := range names {
		out = append(out, map[string]string{"name": name, "value": cfg.CSSVars[name]})
	}
	return out
}
