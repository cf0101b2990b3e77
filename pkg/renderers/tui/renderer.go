// Package tui fills forms through interactive terminal prompts. A Session
// walks a definition field by field, seeding each prompt from the instance
// state and applying answers back through the engine. The Renderer wraps a
// session so interactive filling can sit in the same registry as the markup
// renderers, serializing the filled values instead of producing markup.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
	"github.com/goliatone/go-kbadmin/pkg/render"
)

// Renderer adapts a Session to the render.Renderer contract. Render prompts
// for every field, then emits the filled values as JSON or a text summary.
type Renderer struct {
	session *Session
	format  OutputFormat
}

// New builds a renderer. Without options it prompts on the real terminal and
// emits JSON.
func New(options ...Option) (*Renderer, error) {
	cfg, err := buildConfig(options...)
	if err != nil {
		return nil, err
	}
	switch cfg.format {
	case OutputFormatJSON, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", cfg.format)
	}
	return &Renderer{
		session: &Session{driver: cfg.driver, theme: cfg.theme},
		format:  cfg.format,
	}, nil
}

// Name identifies the renderer in a registry.
func (r *Renderer) Name() string { return "tui" }

// ContentType reports the media type of Render output.
func (r *Renderer) ContentType() string {
	if r.format == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Render fills the view's form interactively and serializes the result. JSON
// output carries the raw values, secrets included, since it is the submission
// payload; the pretty format masks secrets because it is meant for eyes.
func (r *Renderer) Render(ctx context.Context, view render.FormView) ([]byte, error) {
	filled, err := r.session.Fill(ctx, view.Definition, view.Instance)
	if err != nil {
		return nil, err
	}
	if r.format == OutputFormatPrettyText {
		return prettyText(view.Definition, filled), nil
	}
	out, err := json.MarshalIndent(filled.Values(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: marshal values: %w", err)
	}
	return append(out, '\n'), nil
}

func prettyText(def flowform.Definition, inst flowform.Instance) []byte {
	var b strings.Builder
	for _, field := range def.Fields() {
		value, ok := inst.Value(field.ID)
		if !ok || value.IsZero() {
			continue
		}
		display := value.String()
		if value.Kind() == flowform.ValueSecret && display != "" {
			display = "********"
		}
		fmt.Fprintf(&b, "%s: %s\n", labelOf(field), display)
	}
	return []byte(b.String())
}
