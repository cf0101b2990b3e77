// Package render defines the contract between form state and the surfaces
// that draw it. A FormView pairs a definition with the instance holding the
// current values; renderers turn that pair into bytes for a particular
// medium (HTML for the console, JSON for scripting, prompts for the TUI).
package render

import (
	"context"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
)

// FormView is the complete input a renderer needs for one form. Values come
// from the instance, never from ad-hoc maps, so every surface shows the same
// state the engine tracks.
type FormView struct {
	Definition flowform.Definition
	Instance   flowform.Instance

	// Action and Method describe the submission target for surfaces that
	// produce real <form> elements. Renderers that do not submit (TUI,
	// JSON) ignore them.
	Action string
	Method string

	// SubmitLabel overrides the submit control text. Empty means the
	// renderer's default.
	SubmitLabel string

	// Errors carries advisory messages keyed by field id. The engine never
	// produces these; they come from the caller's submit-time checks or
	// from the API response.
	Errors map[string][]string

	// Hidden lists extra name/value pairs the rendered form must round-trip
	// (tokens, version hints). Only meaningful for HTML output.
	Hidden map[string]string
}

// FieldErrors returns the messages attached to a field id.
func (v FormView) FieldErrors(id string) []string {
	if len(v.Errors) == 0 {
		return nil
	}
	return v.Errors[id]
}

// HiddenFields returns the hidden inputs in deterministic order.
func (v FormView) HiddenFields() []HiddenField {
	return SortedHiddenFields(v.Hidden)
}

// Renderer converts a FormView into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view FormView) ([]byte, error)
}
