package kbadmin

import (
	"context"

	"github.com/goliatone/go-kbadmin/pkg/catalog"
	"github.com/goliatone/go-kbadmin/pkg/console"
	"github.com/goliatone/go-kbadmin/pkg/flowform"
	"github.com/goliatone/go-kbadmin/pkg/kb"
	"github.com/goliatone/go-kbadmin/pkg/keystore"
	"github.com/goliatone/go-kbadmin/pkg/render"
)

// Definition aliases the form-definition type exported via the root package
// for convenience.
type Definition = flowform.Definition

// Section groups fields under an optional title.
type Section = flowform.Section

// Field describes one input of a form.
type Field = flowform.Field

// Choice is one option of a select field.
type Choice = flowform.Choice

// Value is the tagged value held for a field; its zero value means absent.
type Value = flowform.Value

// Values maps field ids to values.
type Values = flowform.Values

// Instance is the immutable state of one form in flight.
type Instance = flowform.Instance

// Client talks to the knowledge-base API.
type Client = kb.Client

// NewInstance materializes an instance for a definition, resolving initial
// values over field defaults.
func NewInstance(def Definition, initial Values) Instance {
	return flowform.New(def, initial)
}

// ResetInstance discards prior state and materializes afresh, exactly like
// NewInstance. The separate name keeps call sites honest about intent.
func ResetInstance(def Definition, initial Values) Instance {
	return flowform.Reset(def, initial)
}

// Text builds a present text value; Text("") is explicitly empty, not absent.
func Text(s string) Value { return flowform.Text(s) }

// Number builds a numeric value.
func Number(n float64) Value { return flowform.Number(n) }

// Bool builds a boolean value.
func Bool(b bool) Value { return flowform.Bool(b) }

// Secret builds a sensitive text value renderers must not echo.
func Secret(s string) Value { return flowform.Secret(s) }

// NewClient exposes the kb client constructor from the top-level module.
func NewClient(baseURL string, options ...kb.Option) (*kb.Client, error) {
	return kb.New(baseURL, options...)
}

// NewConsole exposes the console constructor from the top-level module.
func NewConsole(options ...console.Option) (*console.Console, error) {
	return console.New(options...)
}

// WithClient sets the kb client on a console.
func WithClient(client *kb.Client) console.Option {
	return console.WithClient(client)
}

// WithKeystore sets the store backing the captioning API key.
func WithKeystore(store keystore.Store) console.Option {
	return console.WithKeystore(store)
}

// WithCatalog supplies file-based definitions that override the built-in
// page forms.
func WithCatalog(store *catalog.Store) console.Option {
	return console.WithCatalog(store)
}

// WithRegistry supplies the renderer registry RenderForm resolves against.
func WithRegistry(registry *render.Registry) console.Option {
	return console.WithRegistry(registry)
}

// WithDefaultRenderer names the renderer used when a caller does not pick
// one.
func WithDefaultRenderer(name string) console.Option {
	return console.WithDefaultRenderer(name)
}

// RenderForm builds a console from the options and renders the named form
// through the named renderer. It is the simplest entry point for callers that
// just want the form output and its content type.
func RenderForm(ctx context.Context, formID, rendererName string, options ...console.Option) ([]byte, string, error) {
	con, err := console.New(options...)
	if err != nil {
		return nil, "", err
	}
	return con.RenderForm(ctx, formID, rendererName)
}
