// Package console serves the admin pages for one knowledge-base deployment:
// workspace list and detail, document preview, text and file ingestion, and
// settings. Every form page owns the live instance of its form, re-derives
// the definition on each request and reconciles the held draft against it,
// so catalog overrides and a freshly stored API key show up without losing
// edits in flight.
//
// The console is a single-operator surface: draft state is keyed by form id
// and shared across requests, not per session.
package console

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-kbadmin/pkg/catalog"
	"github.com/goliatone/go-kbadmin/pkg/forms"
	"github.com/goliatone/go-kbadmin/pkg/kb"
	"github.com/goliatone/go-kbadmin/pkg/keystore"
	"github.com/goliatone/go-kbadmin/pkg/render"
	"github.com/goliatone/go-kbadmin/pkg/renderers/html"
)

// Option configures the Console during construction.
type Option func(*Console)

// WithClient sets the knowledge-base API client. Required.
func WithClient(client *kb.Client) Option {
	return func(c *Console) {
		c.client = client
	}
}

// WithKeystore sets the store backing the captioning API key. Defaults to an
// in-memory store.
func WithKeystore(store keystore.Store) Option {
	return func(c *Console) {
		if store != nil {
			c.keys = store
		}
	}
}

// WithRegistry supplies the renderer registry RenderForm resolves against.
// Without one the console builds a registry holding its HTML renderer.
func WithRegistry(registry *render.Registry) Option {
	return func(c *Console) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithDefaultRenderer names the renderer RenderForm uses when the caller does
// not pick one.
func WithDefaultRenderer(name string) Option {
	return func(c *Console) {
		c.defaultRenderer = name
	}
}

// WithCatalog supplies file-based definitions that override the built-in
// page forms id by id.
func WithCatalog(store *catalog.Store) Option {
	return func(c *Console) {
		c.catalogStore = store
	}
}

// WithHTMLRenderer replaces the HTML renderer used for page chrome and form
// markup, typically to apply a theme or alternate templates.
func WithHTMLRenderer(renderer *html.Renderer) Option {
	return func(c *Console) {
		if renderer != nil {
			c.html = renderer
		}
	}
}

// WithLogger attaches a logger for request outcomes. The console stays
// silent without one.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Console wires the kb client, the form engine and the renderers into HTTP
// pages. Construct it with New; the zero value is not usable.
type Console struct {
	client          *kb.Client
	keys            keystore.Store
	registry        *render.Registry
	defaultRenderer string
	catalogStore    *catalog.Store
	html            *html.Renderer
	logger          *zap.Logger

	basePath string

	mu    sync.Mutex
	forms map[string]*formState

	initialiseErr   error
	defaultsApplied bool
}

// New constructs a Console, applying options then defaults.
func New(options ...Option) (*Console, error) {
	c := &Console{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.applyDefaults()
	if c.initialiseErr != nil {
		return nil, c.initialiseErr
	}
	if c.client == nil {
		return nil, errors.New("console: kb client is required")
	}
	return c, nil
}

func (c *Console) applyDefaults() {
	if c.defaultsApplied {
		return
	}
	c.defaultsApplied = true

	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.keys == nil {
		c.keys = keystore.NewMemory()
	}
	if c.forms == nil {
		c.forms = make(map[string]*formState)
	}
	if c.html == nil {
		renderer, err := html.New()
		if err != nil {
			c.initialiseErr = fmt.Errorf("console: build html renderer: %w", err)
			return
		}
		c.html = renderer
	}
	if c.registry == nil {
		c.registry = render.NewRegistry()
		if err := c.registry.Register(c.html); err != nil {
			c.initialiseErr = fmt.Errorf("console: register html renderer: %w", err)
			return
		}
	}
	if c.defaultRenderer == "" {
		c.defaultRenderer = c.html.Name()
	}
}

// rendererFor resolves a renderer by name, falling back to the configured
// default and then to the first registered renderer.
func (c *Console) rendererFor(name string) (render.Renderer, error) {
	if name != "" {
		return c.registry.Get(name)
	}
	if c.defaultRenderer != "" {
		if renderer, err := c.registry.Get(c.defaultRenderer); err == nil {
			return renderer, nil
		}
	}
	names := c.registry.List()
	if len(names) == 0 {
		return nil, errors.New("console: no renderers registered")
	}
	return c.registry.Get(names[0])
}

// RenderForm renders the named form through a registered renderer and
// reports the bytes plus their content type. An empty renderer name falls
// back to the default. The form's current draft is rendered, reconciled
// against the freshly derived definition first.
func (c *Console) RenderForm(ctx context.Context, formID, rendererName string) ([]byte, string, error) {
	if ctx == nil {
		return nil, "", errors.New("console: context is required")
	}
	renderer, err := c.rendererFor(rendererName)
	if err != nil {
		return nil, "", err
	}

	c.mu.Lock()
	def, state, err := c.currentForm(formID)
	if err != nil {
		c.mu.Unlock()
		return nil, "", err
	}
	view := render.FormView{Definition: def, Instance: state.instance}
	c.mu.Unlock()

	out, err := renderer.Render(ctx, view)
	if err != nil {
		return nil, "", err
	}
	return out, renderer.ContentType(), nil
}

// FormIDs lists the form ids the console can render: the built-in page forms
// plus any catalog definitions, sorted.
func (c *Console) FormIDs() []string {
	ids := map[string]struct{}{
		forms.CreateWorkspaceID: {},
		forms.IngestTextID:      {},
		forms.IngestFileID:      {},
		forms.SettingsID:        {},
	}
	if c.catalogStore != nil {
		for _, id := range c.catalogStore.IDs() {
			ids[id] = struct{}{}
		}
	}
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
