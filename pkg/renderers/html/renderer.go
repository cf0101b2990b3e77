// Package html renders forms and console views as server-side HTML. Field
// controls are built in Go so value handling stays type-checked; the page
// chrome around them lives in embedded pongo2 templates that deployments
// can override wholesale.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-kbadmin/pkg/render"
	rendertemplate "github.com/goliatone/go-kbadmin/pkg/render/template"
	"github.com/goliatone/go-kbadmin/pkg/render/template/gotemplate"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies a resolved theme configuration. Class tokens override
// the kb- defaults and CSS vars are emitted into the rendered markup.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
	theme     *theme.RendererConfig
	classes   map[string]string
	basePath  string
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		theme:     cfg.theme,
		classes:   classTokens(cfg.theme),
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

// WithBase returns a copy of the renderer that prefixes every generated link
// with base. Pages mounted under a sub-path use it so navigation stays
// inside the mount.
func (r *Renderer) WithBase(base string) *Renderer {
	clone := *r
	clone.basePath = strings.TrimRight(strings.TrimSpace(base), "/")
	return &clone
}

func (r *Renderer) href(path string) string {
	if r.basePath == "" {
		return path
	}
	return r.basePath + path
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form markup for a FormView. Methods browsers cannot
// submit natively (PUT, PATCH, DELETE) become POST plus a hidden _method
// field.
func (r *Renderer) Render(_ context.Context, view render.FormView) ([]byte, error) {
	return r.renderForm(view, "", "")
}

// renderForm is the shared form pipeline. enctype overrides the form
// encoding and prelude is trusted markup emitted before the first section;
// both are used by RenderUploadForm to splice the file control in.
func (r *Renderer) renderForm(view render.FormView, enctype, prelude string) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	method, methodOverride := submitMethod(view.Method)

	hidden := view.Hidden
	if methodOverride != "" {
		hidden = render.MergeHiddenFields(hidden, render.Hidden("_method", methodOverride))
	}
	hiddenFields := make([]map[string]string, 0, len(hidden))
	for _, field := range render.SortedHiddenFields(hidden) {
		hiddenFields = append(hiddenFields, map[string]string{
			"name":  field.Name,
			"value": field.Value,
		})
	}

	knownFields := make(map[string]struct{}, view.Definition.Len())
	for _, id := range view.Definition.FieldIDs() {
		knownFields[id] = struct{}{}
	}

	sections := make([]map[string]any, 0, len(view.Definition.Sections))
	for _, section := range view.Definition.Sections {
		fields := make([]string, 0, len(section.Fields))
		for _, field := range section.Fields {
			value, _ := view.Instance.Value(field.ID)
			fields = append(fields, buildFieldMarkup(field, value, view.FieldErrors(field.ID), r.classes))
		}
		sections = append(sections, map[string]any{
			"title":       section.Title,
			"description": section.Description,
			"fields":      fields,
		})
	}

	submitLabel := strings.TrimSpace(view.SubmitLabel)
	if submitLabel == "" {
		submitLabel = "Save"
	}

	data := map[string]any{
		"form": map[string]any{
			"id":           view.Definition.ID,
			"action":       view.Action,
			"method":       method,
			"enctype":      enctype,
			"prelude":      prelude,
			"submit_label": submitLabel,
			"classes":      r.classes,
			"hidden":       hiddenFields,
			"form_errors":  formLevelErrors(view.Errors, knownFields),
			"sections":     sections,
		},
		"theme": r.themeContext(),
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form: %w", err)
	}
	return []byte(result), nil
}

// UploadField describes the free-standing file control RenderUploadForm adds
// ahead of the FormView sections. File inputs are not a flowform kind; the
// browser owns the picked file and the server reads it straight from the
// multipart body.
type UploadField struct {
	Name     string
	Label    string
	Hint     string
	Accept   string
	Required bool
}

// RenderUploadForm renders view as a multipart form with a file control
// before the first section. Everything else matches Render.
func (r *Renderer) RenderUploadForm(_ context.Context, view render.FormView, upload UploadField) ([]byte, error) {
	if strings.TrimSpace(upload.Name) == "" {
		return nil, fmt.Errorf("html renderer: upload field name is required")
	}
	return r.renderForm(view, "multipart/form-data", buildUploadMarkup(upload, r.classes))
}

func (r *Renderer) themeContext() map[string]any {
	if r.theme == nil {
		return nil
	}
	ctx := map[string]any{
		"name":     r.theme.Theme,
		"variant":  r.theme.Variant,
		"css_vars": cssVarLines(r.theme),
	}
	if r.theme.AssetURL != nil {
		if url := r.theme.AssetURL("stylesheet"); url != "" {
			ctx["stylesheet"] = url
		}
	}
	return ctx
}

// formLevelErrors collects messages keyed by ids the definition does not
// declare. They render in a block above the sections so feedback is never
// silently dropped.
func formLevelErrors(errors map[string][]string, knownFields map[string]struct{}) []string {
	if len(errors) == 0 {
		return nil
	}
	keys := make([]string, 0, len(errors))
	for key := range errors {
		if _, ok := knownFields[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var messages []string
	for _, key := range keys {
		messages = append(messages, errors[key]...)
	}
	return render.MergeMessages(messages)
}

func submitMethod(method string) (string, string) {
	normalized := strings.ToLower(strings.TrimSpace(method))
	switch normalized {
	case "", "post":
		return "post", ""
	case "get":
		return "get", ""
	default:
		return "post", normalized
	}
}
