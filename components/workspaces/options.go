package workspaces

import (
	"context"
	"net/http"

	"github.com/goliatone/go-kbadmin/pkg/kb"
)

// EmptySearchMode decides what an empty query returns.
type EmptySearchMode string

const (
	// EmptySearchNone returns nothing until the user types.
	EmptySearchNone EmptySearchMode = "none"
	// EmptySearchTop returns the top of the list, so a picker has options
	// to show before the first keystroke.
	EmptySearchTop EmptySearchMode = "top"
)

// Lister supplies the workspace summaries the handler filters. *kb.Client
// satisfies it.
type Lister interface {
	ListWorkspaces(ctx context.Context) ([]kb.WorkspaceSummary, error)
}

// GuardFunc runs before a request is served. A non-nil error rejects the
// request; return a StatusError to pick the response code.
type GuardFunc func(r *http.Request) error

// Options configures the handler: route and query parameter names, limit
// clamps, empty-query behaviour, and the summary source.
type Options struct {
	RoutePath       string
	SearchParam     string
	LimitParam      string
	SourceParam     string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode
	Guard           GuardFunc

	// Workspaces takes precedence over Lister when both are set.
	Lister     Lister
	Workspaces []kb.WorkspaceSummary
}

// OptionFn mutates an Options value during NewOptions.
type OptionFn func(*Options)

// DefaultOptions returns the component defaults.
func DefaultOptions() Options {
	return Options{
		RoutePath:       "/api/workspaces",
		SearchParam:     "q",
		LimitParam:      "limit",
		SourceParam:     "source",
		DefaultLimit:    50,
		MaxLimit:        200,
		EmptySearchMode: EmptySearchTop,
	}
}

// NewOptions applies overrides to the defaults and normalizes the result:
// zero or negative clamps fall back to the defaults, empty names are
// restored, and a supplied summary slice is copied.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 50
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 200
	}
	if opts.EmptySearchMode == "" {
		opts.EmptySearchMode = EmptySearchTop
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/workspaces"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	if opts.SourceParam == "" {
		opts.SourceParam = "source"
	}
	if opts.Workspaces != nil {
		opts.Workspaces = append([]kb.WorkspaceSummary{}, opts.Workspaces...)
	}
	return opts
}

// WithRoutePath sets the path the handler mounts under.
func WithRoutePath(path string) OptionFn {
	return func(o *Options) { o.RoutePath = path }
}

// WithSearchParam renames the query-text parameter.
func WithSearchParam(name string) OptionFn {
	return func(o *Options) { o.SearchParam = name }
}

// WithLimitParam renames the limit parameter.
func WithLimitParam(name string) OptionFn {
	return func(o *Options) { o.LimitParam = name }
}

// WithSourceParam renames the source-filter parameter.
func WithSourceParam(name string) OptionFn {
	return func(o *Options) { o.SourceParam = name }
}

// WithDefaultLimit sets the result count used when no limit is given.
func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) { o.DefaultLimit = limit }
}

// WithMaxLimit caps the limit a request may ask for.
func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) { o.MaxLimit = limit }
}

// WithEmptySearchMode decides what an empty query returns.
func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) { o.EmptySearchMode = mode }
}

// WithGuard installs a pre-request check.
func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) { o.Guard = guard }
}

// WithLister supplies the live summary source, usually the kb client.
func WithLister(lister Lister) OptionFn {
	return func(o *Options) { o.Lister = lister }
}

// WithWorkspaces supplies a fixed summary list, which makes deterministic
// tests straightforward. The slice is copied.
func WithWorkspaces(summaries []kb.WorkspaceSummary) OptionFn {
	return func(o *Options) {
		if summaries == nil {
			o.Workspaces = nil
			return
		}
		o.Workspaces = append([]kb.WorkspaceSummary{}, summaries...)
	}
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}
