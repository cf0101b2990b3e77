package workspaces

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/goliatone/go-kbadmin/pkg/kb"
)

// HTTPError lets a guard pick the status code for a rejected request.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is the simplest HTTPError: a code plus an optional cause.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

// StatusCode returns the configured code, defaulting to 500 when unset.
func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type optionsResponse struct {
	Data []Option `json:"data"`
}

// Handler is shorthand for NewHandler.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

// NewHandler builds the options handler from defaults plus overrides.
func NewHandler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds the handler from a pre-built options value. The
// value is re-normalized so callers that assembled Options by hand still get
// the defaults and clamps.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r == nil {
			writeStatus(w, http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			writeStatus(w, http.StatusMethodNotAllowed)
			return
		}
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeStatus(w, guardStatus(err))
				return
			}
		}

		summaries, errStatus := resolveSummaries(r, opts)
		if errStatus != 0 {
			writeStatus(w, errStatus)
			return
		}

		params := r.URL.Query()
		results := SearchOptions(summaries,
			params.Get(opts.SearchParam),
			params.Get(opts.SourceParam),
			queryInt(params.Get(opts.LimitParam)),
			opts)
		if results == nil {
			results = []Option{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(true)
		_ = enc.Encode(optionsResponse{Data: results})
	})
}

// resolveSummaries prefers the fixed list, then the lister. No source at all
// is a wiring mistake and reports 500; a failing lister reports 502 so the
// operator can tell an upstream outage from a handler bug.
func resolveSummaries(r *http.Request, opts Options) ([]kb.WorkspaceSummary, int) {
	if opts.Workspaces != nil {
		return opts.Workspaces, 0
	}
	if opts.Lister == nil {
		return nil, http.StatusInternalServerError
	}
	summaries, err := opts.Lister.ListWorkspaces(r.Context())
	if err != nil {
		return nil, http.StatusBadGateway
	}
	return summaries, 0
}

// guardStatus extracts the status a guard error asks for, defaulting to 403.
func guardStatus(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		if code := httpErr.StatusCode(); code > 0 {
			return code
		}
	}
	return http.StatusForbidden
}

func writeStatus(w http.ResponseWriter, code int) {
	http.Error(w, http.StatusText(code), code)
}

// queryInt parses a query integer, treating junk the same as unset.
func queryInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
