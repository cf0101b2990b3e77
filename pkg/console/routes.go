package console

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Mux is the subset of http.ServeMux the console registers against.
// Patterns use the method and wildcard syntax of net/http.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Handler returns a mux serving the console at the root.
func (c *Console) Handler() http.Handler {
	mux := http.NewServeMux()
	// Registration at the root cannot fail.
	_ = c.RegisterRoutes(mux, "")
	return mux
}

// RegisterRoutes mounts every console page under basePath. The base also
// prefixes the action URLs and links rendered into pages, so register a
// console instance once, before serving.
func (c *Console) RegisterRoutes(mux Mux, basePath string) error {
	if mux == nil {
		return errors.New("console: mux is required")
	}
	base, err := normalizeBasePath(basePath)
	if err != nil {
		return err
	}
	c.basePath = base
	if base != "" {
		c.html = c.html.WithBase(base)
	}

	for _, route := range []struct {
		method  string
		path    string
		handler http.HandlerFunc
	}{
		{http.MethodGet, "/{$}", c.handleIndex},
		{http.MethodGet, "/workspaces", c.handleWorkspaceList},
		{http.MethodPost, "/workspaces", c.handleCreateWorkspace},
		{http.MethodGet, "/workspaces/new", c.handleCreateWorkspaceForm},
		{http.MethodGet, "/workspaces/{id}", c.handleWorkspaceDetail},
		{http.MethodGet, "/workspaces/{id}/ingest", c.handleIngestPage},
		{http.MethodPost, "/workspaces/{id}/ingest/text", c.handleIngestText},
		{http.MethodPost, "/workspaces/{id}/ingest/file", c.handleIngestFile},
		{http.MethodGet, "/workspaces/{id}/documents/{doc}", c.handleDocumentPreview},
		{http.MethodGet, "/settings", c.handleSettingsPage},
		{http.MethodPost, "/settings", c.handleSettingsSubmit},
	} {
		mux.Handle(route.method+" "+base+route.path, route.handler)
	}
	return nil
}

func (c *Console) route(path string) string {
	return c.basePath + path
}

func normalizeBasePath(base string) (string, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" || trimmed == "/" {
		return "", nil
	}
	if !strings.HasPrefix(trimmed, "/") {
		return "", fmt.Errorf("console: base path %q must start with /", base)
	}
	return strings.TrimRight(trimmed, "/"), nil
}
