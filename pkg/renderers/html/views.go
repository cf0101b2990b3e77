package html

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/goliatone/go-kbadmin/pkg/kb"
)

// Page wraps pre-rendered content in the console layout. Content is trusted
// markup produced by this package's other render calls.
type Page struct {
	Title string
	// Status carries the single feedback message surfaces show after an
	// action. Kind selects the styling: "error" or "info".
	Status     string
	StatusKind string
	Content    string
}

// RenderPage executes the layout template around pre-rendered content.
func (r *Renderer) RenderPage(_ context.Context, page Page) ([]byte, error) {
	statusKind := page.StatusKind
	if statusKind == "" {
		statusKind = "info"
	}
	data := map[string]any{
		"page": map[string]any{
			"title":       page.Title,
			"status":      page.Status,
			"status_kind": statusKind,
			"content":     page.Content,
		},
		"nav": map[string]any{
			"workspaces":    r.href("/workspaces"),
			"new_workspace": r.href("/workspaces/new"),
			"settings":      r.href("/settings"),
		},
		"theme": r.themeContext(),
	}
	result, err := r.templates.RenderTemplate("templates/layout.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page: %w", err)
	}
	return []byte(result), nil
}

// RenderWorkspaceList renders the workspace overview table.
func (r *Renderer) RenderWorkspaceList(_ context.Context, workspaces []kb.WorkspaceSummary) ([]byte, error) {
	items := make([]map[string]any, 0, len(workspaces))
	for _, ws := range workspaces {
		items = append(items, map[string]any{
			"id":          ws.ID,
			"url":         r.href("/workspaces/" + url.PathEscape(ws.ID)),
			"name":        ws.Name,
			"description": ws.Description,
			"documents":   ws.DocumentCount,
			"chunks":      ws.ChunkCount,
			"ready":       ws.Ready,
			"prebuilt":    ws.Source == kb.SourcePrebuilt,
			"updated":     formatTime(ws.UpdatedAt),
		})
	}

	result, err := r.templates.RenderTemplate("templates/workspace_list.tmpl", map[string]any{
		"workspaces": items,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render workspace list: %w", err)
	}
	return []byte(result), nil
}

// RenderWorkspaceDetail renders one workspace with its document table.
func (r *Renderer) RenderWorkspaceDetail(_ context.Context, detail kb.WorkspaceDetail) ([]byte, error) {
	workspacePath := "/workspaces/" + url.PathEscape(detail.ID)
	documents := make([]map[string]any, 0, len(detail.Documents))
	for _, doc := range detail.Documents {
		documents = append(documents, map[string]any{
			"id":       doc.ID,
			"url":      r.href(workspacePath + "/documents/" + url.PathEscape(doc.ID)),
			"title":    doc.Title,
			"chunks":   doc.ChunkCount,
			"size":     formatSize(doc.SizeBytes),
			"filename": doc.OriginalFilename,
		})
	}

	result, err := r.templates.RenderTemplate("templates/workspace_detail.tmpl", map[string]any{
		"workspace": map[string]any{
			"id":          detail.ID,
			"name":        detail.Name,
			"description": detail.Description,
			"documents":   detail.DocumentCount,
			"chunks":      detail.ChunkCount,
			"ready":       detail.Ready,
			"prebuilt":    detail.Source == kb.SourcePrebuilt,
			"updated":     formatTime(detail.UpdatedAt),
			"ingest_url":  r.href(workspacePath + "/ingest"),
		},
		"documents": documents,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render workspace detail: %w", err)
	}
	return []byte(result), nil
}

// RenderDocumentPreview renders a document's chunks. Chunk content passes
// through the sanitizer before it is embedded as markup.
func (r *Renderer) RenderDocumentPreview(_ context.Context, doc kb.DocumentDetail) ([]byte, error) {
	chunks := make([]map[string]any, 0, len(doc.Chunks))
	for _, chunk := range doc.Chunks {
		chunks = append(chunks, map[string]any{
			"id":      chunk.ID,
			"content": sanitizeChunkMarkup(chunk.Content),
		})
	}

	result, err := r.templates.RenderTemplate("templates/document_preview.tmpl", map[string]any{
		"document": map[string]any{
			"id":             doc.ID,
			"title":          doc.Title,
			"size":           formatSize(doc.SizeBytes),
			"filename":       doc.OriginalFilename,
			"file_available": doc.FileAvailable,
			"media_type":     doc.MediaType,
		},
		"chunks": chunks,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render document preview: %w", err)
	}
	return []byte(result), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func formatSize(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	case bytes > 0:
		return fmt.Sprintf("%d B", bytes)
	default:
		return "0 B"
	}
}
