package console

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/goliatone/go-kbadmin/pkg/forms"
	"github.com/goliatone/go-kbadmin/pkg/kb"
	"github.com/goliatone/go-kbadmin/pkg/render"
	"github.com/goliatone/go-kbadmin/pkg/renderers/html"
)

// uploadFieldName is the multipart field carrying the picked file. It is not
// a flowform field; the upload form splices it in ahead of the sections.
const uploadFieldName = "file"

const maxUploadBytes = 64 << 20

func (c *Console) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, c.route("/workspaces"), http.StatusFound)
}

func (c *Console) handleWorkspaceList(w http.ResponseWriter, r *http.Request) {
	workspaces, err := c.client.ListWorkspaces(r.Context())
	if err != nil {
		c.writeErrorPage(w, r, "Workspaces", err)
		return
	}
	content, err := c.html.RenderWorkspaceList(r.Context(), workspaces)
	if err != nil {
		c.writeServerError(w, err)
		return
	}

	status, kind := c.takeStatus(forms.CreateWorkspaceID)
	c.writePage(w, r, http.StatusOK, html.Page{
		Title:      "Workspaces",
		Status:     status,
		StatusKind: kind,
		Content:    string(content),
	})
}

func (c *Console) handleWorkspaceDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := c.client.Workspace(r.Context(), r.PathValue("id"))
	if err != nil {
		c.writeErrorPage(w, r, "Workspace", err)
		return
	}
	content, err := c.html.RenderWorkspaceDetail(r.Context(), detail)
	if err != nil {
		c.writeServerError(w, err)
		return
	}
	c.writePage(w, r, http.StatusOK, html.Page{Title: detail.Name, Content: string(content)})
}

func (c *Console) handleDocumentPreview(w http.ResponseWriter, r *http.Request) {
	doc, err := c.client.Document(r.Context(), r.PathValue("id"), r.PathValue("doc"))
	if err != nil {
		c.writeErrorPage(w, r, "Document", err)
		return
	}
	content, err := c.html.RenderDocumentPreview(r.Context(), doc)
	if err != nil {
		c.writeServerError(w, err)
		return
	}
	c.writePage(w, r, http.StatusOK, html.Page{Title: doc.Title, Content: string(content)})
}

func (c *Console) handleCreateWorkspaceForm(w http.ResponseWriter, r *http.Request) {
	c.writeCreatePage(w, r, http.StatusOK, nil, "", "")
}

func (c *Console) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	_, inst, problems, err := c.applySubmission(forms.CreateWorkspaceID, r.PostForm)
	if err != nil {
		c.writeServerError(w, err)
		return
	}
	if len(problems) > 0 {
		c.writeCreatePage(w, r, http.StatusUnprocessableEntity, problems, "", "")
		return
	}

	name := textValue(inst, forms.FieldName)
	ws, err := c.client.CreateWorkspace(r.Context(), name, textValue(inst, forms.FieldDescription))
	if err != nil {
		c.logger.Warn("create workspace failed", zap.Error(err))
		c.writeCreatePage(w, r, statusCodeFor(err), nil, err.Error(), "error")
		return
	}

	c.logger.Info("workspace created", zap.String("id", ws.ID), zap.String("name", ws.Name))
	c.resetForm(forms.CreateWorkspaceID, fmt.Sprintf("Workspace %q created.", ws.Name))
	http.Redirect(w, r, c.route("/workspaces"), http.StatusSeeOther)
}

func (c *Console) handleIngestPage(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.PathValue("id")
	detail, err := c.client.Workspace(r.Context(), workspaceID)
	if err != nil {
		c.writeErrorPage(w, r, "Ingest", err)
		return
	}

	status, kind := c.takeStatus(forms.IngestTextID, forms.IngestFileID)
	c.writeIngestPage(w, r, workspaceID, "Ingest into "+detail.Name, http.StatusOK, status, kind, nil, nil)
}

func (c *Console) handleIngestText(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	_, inst, problems, err := c.applySubmission(forms.IngestTextID, r.PostForm)
	if err != nil {
		c.writeServerError(w, err)
		return
	}
	if len(problems) > 0 {
		c.writeIngestPage(w, r, workspaceID, "Ingest documents", http.StatusUnprocessableEntity, "", "", problems, nil)
		return
	}

	ingestion := kb.TextIngestion{
		Title:        textValue(inst, forms.FieldTitle),
		Content:      textValue(inst, forms.FieldContent),
		ChunkSize:    intValue(inst, forms.FieldChunkSize, forms.DefaultChunkSize),
		ChunkOverlap: intValue(inst, forms.FieldChunkOverlap, forms.DefaultChunkOverlap),
	}
	if err := c.client.IngestText(r.Context(), workspaceID, ingestion); err != nil {
		c.logger.Warn("ingest text failed", zap.String("workspace", workspaceID), zap.Error(err))
		c.writeIngestPage(w, r, workspaceID, "Ingest documents", statusCodeFor(err), err.Error(), "error", nil, nil)
		return
	}

	c.logger.Info("text ingested", zap.String("workspace", workspaceID), zap.String("title", ingestion.Title))
	c.resetForm(forms.IngestTextID, fmt.Sprintf("Document %q ingested.", ingestion.Title))
	http.Redirect(w, r, c.ingestPagePath(workspaceID), http.StatusSeeOther)
}

func (c *Console) handleIngestFile(w http.ResponseWriter, r *http.Request) {
	workspaceID := r.PathValue("id")
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "malformed upload", http.StatusBadRequest)
		return
	}

	file, header, fileErr := r.FormFile(uploadFieldName)
	_, inst, problems, err := c.applySubmission(forms.IngestFileID, r.PostForm)
	if err != nil {
		c.writeServerError(w, err)
		return
	}
	if fileErr != nil {
		problems = render.MergeFieldErrors(problems, map[string][]string{
			uploadFieldName: {"choose a file to upload"},
		})
	} else {
		defer func() {
			_ = file.Close()
		}()
	}
	if len(problems) > 0 {
		c.writeIngestPage(w, r, workspaceID, "Ingest documents", http.StatusUnprocessableEntity, "", "", nil, problems)
		return
	}

	ingestion := kb.FileIngestion{
		ChunkSize:    intValue(inst, forms.FieldChunkSize, forms.DefaultChunkSize),
		ChunkOverlap: intValue(inst, forms.FieldChunkOverlap, forms.DefaultChunkOverlap),
		APIKey:       textValue(inst, forms.FieldAPIKey),
	}
	if err := c.client.IngestFile(r.Context(), workspaceID, header.Filename, file, ingestion); err != nil {
		c.logger.Warn("ingest file failed", zap.String("workspace", workspaceID), zap.Error(err))
		c.writeIngestPage(w, r, workspaceID, "Ingest documents", statusCodeFor(err), err.Error(), "error", nil, nil)
		return
	}

	c.logger.Info("file ingested", zap.String("workspace", workspaceID), zap.String("filename", header.Filename))
	c.resetForm(forms.IngestFileID, fmt.Sprintf("File %q ingested.", header.Filename))
	http.Redirect(w, r, c.ingestPagePath(workspaceID), http.StatusSeeOther)
}

func (c *Console) handleSettingsPage(w http.ResponseWriter, r *http.Request) {
	status, kind := c.takeStatus(forms.SettingsID)
	c.writeSettingsPage(w, r, http.StatusOK, nil, status, kind)
}

func (c *Console) handleSettingsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	_, inst, problems, err := c.applySubmission(forms.SettingsID, r.PostForm)
	if err != nil {
		c.writeServerError(w, err)
		return
	}
	if len(problems) > 0 {
		c.writeSettingsPage(w, r, http.StatusUnprocessableEntity, problems, "", "")
		return
	}

	if err := c.keys.Set(textValue(inst, forms.FieldAPIKey)); err != nil {
		c.logger.Error("store api key failed", zap.Error(err))
		c.writeSettingsPage(w, r, http.StatusInternalServerError, nil, "Could not store the API key.", "error")
		return
	}

	c.setStatus(forms.SettingsID, "API key saved.", "info")
	http.Redirect(w, r, c.route("/settings"), http.StatusSeeOther)
}

func (c *Console) writeCreatePage(w http.ResponseWriter, r *http.Request, code int, problems map[string][]string, status, kind string) {
	view, err := c.viewFor(forms.CreateWorkspaceID, c.route("/workspaces"), "Create workspace", problems)
	if err != nil {
		c.writeServerError(w, err)
		return
	}
	content, err := c.html.Render(r.Context(), view)
	if err != nil {
		c.writeServerError(w, err)
		return
	}
	c.writePage(w, r, code, html.Page{
		Title:      "New workspace",
		Status:     status,
		StatusKind: kind,
		Content:    string(content),
	})
}

func (c *Console) writeSettingsPage(w http.ResponseWriter, r *http.Request, code int, problems map[string][]string, status, kind string) {
	view, err := c.viewFor(forms.SettingsID, c.route("/settings"), "Save settings", problems)
	if err != nil {
		c.writeServerError(w, err)
		return
	}
	content, err := c.html.Render(r.Context(), view)
	if err != nil {
		c.writeServerError(w, err)
		return
	}
	c.writePage(w, r, code, html.Page{
		Title:      "Settings",
		Status:     status,
		StatusKind: kind,
		Content:    string(content),
	})
}

// writeIngestPage renders the two ingestion forms on one page: paste text
// and upload file, each posting to its own route.
func (c *Console) writeIngestPage(w http.ResponseWriter, r *http.Request, workspaceID, title string, code int, status, kind string, textProblems, fileProblems map[string][]string) {
	ingestBase := "/workspaces/" + url.PathEscape(workspaceID) + "/ingest"

	textView, err := c.viewFor(forms.IngestTextID, c.route(ingestBase+"/text"), "Ingest text", textProblems)
	if err != nil {
		c.writeServerError(w, err)
		return
	}
	textMarkup, err := c.html.Render(r.Context(), textView)
	if err != nil {
		c.writeServerError(w, err)
		return
	}

	fileView, err := c.viewFor(forms.IngestFileID, c.route(ingestBase+"/file"), "Upload file", fileProblems)
	if err != nil {
		c.writeServerError(w, err)
		return
	}
	fileMarkup, err := c.html.RenderUploadForm(r.Context(), fileView, html.UploadField{
		Name:     uploadFieldName,
		Label:    "File",
		Hint:     "PDFs, text files and images. Images are captioned when an API key is stored.",
		Required: true,
	})
	if err != nil {
		c.writeServerError(w, err)
		return
	}

	content := `<section class="kb-ingest"><h2>Paste text</h2>` + string(textMarkup) + `</section>` +
		`<section class="kb-ingest"><h2>Upload a file</h2>` + string(fileMarkup) + `</section>`
	c.writePage(w, r, code, html.Page{
		Title:      title,
		Status:     status,
		StatusKind: kind,
		Content:    content,
	})
}

func (c *Console) writePage(w http.ResponseWriter, r *http.Request, code int, page html.Page) {
	out, err := c.html.RenderPage(r.Context(), page)
	if err != nil {
		c.writeServerError(w, err)
		return
	}
	w.Header().Set("Content-Type", c.html.ContentType())
	w.WriteHeader(code)
	_, _ = w.Write(out)
}

// writeErrorPage turns an upstream failure into a page with the error as its
// status banner. The message shows verbatim and nothing is retried.
func (c *Console) writeErrorPage(w http.ResponseWriter, r *http.Request, title string, err error) {
	c.logger.Warn("kb request failed", zap.String("page", title), zap.Error(err))
	c.writePage(w, r, statusCodeFor(err), html.Page{
		Title:      title,
		Status:     err.Error(),
		StatusKind: "error",
	})
}

func (c *Console) writeServerError(w http.ResponseWriter, err error) {
	c.logger.Error("console page failed", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (c *Console) ingestPagePath(workspaceID string) string {
	return c.route("/workspaces/" + url.PathEscape(workspaceID) + "/ingest")
}

// statusCodeFor maps an upstream failure onto the page response: not found
// passes through, other client errors render as 400, everything else is a
// bad gateway.
func statusCodeFor(err error) int {
	var apiErr *kb.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusNotFound:
			return http.StatusNotFound
		case apiErr.Status >= 400 && apiErr.Status < 500:
			return http.StatusBadRequest
		}
	}
	return http.StatusBadGateway
}
