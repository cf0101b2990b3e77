package kb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"
)

// IngestFile uploads a file for server-side chunking and, for image media
// types, captioning when ingestion.APIKey is present. The key travels only in
// the request body and is never stored by the client.
func (c *Client) IngestFile(ctx context.Context, workspaceID, filename string, file io.Reader, ingestion FileIngestion) error {
	if strings.TrimSpace(workspaceID) == "" {
		return errors.New("kb: workspace id is required")
	}
	if strings.TrimSpace(filename) == "" {
		return errors.New("kb: filename is required")
	}
	if file == nil {
		return errors.New("kb: file reader is required")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("kb: build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("kb: read file: %w", err)
	}

	fields := map[string]string{
		"chunk_size":    strconv.Itoa(ingestion.ChunkSize),
		"chunk_overlap": strconv.Itoa(ingestion.ChunkOverlap),
	}
	if strings.TrimSpace(ingestion.APIKey) != "" {
		fields["api_key"] = ingestion.APIKey
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("kb: build upload: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("kb: build upload: %w", err)
	}

	path := "/workspaces/" + url.PathEscape(workspaceID) + "/documents/file"
	return c.do(ctx, "POST", path, writer.FormDataContentType(), &buf, nil)
}
