package kb

import "time"

// Workspace source values reported by the API.
const (
	SourceUser     = "user"
	SourcePrebuilt = "prebuilt"
)

// WorkspaceSummary is the listing row for one knowledge-base workspace.
type WorkspaceSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	DocumentCount int       `json:"document_count"`
	ChunkCount    int       `json:"chunk_count"`
	Ready         bool      `json:"ready"`
	Source        string    `json:"source"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DocumentSummary is the listing row for one ingested document.
type DocumentSummary struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	ChunkCount       int    `json:"chunk_count"`
	SizeBytes        int64  `json:"size_bytes"`
	OriginalFilename string `json:"original_filename,omitempty"`
}

// WorkspaceDetail extends the summary with the workspace's documents in
// server order.
type WorkspaceDetail struct {
	WorkspaceSummary
	Documents []DocumentSummary `json:"documents"`
}

// Chunk is one retrieval segment of a document.
type Chunk struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// DocumentDetail extends the document summary with the chunk preview data.
type DocumentDetail struct {
	DocumentSummary
	FileAvailable bool    `json:"file_available"`
	MediaType     string  `json:"media_type,omitempty"`
	Chunks        []Chunk `json:"chunks"`
}

// TextIngestion is the payload for pasting text into a workspace. The server
// performs the chunking; ChunkSize and ChunkOverlap are passed through as
// hints.
type TextIngestion struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	ChunkSize    int    `json:"chunk_size"`
	ChunkOverlap int    `json:"chunk_overlap"`
}

// FileIngestion carries the chunking hints for a file upload. APIKey is
// optional; when present the server captions image media types with it.
type FileIngestion struct {
	ChunkSize    int
	ChunkOverlap int
	APIKey       string
}
