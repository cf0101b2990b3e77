// Package forms holds the canonical form definitions used by the console
// pages and the CLI. Definitions are rebuilt on every call so callers can
// mutate their copy freely; field ids are the stable contract that lets
// reconciliation carry user edits across rebuilds.
package forms

import (
	"github.com/goliatone/go-kbadmin/pkg/flowform"
	"github.com/goliatone/go-kbadmin/pkg/keystore"
)

// Definition ids. Pages key their instances by these, and the catalog can
// override a definition under the same id.
const (
	CreateWorkspaceID = "workspace.create"
	IngestTextID      = "ingest.text"
	IngestFileID      = "ingest.file"
	SettingsID        = "settings"
)

// Field ids shared between definitions and the kb client payloads.
const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldTitle        = "title"
	FieldContent      = "content"
	FieldChunkSize    = "chunk_size"
	FieldChunkOverlap = "chunk_overlap"
	FieldAPIKey       = "api_key"
)

// Chunking defaults mirror what the ingestion API applies when the fields
// are omitted, so the form shows the effective values up front.
const (
	DefaultChunkSize    = 750
	DefaultChunkOverlap = 150
)

// CreateWorkspace describes the new-workspace form.
func CreateWorkspace() flowform.Definition {
	return flowform.Definition{
		ID: CreateWorkspaceID,
		Sections: []flowform.Section{
			{
				Fields: []flowform.Field{
					{
						ID:          FieldName,
						Kind:        flowform.KindText,
						Label:       "Name",
						Placeholder: "e.g. Team Handbook",
						Required:    true,
					},
					{
						ID:          FieldDescription,
						Kind:        flowform.KindTextarea,
						Label:       "Description",
						Description: "Optional summary shown in the workspace list.",
					},
				},
			},
		},
	}
}

// IngestText describes the paste-text ingestion form.
func IngestText() flowform.Definition {
	return flowform.Definition{
		ID: IngestTextID,
		Sections: []flowform.Section{
			{
				Fields: []flowform.Field{
					{
						ID:       FieldTitle,
						Kind:     flowform.KindText,
						Label:    "Title",
						Required: true,
					},
					{
						ID:          FieldContent,
						Kind:        flowform.KindTextarea,
						Label:       "Content",
						Description: "Raw text to index. Markdown is kept as-is.",
						Required:    true,
					},
				},
			},
			chunkingSection(),
		},
	}
}

// IngestFile describes the upload form. The api_key field starts empty and
// is filled in by reconciling IngestFileInitial once the keystore loads.
func IngestFile() flowform.Definition {
	return flowform.Definition{
		ID: IngestFileID,
		Sections: []flowform.Section{
			chunkingSection(),
			{
				Title:       "Image captioning",
				Description: "Images are captioned before indexing when a key is supplied.",
				Fields: []flowform.Field{
					{
						ID:          FieldAPIKey,
						Kind:        flowform.KindPassword,
						Label:       "Captioning API key",
						Placeholder: "sk-...",
					},
				},
			},
		},
	}
}

// Settings describes the settings form that manages the stored API key.
func Settings() flowform.Definition {
	return flowform.Definition{
		ID: SettingsID,
		Sections: []flowform.Section{
			{
				Fields: []flowform.Field{
					{
						ID:          FieldAPIKey,
						Kind:        flowform.KindPassword,
						Label:       "Captioning API key",
						Description: "Stored locally and attached to image uploads.",
						Required:    true,
					},
				},
			},
		},
	}
}

// IngestFileInitial snapshots the keystore into initial values for the
// upload form. An empty store yields no entry, leaving the field absent so
// a later snapshot can still seed it through reconciliation.
func IngestFileInitial(store keystore.Store) (flowform.Values, error) {
	return apiKeyInitial(store)
}

// SettingsInitial snapshots the keystore into initial values for the
// settings form.
func SettingsInitial(store keystore.Store) (flowform.Values, error) {
	return apiKeyInitial(store)
}

func apiKeyInitial(store keystore.Store) (flowform.Values, error) {
	if store == nil {
		return flowform.Values{}, nil
	}
	key, err := store.Get()
	if err != nil {
		return nil, err
	}
	if key == "" {
		return flowform.Values{}, nil
	}
	return flowform.Values{FieldAPIKey: flowform.Secret(key)}, nil
}

func chunkingSection() flowform.Section {
	return flowform.Section{
		Title:       "Chunking",
		Description: "How the document is split into retrieval segments.",
		Fields: []flowform.Field{
			{
				ID:      FieldChunkSize,
				Kind:    flowform.KindNumber,
				Label:   "Chunk size",
				Default: flowform.Number(DefaultChunkSize),
				Min:     floatPtr(100),
				Max:     floatPtr(4000),
				Step:    floatPtr(50),
				Width:   "half",
			},
			{
				ID:      FieldChunkOverlap,
				Kind:    flowform.KindNumber,
				Label:   "Chunk overlap",
				Default: flowform.Number(DefaultChunkOverlap),
				Min:     floatPtr(0),
				Max:     floatPtr(1000),
				Step:    floatPtr(10),
				Width:   "half",
			},
		},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
