// Package catalog loads form definitions from YAML or JSON documents on a
// filesystem. It is the file-based analog of pkg/forms: deployments drop
// definition documents next to the binary to add or override page forms
// without recompiling.
package catalog

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
)

// Store holds the loaded definitions keyed by definition id.
type Store struct {
	definitions map[string]flowform.Definition
	sources     map[string]string
}

// LoadFS walks the provided filesystem and parses JSON/YAML definition files.
// When fsys is nil or no definition files are present, the returned store is
// empty. Duplicate definition ids across files are rejected.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{
		definitions: make(map[string]flowform.Definition),
		sources:     make(map[string]string),
	}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}

		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for _, raw := range doc.Definitions {
			def, err := normaliseDefinition(raw, path)
			if err != nil {
				return err
			}
			if previous, exists := store.sources[def.ID]; exists {
				return fmt.Errorf("catalog: duplicate definition %q (files %s and %s)", def.ID, previous, path)
			}
			store.definitions[def.ID] = def
			store.sources[def.ID] = path
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Definition returns the definition for the supplied id.
func (s *Store) Definition(id string) (flowform.Definition, bool) {
	if s == nil {
		return flowform.Definition{}, false
	}
	def, ok := s.definitions[id]
	return def, ok
}

// IDs returns the loaded definition ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil || len(s.definitions) == 0 {
		return nil
	}
	ids := make([]string, 0, len(s.definitions))
	for id := range s.definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Source returns the file a definition was loaded from.
func (s *Store) Source(id string) string {
	if s == nil {
		return ""
	}
	return s.sources[id]
}

// Empty reports whether the store holds any definitions.
func (s *Store) Empty() bool {
	return s == nil || len(s.definitions) == 0
}

// Len reports the number of loaded definitions.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.definitions)
}

type documentFile struct {
	Definitions []definitionFile `json:"definitions" yaml:"definitions"`
}

type definitionFile struct {
	ID       string        `json:"id" yaml:"id"`
	Sections []sectionFile `json:"sections" yaml:"sections"`
}

type sectionFile struct {
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Fields      []fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	ID          string       `json:"id" yaml:"id"`
	Kind        string       `json:"kind" yaml:"kind"`
	Label       string       `json:"label" yaml:"label"`
	Placeholder string       `json:"placeholder" yaml:"placeholder"`
	Description string       `json:"description" yaml:"description"`
	Required    bool         `json:"required" yaml:"required"`
	Default     any          `json:"default" yaml:"default"`
	Min         *float64     `json:"min" yaml:"min"`
	Max         *float64     `json:"max" yaml:"max"`
	Step        *float64     `json:"step" yaml:"step"`
	Width       string       `json:"width" yaml:"width"`
	Choices     []choiceFile `json:"choices" yaml:"choices"`
}

type choiceFile struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("catalog: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("catalog: parse %s: invalid JSON or YAML", source)
}

func normaliseDefinition(raw definitionFile, source string) (flowform.Definition, error) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return flowform.Definition{}, fmt.Errorf("catalog: file %s defines a definition with an empty id", source)
	}

	def := flowform.Definition{ID: id}
	seen := make(map[string]bool)
	for _, rawSection := range raw.Sections {
		section := flowform.Section{
			Title:       rawSection.Title,
			Description: rawSection.Description,
		}
		for _, rawField := range rawSection.Fields {
			field, err := normaliseField(rawField, id, source)
			if err != nil {
				return flowform.Definition{}, err
			}
			if seen[field.ID] {
				return flowform.Definition{}, fmt.Errorf("catalog: definition %q (file %s) declares field %q twice", id, source, field.ID)
			}
			seen[field.ID] = true
			section.Fields = append(section.Fields, field)
		}
		def.Sections = append(def.Sections, section)
	}

	if def.Len() == 0 {
		return flowform.Definition{}, fmt.Errorf("catalog: definition %q (file %s) has no fields", id, source)
	}
	return def, nil
}

func normaliseField(raw fieldFile, defID, source string) (flowform.Field, error) {
	fieldID := strings.TrimSpace(raw.ID)
	if fieldID == "" {
		return flowform.Field{}, fmt.Errorf("catalog: definition %q (file %s) has a field with an empty id", defID, source)
	}

	kind, err := kindFromString(raw.Kind)
	if err != nil {
		return flowform.Field{}, fmt.Errorf("catalog: definition %q field %q (file %s): %w", defID, fieldID, source, err)
	}

	field := flowform.Field{
		ID:          fieldID,
		Kind:        kind,
		Label:       raw.Label,
		Placeholder: raw.Placeholder,
		Description: raw.Description,
		Required:    raw.Required,
		Min:         raw.Min,
		Max:         raw.Max,
		Step:        raw.Step,
		Width:       raw.Width,
	}

	for _, choice := range raw.Choices {
		value := strings.TrimSpace(choice.Value)
		if value == "" {
			return flowform.Field{}, fmt.Errorf("catalog: definition %q field %q (file %s) has a choice with an empty value", defID, fieldID, source)
		}
		label := choice.Label
		if label == "" {
			label = value
		}
		field.Choices = append(field.Choices, flowform.Choice{Value: value, Label: label})
	}
	if kind == flowform.KindSelect && len(field.Choices) == 0 {
		return flowform.Field{}, fmt.Errorf("catalog: definition %q field %q (file %s) is a select without choices", defID, fieldID, source)
	}

	if raw.Default != nil {
		value, err := coerceDefault(kind, raw.Default)
		if err != nil {
			return flowform.Field{}, fmt.Errorf("catalog: definition %q field %q (file %s): %w", defID, fieldID, source, err)
		}
		field.Default = value
	}

	return field, nil
}

func kindFromString(raw string) (flowform.Kind, error) {
	switch strings.TrimSpace(raw) {
	case "", string(flowform.KindText):
		return flowform.KindText, nil
	case string(flowform.KindTextarea):
		return flowform.KindTextarea, nil
	case string(flowform.KindNumber):
		return flowform.KindNumber, nil
	case string(flowform.KindPassword):
		return flowform.KindPassword, nil
	case string(flowform.KindSelect):
		return flowform.KindSelect, nil
	case string(flowform.KindToggle):
		return flowform.KindToggle, nil
	default:
		return "", fmt.Errorf("unknown kind %q", raw)
	}
}

func coerceDefault(kind flowform.Kind, raw any) (flowform.Value, error) {
	switch kind {
	case flowform.KindNumber:
		switch n := raw.(type) {
		case float64:
			return flowform.Number(n), nil
		case int:
			return flowform.Number(float64(n)), nil
		case int64:
			return flowform.Number(float64(n)), nil
		}
		return flowform.Value{}, fmt.Errorf("default %v is not a number", raw)
	case flowform.KindToggle:
		if b, ok := raw.(bool); ok {
			return flowform.Bool(b), nil
		}
		return flowform.Value{}, fmt.Errorf("default %v is not a boolean", raw)
	case flowform.KindPassword:
		if s, ok := raw.(string); ok {
			return flowform.Secret(s), nil
		}
		return flowform.Value{}, fmt.Errorf("default %v is not a string", raw)
	default:
		if s, ok := raw.(string); ok {
			return flowform.Text(s), nil
		}
		return flowform.Value{}, fmt.Errorf("default %v is not a string", raw)
	}
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
