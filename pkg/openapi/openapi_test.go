package openapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
	"github.com/goliatone/go-kbadmin/pkg/openapi"
)

func fixtureBytes(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "kb-api.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return data
}

func TestLoaderFileSource(t *testing.T) {
	data := fixtureBytes(t)
	tmp := t.TempDir()
	path := filepath.Join(tmp, "kb-api.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp fixture: %v", err)
	}

	loader := openapi.NewLoader()
	doc, err := loader.Load(context.Background(), openapi.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if len(doc.Raw()) != len(data) {
		t.Fatalf("raw length = %d, want %d", len(doc.Raw()), len(data))
	}
	if doc.Source().Kind() != openapi.SourceKindFile {
		t.Fatalf("source kind = %q", doc.Source().Kind())
	}
}

func TestLoaderFSSource(t *testing.T) {
	data := fixtureBytes(t)
	fsys := fstest.MapFS{
		"specs/kb-api.yaml": &fstest.MapFile{Data: data},
	}

	loader := openapi.NewLoader(openapi.WithFileSystem(fsys))
	doc, err := loader.Load(context.Background(), openapi.SourceFromFS("specs/kb-api.yaml"))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if doc.Location() != "specs/kb-api.yaml" {
		t.Fatalf("location = %q", doc.Location())
	}

	if _, err := loader.Load(context.Background(), openapi.SourceFromFS("missing.yaml")); err == nil {
		t.Fatal("expected error for missing fs entry")
	}
}

func TestLoaderHTTPSource(t *testing.T) {
	data := fixtureBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(data)
	}))
	defer server.Close()

	offline := openapi.NewLoader()
	if _, err := offline.Load(context.Background(), openapi.SourceFromURL(server.URL)); err == nil {
		t.Fatal("expected http-disabled error from default loader")
	}

	loader := openapi.NewLoader(openapi.WithHTTPFallback(0))
	doc, err := loader.Load(context.Background(), openapi.SourceFromURL(server.URL))
	if err != nil {
		t.Fatalf("load http: %v", err)
	}
	if len(doc.Raw()) == 0 {
		t.Fatal("expected payload from http source")
	}
}

func TestLoaderHTTPSourceRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	loader := openapi.NewLoader(openapi.WithHTTPFallback(0))
	_, err := loader.Load(context.Background(), openapi.SourceFromURL(server.URL))
	if err == nil || !strings.Contains(err.Error(), "unexpected status") {
		t.Fatalf("err = %v, want unexpected status", err)
	}
}

func TestParserExtractsOperations(t *testing.T) {
	doc := openapi.MustNewDocument(openapi.SourceFromFile("testdata/kb-api.yaml"), fixtureBytes(t))

	parser := openapi.NewParser()
	operations, err := parser.Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("parse operations: %v", err)
	}

	for _, id := range []string{"listWorkspaces", "createWorkspace", "ingestText"} {
		if _, ok := operations[id]; !ok {
			t.Fatalf("operation %q missing, got %d operations", id, len(operations))
		}
	}

	create := operations["createWorkspace"]
	if create.Method != "POST" || create.Path != "/workspaces" {
		t.Fatalf("createWorkspace = %s %s", create.Method, create.Path)
	}
	if !create.RequestBody.IsObject() {
		t.Fatalf("createWorkspace request schema = %+v, want object", create.RequestBody)
	}
	if diff := cmp.Diff([]string{"name"}, create.RequestBody.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if !create.HasResponse("201") {
		t.Fatal("createWorkspace missing 201 response schema")
	}

	ingest := operations["ingestText"]
	chunking, ok := ingest.RequestBody.Properties["chunking"]
	if !ok {
		t.Fatal("ingestText request missing chunking property")
	}
	size, ok := chunking.Properties["chunk_size"]
	if !ok {
		t.Fatal("chunking missing chunk_size")
	}
	if size.Minimum == nil || *size.Minimum != 100 || size.Maximum == nil || *size.Maximum != 4000 {
		t.Fatalf("chunk_size bounds = %+v", size)
	}
	if size.Default != float64(750) {
		t.Fatalf("chunk_size default = %v", size.Default)
	}
}

func TestParserRejectsDocumentWithoutPaths(t *testing.T) {
	const payload = `{"openapi":"3.0.0","info":{"title":"Empty","version":"1.0.0"},"paths":{}}`
	doc := openapi.MustNewDocument(openapi.SourceFromFile("empty.json"), []byte(payload))

	if _, err := openapi.NewParser().Operations(context.Background(), doc); err == nil {
		t.Fatal("expected error for document without paths")
	}

	partial := openapi.NewParser(openapi.WithPartialDocuments(true))
	operations, err := partial.Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("partial parse: %v", err)
	}
	if len(operations) != 0 {
		t.Fatalf("operations = %d, want none", len(operations))
	}
}

func TestParserMergesAllOfRequestBodies(t *testing.T) {
	const payload = `{
  "openapi": "3.0.0",
  "info": {"title": "AllOf", "version": "1.0.0"},
  "paths": {
    "/documents": {
      "post": {
        "operationId": "createDocument",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "allOf": [
                  {"$ref": "#/components/schemas/BaseDocument"},
                  {
                    "type": "object",
                    "required": ["title"],
                    "properties": {"title": {"type": "string"}}
                  }
                ]
              }
            }
          }
        },
        "responses": {"200": {"description": "ok"}}
      }
    }
  },
  "components": {
    "schemas": {
      "BaseDocument": {
        "type": "object",
        "required": ["workspace"],
        "properties": {
          "workspace": {"type": "string"},
          "pages": {"type": "integer", "minimum": 1}
        }
      }
    }
  }
}`
	doc := openapi.MustNewDocument(openapi.SourceFromFile("allof.json"), []byte(payload))
	operations, err := openapi.NewParser().Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("parse operations: %v", err)
	}

	op, ok := operations["createDocument"]
	if !ok {
		t.Fatal("operation createDocument not found")
	}
	req := op.RequestBody
	if req.Type != "object" {
		t.Fatalf("request type = %q, want object", req.Type)
	}
	if len(req.Properties) != 3 {
		t.Fatalf("properties = %d, want title, workspace, pages", len(req.Properties))
	}
	if pages, ok := req.Properties["pages"]; !ok || pages.Minimum == nil || *pages.Minimum != 1 {
		t.Fatalf("pages property = %+v", req.Properties["pages"])
	}
	required := map[string]bool{}
	for _, name := range req.Required {
		required[name] = true
	}
	if !required["title"] || !required["workspace"] {
		t.Fatalf("required = %v, want title and workspace", req.Required)
	}
}

func TestParserRetainsRefsOnCycles(t *testing.T) {
	const payload = `{
  "openapi": "3.0.0",
  "info": {"title": "Cycle", "version": "1.0.0"},
  "paths": {
    "/folders": {
      "post": {
        "operationId": "createFolder",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {"$ref": "#/components/schemas/Folder"}
            }
          }
        },
        "responses": {"200": {"description": "ok"}}
      }
    }
  },
  "components": {
    "schemas": {
      "Folder": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "parent": {"$ref": "#/components/schemas/Folder"}
        }
      }
    }
  }
}`
	doc := openapi.MustNewDocument(openapi.SourceFromFile("cycle.json"), []byte(payload))
	operations, err := openapi.NewParser().Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("parse operations: %v", err)
	}

	req := operations["createFolder"].RequestBody
	parent, ok := req.Properties["parent"]
	if !ok {
		t.Fatal("folder schema missing parent property")
	}
	if parent.Ref == "" {
		t.Fatal("expected parent property to retain its reference when the schema recurses")
	}
	if len(parent.Properties) != 0 {
		t.Fatalf("parent properties = %d, want reference-only node", len(parent.Properties))
	}
}

func TestDefinitionMapsIngestOperation(t *testing.T) {
	doc := openapi.MustNewDocument(openapi.SourceFromFile("testdata/kb-api.yaml"), fixtureBytes(t))
	operations, err := openapi.NewParser().Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("parse operations: %v", err)
	}

	def, err := openapi.Definition(operations["ingestText"])
	if err != nil {
		t.Fatalf("definition: %v", err)
	}

	if def.ID != "ingestText" {
		t.Fatalf("definition id = %q", def.ID)
	}
	if len(def.Sections) != 2 {
		t.Fatalf("sections = %d, want root plus chunking", len(def.Sections))
	}

	wantRoot := []string{"api_key", "content", "prebuilt", "source", "title"}
	gotRoot := make([]string, 0, len(def.Sections[0].Fields))
	for _, field := range def.Sections[0].Fields {
		gotRoot = append(gotRoot, field.ID)
	}
	if diff := cmp.Diff(wantRoot, gotRoot); diff != "" {
		t.Fatalf("root field order mismatch (-want +got):\n%s", diff)
	}

	title, _ := def.Field("title")
	if title.Kind != flowform.KindText || !title.Required {
		t.Fatalf("title = %+v, want required text", title)
	}
	content, _ := def.Field("content")
	if content.Kind != flowform.KindTextarea {
		t.Fatalf("content kind = %q, want textarea from maxLength", content.Kind)
	}
	apiKey, _ := def.Field("api_key")
	if apiKey.Kind != flowform.KindPassword {
		t.Fatalf("api_key kind = %q, want password from format", apiKey.Kind)
	}
	prebuilt, _ := def.Field("prebuilt")
	if prebuilt.Kind != flowform.KindToggle || prebuilt.Default != flowform.Bool(false) {
		t.Fatalf("prebuilt = %+v, want toggle with false default", prebuilt)
	}
	source, _ := def.Field("source")
	if source.Kind != flowform.KindSelect || source.Default != flowform.Text("user") {
		t.Fatalf("source = %+v, want select defaulting to user", source)
	}
	wantChoices := []flowform.Choice{{Value: "user", Label: "user"}, {Value: "prebuilt", Label: "prebuilt"}}
	if diff := cmp.Diff(wantChoices, source.Choices); diff != "" {
		t.Fatalf("source choices mismatch (-want +got):\n%s", diff)
	}

	chunking := def.Sections[1]
	if chunking.Title != "Chunking" || chunking.Description != "Chunking controls." {
		t.Fatalf("chunking section = %+v", chunking)
	}
	size, _ := def.Field("chunk_size")
	if size.Kind != flowform.KindNumber {
		t.Fatalf("chunk_size kind = %q", size.Kind)
	}
	if size.Min == nil || *size.Min != 100 || size.Max == nil || *size.Max != 4000 {
		t.Fatalf("chunk_size bounds = %+v", size)
	}
	if size.Step == nil || *size.Step != 1 {
		t.Fatalf("chunk_size step = %v, want 1 for integer", size.Step)
	}
	if size.Default != flowform.Number(750) {
		t.Fatalf("chunk_size default = %v", size.Default)
	}
	if size.Label != "Chunk Size" {
		t.Fatalf("chunk_size label = %q", size.Label)
	}

	inst := flowform.New(def, nil)
	if got, _ := inst.Value("chunk_overlap"); got != flowform.Number(150) {
		t.Fatalf("chunk_overlap seeded = %v, want 150", got)
	}
}

func TestDefinitionRejectsOperationsWithoutBody(t *testing.T) {
	doc := openapi.MustNewDocument(openapi.SourceFromFile("testdata/kb-api.yaml"), fixtureBytes(t))
	operations, err := openapi.NewParser().Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("parse operations: %v", err)
	}

	if _, err := openapi.Definition(operations["listWorkspaces"]); err == nil {
		t.Fatal("expected error for operation without request body")
	}

	defs := openapi.Definitions(operations)
	if _, ok := defs["listWorkspaces"]; ok {
		t.Fatal("Definitions should skip bodyless operations")
	}
	if _, ok := defs["ingestText"]; !ok {
		t.Fatal("Definitions should include ingestText")
	}
	if _, ok := defs["createWorkspace"]; !ok {
		t.Fatal("Definitions should include createWorkspace")
	}
}

func TestDefinitionTextareaFromLongStrings(t *testing.T) {
	doc := openapi.MustNewDocument(openapi.SourceFromFile("testdata/kb-api.yaml"), fixtureBytes(t))
	operations, err := openapi.NewParser().Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("parse operations: %v", err)
	}

	def, err := openapi.Definition(operations["createWorkspace"])
	if err != nil {
		t.Fatalf("definition: %v", err)
	}
	description, ok := def.Field("description")
	if !ok {
		t.Fatal("description field missing")
	}
	if description.Kind != flowform.KindTextarea {
		t.Fatalf("description kind = %q, want textarea for maxLength 2000", description.Kind)
	}
	name, _ := def.Field("name")
	if name.Kind != flowform.KindText {
		t.Fatalf("name kind = %q, want plain text", name.Kind)
	}
}
