package catalog_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-kbadmin/pkg/catalog"
	"github.com/goliatone/go-kbadmin/pkg/flowform"
)

func TestLoadFSParsesDefinitions(t *testing.T) {
	store := loadStore(t, "valid")
	if store.Empty() {
		t.Fatal("expected store to contain definitions")
	}

	want := []string{"ingest.custom", "settings.alt", "workspace.rename"}
	if diff := cmp.Diff(want, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	def, ok := store.Definition("ingest.custom")
	if !ok {
		t.Fatal("definition ingest.custom not found")
	}
	if len(def.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(def.Sections))
	}
	if def.Sections[1].Description != "Controls how the document is split." {
		t.Fatalf("section description = %q", def.Sections[1].Description)
	}

	size, ok := def.Field("chunk_size")
	if !ok {
		t.Fatal("chunk_size field missing")
	}
	if size.Kind != flowform.KindNumber || size.Width != "half" {
		t.Fatalf("chunk_size = %+v", size)
	}
	if size.Min == nil || *size.Min != 100 || size.Max == nil || *size.Max != 4000 || size.Step == nil || *size.Step != 50 {
		t.Fatalf("chunk_size constraints = %+v", size)
	}
	if size.Default != flowform.Number(750) {
		t.Fatalf("chunk_size default = %v", size.Default)
	}

	source, _ := def.Field("source")
	wantChoices := []flowform.Choice{
		{Value: "user", Label: "User created"},
		{Value: "prebuilt", Label: "prebuilt"},
	}
	if diff := cmp.Diff(wantChoices, source.Choices); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}

	rename, _ := store.Definition("workspace.rename")
	name, _ := rename.Field("name")
	if name.Kind != flowform.KindText {
		t.Fatalf("name kind = %q, want text default for omitted kind", name.Kind)
	}
	keep, _ := rename.Field("keep_documents")
	if keep.Default != flowform.Bool(true) {
		t.Fatalf("keep_documents default = %v", keep.Default)
	}

	inst := flowform.New(def, nil)
	if got, _ := inst.Value("source"); got != flowform.Text("user") {
		t.Fatalf("source seeded = %v, want user", got)
	}
}

func TestLoadFSParsesJSONFiles(t *testing.T) {
	store := loadStore(t, "valid")
	def, ok := store.Definition("settings.alt")
	if !ok {
		t.Fatal("definition settings.alt not found")
	}
	key, _ := def.Field("api_key")
	if key.Kind != flowform.KindPassword || !key.Required {
		t.Fatalf("api_key = %+v, want required password", key)
	}
	if store.Source("settings.alt") != "settings.json" {
		t.Fatalf("source = %q", store.Source("settings.alt"))
	}
}

func TestLoadFSNilAndEmpty(t *testing.T) {
	store, err := catalog.LoadFS(nil)
	if err != nil {
		t.Fatalf("load nil fs: %v", err)
	}
	if !store.Empty() || store.Len() != 0 {
		t.Fatal("expected empty store for nil fs")
	}

	store, err = catalog.LoadFS(fstest.MapFS{
		"README.md": &fstest.MapFile{Data: []byte("not a definition file")},
	})
	if err != nil {
		t.Fatalf("load non-definition fs: %v", err)
	}
	if !store.Empty() {
		t.Fatal("expected empty store when no definition files present")
	}
}

func TestLoadFSRejectsDuplicateDefinitions(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": &fstest.MapFile{Data: []byte(`
definitions:
  - id: ingest.custom
    sections:
      - fields:
          - id: title
`)},
		"b.yaml": &fstest.MapFile{Data: []byte(`
definitions:
  - id: ingest.custom
    sections:
      - fields:
          - id: other
`)},
	}
	_, err := catalog.LoadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), "duplicate definition") {
		t.Fatalf("err = %v, want duplicate definition", err)
	}
}

func TestLoadFSRejectsBadDocuments(t *testing.T) {
	cases := map[string]struct {
		payload string
		want    string
	}{
		"unknown kind": {
			payload: `
definitions:
  - id: bad.kind
    sections:
      - fields:
          - id: level
            kind: slider
`,
			want: "unknown kind",
		},
		"duplicate field": {
			payload: `
definitions:
  - id: bad.dup
    sections:
      - fields:
          - id: title
          - id: title
`,
			want: "declares field",
		},
		"empty id": {
			payload: `
definitions:
  - id: "  "
    sections:
      - fields:
          - id: title
`,
			want: "empty id",
		},
		"no fields": {
			payload: `
definitions:
  - id: bad.empty
    sections: []
`,
			want: "has no fields",
		},
		"select without choices": {
			payload: `
definitions:
  - id: bad.select
    sections:
      - fields:
          - id: source
            kind: select
`,
			want: "select without choices",
		},
		"number default mismatch": {
			payload: `
definitions:
  - id: bad.default
    sections:
      - fields:
          - id: chunk_size
            kind: number
            default: many
`,
			want: "not a number",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			fsys := fstest.MapFS{"doc.yaml": &fstest.MapFile{Data: []byte(tc.payload)}}
			_, err := catalog.LoadFS(fsys)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func loadStore(t *testing.T, subdir string) *catalog.Store {
	t.Helper()
	store, err := catalog.LoadFS(subDirFS(t, subdir))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return store
}

func subDirFS(t *testing.T, subdir string) fs.FS {
	t.Helper()
	base := os.DirFS(testdataRoot())
	fsys, err := fs.Sub(base, subdir)
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	return fsys
}

func testdataRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "testdata"
	}
	return filepath.Join(filepath.Dir(filename), "testdata")
}
