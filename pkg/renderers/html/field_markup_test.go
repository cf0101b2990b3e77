package html

import (
	"strings"
	"testing"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
)

func TestBuildFieldMarkupTextInput(t *testing.T) {
	field := flowform.Field{
		ID:          "name",
		Kind:        flowform.KindText,
		Label:       "Name",
		Placeholder: "e.g. Team Handbook",
		Description: "Shown in the workspace list.",
		Required:    true,
	}

	markup := buildFieldMarkup(field, flowform.Text("Docs"), nil, defaultClassTokens())

	for _, want := range []string{
		`data-field="name"`,
		`for="kb-name"`,
		`<span class="kb-required">*</span>`,
		`type="text"`,
		`value="Docs"`,
		`placeholder="e.g. Team Handbook"`,
		` required`,
		`Shown in the workspace list.`,
	} {
		if !strings.Contains(markup, want) {
			t.Fatalf("markup missing %q:\n%s", want, markup)
		}
	}
}

func TestBuildFieldMarkupNumberAttributes(t *testing.T) {
	min, max, step := 100.0, 4000.0, 50.0
	field := flowform.Field{
		ID:    "chunk_size",
		Kind:  flowform.KindNumber,
		Label: "Chunk size",
		Min:   &min,
		Max:   &max,
		Step:  &step,
		Width: "half",
	}

	markup := buildFieldMarkup(field, flowform.Number(750), nil, defaultClassTokens())

	for _, want := range []string{
		`type="number"`,
		`value="750"`,
		`min="100"`,
		`max="4000"`,
		`step="50"`,
		`kb-field--half`,
	} {
		if !strings.Contains(markup, want) {
			t.Fatalf("markup missing %q:\n%s", want, markup)
		}
	}
}

func TestBuildFieldMarkupSecretNeverEchoed(t *testing.T) {
	field := flowform.Field{ID: "api_key", Kind: flowform.KindPassword, Label: "API key"}

	markup := buildFieldMarkup(field, flowform.Secret("sk-super-secret"), nil, defaultClassTokens())

	if strings.Contains(markup, "sk-super-secret") {
		t.Fatalf("secret leaked into markup:\n%s", markup)
	}
	if !strings.Contains(markup, `type="password"`) {
		t.Fatalf("expected password input:\n%s", markup)
	}
	if !strings.Contains(markup, `data-stored="true"`) {
		t.Fatalf("expected stored marker:\n%s", markup)
	}

	empty := buildFieldMarkup(field, flowform.Value{}, nil, defaultClassTokens())
	if strings.Contains(empty, "data-stored") {
		t.Fatalf("unset secret should not carry stored marker:\n%s", empty)
	}
}

func TestBuildFieldMarkupSelect(t *testing.T) {
	field := flowform.Field{
		ID:   "source",
		Kind: flowform.KindSelect,
		Choices: []flowform.Choice{
			{Value: "user", Label: "User"},
			{Value: "prebuilt", Label: "Prebuilt"},
		},
	}

	markup := buildFieldMarkup(field, flowform.Text("prebuilt"), nil, defaultClassTokens())

	if !strings.Contains(markup, `<option value="prebuilt" selected>Prebuilt</option>`) {
		t.Fatalf("expected selected option:\n%s", markup)
	}
	if strings.Contains(markup, `<option value="user" selected>`) {
		t.Fatalf("unselected option marked selected:\n%s", markup)
	}
}

func TestBuildFieldMarkupToggle(t *testing.T) {
	field := flowform.Field{ID: "ready", Kind: flowform.KindToggle, Label: "Ready"}

	on := buildFieldMarkup(field, flowform.Bool(true), nil, defaultClassTokens())
	if !strings.Contains(on, `type="checkbox"`) || !strings.Contains(on, ` checked`) {
		t.Fatalf("expected checked toggle:\n%s", on)
	}

	off := buildFieldMarkup(field, flowform.Bool(false), nil, defaultClassTokens())
	if strings.Contains(off, ` checked`) {
		t.Fatalf("unchecked toggle rendered checked:\n%s", off)
	}
}

func TestBuildFieldMarkupEscapesContent(t *testing.T) {
	field := flowform.Field{ID: "name", Kind: flowform.KindText, Label: `<b>Name</b>`}

	markup := buildFieldMarkup(field, flowform.Text(`"><script>alert(1)</script>`), nil, defaultClassTokens())

	if strings.Contains(markup, "<script>") {
		t.Fatalf("markup not escaped:\n%s", markup)
	}
	if !strings.Contains(markup, "&lt;b&gt;Name&lt;/b&gt;") {
		t.Fatalf("label not escaped:\n%s", markup)
	}
}

func TestBuildFieldMarkupErrors(t *testing.T) {
	field := flowform.Field{ID: "title", Kind: flowform.KindText, Label: "Title"}

	markup := buildFieldMarkup(field, flowform.Value{}, []string{"title is required"}, defaultClassTokens())

	if !strings.Contains(markup, `class="kb-errors"`) || !strings.Contains(markup, "<li>title is required</li>") {
		t.Fatalf("expected error list:\n%s", markup)
	}
}

func TestSanitizeChunkMarkup(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain text", "just text", "just text"},
		{"keeps inline markup", "<p>hello <strong>KB</strong></p>", "<p>hello <strong>KB</strong></p>"},
		{"strips scripts", `<p>hi</p><script>alert(1)</script>`, "<p>hi</p>"},
		{"strips attributes", `<p onclick="x()">hi</p>`, "<p>hi</p>"},
		{"empty", "   ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sanitizeChunkMarkup(tc.in); got != tc.want {
				t.Fatalf("sanitize = %q, want %q", got, tc.want)
			}
		})
	}
}
