package kbadmin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
)

func TestRenderFormProducesHTMLByDefault(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("build client: %v", err)
	}

	out, contentType, err := RenderForm(context.Background(), "workspace.create", "", WithClient(client))
	if err != nil {
		t.Fatalf("render form: %v", err)
	}
	if !strings.Contains(contentType, "text/html") {
		t.Fatalf("expected html content type, got %s", contentType)
	}
	markup := string(out)
	if !strings.Contains(markup, "<form") {
		t.Fatalf("expected form markup, got: %s", markup)
	}
	if !strings.Contains(markup, `name="name"`) {
		t.Fatalf("expected workspace name input in markup")
	}
}

func TestNewInstanceProtectsEditsAcrossReconcile(t *testing.T) {
	def := Definition{
		ID: "sample",
		Sections: []Section{{
			Fields: []Field{{ID: "title", Kind: flowform.KindText}},
		}},
	}

	inst := NewInstance(def, Values{"title": Text("draft")})
	inst = inst.Update(Values{"title": Text("")})
	inst = inst.Reconcile(def, Values{"title": Text("late default")})

	value, ok := inst.Value("title")
	if !ok {
		t.Fatalf("expected title entry to survive reconcile")
	}
	if !value.Equal(Text("")) {
		t.Fatalf("expected explicit empty to win over late initial, got %v", value)
	}
}
