package flowform_test

import (
	"encoding/json"
	"testing"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
)

func TestValueTags(t *testing.T) {
	cases := []struct {
		name  string
		value flowform.Value
		kind  flowform.ValueKind
	}{
		{"text", flowform.Text("hello"), flowform.ValueText},
		{"empty text", flowform.Text(""), flowform.ValueText},
		{"number", flowform.Number(750), flowform.ValueNumber},
		{"bool", flowform.Bool(true), flowform.ValueBool},
		{"secret", flowform.Secret("sk-123"), flowform.ValueSecret},
		{"zero", flowform.Value{}, flowform.ValueAbsent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.value.Kind(); got != tc.kind {
				t.Fatalf("kind = %v, want %v", got, tc.kind)
			}
			if tc.kind == flowform.ValueAbsent && !tc.value.IsZero() {
				t.Fatalf("expected zero value to report IsZero")
			}
			if tc.kind != flowform.ValueAbsent && tc.value.IsZero() {
				t.Fatalf("constructed value reports IsZero")
			}
		})
	}
}

func TestValueExplicitEmptyTextIsPresent(t *testing.T) {
	empty := flowform.Text("")
	if empty.IsZero() {
		t.Fatalf("Text(\"\") must be a present value")
	}
	if empty == (flowform.Value{}) {
		t.Fatalf("Text(\"\") must differ from the zero Value")
	}
}

func TestValuePayloads(t *testing.T) {
	if got := flowform.Text("a").Text(); got != "a" {
		t.Fatalf("text payload = %q", got)
	}
	if got := flowform.Secret("key").Text(); got != "key" {
		t.Fatalf("secret payload = %q", got)
	}
	if got := flowform.Number(42.5).Number(); got != 42.5 {
		t.Fatalf("number payload = %v", got)
	}
	if !flowform.Bool(true).Bool() {
		t.Fatalf("bool payload lost")
	}
	// Mismatched accessors return zero payloads.
	if got := flowform.Number(3).Text(); got != "" {
		t.Fatalf("number as text = %q", got)
	}
	if got := flowform.Text("3").Number(); got != 0 {
		t.Fatalf("text as number = %v", got)
	}
}

func TestValueString(t *testing.T) {
	cases := []struct {
		value flowform.Value
		want  string
	}{
		{flowform.Text("docs"), "docs"},
		{flowform.Number(750), "750"},
		{flowform.Number(0.5), "0.5"},
		{flowform.Bool(false), "false"},
		{flowform.Secret("sk"), "sk"},
		{flowform.Value{}, ""},
	}
	for _, tc := range cases {
		if got := tc.value.String(); got != tc.want {
			t.Fatalf("String(%v) = %q, want %q", tc.value.Kind(), got, tc.want)
		}
	}
}

func TestValueMarshalJSON(t *testing.T) {
	payload := map[string]flowform.Value{
		"title":      flowform.Text("Docs"),
		"chunk_size": flowform.Number(750),
		"ready":      flowform.Bool(true),
		"api_key":    flowform.Secret("sk-1"),
		"untouched":  {},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["title"] != "Docs" {
		t.Fatalf("title = %#v", decoded["title"])
	}
	if decoded["chunk_size"] != float64(750) {
		t.Fatalf("chunk_size = %#v", decoded["chunk_size"])
	}
	if decoded["ready"] != true {
		t.Fatalf("ready = %#v", decoded["ready"])
	}
	if decoded["api_key"] != "sk-1" {
		t.Fatalf("api_key = %#v", decoded["api_key"])
	}
	if decoded["untouched"] != nil {
		t.Fatalf("untouched = %#v, want null", decoded["untouched"])
	}
}

func TestValuesClone(t *testing.T) {
	original := flowform.Values{"a": flowform.Text("1")}
	clone := original.Clone()
	clone["a"] = flowform.Text("2")
	clone["b"] = flowform.Text("3")

	if got := original["a"]; got != flowform.Text("1") {
		t.Fatalf("clone mutated original: %v", got)
	}
	if _, ok := original["b"]; ok {
		t.Fatalf("clone added key to original")
	}

	var nilValues flowform.Values
	if got := nilValues.Clone(); got != nil {
		t.Fatalf("nil clone = %#v, want nil", got)
	}
}
