package openapi

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
)

// textareaThreshold is the maxLength at which a string property stops being a
// single-line input.
const textareaThreshold = 200

// Definitions converts every operation whose request body is an object schema
// into a form definition, keyed by operation id. Operations without a mappable
// request body (list and delete endpoints, typically) are skipped.
func Definitions(ops map[string]Operation) map[string]flowform.Definition {
	out := make(map[string]flowform.Definition)
	for id, op := range ops {
		def, err := Definition(op)
		if err != nil {
			continue
		}
		out[id] = def
	}
	return out
}

// Definition maps an operation's request schema onto a form definition.
// Top-level scalar properties become fields of the leading section in sorted
// order; object properties one level down become their own sections. Deeper
// nesting and arrays are not form-expressible and are skipped.
func Definition(op Operation) (flowform.Definition, error) {
	request := op.RequestBody
	if !request.IsObject() {
		return flowform.Definition{}, fmt.Errorf("openapi: operation %q has no object request schema", op.ID)
	}

	required := requiredSet(request.Required)

	var root flowform.Section
	var nested []flowform.Section
	for _, name := range sortedPropertyNames(request.Properties) {
		property := request.Properties[name]
		if property.IsObject() {
			section, ok := sectionFrom(name, property)
			if ok {
				nested = append(nested, section)
			}
			continue
		}
		if field, ok := fieldFrom(name, property, required[name]); ok {
			root.Fields = append(root.Fields, field)
		}
	}

	var sections []flowform.Section
	if len(root.Fields) > 0 {
		sections = append(sections, root)
	}
	sections = append(sections, nested...)

	def := flowform.Definition{ID: op.ID, Sections: sections}
	if def.Len() == 0 {
		return flowform.Definition{}, fmt.Errorf("openapi: operation %q yields no form fields", op.ID)
	}
	if dup := firstDuplicateID(def); dup != "" {
		return flowform.Definition{}, fmt.Errorf("openapi: operation %q declares field id %q twice", op.ID, dup)
	}
	return def, nil
}

func sectionFrom(name string, schema Schema) (flowform.Section, bool) {
	section := flowform.Section{
		Title:       labelFor(name),
		Description: schema.Description,
	}
	required := requiredSet(schema.Required)
	for _, child := range sortedPropertyNames(schema.Properties) {
		property := schema.Properties[child]
		if property.IsObject() {
			// One level of nesting only.
			continue
		}
		if field, ok := fieldFrom(child, property, required[child]); ok {
			section.Fields = append(section.Fields, field)
		}
	}
	if len(section.Fields) == 0 {
		return flowform.Section{}, false
	}
	return section, true
}

func fieldFrom(name string, schema Schema, required bool) (flowform.Field, bool) {
	kind, ok := kindFor(schema)
	if !ok {
		return flowform.Field{}, false
	}
	field := flowform.Field{
		ID:          name,
		Kind:        kind,
		Label:       labelFor(name),
		Description: schema.Description,
		Required:    required,
		Default:     defaultValue(kind, schema.Default),
	}
	if kind == flowform.KindNumber {
		field.Min = schema.Minimum
		field.Max = schema.Maximum
		if schema.Type == "integer" {
			step := 1.0
			field.Step = &step
		}
	}
	if kind == flowform.KindSelect {
		for _, raw := range schema.Enum {
			value := enumString(raw)
			field.Choices = append(field.Choices, flowform.Choice{Value: value, Label: value})
		}
	}
	return field, true
}

func kindFor(schema Schema) (flowform.Kind, bool) {
	if schema.Format == "password" {
		return flowform.KindPassword, true
	}
	switch schema.Type {
	case "boolean":
		return flowform.KindToggle, true
	case "number", "integer":
		return flowform.KindNumber, true
	case "string":
		if len(schema.Enum) > 0 {
			return flowform.KindSelect, true
		}
		if schema.Format == "textarea" {
			return flowform.KindTextarea, true
		}
		if schema.MaxLength != nil && *schema.MaxLength >= textareaThreshold {
			return flowform.KindTextarea, true
		}
		return flowform.KindText, true
	default:
		return "", false
	}
}

func defaultValue(kind flowform.Kind, raw any) flowform.Value {
	if raw == nil {
		return flowform.Value{}
	}
	switch kind {
	case flowform.KindNumber:
		switch n := raw.(type) {
		case float64:
			return flowform.Number(n)
		case int:
			return flowform.Number(float64(n))
		case int64:
			return flowform.Number(float64(n))
		}
	case flowform.KindToggle:
		if b, ok := raw.(bool); ok {
			return flowform.Bool(b)
		}
	case flowform.KindPassword:
		if s, ok := raw.(string); ok {
			return flowform.Secret(s)
		}
	default:
		if s, ok := raw.(string); ok {
			return flowform.Text(s)
		}
	}
	return flowform.Value{}
}

func requiredSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

func sortedPropertyNames(properties map[string]Schema) []string {
	if len(properties) == 0 {
		return nil
	}
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func firstDuplicateID(def flowform.Definition) string {
	seen := make(map[string]bool)
	for _, id := range def.FieldIDs() {
		if seen[id] {
			return id
		}
		seen[id] = true
	}
	return ""
}

func enumString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(v)
	}
}

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

// labelFor converts a property name into a human-friendly label, splitting on
// underscores, dashes, and camelCase boundaries.
func labelFor(name string) string {
	if name == "" {
		return ""
	}
	words := splitWordsPattern.Split(name, -1)
	var segments []string
	for _, word := range words {
		if word == "" {
			continue
		}
		segments = append(segments, titleCase(splitCamel(word)))
	}
	return strings.TrimSpace(strings.Join(segments, " "))
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
