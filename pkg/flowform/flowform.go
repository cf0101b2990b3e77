// Package flowform implements the declarative form state engine used by the
// knowledge-base admin pages. A Definition describes the fields a form is made
// of; an Instance is the live bag of values derived from it. The engine offers
// four pure operations (New, Update, Reconcile, Reset) that evolve instances
// without ever mutating them in place, so callers can re-derive definitions
// and initial values reactively while the engine preserves whatever the user
// has already typed. Reconciliation merges three sources of truth (prior
// state, new definition, new initial values) keyed by field id: a field that
// already holds a value keeps it, a field new to the instance resolves from
// the incoming initial values and then its declared default, and fields the
// new definition no longer declares are dropped.
package flowform

// Kind tags a field with its input modality. The engine treats values as
// opaque; kinds exist so renderers can pick widgets and so Value tags line up
// with what the widget produces.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindNumber   Kind = "number"
	KindPassword Kind = "password"
	KindSelect   Kind = "select"
	KindToggle   Kind = "toggle"
)

// Choice is a selectable option for KindSelect fields. Display only.
type Choice struct {
	Value string
	Label string
}

// Field declares a single input. ID is the state key and must be unique
// within a definition; everything except ID and Default is display metadata
// the engine ignores.
type Field struct {
	ID          string
	Kind        Kind
	Label       string
	Placeholder string
	Description string

	// Required is advisory. The engine never enforces it; pages check it at
	// submit time.
	Required bool

	// Default seeds the field the first time it is resolved. A zero Value
	// means the field has no default.
	Default Value

	// Numeric constraints and layout hints, all display only.
	Min     *float64
	Max     *float64
	Step    *float64
	Width   string
	Choices []Choice
}

// Section groups fields for presentation. Sections never influence
// reconciliation; only the flattened field order matters to the engine.
type Section struct {
	Title       string
	Description string
	Fields      []Field
}

// Definition is an ordered collection of sections identified by a stable id.
// Flattening its sections yields the authoritative ordered field list for the
// definition. Field ids must be unique across the whole definition; duplicate
// ids are a caller error and resolution order for them is unspecified.
type Definition struct {
	ID       string
	Sections []Section
}

// Fields returns the flattened ordered field list across all sections.
func (d Definition) Fields() []Field {
	total := 0
	for _, section := range d.Sections {
		total += len(section.Fields)
	}
	if total == 0 {
		return nil
	}
	out := make([]Field, 0, total)
	for _, section := range d.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// FieldIDs returns the ids of the flattened field list in order.
func (d Definition) FieldIDs() []string {
	fields := d.Fields()
	if len(fields) == 0 {
		return nil
	}
	ids := make([]string, len(fields))
	for i, field := range fields {
		ids[i] = field.ID
	}
	return ids
}

// Field looks up a field by id. When a definition erroneously declares the
// same id twice the last declaration wins, matching resolution order.
func (d Definition) Field(id string) (Field, bool) {
	var (
		found Field
		ok    bool
	)
	for _, section := range d.Sections {
		for _, field := range section.Fields {
			if field.ID == id {
				found = field
				ok = true
			}
		}
	}
	return found, ok
}

// Len reports the number of declared fields across all sections.
func (d Definition) Len() int {
	total := 0
	for _, section := range d.Sections {
		total += len(section.Fields)
	}
	return total
}
