package flowform

// Instance is the live state of one logical form: the id of the definition it
// currently matches plus a value per field id. Instances are value objects;
// New, Update, Reconcile and Reset all return fresh instances and never touch
// the input. The calling page owns the latest instance and is responsible for
// applying operations sequentially against it (read-modify-write, single
// writer per logical form); the engine does not serialize concurrent callers.
type Instance struct {
	DefinitionID string

	values Values
}

// New materializes an instance from a definition. Each field resolves by
// priority: the entry in initial when present (explicit empty values
// included), the field's declared default otherwise, or no entry at all.
// Initial entries for ids the definition does not declare are ignored.
func New(def Definition, initial Values) Instance {
	values := make(Values)
	for _, field := range def.Fields() {
		if v, ok := initial[field.ID]; ok {
			values[field.ID] = v
			continue
		}
		if !field.Default.IsZero() {
			values[field.ID] = field.Default
		}
	}
	return Instance{DefinitionID: def.ID, values: values}
}

// Reset discards all prior state and materializes a fresh instance, exactly
// like New. Pages call it to clear a form after a successful submission.
func Reset(def Definition, initial Values) Instance {
	return New(def, initial)
}

// Update overlays patch onto the instance values and returns the result. Only
// patched ids change; every other entry is preserved as is. Patched ids are
// not checked against any definition: an unknown id is stored and stays inert
// until a reconcile against a definition that does not declare it drops it.
// Patch entries are stored verbatim, zero Values included; a stored zero
// still counts as present for reconciliation.
func (in Instance) Update(patch Values) Instance {
	next := in.values.Clone()
	if next == nil {
		next = make(Values, len(patch))
	}
	for id, value := range patch {
		next[id] = value
	}
	return Instance{DefinitionID: in.DefinitionID, values: next}
}

// Reconcile merges a possibly-new definition and possibly-new initial values
// into the instance. For every field the new definition declares: a value the
// instance already holds is kept untouched, whether it came from a user edit,
// a default, or an earlier reconcile; a field with no entry yet resolves the
// way New does (initial, then default, then absent). Entries for ids the new
// definition does not declare are dropped. The result carries the new
// definition's id. Reconciling twice against the same inputs yields equal
// instances.
func (in Instance) Reconcile(def Definition, initial Values) Instance {
	values := make(Values)
	for _, field := range def.Fields() {
		if v, ok := in.values[field.ID]; ok {
			values[field.ID] = v
			continue
		}
		if v, ok := initial[field.ID]; ok {
			values[field.ID] = v
			continue
		}
		if !field.Default.IsZero() {
			values[field.ID] = field.Default
		}
	}
	return Instance{DefinitionID: def.ID, values: values}
}

// Value returns the entry for a field id. The second return reports presence;
// untouched fields have no entry.
func (in Instance) Value(id string) (Value, bool) {
	v, ok := in.values[id]
	return v, ok
}

// Has reports whether the instance holds an entry for the field id.
func (in Instance) Has(id string) bool {
	_, ok := in.values[id]
	return ok
}

// Values returns a copy of the current entries. Mutating the copy does not
// affect the instance.
func (in Instance) Values() Values {
	if in.values == nil {
		return Values{}
	}
	return in.values.Clone()
}

// Len reports the number of entries the instance holds.
func (in Instance) Len() int { return len(in.values) }

// Equal reports whether two instances match the same definition id and hold
// equal values. go-cmp picks this up when diffing instances in tests.
func (in Instance) Equal(other Instance) bool {
	if in.DefinitionID != other.DefinitionID {
		return false
	}
	if len(in.values) != len(other.values) {
		return false
	}
	for id, value := range in.values {
		if got, ok := other.values[id]; !ok || got != value {
			return false
		}
	}
	return true
}
