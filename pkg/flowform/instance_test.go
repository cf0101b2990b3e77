package flowform_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
)

func definitionOf(id string, fields ...flowform.Field) flowform.Definition {
	return flowform.Definition{
		ID:       id,
		Sections: []flowform.Section{{Fields: fields}},
	}
}

func TestNewResolvesByPriority(t *testing.T) {
	def := definitionOf("d1",
		flowform.Field{ID: "name", Kind: flowform.KindText, Required: true},
		flowform.Field{ID: "chunk_size", Kind: flowform.KindNumber, Default: flowform.Number(750)},
		flowform.Field{ID: "description", Kind: flowform.KindTextarea},
	)

	inst := flowform.New(def, flowform.Values{"name": flowform.Text("Docs")})

	if inst.DefinitionID != "d1" {
		t.Fatalf("definition id = %q", inst.DefinitionID)
	}
	want := flowform.Values{
		"name":       flowform.Text("Docs"),
		"chunk_size": flowform.Number(750),
	}
	if diff := cmp.Diff(want, inst.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	// description had no initial value and no default: absent, not empty.
	if inst.Has("description") {
		t.Fatalf("description should have no entry")
	}
}

func TestNewHonoursExplicitEmptyInitialOverDefault(t *testing.T) {
	def := definitionOf("d1",
		flowform.Field{ID: "title", Kind: flowform.KindText, Default: flowform.Text("Untitled")},
	)

	inst := flowform.New(def, flowform.Values{"title": flowform.Text("")})

	got, ok := inst.Value("title")
	if !ok {
		t.Fatalf("title entry missing")
	}
	if got != flowform.Text("") {
		t.Fatalf("title = %v, want explicit empty text", got)
	}
}

func TestNewIgnoresInitialKeysOutsideDefinition(t *testing.T) {
	def := definitionOf("d1", flowform.Field{ID: "a", Kind: flowform.KindText})

	inst := flowform.New(def, flowform.Values{
		"a":     flowform.Text("kept"),
		"ghost": flowform.Text("dropped"),
	})

	if inst.Has("ghost") {
		t.Fatalf("initial key outside the definition was admitted")
	}
	if got, _ := inst.Value("a"); got != flowform.Text("kept") {
		t.Fatalf("a = %v", got)
	}
}

func TestNewIsDeterministic(t *testing.T) {
	def := definitionOf("d1",
		flowform.Field{ID: "a", Default: flowform.Text("x")},
		flowform.Field{ID: "b", Kind: flowform.KindNumber},
	)
	initial := flowform.Values{"b": flowform.Number(2)}

	first := flowform.New(def, initial)
	second := flowform.New(def, initial)
	if !first.Equal(second) {
		t.Fatalf("identical inputs produced different instances:\n%s",
			cmp.Diff(first.Values(), second.Values()))
	}
}

func TestUpdateOverlaysOnlyPatchedFields(t *testing.T) {
	def := definitionOf("d1",
		flowform.Field{ID: "a", Default: flowform.Text("keep")},
		flowform.Field{ID: "b", Default: flowform.Number(1)},
	)
	inst := flowform.New(def, nil)

	updated := inst.Update(flowform.Values{"a": flowform.Text("edited")})

	if got, _ := updated.Value("a"); got != flowform.Text("edited") {
		t.Fatalf("a = %v", got)
	}
	if got, _ := updated.Value("b"); got != flowform.Number(1) {
		t.Fatalf("b changed: %v", got)
	}
	// The input instance is untouched.
	if got, _ := inst.Value("a"); got != flowform.Text("keep") {
		t.Fatalf("update mutated the prior instance: %v", got)
	}
	if updated.DefinitionID != inst.DefinitionID {
		t.Fatalf("update changed the definition id")
	}
}

func TestUpdateStoresUnknownKeysUntilReconcileDropsThem(t *testing.T) {
	def := definitionOf("d1", flowform.Field{ID: "a"})
	inst := flowform.New(def, flowform.Values{"a": flowform.Text("1")})

	inst = inst.Update(flowform.Values{"stray": flowform.Text("inert")})
	if !inst.Has("stray") {
		t.Fatalf("unknown patched key should be stored")
	}

	inst = inst.Reconcile(def, nil)
	if inst.Has("stray") {
		t.Fatalf("reconcile kept a key the definition does not declare")
	}
	if got, _ := inst.Value("a"); got != flowform.Text("1") {
		t.Fatalf("a = %v", got)
	}
}

func TestReconcileNeverClobbersExistingValues(t *testing.T) {
	def := definitionOf("d1",
		flowform.Field{ID: "a", Kind: flowform.KindText},
		flowform.Field{ID: "b", Kind: flowform.KindText},
	)
	inst := flowform.New(def, nil).Update(flowform.Values{"a": flowform.Text("user-typed")})

	next := inst.Reconcile(def, flowform.Values{
		"a": flowform.Text("server-default"),
		"b": flowform.Text("fresh"),
	})

	want := flowform.Values{
		"a": flowform.Text("user-typed"),
		"b": flowform.Text("fresh"),
	}
	if diff := cmp.Diff(want, next.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileDropsFieldsAbsentFromNewDefinition(t *testing.T) {
	d1 := definitionOf("d1",
		flowform.Field{ID: "a"},
		flowform.Field{ID: "b"},
	)
	inst := flowform.New(d1, flowform.Values{
		"a": flowform.Number(1),
		"b": flowform.Number(2),
	})

	d2 := definitionOf("d2", flowform.Field{ID: "a"})
	next := inst.Reconcile(d2, nil)

	want := flowform.Values{"a": flowform.Number(1)}
	if diff := cmp.Diff(want, next.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if next.DefinitionID != "d2" {
		t.Fatalf("definition id = %q, want d2", next.DefinitionID)
	}
}

func TestReconcileResolvesIntroducedFields(t *testing.T) {
	d1 := definitionOf("d1", flowform.Field{ID: "a"})
	inst := flowform.New(d1, flowform.Values{"a": flowform.Number(1)})

	d2 := definitionOf("d2",
		flowform.Field{ID: "a"},
		flowform.Field{ID: "c"},
	)
	next := inst.Reconcile(d2, flowform.Values{"c": flowform.Text("new")})

	want := flowform.Values{
		"a": flowform.Number(1),
		"c": flowform.Text("new"),
	}
	if diff := cmp.Diff(want, next.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	def := definitionOf("d1",
		flowform.Field{ID: "a", Default: flowform.Text("x")},
		flowform.Field{ID: "b"},
	)
	initial := flowform.Values{"b": flowform.Number(9)}
	inst := flowform.New(def, nil).Update(flowform.Values{"a": flowform.Text("edited")})

	once := inst.Reconcile(def, initial)
	twice := once.Reconcile(def, initial)

	if !once.Equal(twice) {
		t.Fatalf("reconcile not idempotent:\n%s", cmp.Diff(once.Values(), twice.Values()))
	}
}

// Defaults that already landed are indistinguishable from user edits: a value
// present in the instance is protected regardless of where it came from.
func TestReconcileProtectsDefaultSeededValues(t *testing.T) {
	def := definitionOf("ingest",
		flowform.Field{ID: "name", Kind: flowform.KindText, Required: true},
		flowform.Field{ID: "chunk_size", Kind: flowform.KindNumber, Default: flowform.Number(750)},
	)

	inst := flowform.New(def, nil)
	if diff := cmp.Diff(flowform.Values{"chunk_size": flowform.Number(750)}, inst.Values()); diff != "" {
		t.Fatalf("instantiate mismatch (-want +got):\n%s", diff)
	}

	inst = inst.Update(flowform.Values{"name": flowform.Text("Docs")})
	want := flowform.Values{
		"chunk_size": flowform.Number(750),
		"name":       flowform.Text("Docs"),
	}
	if diff := cmp.Diff(want, inst.Values()); diff != "" {
		t.Fatalf("update mismatch (-want +got):\n%s", diff)
	}

	inst = inst.Reconcile(def, flowform.Values{"chunk_size": flowform.Number(900)})
	if diff := cmp.Diff(want, inst.Values()); diff != "" {
		t.Fatalf("reconcile mismatch (-want +got):\n%s", diff)
	}
}

// A late-arriving initial value reaches a field only while it has no entry;
// once the user cleared the field to empty the engine can no longer tell, and
// the late value is ignored. Documented limitation.
func TestReconcileLateInitialSkipsClearedFields(t *testing.T) {
	def := definitionOf("settings", flowform.Field{ID: "api_key", Kind: flowform.KindPassword})

	untouched := flowform.New(def, nil)
	loaded := untouched.Reconcile(def, flowform.Values{"api_key": flowform.Secret("sk-cached")})
	if got, _ := loaded.Value("api_key"); got != flowform.Secret("sk-cached") {
		t.Fatalf("late initial did not reach untouched field: %v", got)
	}

	cleared := flowform.New(def, nil).Update(flowform.Values{"api_key": flowform.Secret("")})
	after := cleared.Reconcile(def, flowform.Values{"api_key": flowform.Secret("sk-cached")})
	if got, _ := after.Value("api_key"); got != flowform.Secret("") {
		t.Fatalf("late initial overwrote an explicitly cleared field: %v", got)
	}
}

func TestReconcileSectionsDoNotAffectValues(t *testing.T) {
	flat := definitionOf("d",
		flowform.Field{ID: "a", Default: flowform.Text("1")},
		flowform.Field{ID: "b", Default: flowform.Text("2")},
	)
	grouped := flowform.Definition{
		ID: "d",
		Sections: []flowform.Section{
			{Title: "One", Fields: []flowform.Field{{ID: "a", Default: flowform.Text("1")}}},
			{Title: "Two", Fields: []flowform.Field{{ID: "b", Default: flowform.Text("2")}}},
		},
	}

	inst := flowform.New(flat, nil).Update(flowform.Values{"a": flowform.Text("edited")})
	regrouped := inst.Reconcile(grouped, nil)

	want := flowform.Values{
		"a": flowform.Text("edited"),
		"b": flowform.Text("2"),
	}
	if diff := cmp.Diff(want, regrouped.Values()); diff != "" {
		t.Fatalf("regrouping changed values (-want +got):\n%s", diff)
	}
}

func TestResetDiscardsEverything(t *testing.T) {
	def := definitionOf("d1",
		flowform.Field{ID: "title", Default: flowform.Text("Untitled")},
	)
	inst := flowform.New(def, nil).Update(flowform.Values{"title": flowform.Text("edited")})

	reset := flowform.Reset(def, nil)
	if got, _ := reset.Value("title"); got != flowform.Text("Untitled") {
		t.Fatalf("reset kept prior state: %v", got)
	}
	if !reset.Equal(flowform.New(def, nil)) {
		t.Fatalf("reset differs from a fresh instantiate")
	}
	_ = inst
}

func TestValuesAccessorReturnsCopy(t *testing.T) {
	def := definitionOf("d1", flowform.Field{ID: "a", Default: flowform.Text("x")})
	inst := flowform.New(def, nil)

	snapshot := inst.Values()
	snapshot["a"] = flowform.Text("mutated")
	snapshot["b"] = flowform.Text("added")

	if got, _ := inst.Value("a"); got != flowform.Text("x") {
		t.Fatalf("mutating the snapshot changed the instance: %v", got)
	}
	if inst.Has("b") {
		t.Fatalf("mutating the snapshot added entries to the instance")
	}
	if inst.Len() != 1 {
		t.Fatalf("len = %d", inst.Len())
	}
}

func TestZeroInstanceIsUsable(t *testing.T) {
	var inst flowform.Instance

	if inst.Len() != 0 {
		t.Fatalf("zero instance len = %d", inst.Len())
	}
	if _, ok := inst.Value("a"); ok {
		t.Fatalf("zero instance has entries")
	}

	def := definitionOf("d1", flowform.Field{ID: "a", Default: flowform.Text("x")})
	next := inst.Update(flowform.Values{"a": flowform.Text("typed")}).Reconcile(def, nil)
	if got, _ := next.Value("a"); got != flowform.Text("typed") {
		t.Fatalf("a = %v", got)
	}
}
