package console

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
	"github.com/goliatone/go-kbadmin/pkg/forms"
	"github.com/goliatone/go-kbadmin/pkg/render"
)

// formState is the draft of one logical form plus its pending flash message.
// The console mutex makes every read-modify-write on it sequential, so the
// single-writer rule the engine expects holds even under concurrent
// requests.
type formState struct {
	instance   flowform.Instance
	status     string
	statusKind string
}

// deriveForm resolves the definition and the late initial values for a form
// id. Catalog definitions override the built-ins under the same id; initial
// values snapshot the keystore for the forms that carry the API key.
func (c *Console) deriveForm(formID string) (flowform.Definition, flowform.Values, error) {
	def, err := c.definitionFor(formID)
	if err != nil {
		return flowform.Definition{}, nil, err
	}
	initial, err := c.initialFor(formID)
	if err != nil {
		return flowform.Definition{}, nil, fmt.Errorf("console: initial values for %s: %w", formID, err)
	}
	return def, initial, nil
}

func (c *Console) definitionFor(formID string) (flowform.Definition, error) {
	if def, ok := c.catalogStore.Definition(formID); ok {
		return def, nil
	}
	switch formID {
	case forms.CreateWorkspaceID:
		return forms.CreateWorkspace(), nil
	case forms.IngestTextID:
		return forms.IngestText(), nil
	case forms.IngestFileID:
		return forms.IngestFile(), nil
	case forms.SettingsID:
		return forms.Settings(), nil
	}
	return flowform.Definition{}, fmt.Errorf("console: unknown form %q", formID)
}

func (c *Console) initialFor(formID string) (flowform.Values, error) {
	switch formID {
	case forms.IngestFileID:
		return forms.IngestFileInitial(c.keys)
	case forms.SettingsID:
		return forms.SettingsInitial(c.keys)
	}
	return nil, nil
}

// currentForm returns the live state for a form id, reconciling the held
// draft against the freshly derived definition and initial values. First
// access materializes the instance. Callers hold c.mu.
func (c *Console) currentForm(formID string) (flowform.Definition, *formState, error) {
	def, initial, err := c.deriveForm(formID)
	if err != nil {
		return flowform.Definition{}, nil, err
	}
	state, ok := c.forms[formID]
	if !ok {
		state = &formState{instance: flowform.New(def, initial)}
		c.forms[formID] = state
	} else {
		state.instance = state.instance.Reconcile(def, initial)
	}
	return def, state, nil
}

// applySubmission decodes a posted form, overlays it on the draft and
// reports the decode and required-field problems. The draft keeps the edits
// either way so a failed submission re-renders what the user typed.
func (c *Console) applySubmission(formID string, posted url.Values) (flowform.Definition, flowform.Instance, map[string][]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	def, state, err := c.currentForm(formID)
	if err != nil {
		return flowform.Definition{}, flowform.Instance{}, nil, err
	}

	patch, problems := decodeForm(def, posted)
	state.instance = state.instance.Update(patch)
	problems = render.MergeFieldErrors(problems, requiredProblems(def, state.instance))
	return def, state.instance, problems, nil
}

// resetForm discards the draft after a successful submission and leaves a
// flash message for the next page load. Initial values are re-derived, so a
// reset upload form picks up the currently stored API key.
func (c *Console) resetForm(formID, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	def, initial, err := c.deriveForm(formID)
	if err != nil {
		return
	}
	state, ok := c.forms[formID]
	if !ok {
		state = &formState{}
		c.forms[formID] = state
	}
	state.instance = flowform.Reset(def, initial)
	state.status = status
	state.statusKind = "info"
}

func (c *Console) setStatus(formID, status, kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.forms[formID]
	if !ok {
		state = &formState{}
		c.forms[formID] = state
	}
	state.status = status
	state.statusKind = kind
}

// takeStatus pops the first pending flash message among the given form ids.
func (c *Console) takeStatus(formIDs ...string) (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range formIDs {
		state, ok := c.forms[id]
		if !ok || state.status == "" {
			continue
		}
		status, kind := state.status, state.statusKind
		state.status, state.statusKind = "", ""
		return status, kind
	}
	return "", ""
}

// viewFor assembles the FormView for a page, reconciling the draft first.
func (c *Console) viewFor(formID, action, submitLabel string, problems map[string][]string) (render.FormView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	def, state, err := c.currentForm(formID)
	if err != nil {
		return render.FormView{}, err
	}
	return render.FormView{
		Definition:  def,
		Instance:    state.instance,
		Action:      action,
		Method:      "post",
		SubmitLabel: submitLabel,
		Errors:      problems,
	}, nil
}

// decodeForm turns submitted values into an instance patch. Unchecked
// toggles patch to false because browsers omit them, blank passwords are
// left out so a stored secret survives, and blank text or number inputs
// patch to the zero Value so a deliberate clear sticks across reconciles.
// Values that do not parse keep the previous entry and report a problem.
func decodeForm(def flowform.Definition, posted url.Values) (flowform.Values, map[string][]string) {
	patch := make(flowform.Values)
	problems := make(map[string][]string)

	for _, field := range def.Fields() {
		raw := posted.Get(field.ID)
		switch field.Kind {
		case flowform.KindToggle:
			patch[field.ID] = flowform.Bool(toggleOn(raw))
		case flowform.KindNumber:
			trimmed := strings.TrimSpace(raw)
			if trimmed == "" {
				patch[field.ID] = flowform.Value{}
				continue
			}
			number, err := strconv.ParseFloat(trimmed, 64)
			if err != nil {
				problems[field.ID] = append(problems[field.ID], "must be a number")
				continue
			}
			if message := rangeProblem(field, number); message != "" {
				problems[field.ID] = append(problems[field.ID], message)
				continue
			}
			patch[field.ID] = flowform.Number(number)
		case flowform.KindPassword:
			if raw == "" {
				continue
			}
			patch[field.ID] = flowform.Secret(raw)
		case flowform.KindSelect:
			if len(field.Choices) > 0 && !isChoice(field.Choices, raw) {
				problems[field.ID] = append(problems[field.ID], "is not one of the available choices")
				continue
			}
			patch[field.ID] = flowform.Text(raw)
		default:
			if strings.TrimSpace(raw) == "" {
				patch[field.ID] = flowform.Value{}
				continue
			}
			patch[field.ID] = flowform.Text(raw)
		}
	}
	return patch, problems
}

// requiredProblems flags required fields whose entry is missing or absent.
func requiredProblems(def flowform.Definition, inst flowform.Instance) map[string][]string {
	var problems map[string][]string
	for _, field := range def.Fields() {
		if !field.Required {
			continue
		}
		value, ok := inst.Value(field.ID)
		if ok && !value.IsZero() {
			continue
		}
		if problems == nil {
			problems = make(map[string][]string)
		}
		problems[field.ID] = append(problems[field.ID], "is required")
	}
	return problems
}

func rangeProblem(field flowform.Field, number float64) string {
	switch {
	case field.Min != nil && field.Max != nil && (number < *field.Min || number > *field.Max):
		return fmt.Sprintf("must be between %s and %s", formatBound(*field.Min), formatBound(*field.Max))
	case field.Min != nil && number < *field.Min:
		return fmt.Sprintf("must be at least %s", formatBound(*field.Min))
	case field.Max != nil && number > *field.Max:
		return fmt.Sprintf("must be at most %s", formatBound(*field.Max))
	}
	return ""
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func toggleOn(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

func isChoice(choices []flowform.Choice, value string) bool {
	for _, choice := range choices {
		if choice.Value == value {
			return true
		}
	}
	return false
}

func textValue(inst flowform.Instance, id string) string {
	value, _ := inst.Value(id)
	return value.Text()
}

func intValue(inst flowform.Instance, id string, fallback int) int {
	value, ok := inst.Value(id)
	if !ok || value.Kind() != flowform.ValueNumber {
		return fallback
	}
	return int(value.Number())
}
