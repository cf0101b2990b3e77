package html

import (
	"html"
	"strconv"
	"strings"

	"github.com/goliatone/go-kbadmin/pkg/flowform"
)

const controlIDPrefix = "kb-"

// buildFieldMarkup renders one field wrapper: label, control, hint and any
// per-field error messages. Secret values are never written into the page
// source; the control only signals that a value exists.
func buildFieldMarkup(field flowform.Field, value flowform.Value, errors []string, classes map[string]string) string {
	var b strings.Builder
	b.Grow(512)

	b.WriteString(`<div class="`)
	b.WriteString(html.EscapeString(classes[classField]))
	if width := strings.TrimSpace(field.Width); width != "" {
		b.WriteString(` `)
		b.WriteString(html.EscapeString(classes[classField] + "--" + width))
	}
	b.WriteString(`" data-field="`)
	b.WriteString(html.EscapeString(field.ID))
	b.WriteString("\">\n")

	if label := strings.TrimSpace(field.Label); label != "" {
		b.WriteString(`    <label for="`)
		b.WriteString(controlID(field.ID))
		b.WriteString(`" class="`)
		b.WriteString(html.EscapeString(classes[classLabel]))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(label))
		if field.Required {
			b.WriteString(` <span class="kb-required">*</span>`)
		}
		b.WriteString("</label>\n")
	}

	b.WriteString("    ")
	b.WriteString(buildControl(field, value, classes))
	b.WriteString("\n")

	if desc := strings.TrimSpace(field.Description); desc != "" {
		b.WriteString(`    <small class="`)
		b.WriteString(html.EscapeString(classes[classHint]))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(desc))
		b.WriteString("</small>\n")
	}

	if len(errors) > 0 {
		b.WriteString(`    <ul class="`)
		b.WriteString(html.EscapeString(classes[classErrors]))
		b.WriteString("\">\n")
		for _, message := range errors {
			b.WriteString(`        <li>`)
			b.WriteString(html.EscapeString(message))
			b.WriteString("</li>\n")
		}
		b.WriteString("    </ul>\n")
	}

	b.WriteString("</div>\n")
	return b.String()
}

func buildControl(field flowform.Field, value flowform.Value, classes map[string]string) string {
	switch field.Kind {
	case flowform.KindTextarea:
		return buildTextarea(field, value, classes)
	case flowform.KindSelect:
		return buildSelect(field, value, classes)
	case flowform.KindToggle:
		return buildToggle(field, value, classes)
	case flowform.KindNumber:
		return buildInput(field, "number", valueAttr(value), classes)
	case flowform.KindPassword:
		return buildPassword(field, value, classes)
	default:
		return buildInput(field, "text", valueAttr(value), classes)
	}
}

func buildInput(field flowform.Field, inputType, value string, classes map[string]string) string {
	var b strings.Builder
	b.WriteString(`<input type="`)
	b.WriteString(inputType)
	b.WriteString(`" id="`)
	b.WriteString(controlID(field.ID))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(field.ID))
	b.WriteString(`" class="`)
	b.WriteString(html.EscapeString(classes[classInput]))
	b.WriteString(`"`)

	if value != "" {
		b.WriteString(` value="`)
		b.WriteString(html.EscapeString(value))
		b.WriteString(`"`)
	}
	if placeholder := strings.TrimSpace(field.Placeholder); placeholder != "" {
		b.WriteString(` placeholder="`)
		b.WriteString(html.EscapeString(placeholder))
		b.WriteString(`"`)
	}
	if field.Required {
		b.WriteString(` required`)
	}
	if inputType == "number" {
		b.WriteString(numberAttrs(field))
	}

	b.WriteString(`>`)
	return b.String()
}

func buildPassword(field flowform.Field, value flowform.Value, classes map[string]string) string {
	markup := buildInput(field, "password", "", classes)
	if value.Kind() == flowform.ValueSecret && value.Text() != "" {
		markup = strings.TrimSuffix(markup, ">") + ` data-stored="true">`
	}
	return markup
}

func buildTextarea(field flowform.Field, value flowform.Value, classes map[string]string) string {
	var b strings.Builder
	b.WriteString(`<textarea id="`)
	b.WriteString(controlID(field.ID))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(field.ID))
	b.WriteString(`" class="`)
	b.WriteString(html.EscapeString(classes[classInput]))
	b.WriteString(`" rows="6"`)
	if placeholder := strings.TrimSpace(field.Placeholder); placeholder != "" {
		b.WriteString(` placeholder="`)
		b.WriteString(html.EscapeString(placeholder))
		b.WriteString(`"`)
	}
	if field.Required {
		b.WriteString(` required`)
	}
	b.WriteString(`>`)
	b.WriteString(html.EscapeString(valueAttr(value)))
	b.WriteString(`</textarea>`)
	return b.String()
}

func buildSelect(field flowform.Field, value flowform.Value, classes map[string]string) string {
	var b strings.Builder
	b.WriteString(`<select id="`)
	b.WriteString(controlID(field.ID))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(field.ID))
	b.WriteString(`" class="`)
	b.WriteString(html.EscapeString(classes[classInput]))
	b.WriteString(`"`)
	if field.Required {
		b.WriteString(` required`)
	}
	b.WriteString(">\n")

	current := valueAttr(value)
	for _, choice := range field.Choices {
		b.WriteString(`        <option value="`)
		b.WriteString(html.EscapeString(choice.Value))
		b.WriteString(`"`)
		if choice.Value == current && current != "" {
			b.WriteString(` selected`)
		}
		b.WriteString(`>`)
		label := choice.Label
		if label == "" {
			label = choice.Value
		}
		b.WriteString(html.EscapeString(label))
		b.WriteString("</option>\n")
	}
	b.WriteString(`    </select>`)
	return b.String()
}

func buildToggle(field flowform.Field, value flowform.Value, classes map[string]string) string {
	var b strings.Builder
	b.WriteString(`<input type="checkbox" id="`)
	b.WriteString(controlID(field.ID))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(field.ID))
	b.WriteString(`" class="`)
	b.WriteString(html.EscapeString(classes[classInput]))
	b.WriteString(`" value="true"`)
	if value.Kind() == flowform.ValueBool && value.Bool() {
		b.WriteString(` checked`)
	}
	b.WriteString(`>`)
	return b.String()
}

// buildUploadMarkup renders the file control RenderUploadForm places ahead
// of the form sections. Same wrapper shape as buildFieldMarkup so themes
// style it identically.
func buildUploadMarkup(upload UploadField, classes map[string]string) string {
	var b strings.Builder
	b.Grow(256)

	b.WriteString(`    <div class="`)
	b.WriteString(html.EscapeString(classes[classField]))
	b.WriteString(`" data-field="`)
	b.WriteString(html.EscapeString(upload.Name))
	b.WriteString("\">\n")

	if label := strings.TrimSpace(upload.Label); label != "" {
		b.WriteString(`        <label for="`)
		b.WriteString(controlID(upload.Name))
		b.WriteString(`" class="`)
		b.WriteString(html.EscapeString(classes[classLabel]))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(label))
		if upload.Required {
			b.WriteString(` <span class="kb-required">*</span>`)
		}
		b.WriteString("</label>\n")
	}

	b.WriteString(`        <input type="file" id="`)
	b.WriteString(controlID(upload.Name))
	b.WriteString(`" name="`)
	b.WriteString(html.EscapeString(upload.Name))
	b.WriteString(`" class="`)
	b.WriteString(html.EscapeString(classes[classInput]))
	b.WriteString(`"`)
	if accept := strings.TrimSpace(upload.Accept); accept != "" {
		b.WriteString(` accept="`)
		b.WriteString(html.EscapeString(accept))
		b.WriteString(`"`)
	}
	if upload.Required {
		b.WriteString(` required`)
	}
	b.WriteString(">\n")

	if hint := strings.TrimSpace(upload.Hint); hint != "" {
		b.WriteString(`        <small class="`)
		b.WriteString(html.EscapeString(classes[classHint]))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(hint))
		b.WriteString("</small>\n")
	}

	b.WriteString("    </div>\n")
	return b.String()
}

// valueAttr converts an instance value into attribute text. Secrets return
// empty so they never appear in markup.
func valueAttr(value flowform.Value) string {
	switch value.Kind() {
	case flowform.ValueText:
		return value.Text()
	case flowform.ValueNumber:
		return value.String()
	case flowform.ValueBool:
		if value.Bool() {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func numberAttrs(field flowform.Field) string {
	var b strings.Builder
	if field.Min != nil {
		b.WriteString(` min="`)
		b.WriteString(formatFloat(*field.Min))
		b.WriteString(`"`)
	}
	if field.Max != nil {
		b.WriteString(` max="`)
		b.WriteString(formatFloat(*field.Max))
		b.WriteString(`"`)
	}
	if field.Step != nil {
		b.WriteString(` step="`)
		b.WriteString(formatFloat(*field.Step))
		b.WriteString(`"`)
	}
	return b.String()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func controlID(fieldID string) string {
	return controlIDPrefix + html.EscapeString(fieldID)
}
