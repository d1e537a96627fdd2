package forms

import (
	"html"
	"html/template"
	"slices"
	"strings"
)

const (
	ClassControl = "form-control"
	ClassValid   = "is-valid"
	ClassInvalid = "is-invalid"
	ClassGroup   = "form-group"
	ClassError   = "invalid-feedback"
)

// FieldClasses computes the class list of a field control. base is never
// modified; duplicates are dropped, form-control appears exactly once and at
// most one state class is appended, is-invalid taking precedence over is-valid.
func FieldClasses(base []string, hasValue, hasError bool) []string {
	out := make([]string, 0, len(base)+2)
	for _, c := range base {
		c = strings.TrimSpace(c)
		if c == "" || c == ClassValid || c == ClassInvalid || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	if !slices.Contains(out, ClassControl) {
		out = append(out, ClassControl)
	}
	switch {
	case hasError:
		out = append(out, ClassInvalid)
	case hasValue:
		out = append(out, ClassValid)
	}
	return out
}

// RenderField renders the label, control and inline error of one field
// inside a form-group container.
func RenderField(f *Field) template.HTML {
	classes := FieldClasses(f.Spec.Classes, f.HasValue(), f.Error != "")
	id := "id_" + f.Name()

	var b strings.Builder
	b.WriteString(`<div class="` + ClassGroup + `">`)
	b.WriteString(`<label for="` + html.EscapeString(id) + `">` + html.EscapeString(f.Label()) + `</label>`)
	if !f.Spec.ErrorAfterField {
		writeError(&b, f.Error)
	}
	writeControl(&b, f, id, strings.Join(classes, " "))
	if f.Spec.ErrorAfterField {
		writeError(&b, f.Error)
	}
	b.WriteString(`</div>`)
	return template.HTML(b.String())
}

func writeError(b *strings.Builder, msg string) {
	if msg == "" {
		return
	}
	b.WriteString(`<div class="` + ClassError + `">` + html.EscapeString(msg) + `</div>`)
}

func writeControl(b *strings.Builder, f *Field, id, class string) {
	name := html.EscapeString(f.Name())
	attrs := ` name="` + name + `" id="` + html.EscapeString(id) + `" class="` + html.EscapeString(class) + `"`

	switch f.Spec.Widget {
	case WidgetTextarea:
		b.WriteString(`<textarea` + attrs + `>` + html.EscapeString(f.Value) + `</textarea>`)
	case WidgetSelect:
		b.WriteString(`<select` + attrs + `>`)
		b.WriteString(`<option value="">---------</option>`)
		writeOptions(b, f.Choices, []string{f.Value})
		b.WriteString(`</select>`)
	case WidgetMultipleSelect:
		b.WriteString(`<select multiple="multiple"` + attrs + `>`)
		writeOptions(b, f.Choices, f.Values)
		b.WriteString(`</select>`)
	default:
		typ := "text"
		if f.Spec.Widget == WidgetNumber {
			typ = "number"
		}
		b.WriteString(`<input type="` + typ + `"` + attrs + ` value="` + html.EscapeString(f.Value) + `">`)
	}
}

func writeOptions(b *strings.Builder, choices []Choice, selected []string) {
	for _, c := range choices {
		b.WriteString(`<option value="` + html.EscapeString(c.Value) + `"`)
		if slices.Contains(selected, c.Value) {
			b.WriteString(` selected="selected"`)
		}
		b.WriteString(`>` + html.EscapeString(c.Label) + `</option>`)
	}
}
