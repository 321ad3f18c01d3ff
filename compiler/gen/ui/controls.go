package ui

import (
	"fmt"

	"github.com/croutondev/crouton/compiler/gen"
	"github.com/croutondev/crouton/schema/field"
)

type controlView struct {
	Name    string
	Label   string
	Control string
}

type columnView struct {
	Label string
	Cell  string
}

type formData struct {
	Header   string
	Table    string
	Controls []controlView
}

type listData struct {
	Header       string
	Table        string
	PluralPascal string
	Columns      []columnView
}

func (e *Emitter) renderForm(c *gen.Collection) (string, error) {
	data := formData{Header: c.Config.Header, Table: c.Table()}
	for _, f := range c.Fields {
		ctrl, err := e.control(c, f)
		if err != nil {
			return "", err
		}
		data.Controls = append(data.Controls, controlView{
			Name:    f.Camel(),
			Label:   f.Label(),
			Control: ctrl,
		})
	}
	return execute("form", data)
}

func (e *Emitter) renderList(c *gen.Collection) (string, error) {
	data := listData{Header: c.Config.Header, Table: c.Table(), PluralPascal: c.PluralPascal()}
	for _, f := range c.Fields {
		data.Columns = append(data.Columns, columnView{
			Label: f.Label(),
			Cell:  cell(f),
		})
	}
	return execute("list", data)
}

// control picks a registered renderer for the field, else the kind
// default.
func (e *Emitter) control(c *gen.Collection, f *gen.Field) (string, error) {
	if r, ok := e.registry.lookup(c.Name, f.Name); ok {
		return r.Render(c, f)
	}
	return defaultControl(f), nil
}

func defaultControl(f *gen.Field) string {
	name := f.Camel()
	value := "{{." + f.StructField() + "}}"
	required := ""
	if f.Required() {
		required = " required"
	}
	switch f.Kind {
	case field.KindText, field.KindJSON, field.KindArray, field.KindRepeater:
		return fmt.Sprintf(`<textarea id=%q name=%q%s>%s</textarea>`, name, name, required, value)
	case field.KindBoolean:
		return fmt.Sprintf(`<input type="checkbox" id=%q name=%q {{if .%s}}checked{{end}}>`, name, name, f.StructField())
	case field.KindNumber:
		return fmt.Sprintf(`<input type="number" id=%q name=%q value=%q%s>`, name, name, value, required)
	case field.KindDecimal:
		return fmt.Sprintf(`<input type="number" step="any" id=%q name=%q value=%q%s>`, name, name, value, required)
	case field.KindDate:
		return fmt.Sprintf(`<input type="datetime-local" id=%q name=%q value=%q%s>`, name, name, value, required)
	case field.KindReference:
		return fmt.Sprintf(
			`<select id=%q name=%q%s><option value="">--</option>{{range .%sOptions}}<option value="{{.ID}}" {{if eq .ID $.%s}}selected{{end}}>{{.Label}}</option>{{end}}</select>`,
			name, name, required, f.StructField(), f.StructField(),
		)
	default:
		attrs := ""
		if f.Meta.MaxLength > 0 {
			attrs = fmt.Sprintf(` maxlength="%d"`, f.Meta.MaxLength)
		}
		return fmt.Sprintf(`<input type="text" id=%q name=%q value=%q%s%s>`, name, name, value, attrs, required)
	}
}

// cell renders one list column body for a row in scope.
func cell(f *gen.Field) string {
	switch f.Kind {
	case field.KindDate:
		return "{{formatDate ." + f.StructField() + "}}"
	case field.KindBoolean:
		return "{{if ." + f.StructField() + "}}yes{{else}}no{{end}}"
	case field.KindReference:
		return `<span class="crouton-badge">{{.` + f.StructField() + `Label}}</span>`
	case field.KindArray, field.KindRepeater:
		return "{{len ." + f.StructField() + "}} items"
	default:
		return "{{." + f.StructField() + "}}"
	}
}

type dependentTrio struct {
	Input    string
	Select   string
	CardMini string
}

type dependentData struct {
	Header         string
	Field          string
	FieldPascal    string
	Label          string
	Required       bool
	DependsOn      string
	DependsOnLabel string
	ParentPascal   string
	OptionsPascal  string
	Control        string
}

// renderDependent emits the input/select/mini-card trio for one
// dependent field. All three share the same derived names, so they
// cannot drift apart from each other or from the handlers.
func (e *Emitter) renderDependent(c *gen.Collection, f *gen.Field) (dependentTrio, error) {
	parentName := f.Meta.DependsOn
	if parentName == "" {
		parentName = f.Meta.DependsOnField
	}
	data := dependentData{
		Header:         c.Config.Header,
		Field:          f.Camel(),
		FieldPascal:    f.StructField(),
		Label:          f.Label(),
		Required:       f.Required(),
		DependsOn:      gen.Camel(parentName),
		DependsOnLabel: parentName,
		ParentPascal:   gen.Pascal(parentName),
		OptionsPascal:  f.StructField() + "Options",
	}
	if parent, ok := c.FieldByName(parentName); ok {
		data.DependsOnLabel = parent.Label()
	}

	sel, err := execute("dependent_select", data)
	if err != nil {
		return dependentTrio{}, err
	}
	body, err := execute("dependent_select_body", data)
	if err != nil {
		return dependentTrio{}, err
	}
	data.Control = body
	input, err := execute("dependent_input", data)
	if err != nil {
		return dependentTrio{}, err
	}
	card, err := execute("dependent_card_mini", data)
	if err != nil {
		return dependentTrio{}, err
	}
	return dependentTrio{Input: input, Select: sel, CardMini: card}, nil
}
