package render

import (
	"bytes"
	"html/template"
	"strconv"
	"strings"

	"github.com/autoforms/autoforms/schema"
	"github.com/autoforms/autoforms/utils"
)

// Mode add or edit, decides where option selection comes from
type Mode int

const (
	// Add empty form, defaults and static option flags apply
	Add Mode = iota
	// Edit form populated from a record
	Edit
)

// control families, in selection priority
const (
	familyChoices = "choices"
	familyList    = "list"
	familySelect  = "select"
	familyRadios  = "radios"
	familyInput   = "input"
	familyText    = "textarea"
	familyFile    = "file"
)

// native input type per field type
var nativeTypes = map[schema.Type]string{
	schema.Text:      "text",
	schema.Int:       "number",
	schema.Double:    "number",
	schema.Color:     "color",
	schema.Date:      "date",
	schema.Datetime:  "datetime-local",
	schema.Time:      "time",
	schema.URL:       "url",
	schema.Telephone: "tel",
	schema.Email:     "email",
}

type choice struct {
	Label    string
	Value    string
	Selected bool
}

type control struct {
	Family      string
	InputType   string
	Name        string
	Label       string
	Value       string
	Values      []string
	Multiple    bool
	Choices     []choice
	Columns     int
	Before      int
	After       int
	Vertical    bool
	Required    bool
	Disabled    bool
	Pattern     string
	Placeholder string
	Accept      string
	Min         string
	Max         string
	Step        string
	MaxLength   int
}

// Class grid classes of the control wrapper
func (c control) Class() string {
	class := "field col-" + strconv.Itoa(c.Columns)
	if c.Before > 0 {
		class += " before-" + strconv.Itoa(c.Before)
	}
	if c.After > 0 {
		class += " after-" + strconv.Itoa(c.After)
	}
	if c.Vertical {
		return class + " vertical"
	}
	return class + " horizontal"
}

// Input renders the control of field, value is the storage value or nil for a fresh add form.
// Neither field nor value is modified.
func Input(field *schema.Field, value interface{}, mode Mode) template.HTML {
	c := newControl(field, value, mode)

	var buf bytes.Buffer
	if err := inputs.ExecuteTemplate(&buf, "input", c); err != nil {
		return template.HTML("<!-- " + template.HTMLEscapeString(field.Name+": "+err.Error()) + " -->")
	}
	return template.HTML(buf.String())
}

func newControl(field *schema.Field, value interface{}, mode Mode) control {
	c := control{
		Name:        field.Name,
		Label:       field.InputLabel,
		Columns:     field.Columns(),
		Before:      field.InputColumnsBefore,
		After:       field.InputColumnsAfter,
		Vertical:    field.Alignment == schema.Vertical,
		Required:    field.Required,
		Disabled:    field.Disabled,
		Pattern:     field.Pattern,
		Placeholder: field.Placeholder,
	}
	if c.Label == "" {
		c.Label = field.Name
	}

	// a fresh add form starts from the declared default
	fresh := value == nil
	if fresh && mode == Add && field.Default != "" {
		value = schema.FromWire(field, []string{field.Default}, true)
	}

	switch {
	case field.Type == schema.Array && len(field.Options) > 0:
		c.Family = familyChoices
		if field.InputType == schema.MultiSelect {
			c.Family = familySelect
			c.Multiple = true
		}
		selected := toStrings(schema.ToWire(field, value))
		c.Choices = choices(field.Options, func(o schema.Option) bool {
			if fresh && mode == Add {
				return o.Selected
			}
			return utils.Contains(selected, o.Value)
		})
	case field.Type == schema.Array:
		c.Family = familyList
		c.InputType = "text"
		if field.ArrayOf != nil {
			c.InputType = nativeTypes[field.ArrayOf.Type]
			c.MaxLength = field.ArrayOf.MaxLength
		}
		c.Values = toStrings(schema.ToWire(field, value))
	case len(field.Options) > 0 && (field.InputType == schema.Select || field.InputType == schema.Radios):
		c.Family = familySelect
		if field.InputType == schema.Radios {
			c.Family = familyRadios
		}
		current := utils.ToString(schema.ToWire(field, value))
		c.Choices = choices(field.Options, func(o schema.Option) bool {
			if fresh && mode == Add && field.Default == "" {
				return o.Selected
			}
			return o.Value == current
		})
	case field.Type == schema.Boolean:
		c.Family = familyRadios
		yes := !fresh && utils.CheckTruth(utils.ToString(schema.ToWire(field, value)))
		c.Choices = []choice{{Label: "Yes", Value: "1", Selected: yes}, {Label: "No", Value: "0", Selected: !yes}}
	case field.Type == schema.Textarea:
		c.Family = familyText
		c.Value = utils.ToString(schema.ToWire(field, value))
		c.MaxLength = field.MaxLength
	case field.Type == schema.File:
		c.Family = familyFile
		c.Value = utils.ToString(schema.ToWire(field, value))
		c.Accept = accept(field.AllowedExtensions)
	default:
		c.Family = familyInput
		c.InputType = nativeTypes[field.Type]
		if c.InputType == "" {
			c.InputType = "text"
		}
		if value != nil {
			c.Value = utils.ToString(schema.ToWire(field, value))
		}
		c.numeric(field)
	}

	return c
}

func (c *control) numeric(field *schema.Field) {
	switch field.Type {
	case schema.Int:
		c.Step = "1"
	case schema.Double:
		c.Step = "any"
	case schema.Time:
		c.Step = "1"
		return
	case schema.Text, schema.URL, schema.Telephone, schema.Email:
		c.MaxLength = field.MaxLength
		return
	default:
		return
	}

	if field.Min != nil {
		c.Min = strconv.FormatFloat(*field.Min, 'f', -1, 64)
	}
	if field.Max != nil {
		c.Max = strconv.FormatFloat(*field.Max, 'f', -1, 64)
	}
}

func choices(options []schema.Option, selected func(schema.Option) bool) []choice {
	list := make([]choice, len(options))
	for idx, option := range options {
		list[idx] = choice{Label: option.Label, Value: option.Value, Selected: selected(option)}
	}
	return list
}

func toStrings(wire interface{}) []string {
	switch v := wire.(type) {
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

func accept(extensions []string) string {
	list := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		if ext = strings.TrimSpace(ext); ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		list = append(list, ext)
	}
	return strings.Join(list, ",")
}
