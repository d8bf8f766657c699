package schema

import (
	"regexp"
	"strings"

	"github.com/autoforms/autoforms/utils"
	"github.com/goccy/go-json"
)

var nameRegexp = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// reserved column names owned by the record layout
var reservedNames = []string{"id", "active"}

const (
	DefaultInputColumns = 16
	DefaultMaxLength    = 32
)

// ArrayOf element declaration of an array field
type ArrayOf struct {
	Type      Type `json:"type" yaml:"type"`
	MaxLength int  `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
}

// Option one choice of an enumerated control
type Option struct {
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	Value    string `json:"value" yaml:"value"`
	Selected bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// UnmarshalJSON accepts numeric option values
func (o *Option) UnmarshalJSON(data []byte) error {
	var raw struct {
		Label    string      `json:"label"`
		Value    interface{} `json:"value"`
		Selected bool        `json:"selected"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.Label, o.Value, o.Selected = raw.Label, utils.ToString(raw.Value), raw.Selected
	return nil
}

// Field one named, typed attribute of a form
type Field struct {
	Name               string    `json:"name" yaml:"name"`
	Type               Type      `json:"type" yaml:"type"`
	ArrayOf            *ArrayOf  `json:"arrayOf,omitempty" yaml:"arrayOf,omitempty"`
	InputType          InputType `json:"inputType,omitempty" yaml:"inputType,omitempty"`
	InputLabel         string    `json:"inputLabel,omitempty" yaml:"inputLabel,omitempty"`
	InputColumns       *int      `json:"inputColumns,omitempty" yaml:"inputColumns,omitempty"`
	InputColumnsBefore int       `json:"inputColumnsBefore,omitempty" yaml:"inputColumnsBefore,omitempty"`
	InputColumnsAfter  int       `json:"inputColumnsAfter,omitempty" yaml:"inputColumnsAfter,omitempty"`
	Alignment          Alignment `json:"alignment,omitempty" yaml:"alignment,omitempty"`
	Required           bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Disabled           bool      `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	CanEdit            *bool     `json:"canEdit,omitempty" yaml:"canEdit,omitempty"`
	List               bool      `json:"list,omitempty" yaml:"list,omitempty"`
	ListHeader         string    `json:"listHeader,omitempty" yaml:"listHeader,omitempty"`
	ListOrder          *int      `json:"listOrder,omitempty" yaml:"listOrder,omitempty"`
	SortOrder          *int      `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
	Min                *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max                *float64  `json:"max,omitempty" yaml:"max,omitempty"`
	MaxLength          int       `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Options            []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	Default            string    `json:"default,omitempty" yaml:"default,omitempty"`
	Placeholder        string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Pattern            string    `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	AllowedExtensions  []string  `json:"allowedExtensions,omitempty" yaml:"allowedExtensions,omitempty"`
	Validation         string    `json:"validation,omitempty" yaml:"validation,omitempty"`
	ValidationMessage  string    `json:"validationMessage,omitempty" yaml:"validationMessage,omitempty"`

	// Predicate rejects coerced values, combined with Validation when both are set
	Predicate func(value interface{}) bool `json:"-" yaml:"-"`

	validation *regexp.Regexp
}

// Editable canEdit, true unless disabled explicitly
func (field *Field) Editable() bool {
	return field.CanEdit == nil || *field.CanEdit
}

// Validate checks the declaration and fills defaults, calling it again is a no-op
func (field *Field) Validate() error {
	if field.Name == "" {
		return configErr(MissingField, "", "missing required name")
	}

	if !nameRegexp.MatchString(field.Name) {
		return configErr(InvalidName, field.Name, "name must start with a letter and contain only a-z, A-Z, 0-9 and _")
	}

	for _, reserved := range reservedNames {
		if strings.EqualFold(field.Name, reserved) {
			return configErr(InvalidName, field.Name, "name %q is reserved", reserved)
		}
	}

	if field.Type == "" {
		field.Type = Text
	}

	if !field.Type.Declarable() {
		return configErr(InvalidType, field.Name, "unknown type %q", field.Type)
	}

	if field.Type == Array {
		if field.ArrayOf == nil || field.ArrayOf.Type == "" {
			return configErr(MissingField, field.Name, "type array requires arrayOf")
		}

		if !containsType(ArrayOfTypes, field.ArrayOf.Type) {
			return configErr(InvalidType, field.Name, "arrayOf type %q must be text, int or double", field.ArrayOf.Type)
		}

		if field.ArrayOf.MaxLength == 0 {
			field.ArrayOf.MaxLength = DefaultMaxLength
		} else if field.ArrayOf.MaxLength < 0 {
			return configErr(InvalidRange, field.Name, "arrayOf maxLength must be greater than zero")
		}
	}

	if err := field.validateInputType(); err != nil {
		return err
	}

	if field.InputLabel == "" {
		field.InputLabel = field.Name
	}

	if field.ListHeader == "" {
		field.ListHeader = field.Name
	}

	if field.InputColumns == nil {
		columns := DefaultInputColumns
		field.InputColumns = &columns
	}

	if *field.InputColumns < 1 || *field.InputColumns > 16 {
		return configErr(InvalidRange, field.Name, "inputColumns must be between 1 and 16 inclusive")
	}

	if field.InputColumnsBefore < 0 || field.InputColumnsBefore > 15 {
		return configErr(InvalidRange, field.Name, "inputColumnsBefore must be between 0 and 15 inclusive")
	}

	if field.InputColumnsAfter < 0 || field.InputColumnsAfter > 15 {
		return configErr(InvalidRange, field.Name, "inputColumnsAfter must be between 0 and 15 inclusive")
	}

	switch field.Alignment {
	case "":
		field.Alignment = Horizontal
	case Horizontal, Vertical:
	default:
		return configErr(InvalidRange, field.Name, "alignment %q must be horizontal or vertical", field.Alignment)
	}

	if field.MaxLength == 0 {
		field.MaxLength = DefaultMaxLength
	} else if field.MaxLength < 0 {
		return configErr(InvalidRange, field.Name, "maxLength must be greater than zero")
	}

	if field.Min != nil && field.Max != nil && *field.Min > *field.Max {
		return configErr(InvalidRange, field.Name, "min %v is greater than max %v", *field.Min, *field.Max)
	}

	for idx := range field.Options {
		if field.Options[idx].Value == "" {
			return configErr(MissingField, field.Name, "option %d missing value", idx)
		}
		if field.Options[idx].Label == "" {
			field.Options[idx].Label = field.Options[idx].Value
		}
	}

	if field.Validation != "" {
		re, err := regexp.Compile(field.Validation)
		if err != nil {
			return configErr(InvalidRange, field.Name, "validation pattern: %v", err)
		}
		field.validation = re
	}

	return nil
}

func (field *Field) validateInputType() error {
	switch {
	case field.Type == Array:
		switch field.InputType {
		case "":
			field.InputType = Checkboxes
		case Checkboxes, MultiSelect:
		default:
			return configErr(InvalidType, field.Name, "inputType %q not allowed for type array", field.InputType)
		}
	case field.InputType == "":
		field.InputType = Select
	case field.InputType != Checkboxes && field.InputType != MultiSelect && field.InputType != Select && field.InputType != Radios:
		return configErr(InvalidType, field.Name, "unknown inputType %q", field.InputType)
	case len(field.Options) > 0 && field.InputType != Select && field.InputType != Radios:
		return configErr(InvalidType, field.Name, "inputType %q not allowed for type %s with options", field.InputType, field.Type)
	}
	return nil
}

// Columns grid columns of the control, the default until Validate fills it
func (field *Field) Columns() int {
	if field.InputColumns == nil {
		return DefaultInputColumns
	}
	return *field.InputColumns
}

// OptionLabel label of the option with the given value, the value itself when there's none
func (field *Field) OptionLabel(value string) string {
	for _, option := range field.Options {
		if option.Value == value {
			return option.Label
		}
	}
	return value
}

func containsType(types []Type, t Type) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
