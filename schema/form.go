package schema

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

var pathRegexp = regexp.MustCompile(`^(/\w+)*$`)

// NoPermission login is enough, no permission membership is checked
const NoPermission = -1

// Operation gated form operation
type Operation string

const (
	OpList    Operation = "list"
	OpAdd     Operation = "add"
	OpEdit    Operation = "edit"
	OpArchive Operation = "archive"
	OpDelete  Operation = "delete"
)

// Form a registered entity, one table and its CRUD pages
type Form struct {
	Path              string
	TableName         string
	Title             string
	CanAdd            bool
	CanEdit           bool
	CanArchive        bool
	CanDelete         bool
	AddPermission     int
	EditPermission    int
	ArchivePermission int
	DeletePermission  int
	Fields            []*Field

	prefix string
	layout *Layout
}

// NewForm creates a form that requires no permission for any operation
func NewForm(path, tableName string, fields ...*Field) *Form {
	return &Form{
		Path:              path,
		TableName:         tableName,
		AddPermission:     NoPermission,
		EditPermission:    NoPermission,
		ArchivePermission: NoPermission,
		DeletePermission:  NoPermission,
		Fields:            fields,
	}
}

// Validate checks the form and its fields, normalizes the path and compiles the layout
func (form *Form) Validate() error {
	if err := form.validate(); err != nil {
		var cerr *ConfigError
		if errors.As(err, &cerr) && cerr.Form == "" {
			cerr.Form = form.TableName
		}
		return err
	}
	return nil
}

func (form *Form) validate() error {
	if form.Path == "" {
		return configErr(MissingField, "", "missing required path")
	}

	path := form.Path
	if path != "/" {
		path = strings.TrimRight(path, "/")
		if path == "" || !pathRegexp.MatchString(path) {
			return configErr(InvalidPath, "", "path %q must look like /name or /name/name", form.Path)
		}
	}
	form.Path = path
	form.prefix = strings.TrimSuffix(path, "/")

	if form.TableName == "" {
		return configErr(MissingField, "", "missing required tableName")
	}

	if !nameRegexp.MatchString(form.TableName) {
		return configErr(InvalidName, "", "tableName must start with a letter and contain only a-z, A-Z, 0-9 and _")
	}

	for _, p := range []struct {
		name  string
		value int
	}{
		{"addPermission", form.AddPermission},
		{"editPermission", form.EditPermission},
		{"archivePermission", form.ArchivePermission},
		{"deletePermission", form.DeletePermission},
	} {
		if p.value < NoPermission {
			return configErr(InvalidPermission, "", "%s must be -1 or greater, got %d", p.name, p.value)
		}
	}

	if len(form.Fields) == 0 {
		return configErr(EmptyFieldSet, "", "at least one field is required")
	}

	seen := make(map[string]bool, len(form.Fields))
	for _, field := range form.Fields {
		if field == nil {
			return configErr(MissingField, "", "nil field")
		}
		if err := field.Validate(); err != nil {
			return err
		}
		key := strings.ToLower(field.Name)
		if seen[key] {
			return configErr(InvalidName, field.Name, "duplicate field name")
		}
		seen[key] = true
	}

	if form.Title == "" {
		form.Title = Plural(form.TableName)
	}

	layout, err := compileLayout(form)
	if err != nil {
		return err
	}
	form.layout = layout
	return nil
}

// Prefix route prefix, "" for the root path
func (form *Form) Prefix() string {
	return form.prefix
}

// Layout compiled record layout, nil before Validate succeeds
func (form *Form) Layout() *Layout {
	return form.layout
}

// Noun singular record name used in headings
func (form *Form) Noun() string {
	return Singular(form.TableName)
}

// Capable reports the capability flag of op, list is always enabled
func (form *Form) Capable(op Operation) bool {
	switch op {
	case OpList:
		return true
	case OpAdd:
		return form.CanAdd
	case OpEdit:
		return form.CanEdit
	case OpArchive:
		return form.CanArchive
	case OpDelete:
		return form.CanDelete
	}
	return false
}

// Permission required permission of op, NoPermission when login is enough
func (form *Form) Permission(op Operation) int {
	switch op {
	case OpAdd:
		return form.AddPermission
	case OpEdit:
		return form.EditPermission
	case OpArchive:
		return form.ArchivePermission
	case OpDelete:
		return form.DeletePermission
	}
	return NoPermission
}

// Field field by name
func (form *Form) Field(name string) *Field {
	for _, field := range form.Fields {
		if field.Name == name {
			return field
		}
	}
	return nil
}

// ListFields list columns, explicit listOrder first then declaration order
func (form *Form) ListFields() []*Field {
	var ordered, remaining []*Field
	for _, field := range form.Fields {
		if !field.List {
			continue
		}
		if field.ListOrder != nil {
			ordered = append(ordered, field)
		} else {
			remaining = append(remaining, field)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return *ordered[i].ListOrder < *ordered[j].ListOrder
	})
	return append(ordered, remaining...)
}

// SortFields ORDER BY columns by ascending sortOrder
func (form *Form) SortFields() []*Field {
	var fields []*Field
	for _, field := range form.Fields {
		if field.SortOrder != nil {
			fields = append(fields, field)
		}
	}

	sort.SliceStable(fields, func(i, j int) bool {
		return *fields[i].SortOrder < *fields[j].SortOrder
	})
	return fields
}

// EditableFields fields shown on add and edit forms
func (form *Form) EditableFields() []*Field {
	var fields []*Field
	for _, field := range form.Fields {
		if field.Editable() {
			fields = append(fields, field)
		}
	}
	return fields
}
