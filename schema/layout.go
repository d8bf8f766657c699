package schema

import (
	"fmt"
	"strings"
)

const (
	IDColumn     = "id"
	ActiveColumn = "active"
)

// Column one persisted column, Field is nil for id and active
type Column struct {
	Name  string
	Type  StorageType
	Field *Field
}

// Layout persisted shape of a form's records
type Layout struct {
	Table   string
	Columns []Column
	index   map[string]int
}

var activeField = &Field{Name: ActiveColumn, Type: Boolean}

func compileLayout(form *Form) (*Layout, error) {
	layout := &Layout{
		Table:   form.TableName,
		Columns: []Column{{Name: IDColumn, Type: StorageType{Kind: KindID}}},
	}

	if form.CanArchive {
		st, err := StorageTypeOf(activeField)
		if err != nil {
			return nil, err
		}
		layout.Columns = append(layout.Columns, Column{Name: ActiveColumn, Type: st})
	}

	for _, field := range form.Fields {
		st, err := StorageTypeOf(field)
		if err != nil {
			return nil, err
		}
		layout.Columns = append(layout.Columns, Column{Name: field.Name, Type: st, Field: field})
	}

	layout.index = make(map[string]int, len(layout.Columns))
	for idx, column := range layout.Columns {
		layout.index[column.Name] = idx
	}
	return layout, nil
}

// Column column by name
func (layout *Layout) Column(name string) (Column, bool) {
	if idx, ok := layout.index[name]; ok {
		return layout.Columns[idx], true
	}
	return Column{}, false
}

// Archivable has the active column
func (layout *Layout) Archivable() bool {
	_, ok := layout.index[ActiveColumn]
	return ok
}

// Names column names in layout order
func (layout *Layout) Names() []string {
	names := make([]string, 0, len(layout.Columns))
	for _, column := range layout.Columns {
		names = append(names, column.Name)
	}
	return names
}

func (layout *Layout) String() string {
	var b strings.Builder
	b.WriteString(layout.Table)
	b.WriteString(" (")
	for idx, column := range layout.Columns {
		if idx > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %s", column.Name, column.Type)
	}
	b.WriteString(")")
	return b.String()
}
