package render

import (
	"net/url"
	"strconv"

	"github.com/autoforms/autoforms/schema"
)

// Action per row link, Op is the route it targets
type Action struct {
	Op    schema.Operation
	Label string
	Icon  string
}

// Icons of the row actions
var (
	EditAction    = Action{Op: schema.OpEdit, Label: "Edit", Icon: "/images/edit.png"}
	ArchiveAction = Action{Op: schema.OpArchive, Label: "Archive", Icon: "/images/archive.png"}
	DeleteAction  = Action{Op: schema.OpDelete, Label: "Delete", Icon: "/images/delete.png"}
)

// Link rendered action of one row
type Link struct {
	Label string
	Icon  string
	Href  string
}

// Row one record of the list
type Row struct {
	ID      int64
	Cells   []schema.DisplayValue
	Actions []Link
}

// Table list view grid, Actions are the action columns every row carries
type Table struct {
	Fields  []*schema.Field
	Headers []string
	Actions []Action
	Rows    []Row
	offset  int
}

// NewTable table over fields, actions already filtered by the caller's gates
func NewTable(fields []*schema.Field, offset int, actions ...Action) *Table {
	headers := make([]string, len(fields))
	for idx, field := range fields {
		headers[idx] = field.ListHeader
	}
	return &Table{Fields: fields, Headers: headers, Actions: actions, offset: offset}
}

// Colspan columns spanned by the no records row
func (t *Table) Colspan() int {
	return len(t.Headers) + len(t.Actions)
}

// Add appends a record, cells are formatted in field order
func (t *Table) Add(id int64, values map[string]interface{}) {
	row := Row{ID: id, Cells: make([]schema.DisplayValue, len(t.Fields))}
	for idx, field := range t.Fields {
		row.Cells[idx] = schema.Display(field, values[field.Name])
	}

	for _, action := range t.Actions {
		query := url.Values{"id": {strconv.FormatInt(id, 10)}}
		if t.offset > 0 {
			query.Set("offset", strconv.Itoa(t.offset))
		}
		row.Actions = append(row.Actions, Link{
			Label: action.Label,
			Icon:  action.Icon,
			Href:  string(action.Op) + "?" + query.Encode(),
		})
	}
	t.Rows = append(t.Rows, row)
}
