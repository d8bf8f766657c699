package autoforms

import (
	"github.com/autoforms/autoforms/clause"
	"github.com/autoforms/autoforms/schema"
)

// ListStatement SELECT of one list page: id plus the list fields, active rows only
// when the form archives, ordered by sortOrder
func ListStatement(quoter clause.Quoter, form *schema.Form, offset, numRows int) *clause.Statement {
	fields := form.ListFields()
	columns := make([]clause.Column, 0, len(fields)+1)
	columns = append(columns, clause.Column{Name: schema.IDColumn})
	for _, field := range fields {
		columns = append(columns, clause.Column{Name: field.Name})
	}

	var orderBy clause.OrderBy
	for _, field := range form.SortFields() {
		orderBy.Columns = append(orderBy.Columns, clause.OrderByColumn{Column: clause.Column{Name: field.Name}})
	}

	return clause.New(quoter,
		clause.Select{Columns: columns},
		clause.From{Table: clause.Table{Name: form.TableName}},
		activeFilter(form),
		orderBy,
		clause.Limit{Limit: &numRows, Offset: offset},
	)
}

// CountStatement counts the rows ListStatement pages through
func CountStatement(quoter clause.Quoter, form *schema.Form) *clause.Statement {
	return clause.New(quoter,
		clause.Select{Count: true},
		clause.From{Table: clause.Table{Name: form.TableName}},
		activeFilter(form),
	)
}

func activeFilter(form *schema.Form) clause.Where {
	if !form.Layout().Archivable() {
		return clause.Where{}
	}
	return clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: clause.Column{Name: schema.ActiveColumn}, Value: true},
	}}
}
