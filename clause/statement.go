package clause

import (
	"strings"
)

// Quoter quotes table and column names for one SQL dialect
type Quoter interface {
	QuoteTo(Writer, string)
}

// QuoteFunc adapts a function to Quoter
type QuoteFunc func(Writer, string)

func (fc QuoteFunc) QuoteTo(writer Writer, str string) {
	fc(writer, str)
}

// Backtick mysql and sqlite quoting
var Backtick Quoter = QuoteFunc(func(writer Writer, str string) {
	writer.WriteByte('`')
	writer.WriteString(strings.ReplaceAll(str, "`", "``"))
	writer.WriteByte('`')
})

// DoubleQuote postgres quoting
var DoubleQuote Quoter = QuoteFunc(func(writer Writer, str string) {
	writer.WriteByte('"')
	writer.WriteString(strings.ReplaceAll(str, `"`, `""`))
	writer.WriteByte('"')
})

// Statement an ordered list of clauses and the SQL built from them, vars are bound with ?
type Statement struct {
	Quoter  Quoter
	Clauses []Interface
	SQL     strings.Builder
	Vars    []interface{}
}

// New creates a statement, a nil quoter means Backtick
func New(quoter Quoter, clauses ...Interface) *Statement {
	if quoter == nil {
		quoter = Backtick
	}
	return &Statement{Quoter: quoter, Clauses: clauses}
}

// AddClause appends clauses, a clause with the same name replaces the earlier one
func (stmt *Statement) AddClause(clauses ...Interface) *Statement {
	for _, c := range clauses {
		replaced := false
		for idx, existing := range stmt.Clauses {
			if existing.Name() == c.Name() {
				stmt.Clauses[idx] = c
				replaced = true
				break
			}
		}
		if !replaced {
			stmt.Clauses = append(stmt.Clauses, c)
		}
	}
	return stmt
}

// Clause clause by name
func (stmt *Statement) Clause(name string) (Interface, bool) {
	for _, c := range stmt.Clauses {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Build builds SQL and Vars from the clauses, rebuilding from scratch on each call
func (stmt *Statement) Build() string {
	stmt.SQL.Reset()
	stmt.Vars = nil

	for _, c := range stmt.Clauses {
		if e, ok := c.(interface{ empty() bool }); ok && e.empty() {
			continue
		}
		if stmt.SQL.Len() > 0 {
			stmt.WriteByte(' ')
		}
		c.Build(stmt)
	}
	return stmt.SQL.String()
}

// String the built SQL
func (stmt *Statement) String() string {
	return stmt.SQL.String()
}

// WriteString write string
func (stmt *Statement) WriteString(str string) (int, error) {
	return stmt.SQL.WriteString(str)
}

// WriteByte write byte
func (stmt *Statement) WriteByte(c byte) error {
	return stmt.SQL.WriteByte(c)
}

// WriteQuoted write quoted value
func (stmt *Statement) WriteQuoted(value interface{}) {
	stmt.QuoteTo(&stmt.SQL, value)
}

// QuoteTo write quoted value to writer
func (stmt *Statement) QuoteTo(writer Writer, field interface{}) {
	switch v := field.(type) {
	case Table:
		if v.Raw {
			writer.WriteString(v.Name)
		} else {
			stmt.Quoter.QuoteTo(writer, v.Name)
		}
	case Column:
		if v.Raw {
			writer.WriteString(v.Name)
		} else {
			stmt.Quoter.QuoteTo(writer, v.Name)
		}
	case string:
		stmt.Quoter.QuoteTo(writer, v)
	case []Column:
		writer.WriteByte('(')
		for idx, c := range v {
			if idx > 0 {
				writer.WriteByte(',')
			}
			stmt.QuoteTo(writer, c)
		}
		writer.WriteByte(')')
	}
}

// AddVar add var
func (stmt *Statement) AddVar(writer Writer, vars ...interface{}) {
	for idx, v := range vars {
		if idx > 0 {
			writer.WriteByte(',')
		}

		switch v := v.(type) {
		case Expr:
			v.Build(stmt)
		case []interface{}:
			writer.WriteByte('(')
			stmt.AddVar(writer, v...)
			writer.WriteByte(')')
		default:
			stmt.Vars = append(stmt.Vars, v)
			writer.WriteByte('?')
		}
	}
}
