package clause

// Where where clause, expressions are joined with AND
type Where struct {
	Exprs []Expression
}

// Name where clause name
func (where Where) Name() string {
	return "WHERE"
}

// Build build where clause
func (where Where) Build(builder Builder) {
	if len(where.Exprs) == 0 {
		return
	}

	builder.WriteString("WHERE ")
	for idx, expr := range where.Exprs {
		if idx > 0 {
			builder.WriteString(" AND ")
		}
		expr.Build(builder)
	}
}

func (where Where) empty() bool {
	return len(where.Exprs) == 0
}
