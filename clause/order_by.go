package clause

type OrderByColumn struct {
	Column Column
	Desc   bool
}

type OrderBy struct {
	Columns []OrderByColumn
}

// Name order by clause name
func (orderBy OrderBy) Name() string {
	return "ORDER BY"
}

// Build build order by clause
func (orderBy OrderBy) Build(builder Builder) {
	if len(orderBy.Columns) == 0 {
		return
	}

	builder.WriteString("ORDER BY ")
	for idx, column := range orderBy.Columns {
		if idx > 0 {
			builder.WriteByte(',')
		}

		builder.WriteQuoted(column.Column)
		if column.Desc {
			builder.WriteString(" DESC")
		}
	}
}

func (orderBy OrderBy) empty() bool {
	return len(orderBy.Columns) == 0
}
