package clause

// Select select columns, Count selects COUNT(*) instead
type Select struct {
	Columns []Column
	Count   bool
}

func (s Select) Name() string {
	return "SELECT"
}

func (s Select) Build(builder Builder) {
	builder.WriteString("SELECT ")
	switch {
	case s.Count:
		builder.WriteString("COUNT(*)")
	case len(s.Columns) > 0:
		for idx, column := range s.Columns {
			if idx > 0 {
				builder.WriteByte(',')
			}
			builder.WriteQuoted(column)
		}
	default:
		builder.WriteByte('*')
	}
}
