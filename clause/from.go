package clause

// From from clause, single table
type From struct {
	Table Table
}

// Name from clause name
func (from From) Name() string {
	return "FROM"
}

// Build build from clause
func (from From) Build(builder Builder) {
	builder.WriteString("FROM ")
	builder.WriteQuoted(from.Table)
}
