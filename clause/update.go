package clause

// Update update table
type Update struct {
	Table Table
}

// Name update clause name
func (update Update) Name() string {
	return "UPDATE"
}

// Build build update clause
func (update Update) Build(builder Builder) {
	builder.WriteString("UPDATE ")
	builder.WriteQuoted(update.Table)
}

// Assignment column = value
type Assignment struct {
	Column Column
	Value  interface{}
}

// Set assignments in order
type Set []Assignment

// Name set clause name
func (set Set) Name() string {
	return "SET"
}

// Build build set clause
func (set Set) Build(builder Builder) {
	builder.WriteString("SET ")
	for idx, assignment := range set {
		if idx > 0 {
			builder.WriteByte(',')
		}
		builder.WriteQuoted(assignment.Column)
		builder.WriteByte('=')
		builder.AddVar(builder, assignment.Value)
	}
}
