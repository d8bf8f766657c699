package clause

// Delete delete clause, followed by From
type Delete struct{}

// Name delete clause name
func (d Delete) Name() string {
	return "DELETE"
}

// Build build delete clause
func (d Delete) Build(builder Builder) {
	builder.WriteString("DELETE")
}
