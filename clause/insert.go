package clause

// Insert insert into table with columns
type Insert struct {
	Table   Table
	Columns []Column
}

// Name insert clause name
func (insert Insert) Name() string {
	return "INSERT"
}

// Build build insert clause
func (insert Insert) Build(builder Builder) {
	builder.WriteString("INSERT INTO ")
	builder.WriteQuoted(insert.Table)
	if len(insert.Columns) > 0 {
		builder.WriteByte(' ')
		builder.WriteQuoted(insert.Columns)
	}
}

// Values one row of values, or DEFAULT VALUES when empty
type Values struct {
	Values []interface{}
}

// Name values clause name
func (values Values) Name() string {
	return "VALUES"
}

// Build build values clause
func (values Values) Build(builder Builder) {
	if len(values.Values) == 0 {
		builder.WriteString("DEFAULT VALUES")
		return
	}

	builder.WriteString("VALUES (")
	builder.AddVar(builder, values.Values...)
	builder.WriteByte(')')
}

// Returning returning clause
type Returning struct {
	Columns []Column
}

// Name returning clause name
func (returning Returning) Name() string {
	return "RETURNING"
}

// Build build returning clause
func (returning Returning) Build(builder Builder) {
	builder.WriteString("RETURNING ")
	for idx, column := range returning.Columns {
		if idx > 0 {
			builder.WriteByte(',')
		}
		builder.WriteQuoted(column)
	}
}
