package clause

// Writer write writer
type Writer interface {
	WriteByte(byte) error
	WriteString(string) (int, error)
}

// Builder builder interface
type Builder interface {
	Writer
	WriteQuoted(field interface{})
	AddVar(Writer, ...interface{})
}

// Interface clause interface
type Interface interface {
	Name() string
	Build(Builder)
}

// Expression expression interface
type Expression interface {
	Build(builder Builder)
}

// Column quote with name
type Column struct {
	Name string
	Raw  bool
}

// Table quote with name
type Table struct {
	Name string
	Raw  bool
}

// Expr raw expression
type Expr struct {
	SQL  string
	Vars []interface{}
}

// Build build raw expression, each ? consumes one var
func (expr Expr) Build(builder Builder) {
	var idx int
	for _, v := range []byte(expr.SQL) {
		if v == '?' && len(expr.Vars) > idx {
			builder.AddVar(builder, expr.Vars[idx])
			idx++
		} else {
			builder.WriteByte(v)
		}
	}
}

// Eq equal to for where
type Eq struct {
	Column interface{}
	Value  interface{}
}

func (eq Eq) Build(builder Builder) {
	builder.WriteQuoted(eq.Column)
	if eq.Value == nil {
		builder.WriteString(" IS NULL")
		return
	}
	builder.WriteString(" = ")
	builder.AddVar(builder, eq.Value)
}
