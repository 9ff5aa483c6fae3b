package qb

// Field is a column or computed expression usable in a select list, filter,
// group-by or order-by. String is the canonical form used everywhere except
// the select list, where SelectString may add an alias.
type Field interface {
	String() string
	SelectString() string
}

// Column is a table-qualified column reference.
type Column struct {
	table string
	name  string
	alias string
}

// Col returns a column reference qualified by table. An empty table yields an
// unqualified column.
func Col(table, name string) Column {
	return Column{table: table, name: name}
}

// As returns a copy of the column carrying alias.
func (c Column) As(alias string) Column {
	c.alias = alias
	return c
}

// Name is the result-set column name: the alias when set, else the bare
// column name.
func (c Column) Name() string {
	if c.alias != "" {
		return c.alias
	}
	return c.name
}

func (c Column) qualified() string {
	if c.table == "" {
		return c.name
	}
	return c.table + "." + c.name
}

func (c Column) String() string {
	if c.alias != "" {
		return c.alias
	}
	return c.qualified()
}

func (c Column) SelectString() string {
	if c.alias != "" {
		return c.qualified() + " AS " + c.alias
	}
	return c.qualified()
}

func (c Column) Eq(v any) Criterion { return Eq(c, v) }
func (c Column) Neq(v any) Criterion { return Neq(c, v) }
func (c Column) Gt(v any) Criterion { return Gt(c, v) }
func (c Column) Gte(v any) Criterion { return Gte(c, v) }
func (c Column) Lt(v any) Criterion { return Lt(c, v) }
func (c Column) Lte(v any) Criterion { return Lte(c, v) }
func (c Column) Like(pattern string) Criterion { return Like(c, pattern) }
func (c Column) In(values ...any) Criterion { return In(c, values...) }
func (c Column) IsNull() Criterion { return IsNull(c) }
func (c Column) IsNotNull() Criterion { return IsNotNull(c) }

// Expr is an arbitrary SQL expression such as COUNT(*) or a function call.
type Expr struct {
	expression string
	alias      string
}

// NewExpr wraps expression as a Field.
func NewExpr(expression string) Expr {
	return Expr{expression: expression}
}

// Count returns COUNT(f).
func Count(f Field) Expr {
	return NewExpr("COUNT(" + f.String() + ")")
}

// As returns a copy of the expression carrying alias.
func (e Expr) As(alias string) Expr {
	e.alias = alias
	return e
}

// Name is the alias when set, else the expression text.
func (e Expr) Name() string {
	if e.alias != "" {
		return e.alias
	}
	return e.expression
}

func (e Expr) String() string {
	if e.alias != "" {
		return e.alias
	}
	return e.expression
}

func (e Expr) SelectString() string {
	if e.alias != "" {
		return e.expression + " AS " + e.alias
	}
	return e.expression
}

// FieldName returns the result-set column name of f. Fields that do not
// expose a Name fall back to their canonical text.
func FieldName(f Field) string {
	if n, ok := f.(interface{ Name() string }); ok {
		return n.Name()
	}
	return f.String()
}
