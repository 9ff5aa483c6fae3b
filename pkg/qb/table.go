package qb

// Table names a source table, optionally aliased.
type Table struct {
	name  string
	alias string
}

func NewTable(name string) Table {
	return Table{name: name}
}

// As returns a copy of the table carrying alias. Columns built from the
// returned table are qualified by the alias.
func (t Table) As(alias string) Table {
	t.alias = alias
	return t
}

// Name returns the underlying table name.
func (t Table) Name() string {
	return t.name
}

// Col returns a column of t.
func (t Table) Col(name string) Column {
	if t.alias != "" {
		return Col(t.alias, name)
	}
	return Col(t.name, name)
}

func (t Table) String() string {
	if t.alias != "" {
		return t.name + " AS " + t.alias
	}
	return t.name
}
