package qb

import (
	"errors"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/zeebo/xxh3"
)

// ErrTemplateConflict reports a query that carries a raw template together
// with GROUP BY, HAVING, ORDER BY or UNION clauses. It indicates a bug in
// the caller; String panics with it.
var ErrTemplateConflict = errors.New("query template cannot be combined with group by, having, order by or union")

// Query accumulates SELECT clauses. Every mutator appends in place and returns
// the receiver, so a Query has a single owner while it is being built and is
// not safe for concurrent mutation. Rendering reads the accumulated state and
// may run concurrently with other renders.
type Query struct {
	fields   []Field
	table    *Table
	joins    []Join
	where    []Criterion
	groupBy  []Field
	having   []Criterion
	unions   []*Query
	orders   []Order
	limit    int
	distinct bool
	template *string
}

// Select starts a query projecting fields. No fields projects every column.
func Select(fields ...Field) *Query {
	return &Query{
		fields: append([]Field(nil), fields...),
		limit:  -1,
	}
}

// SelectDistinct is Select with the DISTINCT flag set.
func SelectDistinct(fields ...Field) *Query {
	q := Select(fields...)
	q.distinct = true
	return q
}

// From sets the source table, replacing any previous one.
func (q *Query) From(t Table) *Query {
	q.table = &t
	return q
}

func (q *Query) Join(joins ...Join) *Query {
	q.joins = append(q.joins, joins...)
	return q
}

// Where appends a filter predicate. Predicates are rendered one after another
// separated by a space, not joined with AND; use And to combine several into
// one predicate.
func (q *Query) Where(c Criterion) *Query {
	q.where = append(q.where, c)
	return q
}

func (q *Query) GroupBy(fields ...Field) *Query {
	q.groupBy = append(q.groupBy, fields...)
	return q
}

// Having appends HAVING predicates. They are only rendered when the query has
// GROUP BY fields.
func (q *Query) Having(cs ...Criterion) *Query {
	q.having = append(q.having, cs...)
	return q
}

func (q *Query) Union(queries ...*Query) *Query {
	q.unions = append(q.unions, queries...)
	return q
}

func (q *Query) OrderBy(orders ...Order) *Query {
	q.orders = append(q.orders, orders...)
	return q
}

// Limit caps the number of rows. A negative value removes the cap.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// WithQueryTemplate sets raw SQL that replaces everything after the FROM and
// JOIN clauses. It cannot be combined with GROUP BY, HAVING, ORDER BY or UNION.
func (q *Query) WithQueryTemplate(template string) *Query {
	q.template = &template
	return q
}

// Fields returns the projected fields in selection order.
func (q *Query) Fields() []Field {
	return append([]Field(nil), q.fields...)
}

// Build renders the query, returning ErrTemplateConflict instead of panicking.
func (q *Query) Build() (string, error) {
	var sb strings.Builder
	q.writeSelect(&sb)
	q.writeFrom(&sb)
	q.writeJoins(&sb)

	if q.template != nil {
		if len(q.groupBy) > 0 || len(q.orders) > 0 || len(q.having) > 0 || len(q.unions) > 0 {
			return "", ErrTemplateConflict
		}
		sb.WriteString(*q.template)
		return sb.String(), nil
	}

	q.writeWhere(&sb)
	q.writeGroupBy(&sb)
	if err := q.writeUnions(&sb); err != nil {
		return "", err
	}
	q.writeOrderBy(&sb)
	q.writeLimit(&sb)
	return sb.String(), nil
}

// String renders the query. It panics with ErrTemplateConflict when a
// template is combined with structured trailing clauses.
func (q *Query) String() string {
	s, err := q.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Equal reports whether both queries render the same SQL.
func (q *Query) Equal(other *Query) bool {
	if q == other {
		return true
	}
	if q == nil || other == nil {
		return false
	}
	return q.String() == other.String()
}

// Hash is the xxh3 hash of the rendered SQL, so equal queries hash alike.
func (q *Query) Hash() uint64 {
	return xxh3.HashString(q.String())
}

func (q *Query) writeSelect(sb *strings.Builder) {
	sb.WriteString("SELECT ")
	if q.distinct {
		sb.WriteString("DISTINCT ")
	}
	if len(q.fields) == 0 {
		sb.WriteString("* ")
		return
	}
	sb.WriteString(joinStrings(q.fields, Field.SelectString, ", "))
	sb.WriteString(" ")
}

func (q *Query) writeFrom(sb *strings.Builder) {
	if q.table == nil {
		return
	}
	sb.WriteString("FROM ")
	sb.WriteString(q.table.String())
	sb.WriteString(" ")
}

func (q *Query) writeJoins(sb *strings.Builder) {
	for _, j := range q.joins {
		sb.WriteString(j.String())
		sb.WriteString(" ")
	}
}

func (q *Query) writeWhere(sb *strings.Builder) {
	if len(q.where) == 0 {
		return
	}
	sb.WriteString("WHERE ")
	sb.WriteString(joinStrings(q.where, Criterion.String, " "))
	sb.WriteString(" ")
}

func (q *Query) writeGroupBy(sb *strings.Builder) {
	if len(q.groupBy) == 0 {
		return
	}
	sb.WriteString("GROUP BY ")
	sb.WriteString(joinStrings(q.groupBy, Field.String, ", "))
	sb.WriteString(" ")
	if len(q.having) == 0 {
		return
	}
	sb.WriteString("HAVING ")
	sb.WriteString(joinStrings(q.having, Criterion.String, ", "))
	sb.WriteString(" ")
}

func (q *Query) writeUnions(sb *strings.Builder) error {
	for _, u := range q.unions {
		sub, err := u.Build()
		if err != nil {
			return err
		}
		sb.WriteString("UNION ")
		sb.WriteString(sub)
		sb.WriteString(" ")
	}
	return nil
}

func (q *Query) writeOrderBy(sb *strings.Builder) {
	if len(q.orders) == 0 {
		return
	}
	sb.WriteString("ORDER BY ")
	sb.WriteString(joinStrings(q.orders, Order.String, ", "))
	sb.WriteString(" ")
}

func (q *Query) writeLimit(sb *strings.Builder) {
	if q.limit < 0 {
		return
	}
	sb.WriteString("LIMIT ")
	sb.WriteString(strconv.Itoa(q.limit))
	sb.WriteString(" ")
}

func joinStrings[T any](items []T, render func(T) string, sep string) string {
	return strings.Join(lo.Map(items, func(item T, _ int) string { return render(item) }), sep)
}
