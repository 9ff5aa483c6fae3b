package qb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fieldA = NewExpr("fieldA")
	fieldB = NewExpr("fieldB")
	table1 = NewTable("table1")
)

func TestQuery_SelectAll(t *testing.T) {
	assert.Equal(t, "SELECT * ", Select().String())
}

func TestQuery_SelectFields(t *testing.T) {
	assert.Equal(t, "SELECT fieldA, fieldB ", Select(fieldA, fieldB).String())
}

func TestQuery_SelectDistinct(t *testing.T) {
	assert.Equal(t, "SELECT DISTINCT fieldA ", SelectDistinct(fieldA).String())
	assert.Equal(t, "SELECT DISTINCT * ", SelectDistinct().String())
}

func TestQuery_SelectAliases(t *testing.T) {
	tasks := NewTable("tasks")
	q := Select(tasks.Col("title").As("t"), Count(tasks.Col("_id")).As("n")).From(tasks)

	assert.Equal(t, "SELECT tasks.title AS t, COUNT(tasks._id) AS n FROM tasks ", q.String())
}

func TestQuery_EndToEnd(t *testing.T) {
	q := Select(fieldA, fieldB).
		From(table1).
		Where(Raw("pred1")).
		OrderBy(Asc(fieldA)).
		Limit(10)

	assert.Equal(t, "SELECT fieldA, fieldB FROM table1 WHERE pred1 ORDER BY fieldA ASC LIMIT 10 ", q.String())

	bare := Select(fieldA, fieldB).
		From(table1).
		Where(Raw("pred1")).
		OrderBy(OrderRaw("fieldA")).
		Limit(10)

	assert.Equal(t, "SELECT fieldA, fieldB FROM table1 WHERE pred1 ORDER BY fieldA LIMIT 10 ", bare.String())
}

func TestQuery_FromLastWriteWins(t *testing.T) {
	q := Select().From(NewTable("a")).From(NewTable("b"))
	assert.Equal(t, "SELECT * FROM b ", q.String())
}

func TestQuery_MutatorsReturnSameQuery(t *testing.T) {
	q := Select()
	assert.Same(t, q, q.From(table1))
	assert.Same(t, q, q.Join(InnerJoin(NewTable("t2"))))
	assert.Same(t, q, q.Where(Raw("x")))
	assert.Same(t, q, q.GroupBy(fieldA))
	assert.Same(t, q, q.Having(Raw("y")))
	assert.Same(t, q, q.Union(Select()))
	assert.Same(t, q, q.OrderBy(Desc(fieldA)))
	assert.Same(t, q, q.Limit(3))
	assert.Same(t, q, q.WithQueryTemplate(""))
}

func TestQuery_JoinsPreserveOrder(t *testing.T) {
	tasks := NewTable("tasks")
	meta := NewTable("metadata").As("m")
	tags := NewTable("tags")

	q := Select(tasks.Col("title")).
		From(tasks).
		Join(LeftJoin(meta, meta.Col("task").Eq(tasks.Col("_id")), meta.Col("key").Eq("note"))).
		Join(InnerJoin(tags, tags.Col("task").Eq(tasks.Col("_id"))))

	assert.Equal(t,
		"SELECT tasks.title FROM tasks "+
			"LEFT JOIN metadata AS m ON (m.task = tasks._id AND m.key = 'note') "+
			"INNER JOIN tags ON (tags.task = tasks._id) ",
		q.String())
}

func TestQuery_WhereIsSpaceSeparated(t *testing.T) {
	q := Select().From(table1).Where(Raw("a = 1")).Where(Raw("AND b = 2"))
	assert.Equal(t, "SELECT * FROM table1 WHERE a = 1 AND b = 2 ", q.String())
}

func TestQuery_GroupByHaving(t *testing.T) {
	q := Select(fieldA, Count(fieldB)).
		From(table1).
		GroupBy(fieldA, fieldB).
		Having(Raw("COUNT(fieldB) > 1"), Raw("fieldA <> ''"))

	assert.Equal(t,
		"SELECT fieldA, COUNT(fieldB) FROM table1 GROUP BY fieldA, fieldB HAVING COUNT(fieldB) > 1, fieldA <> '' ",
		q.String())
}

func TestQuery_HavingWithoutGroupByIsOmitted(t *testing.T) {
	q := Select().From(table1).Having(Raw("x > 1"))
	assert.Equal(t, "SELECT * FROM table1 ", q.String())
}

func TestQuery_Union(t *testing.T) {
	sub := Select(fieldA).From(NewTable("archive"))
	q := Select(fieldA).From(table1).Union(sub).OrderBy(Asc(fieldA))

	assert.Equal(t,
		"SELECT fieldA FROM table1 UNION SELECT fieldA FROM archive  ORDER BY fieldA ASC ",
		q.String())
}

func TestQuery_OrderByPreservesOrder(t *testing.T) {
	q := Select().From(table1).OrderBy(Desc(fieldB)).OrderBy(Asc(fieldA), Desc(NewExpr("c")))
	assert.Equal(t, "SELECT * FROM table1 ORDER BY fieldB DESC, fieldA ASC, c DESC ", q.String())
}

func TestQuery_Limit(t *testing.T) {
	tests := []struct {
		name  string
		query *Query
		want  string
	}{
		{name: "never set", query: Select().From(table1), want: "SELECT * FROM table1 "},
		{name: "positive", query: Select().From(table1).Limit(5), want: "SELECT * FROM table1 LIMIT 5 "},
		{name: "zero", query: Select().From(table1).Limit(0), want: "SELECT * FROM table1 LIMIT 0 "},
		{name: "negative removes", query: Select().From(table1).Limit(5).Limit(-1), want: "SELECT * FROM table1 "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.String())
		})
	}
}

func TestQuery_Template(t *testing.T) {
	q := Select(fieldA).From(table1).WithQueryTemplate("WHERE fieldA > 3 ORDER BY fieldA")
	assert.Equal(t, "SELECT fieldA FROM table1 WHERE fieldA > 3 ORDER BY fieldA", q.String())
}

func TestQuery_TemplateIgnoresWhere(t *testing.T) {
	q := Select().From(table1).Where(Raw("x")).Limit(4).WithQueryTemplate("WHERE y")
	assert.Equal(t, "SELECT * FROM table1 WHERE y", q.String())
}

func TestQuery_TemplateConflicts(t *testing.T) {
	tests := []struct {
		name  string
		query *Query
	}{
		{name: "group by", query: Select().From(table1).GroupBy(fieldA)},
		{name: "order by", query: Select().From(table1).OrderBy(Asc(fieldA))},
		{name: "having", query: Select().From(table1).Having(Raw("x"))},
		{name: "union", query: Select().From(table1).Union(Select().From(table1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.query.WithQueryTemplate("WHERE 1")

			_, err := q.Build()
			require.ErrorIs(t, err, ErrTemplateConflict)
			assert.PanicsWithError(t, ErrTemplateConflict.Error(), func() { _ = q.String() })
		})
	}
}

func TestQuery_RenderIsIdempotent(t *testing.T) {
	q := Select(fieldA).From(table1).Where(Raw("a")).GroupBy(fieldA).OrderBy(Desc(fieldA)).Limit(2)
	first := q.String()
	assert.Equal(t, first, q.String())
	assert.Equal(t, first, q.String())
}

func TestQuery_EqualByRenderedText(t *testing.T) {
	a := Select(fieldA).From(table1).Where(Raw("x = 1")).Limit(3)
	b := Select(fieldA).Limit(7).Where(Raw("x = 1")).From(NewTable("other")).From(table1).Limit(3)
	c := Select(fieldB).From(table1)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.True(t, a.Equal(a))
}

func TestQuery_FieldsIsACopy(t *testing.T) {
	q := Select(fieldA, fieldB)
	fields := q.Fields()
	require.Len(t, fields, 2)
	fields[0] = NewExpr("mutated")

	assert.Equal(t, []Field{fieldA, fieldB}, q.Fields())
	assert.Empty(t, Select().Fields())
}
