package qb

import (
	"strings"

	"github.com/samber/lo"
)

// JoinKind selects the join flavour.
type JoinKind string

const (
	JoinInner JoinKind = "INNER"
	JoinLeft  JoinKind = "LEFT"
	JoinOuter JoinKind = "LEFT OUTER"
)

// Join relates an additional table through one or more criteria, which are
// AND-ed together.
type Join struct {
	kind     JoinKind
	table    Table
	criteria []Criterion
}

func InnerJoin(t Table, on ...Criterion) Join {
	return Join{kind: JoinInner, table: t, criteria: on}
}

func LeftJoin(t Table, on ...Criterion) Join {
	return Join{kind: JoinLeft, table: t, criteria: on}
}

func OuterJoin(t Table, on ...Criterion) Join {
	return Join{kind: JoinOuter, table: t, criteria: on}
}

func (j Join) String() string {
	var sb strings.Builder
	sb.WriteString(string(j.kind))
	sb.WriteString(" JOIN ")
	sb.WriteString(j.table.String())
	if len(j.criteria) > 0 {
		parts := lo.Map(j.criteria, func(c Criterion, _ int) string { return c.String() })
		sb.WriteString(" ON (")
		sb.WriteString(strings.Join(parts, " AND "))
		sb.WriteString(")")
	}
	return sb.String()
}
