// Package qb composes SELECT statements for the task database with a fluent,
// append-only builder. A Query accumulates projected fields, a source table,
// joins, filter criteria, grouping, unions, ordering and a row limit, and
// renders them to SQL text on every call to String or Build.
//
// Fields, criteria, joins and orders are opaque renderable values; the builder
// never inspects them beyond their text.
//
//	q := qb.Select(types.TaskTitle, types.TaskDueAt).
//		From(types.TasksTable).
//		Where(types.TaskCompletedAt.Eq(0)).
//		OrderBy(qb.Asc(types.TaskDueAt)).
//		Limit(10)
//	rows, err := db.Query(q.String())
package qb
