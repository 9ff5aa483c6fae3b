package types

import (
	"errors"
	"time"
)

// ErrFilterNotFound is returned when a saved filter name is unknown.
var ErrFilterNotFound = errors.New("filter not found")

// Filter is a saved task list. Template is the SQL that follows
// "SELECT ... FROM tasks" and may carry WHERE, ORDER BY and LIMIT clauses.
type Filter struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Template string `json:"template"`
}

// Built-in filter names.
const (
	FilterInbox     = "inbox"
	FilterToday     = "today"
	FilterCompleted = "completed"
)

var (
	incomplete = TaskCompletedAt.Eq(0).String()
	byUrgency  = TaskImportance.String() + " ASC, " + TaskDueAt.String() + " ASC"
)

// BuiltinFilters returns the standard filters. The today filter includes
// everything due before the end of now's day.
func BuiltinFilters(now time.Time) []Filter {
	endOfDay := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return []Filter{
		{
			Name:     FilterInbox,
			Title:    "Inbox",
			Template: "WHERE " + incomplete + " ORDER BY " + byUrgency,
		},
		{
			Name:  FilterToday,
			Title: "Due today",
			Template: "WHERE " + incomplete +
				" AND " + TaskDueAt.Gt(0).String() +
				" AND " + TaskDueAt.Lt(endOfDay).String() +
				" ORDER BY " + byUrgency,
		},
		{
			Name:     FilterCompleted,
			Title:    "Completed",
			Template: "WHERE " + TaskCompletedAt.Gt(0).String() + " ORDER BY " + TaskCompletedAt.String() + " DESC",
		},
	}
}

// LookupFilter returns the built-in filter with the given name.
func LookupFilter(name string, now time.Time) (Filter, error) {
	for _, f := range BuiltinFilters(now) {
		if f.Name == name {
			return f, nil
		}
	}
	return Filter{}, ErrFilterNotFound
}
