package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskshelf/pkg/qb"
)

func TestBuiltinFilters(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	endOfDay := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC).UnixMilli()

	inbox, err := LookupFilter(FilterInbox, now)
	require.NoError(t, err)
	assert.Equal(t,
		"WHERE tasks.completed_at = 0 ORDER BY tasks.importance ASC, tasks.due_at ASC",
		inbox.Template)

	today, err := LookupFilter(FilterToday, now)
	require.NoError(t, err)
	assert.Contains(t, today.Template, "tasks.due_at < ")
	assert.Contains(t, today.Template, qb.Literal(endOfDay))

	done, err := LookupFilter(FilterCompleted, now)
	require.NoError(t, err)
	clauses := qb.ExtractClauses(done.Template)
	assert.Equal(t, "tasks.completed_at > 0", clauses.Selection)
	assert.Equal(t, "tasks.completed_at DESC", clauses.Order)
}

func TestLookupFilterUnknown(t *testing.T) {
	_, err := LookupFilter("someday", time.Now())
	assert.ErrorIs(t, err, ErrFilterNotFound)
}
