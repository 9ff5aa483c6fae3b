package qb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractClauses(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     Clauses
	}{
		{
			name:     "all clauses",
			template: "WHERE a=1 GROUP BY b ORDER BY c LIMIT 10",
			want:     Clauses{Selection: "a=1", GroupBy: "b", Order: "c"},
		},
		{
			name:     "where only",
			template: "WHERE completed = 0",
			want:     Clauses{Selection: "completed = 0"},
		},
		{
			name:     "order then limit",
			template: "ORDER BY importance DESC, due ASC LIMIT 5",
			want:     Clauses{Order: "importance DESC, due ASC"},
		},
		{
			name:     "having terminates group",
			template: "WHERE x GROUP BY y HAVING COUNT(*) > 1 ORDER BY z",
			want:     Clauses{Selection: "x", GroupBy: "y", Order: "z"},
		},
		{
			name:     "no clauses",
			template: "LIMIT 3",
			want:     Clauses{},
		},
		{
			name:     "empty",
			template: "",
			want:     Clauses{},
		},
		{
			name:     "keyword inside literal truncates",
			template: "WHERE title = 'ORDER milk'",
			want:     Clauses{Selection: "title = '"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractClauses(tt.template))
		})
	}
}
