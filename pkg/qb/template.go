package qb

import (
	"regexp"
	"strings"
)

// Clause extraction is a best-effort pattern match over rendered SQL, not a
// parser: LIMIT, HAVING, GROUP, ORDER and WHERE must not appear inside string
// literals, identifiers or sub-queries.
var (
	whereFragment = regexp.MustCompile(`WHERE (.*?)(LIMIT|HAVING|GROUP|ORDER|\z)`)
	groupFragment = regexp.MustCompile(`GROUP BY (.*?)(LIMIT|HAVING|ORDER|\z)`)
	orderFragment = regexp.MustCompile(`ORDER BY (.*?)(LIMIT|HAVING|\z)`)
)

// Clauses holds the selection, group-by and order fragments of a query
// template, for consumers that take them as separate strings.
type Clauses struct {
	Selection string
	GroupBy   string
	Order     string
}

// ExtractClauses splits a query template into its WHERE, GROUP BY and ORDER BY
// fragments. A missing clause yields an empty fragment.
func ExtractClauses(template string) Clauses {
	return Clauses{
		Selection: firstGroup(whereFragment, template),
		GroupBy:   firstGroup(groupFragment, template),
		Order:     firstGroup(orderFragment, template),
	}
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
