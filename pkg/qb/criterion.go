package qb

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Criterion is a boolean predicate usable in a WHERE or HAVING clause.
type Criterion interface {
	String() string
}

type criterion string

func (c criterion) String() string { return string(c) }

// Raw wraps caller-supplied predicate text verbatim.
func Raw(text string) Criterion {
	return criterion(text)
}

func Eq(f Field, v any) Criterion {
	if v == nil {
		return IsNull(f)
	}
	return binary(f, "=", v)
}

func Neq(f Field, v any) Criterion {
	if v == nil {
		return IsNotNull(f)
	}
	return binary(f, "<>", v)
}

func Gt(f Field, v any) Criterion  { return binary(f, ">", v) }
func Gte(f Field, v any) Criterion { return binary(f, ">=", v) }
func Lt(f Field, v any) Criterion  { return binary(f, "<", v) }
func Lte(f Field, v any) Criterion { return binary(f, "<=", v) }

func Like(f Field, pattern string) Criterion {
	return binary(f, "LIKE", pattern)
}

// In renders f IN (v1, v2, ...). An empty value list renders a predicate
// that matches nothing.
func In(f Field, values ...any) Criterion {
	if len(values) == 0 {
		return criterion("0")
	}
	items := lo.Map(values, func(v any, _ int) string { return Literal(v) })
	return criterion(f.String() + " IN (" + strings.Join(items, ", ") + ")")
}

func IsNull(f Field) Criterion    { return criterion(f.String() + " IS NULL") }
func IsNotNull(f Field) Criterion { return criterion(f.String() + " IS NOT NULL") }

// And joins criteria with AND inside parentheses. A single criterion is
// returned unchanged.
func And(cs ...Criterion) Criterion {
	return combine("AND", cs)
}

// Or joins criteria with OR inside parentheses. A single criterion is
// returned unchanged.
func Or(cs ...Criterion) Criterion {
	return combine("OR", cs)
}

func Not(c Criterion) Criterion {
	return criterion("NOT (" + c.String() + ")")
}

func combine(op string, cs []Criterion) Criterion {
	switch len(cs) {
	case 0:
		return criterion("1")
	case 1:
		return cs[0]
	}
	parts := lo.Map(cs, func(c Criterion, _ int) string { return c.String() })
	return criterion("(" + strings.Join(parts, " "+op+" ") + ")")
}

func binary(f Field, op string, v any) Criterion {
	return criterion(f.String() + " " + op + " " + Literal(v))
}

// Literal renders v as inline SQL. Strings are single-quoted with embedded
// quotes doubled, times become Unix milliseconds, and Fields render as
// column references so criteria can compare two columns.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case Field:
		return x.String()
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case bool:
		if x {
			return "1"
		}
		return "0"
	case time.Time:
		if x.IsZero() {
			return "0"
		}
		return strconv.FormatInt(x.UnixMilli(), 10)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}
