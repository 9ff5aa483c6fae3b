package qb

// Direction is the sort direction of an Order.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// Order is a field plus sort direction.
type Order struct {
	field     Field
	direction Direction
}

func Asc(f Field) Order  { return Order{field: f, direction: Ascending} }
func Desc(f Field) Order { return Order{field: f, direction: Descending} }

// OrderRaw wraps a caller-supplied ORDER BY fragment such as
// "importance ASC, due_at DESC". It renders verbatim.
func OrderRaw(text string) Order {
	return Order{field: NewExpr(text)}
}

// Field returns the ordered field.
func (o Order) Field() Field { return o.field }

// Direction returns the sort direction.
func (o Order) Direction() Direction { return o.direction }

func (o Order) String() string {
	if o.direction == "" {
		return o.field.String()
	}
	return o.field.String() + " " + string(o.direction)
}
