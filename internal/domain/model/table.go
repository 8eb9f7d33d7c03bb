package model

// Table is a derived view of one physical table. It is recomputed from the
// set of non-terminal orders and never stored.
type Table struct {
	Number   string
	Occupied bool
	OrderID  string
}
