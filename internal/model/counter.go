package model

// Counter is a named sequence row. Order numbers are allocated by atomically
// incrementing the counter inside the conversion transaction, so concurrent
// conversions cannot observe the same value.
type Counter struct {
	Name  string `gorm:"primaryKey;size:32"`
	Value int64  `gorm:"not null"`
}

// CounterOrders is the sequence backing order number allocation.
const CounterOrders = "orders"
