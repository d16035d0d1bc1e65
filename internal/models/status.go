package models

// OrderStatus is the lifecycle state of an order. Card payments land on
// paid; cash-on-delivery orders stay at processing until the courier
// collects.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusPaid       OrderStatus = "paid"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusPaid,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

var validNext = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:    {StatusPaid: true, StatusProcessing: true, StatusCancelled: true},
	StatusPaid:       {StatusShipped: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func ValidStatus(s string) bool {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return true
		}
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}
