package entity

import "time"

// OrderStatus is the server-side order lifecycle state.
type OrderStatus string

const (
	StatusPlaced     OrderStatus = "placed"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusPreparing  OrderStatus = "preparing"
	StatusReady      OrderStatus = "ready"
	StatusDispatched OrderStatus = "dispatched"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Payment states reported by the backend.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// IsActive reports whether the status still blocks a new checkout.
// Delivered and cancelled are the only terminal states.
func (s OrderStatus) IsActive() bool {
	switch s {
	case StatusPlaced, StatusConfirmed, StatusPreparing, StatusReady, StatusDispatched:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order may move from one status to another.
// The progression is placed -> confirmed -> preparing -> ready -> dispatched
// -> delivered. Cancellation is only reachable from placed or confirmed.
func CanTransition(from, to OrderStatus) bool {
	switch from {
	case StatusPlaced:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusPreparing || to == StatusCancelled
	case StatusPreparing:
		return to == StatusReady
	case StatusReady:
		return to == StatusDispatched
	case StatusDispatched:
		return to == StatusDelivered
	}
	return false
}

// OrderItem is a line in a placed order. Price and name are snapshots taken
// at order time, independent of later menu edits.
type OrderItem struct {
	MenuItemID          string  `json:"menuItem"`
	Name                string  `json:"name"`
	Quantity            int     `json:"quantity"`
	Price               float64 `json:"price"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
}

// StatusEntry is one step of an order's status timeline.
type StatusEntry struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Note      string      `json:"note,omitempty"`
}

// Order is the client view of a backend order. The backend owns the record;
// we hold a read-through cached copy and never mutate it locally.
type Order struct {
	OrderID         string        `json:"orderId"`
	UserID          string        `json:"userId"`
	Items           []OrderItem   `json:"items"`
	DeliveryAddress Address       `json:"deliveryAddress"`
	TotalAmount     float64       `json:"totalAmount"`
	DeliveryCharges float64       `json:"deliveryCharges"`
	Taxes           float64       `json:"taxes"`
	DiscountAmount  float64       `json:"discountAmount"`
	RoundOff        float64       `json:"roundOff"`
	FinalAmount     float64       `json:"finalAmount"`
	PaymentMethod   string        `json:"paymentMethod"`
	PaymentStatus   string        `json:"paymentStatus"`
	CustomerNotes   string        `json:"customerNotes,omitempty"`
	OrderSource     string        `json:"orderSource,omitempty"`
	OrderStatus     OrderStatus   `json:"orderStatus"`
	StatusHistory   []StatusEntry `json:"statusHistory,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}
