package entity

// CartItem is a menu item selected into the cart with its quantity.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Cart holds a user's pre-submission selection. Totals are maintained
// incrementally on every mutation and must always equal a full
// recomputation over Items.
type Cart struct {
	UserID        string     `json:"userId"`
	Items         []CartItem `json:"items"`
	TotalAmount   float64    `json:"totalAmount"`
	TotalQuantity int        `json:"totalQuantity"`
}

// Recomputed returns the totals derived from scratch over Items.
func (c *Cart) Recomputed() (amount float64, quantity int) {
	for _, it := range c.Items {
		amount += it.Price * float64(it.Quantity)
		quantity += it.Quantity
	}
	return amount, quantity
}
