package domain

// CartItem represents a single line in the shopping cart. The ID is a
// server-assigned opaque identifier, unique within the cart.
type CartItem struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Cart holds the ordered list of items in the shopping cart. Order is
// display-only and carries no semantics.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Subtotal calculates the total price of all items in the cart.
func (c Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount returns the total number of units across all items.
func (c Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindIndex returns the index of the item with the given ID, or -1.
func (c Cart) FindIndex(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the cart. Snapshots handed to observers must
// never alias the store's internal slice.
func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{}
	}
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
