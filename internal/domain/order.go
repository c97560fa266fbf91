package domain

// OrderItem is a line within a placed order.
type OrderItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Order is a read-only snapshot of a placed order, fetched on demand for the
// dashboard. The core never mutates it.
//
// CreatedAt is kept as the server's raw string: the backend has emitted both
// RFC 1123 and ISO 8601 timestamps across versions, so parsing is left to the
// presentation layer.
type Order struct {
	OrderID     string      `json:"order_id"`
	TotalAmount float64     `json:"total_amount"`
	Status      string      `json:"status"`
	CreatedAt   string      `json:"created_at"`
	Items       []OrderItem `json:"items"`
}
