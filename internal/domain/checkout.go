package domain

// CheckoutResult is the terminal payload of a successful checkout. It is
// immutable once produced and never partially constructed. Address, billing
// info and invoice number are optional extras some server versions include.
type CheckoutResult struct {
	OrderID       string  `json:"order_id"`
	TotalAmount   float64 `json:"total_amount"`
	Message       string  `json:"message"`
	Address       string  `json:"address,omitempty"`
	BillingInfo   string  `json:"billing_info,omitempty"`
	InvoiceNumber string  `json:"invoice_number,omitempty"`
}
