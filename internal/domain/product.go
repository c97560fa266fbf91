package domain

// Product is a single storefront listing entry.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
	CategoryID  string  `json:"category_id,omitempty"`
}

// ProductPage is one page of listing results. It is a value object: each
// successful fetch replaces the previous page wholesale, stale pages are
// discarded and never merged.
type ProductPage struct {
	Products []Product `json:"products"`
	Pages    int       `json:"pages"`
}
