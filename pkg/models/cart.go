package models

// CartLine pairs a catalog product with a quantity inside the live cart.
// A product id appears in at most one line, and a line with quantity < 1
// never exists: reducing below 1 removes the line instead.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (l CartLine) Subtotal() float64 {
	return float64(l.Quantity) * l.Product.Price
}

// PersistedCartLine is what survives in the durable per-session cart record.
// Product details are re-joined from the catalog on load, so only the
// reference and the quantity are stored.
type PersistedCartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartLineRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type SetCartOpenRequest struct {
	Open *bool `json:"open" binding:"required"`
}
