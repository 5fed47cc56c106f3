package model

// ItemKey identifies a cart entry. Keying on product and variant id keeps an
// entry unique even if the catalog reuses a size/color pair under a new
// variant id (restocked SKU).
type ItemKey struct {
	ProductID string
	VariantID string
}

// LineItem is one distinct purchasable selection in the cart.
type LineItem struct {
	Product  ProductSnapshot `json:"product"`
	Variant  VariantSnapshot `json:"variant"`
	Quantity int             `json:"quantity"`
}

func (li LineItem) Key() ItemKey {
	return ItemKey{ProductID: li.Product.ID, VariantID: li.Variant.ID}
}

// Subtotal is the discount-aware price for this line.
func (li LineItem) Subtotal() float64 {
	return li.Product.UnitPrice() * float64(li.Quantity)
}
