package client

import (
	"encoding/json"

	"github.com/jcordero/tienda-storefront/internal/app/model"
)

// Product is a catalog product with its purchasable variants. Snapshot keeps
// whatever extra fields the backend returns so cart entries round-trip them.
type Product struct {
	Snapshot model.ProductSnapshot
	Variants []model.VariantSnapshot
}

func (p *Product) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// The variant list lives on Variants only; leaving it in the snapshot
	// would persist every variant with each cart line.
	if v, ok := raw["variantes"]; ok {
		if err := json.Unmarshal(v, &p.Variants); err != nil {
			return err
		}
		delete(raw, "variantes")
	}

	trimmed, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(trimmed, &p.Snapshot)
}

// Customer identifies the shopper on an order.
type Customer struct {
	Name  string `json:"nombre" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"telefono"`
}

// Address is the shipping destination.
type Address struct {
	Street     string `json:"calle" binding:"required"`
	City       string `json:"ciudad" binding:"required"`
	State      string `json:"provincia"`
	PostalCode string `json:"codigoPostal" binding:"required"`
	Country    string `json:"pais" binding:"required"`
}

// OrderItem is one cart line as submitted to the backend.
type OrderItem struct {
	ProductID string  `json:"productoId"`
	VariantID string  `json:"varianteId"`
	Name      string  `json:"nombre"`
	Size      string  `json:"talla"`
	Color     string  `json:"color"`
	SKU       string  `json:"sku"`
	UnitPrice float64 `json:"precioUnitario"`
	Quantity  int     `json:"cantidad"`
	Subtotal  float64 `json:"subtotal"`
}

// OrderRequest is the payload for order submission.
type OrderRequest struct {
	Reference       string      `json:"referencia"`
	Customer        Customer    `json:"cliente"`
	ShippingAddress Address     `json:"direccionEnvio"`
	Items           []OrderItem `json:"items"`
	Total           float64     `json:"total"`
	PaymentMethod   string      `json:"metodoPago"`
}

// OrderResponse is the backend's acknowledgement of an accepted order.
type OrderResponse struct {
	ID        string `json:"_id"`
	Reference string `json:"referencia"`
	Status    string `json:"estado"`
}
