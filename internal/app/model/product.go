package model

import "encoding/json"

// ProductSnapshot is the catalog product exactly as it looked when the shopper
// put it in the cart. Later catalog changes never touch an existing line item.
// Wire field names follow the backend API.
type ProductSnapshot struct {
	ID       string
	Name     string
	Price    float64
	Discount *Discount
	Images   []Image

	// extra holds backend fields this service does not interpret. They are
	// carried through serialization untouched.
	extra map[string]json.RawMessage
}

type Discount struct {
	Active     bool    `json:"activo"`
	Percentage float64 `json:"porcentaje"`
}

type Image struct {
	URL string `json:"url"`
}

// UnitPrice returns the effective price for one unit, applying the discount
// only while it is marked active.
func (p ProductSnapshot) UnitPrice() float64 {
	if p.Discount != nil && p.Discount.Active {
		return p.Price * (1 - p.Discount.Percentage/100)
	}
	return p.Price
}

func (p ProductSnapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p.extra)+5)
	for k, v := range p.extra {
		out[k] = v
	}
	if err := putField(out, "_id", p.ID); err != nil {
		return nil, err
	}
	if err := putField(out, "nombre", p.Name); err != nil {
		return nil, err
	}
	if err := putField(out, "precio", p.Price); err != nil {
		return nil, err
	}
	if p.Discount != nil {
		if err := putField(out, "descuento", p.Discount); err != nil {
			return nil, err
		}
	}
	if len(p.Images) > 0 {
		if err := putField(out, "imagenesPrincipales", p.Images); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

func (p *ProductSnapshot) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := takeField(raw, "_id", &p.ID); err != nil {
		return err
	}
	if err := takeField(raw, "nombre", &p.Name); err != nil {
		return err
	}
	if err := takeField(raw, "precio", &p.Price); err != nil {
		return err
	}
	if err := takeField(raw, "descuento", &p.Discount); err != nil {
		return err
	}
	if err := takeField(raw, "imagenesPrincipales", &p.Images); err != nil {
		return err
	}
	if len(raw) > 0 {
		p.extra = raw
	} else {
		p.extra = nil
	}
	return nil
}

// VariantSnapshot is the purchasable variant (size/color/SKU) at add time.
// Stock is informational only; the backend re-checks it at order submission.
type VariantSnapshot struct {
	ID    string
	Size  string
	Color Color
	SKU   string
	Stock int

	extra map[string]json.RawMessage
}

type Color struct {
	Name string `json:"nombre"`
	Hex  string `json:"codigoHex"`
}

func (v VariantSnapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(v.extra)+5)
	for k, val := range v.extra {
		out[k] = val
	}
	if err := putField(out, "_id", v.ID); err != nil {
		return nil, err
	}
	if err := putField(out, "talla", v.Size); err != nil {
		return nil, err
	}
	if err := putField(out, "color", v.Color); err != nil {
		return nil, err
	}
	if err := putField(out, "sku", v.SKU); err != nil {
		return nil, err
	}
	if err := putField(out, "stock", v.Stock); err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

func (v *VariantSnapshot) UnmarshalJSON(data []byte) error {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := takeField(raw, "_id", &v.ID); err != nil {
		return err
	}
	if err := takeField(raw, "talla", &v.Size); err != nil {
		return err
	}
	if err := takeField(raw, "color", &v.Color); err != nil {
		return err
	}
	if err := takeField(raw, "sku", &v.SKU); err != nil {
		return err
	}
	if err := takeField(raw, "stock", &v.Stock); err != nil {
		return err
	}
	if len(raw) > 0 {
		v.extra = raw
	} else {
		v.extra = nil
	}
	return nil
}

func putField(dst map[string]json.RawMessage, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	dst[key] = b
	return nil
}

func takeField(src map[string]json.RawMessage, key string, dst interface{}) error {
	v, ok := src[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return err
	}
	delete(src, key)
	return nil
}
