package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jcordero/tienda-storefront/internal/app/cart"
	"github.com/jcordero/tienda-storefront/internal/app/client"
	"github.com/jcordero/tienda-storefront/pkg/logger"
)

var ErrEmptyCart = errors.New("cart is empty")

// OrderAPI is the slice of the backend client checkout needs.
type OrderAPI interface {
	SubmitOrder(ctx context.Context, req client.OrderRequest) (*client.OrderResponse, error)
}

// CheckoutRequest carries the shopper-supplied part of an order.
type CheckoutRequest struct {
	Customer        client.Customer `json:"customer" binding:"required"`
	ShippingAddress client.Address  `json:"shipping_address" binding:"required"`
	PaymentMethod   string          `json:"payment_method" binding:"required"`
}

type CheckoutService interface {
	Checkout(ctx context.Context, store *cart.Store, req CheckoutRequest) (*client.OrderResponse, error)
}

type checkoutService struct {
	api OrderAPI
}

func NewCheckoutService(api OrderAPI) CheckoutService {
	return &checkoutService{api: api}
}

// Checkout builds the order from the cart and submits it. The cart is cleared
// exactly once, and only after the backend accepts the order.
func (s *checkoutService) Checkout(ctx context.Context, store *cart.Store, req CheckoutRequest) (*client.OrderResponse, error) {
	items := store.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := client.OrderRequest{
		Reference:       uuid.New().String(),
		Customer:        req.Customer,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Total:           store.Total(),
	}
	for _, item := range items {
		order.Items = append(order.Items, client.OrderItem{
			ProductID: item.Product.ID,
			VariantID: item.Variant.ID,
			Name:      item.Product.Name,
			Size:      item.Variant.Size,
			Color:     item.Variant.Color.Name,
			SKU:       item.Variant.SKU,
			UnitPrice: item.Product.UnitPrice(),
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		})
	}

	logger.Info("Submitting order", map[string]interface{}{
		"reference": order.Reference,
		"lines":     len(order.Items),
		"total":     order.Total,
	})

	resp, err := s.api.SubmitOrder(ctx, order)
	if err != nil {
		logger.Error("Order submission failed, cart left intact", err, map[string]interface{}{
			"reference": order.Reference,
		})
		return nil, err
	}

	store.Clear(ctx)

	logger.Info("Order accepted, cart cleared", map[string]interface{}{
		"reference": resp.Reference,
		"order_id":  resp.ID,
	})
	return resp, nil
}
