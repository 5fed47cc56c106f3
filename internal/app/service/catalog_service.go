package service

import (
	"context"
	"errors"

	"github.com/jcordero/tienda-storefront/internal/app/cart"
	"github.com/jcordero/tienda-storefront/internal/app/client"
	"github.com/jcordero/tienda-storefront/internal/app/model"
	"github.com/jcordero/tienda-storefront/pkg/logger"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrVariantNotFound   = errors.New("variant not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CatalogAPI is the slice of the backend client the catalog service needs.
type CatalogAPI interface {
	GetProduct(ctx context.Context, id string) (*client.Product, error)
}

type CatalogService interface {
	GetProduct(ctx context.Context, id string) (*client.Product, error)
	// ResolveSelection fetches the product, locates the variant and verifies
	// stock covers the requested quantity plus what the cart already holds.
	// The returned snapshots are what gets stored in the cart; the store
	// itself never validates stock.
	ResolveSelection(ctx context.Context, store *cart.Store, productID, variantID string, quantity int) (model.ProductSnapshot, model.VariantSnapshot, error)
}

type catalogService struct {
	api CatalogAPI
}

func NewCatalogService(api CatalogAPI) CatalogService {
	return &catalogService{api: api}
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*client.Product, error) {
	product, err := s.api.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, client.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product from backend", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *catalogService) ResolveSelection(ctx context.Context, store *cart.Store, productID, variantID string, quantity int) (model.ProductSnapshot, model.VariantSnapshot, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return model.ProductSnapshot{}, model.VariantSnapshot{}, err
	}

	var variant *model.VariantSnapshot
	for i := range product.Variants {
		if product.Variants[i].ID == variantID {
			variant = &product.Variants[i]
			break
		}
	}
	if variant == nil {
		logger.Warn("Variant not found on product", map[string]interface{}{
			"product_id": productID,
			"variant_id": variantID,
		})
		return model.ProductSnapshot{}, model.VariantSnapshot{}, ErrVariantNotFound
	}

	requested := quantity + store.Quantity(productID, variantID)
	if variant.Stock < requested {
		logger.Warn("Cannot add to cart: insufficient stock", map[string]interface{}{
			"product_id": productID,
			"variant_id": variantID,
			"requested":  requested,
			"available":  variant.Stock,
		})
		return model.ProductSnapshot{}, model.VariantSnapshot{}, ErrInsufficientStock
	}

	return product.Snapshot, *variant, nil
}
