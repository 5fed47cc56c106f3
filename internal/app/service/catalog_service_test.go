package service

import (
	"context"
	"testing"

	"github.com/jcordero/tienda-storefront/internal/app/cart"
	"github.com/jcordero/tienda-storefront/internal/app/client"
	"github.com/jcordero/tienda-storefront/internal/app/model"
	"github.com/jcordero/tienda-storefront/internal/app/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalogAPI struct {
	products map[string]*client.Product
}

func (f *fakeCatalogAPI) GetProduct(_ context.Context, id string) (*client.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, client.ErrProductNotFound
	}
	return product, nil
}

func setupCatalogTest(t *testing.T) (CatalogService, *cart.Store) {
	t.Helper()

	api := &fakeCatalogAPI{products: map[string]*client.Product{
		"P1": {
			Snapshot: model.ProductSnapshot{ID: "P1", Name: "Camiseta", Price: 20},
			Variants: []model.VariantSnapshot{
				{ID: "V1", Size: "M", Color: model.Color{Name: "Negro", Hex: "#000"}, SKU: "CAM-M", Stock: 5},
				{ID: "V2", Size: "L", Color: model.Color{Name: "Negro", Hex: "#000"}, SKU: "CAM-L", Stock: 0},
			},
		},
	}}

	store := cart.NewStore("cart:test", storage.NewMemory())
	return NewCatalogService(api), store
}

func TestCatalogService_ResolveSelection_Success(t *testing.T) {
	svc, store := setupCatalogTest(t)

	product, variant, err := svc.ResolveSelection(context.Background(), store, "P1", "V1", 3)
	require.NoError(t, err)
	assert.Equal(t, "P1", product.ID)
	assert.Equal(t, "V1", variant.ID)
	assert.Equal(t, "M", variant.Size)
}

func TestCatalogService_ResolveSelection_ProductNotFound(t *testing.T) {
	svc, store := setupCatalogTest(t)

	_, _, err := svc.ResolveSelection(context.Background(), store, "P404", "V1", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_ResolveSelection_VariantNotFound(t *testing.T) {
	svc, store := setupCatalogTest(t)

	_, _, err := svc.ResolveSelection(context.Background(), store, "P1", "V404", 1)
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestCatalogService_ResolveSelection_InsufficientStock(t *testing.T) {
	svc, store := setupCatalogTest(t)

	_, _, err := svc.ResolveSelection(context.Background(), store, "P1", "V1", 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	_, _, err = svc.ResolveSelection(context.Background(), store, "P1", "V2", 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCatalogService_ResolveSelection_CountsCartContents(t *testing.T) {
	svc, store := setupCatalogTest(t)
	ctx := context.Background()

	// 3 of 5 already in the cart; 2 more fit, 3 more do not.
	product, variant, err := svc.ResolveSelection(ctx, store, "P1", "V1", 3)
	require.NoError(t, err)
	store.AddSilent(ctx, product, variant, 3)

	_, _, err = svc.ResolveSelection(ctx, store, "P1", "V1", 2)
	assert.NoError(t, err)

	_, _, err = svc.ResolveSelection(ctx, store, "P1", "V1", 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}
