package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jcordero/tienda-storefront/internal/app/service"
	apierrors "github.com/jcordero/tienda-storefront/internal/errors"
	"github.com/jcordero/tienda-storefront/internal/middleware"
)

type CartController struct {
	catalogService service.CatalogService
}

func NewCartController(catalogService service.CatalogService) *CartController {
	return &CartController{catalogService: catalogService}
}

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	// Silent adds without opening the drawer (buy-now flow).
	Silent bool `json:"silent"`
}

type UpdateItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id" binding:"required"`
	// Quantity is absolute; zero or less removes the entry.
	Quantity *int `json:"quantity" binding:"required"`
}

type DrawerRequest struct {
	Open *bool `json:"open" binding:"required"`
}

// GetCart returns the session's cart snapshot
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	store, ok := middleware.GetCartStore(c)
	if !ok {
		apierrors.BadRequest(c, apierrors.CartSessionMissing, "cart session missing")
		return
	}

	items := store.Items()
	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"count":       store.Count(),
		"total":       store.Total(),
		"drawer_open": store.DrawerOpen(),
	})
}

// AddItem adds a product variant to the cart
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	store, ok := middleware.GetCartStore(c)
	if !ok {
		apierrors.BadRequest(c, apierrors.CartSessionMissing, "cart session missing")
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, err.Error())
		return
	}

	product, variant, err := ctrl.catalogService.ResolveSelection(
		c.Request.Context(), store, req.ProductID, req.VariantID, req.Quantity,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apierrors.NotFound(c, apierrors.CatalogProductNotFound, "product not found")
		case errors.Is(err, service.ErrVariantNotFound):
			apierrors.NotFound(c, apierrors.CatalogVariantNotFound, "variant not found")
		case errors.Is(err, service.ErrInsufficientStock):
			apierrors.Conflict(c, apierrors.CartInsufficientStock, "insufficient stock")
		default:
			log.Error("Failed to resolve cart selection", err, map[string]interface{}{
				"product_id": req.ProductID,
				"variant_id": req.VariantID,
			})
			apierrors.RespondWithError(c, http.StatusBadGateway, apierrors.InternalBackendAPI, "catalog unavailable")
		}
		return
	}

	if req.Silent {
		store.AddSilent(c.Request.Context(), product, variant, req.Quantity)
	} else {
		store.Add(c.Request.Context(), product, variant, req.Quantity)
	}

	log.Info("Item added to cart", map[string]interface{}{
		"product_id": req.ProductID,
		"variant_id": req.VariantID,
		"quantity":   req.Quantity,
		"silent":     req.Silent,
	})

	c.JSON(http.StatusCreated, gin.H{
		"count":       store.Count(),
		"total":       store.Total(),
		"drawer_open": store.DrawerOpen(),
	})
}

// UpdateItem sets a line's quantity; zero removes it
// PUT /api/v1/cart/items
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	store, ok := middleware.GetCartStore(c)
	if !ok {
		apierrors.BadRequest(c, apierrors.CartSessionMissing, "cart session missing")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update cart request", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, err.Error())
		return
	}

	store.UpdateQuantity(c.Request.Context(), req.ProductID, req.VariantID, *req.Quantity)

	c.JSON(http.StatusOK, gin.H{
		"count": store.Count(),
		"total": store.Total(),
	})
}

// RemoveItem deletes one line from the cart
// DELETE /api/v1/cart/items/:productId/:variantId
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	store, ok := middleware.GetCartStore(c)
	if !ok {
		apierrors.BadRequest(c, apierrors.CartSessionMissing, "cart session missing")
		return
	}

	productID := c.Param("productId")
	variantID := c.Param("variantId")
	if productID == "" || variantID == "" {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "product and variant IDs are required")
		return
	}

	store.Remove(c.Request.Context(), productID, variantID)

	c.JSON(http.StatusOK, gin.H{
		"count": store.Count(),
		"total": store.Total(),
	})
}

// ClearCart removes every line
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	store, ok := middleware.GetCartStore(c)
	if !ok {
		apierrors.BadRequest(c, apierrors.CartSessionMissing, "cart session missing")
		return
	}

	store.Clear(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}

// SetDrawer opens or closes the side-drawer cart view
// PUT /api/v1/cart/drawer
func (ctrl *CartController) SetDrawer(c *gin.Context) {
	store, ok := middleware.GetCartStore(c)
	if !ok {
		apierrors.BadRequest(c, apierrors.CartSessionMissing, "cart session missing")
		return
	}

	var req DrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, err.Error())
		return
	}

	if *req.Open {
		store.OpenDrawer()
	} else {
		store.CloseDrawer()
	}

	c.JSON(http.StatusOK, gin.H{
		"drawer_open": store.DrawerOpen(),
	})
}
