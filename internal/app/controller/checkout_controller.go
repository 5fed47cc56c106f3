package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jcordero/tienda-storefront/internal/app/client"
	"github.com/jcordero/tienda-storefront/internal/app/service"
	apierrors "github.com/jcordero/tienda-storefront/internal/errors"
	"github.com/jcordero/tienda-storefront/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutService}
}

// Checkout submits the session's cart as an order
// POST /api/v1/checkout
func (ctrl *CheckoutController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	store, ok := middleware.GetCartStore(c)
	if !ok {
		apierrors.BadRequest(c, apierrors.CartSessionMissing, "cart session missing")
		return
	}

	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid checkout request", map[string]interface{}{
			"error": err.Error(),
		})
		apierrors.BadRequest(c, apierrors.ValidationInvalidInput, err.Error())
		return
	}

	order, err := ctrl.checkoutService.Checkout(c.Request.Context(), store, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apierrors.BadRequest(c, apierrors.CheckoutEmptyCart, "cart is empty")
		case errors.Is(err, client.ErrOrderRejected):
			log.Warn("Order rejected by backend", map[string]interface{}{
				"error": err.Error(),
			})
			apierrors.Conflict(c, apierrors.CheckoutRejected, "order rejected")
		default:
			log.Error("Checkout failed", err, nil)
			apierrors.RespondWithError(c, http.StatusBadGateway, apierrors.InternalBackendAPI, "order service unavailable")
		}
		return
	}

	log.Info("Checkout completed", map[string]interface{}{
		"order_id":  order.ID,
		"reference": order.Reference,
	})

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}
