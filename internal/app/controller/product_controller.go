package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jcordero/tienda-storefront/internal/app/service"
	apierrors "github.com/jcordero/tienda-storefront/internal/errors"
	"github.com/jcordero/tienda-storefront/internal/middleware"
)

type ProductController struct {
	catalogService service.CatalogService
}

func NewProductController(catalogService service.CatalogService) *ProductController {
	return &ProductController{catalogService: catalogService}
}

// GetProduct proxies a catalog product for the product page
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id := c.Param("id")
	if id == "" {
		apierrors.BadRequest(c, apierrors.ValidationInvalidID, "product ID is required")
		return
	}

	product, err := ctrl.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apierrors.NotFound(c, apierrors.CatalogProductNotFound, "product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		apierrors.RespondWithError(c, http.StatusBadGateway, apierrors.InternalBackendAPI, "catalog unavailable")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product":  product.Snapshot,
		"variants": product.Variants,
	})
}
