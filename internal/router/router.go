package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jcordero/tienda-storefront/config"
	"github.com/jcordero/tienda-storefront/internal/app/cart"
	"github.com/jcordero/tienda-storefront/internal/app/controller"
	apierrors "github.com/jcordero/tienda-storefront/internal/errors"
	"github.com/jcordero/tienda-storefront/internal/middleware"
	"github.com/jcordero/tienda-storefront/internal/websocket"
)

type Router struct {
	cartController     *controller.CartController
	checkoutController *controller.CheckoutController
	productController  *controller.ProductController
	authMiddleware     *middleware.AuthMiddleware
	manager            *cart.Manager
	hub                *websocket.Hub
	config             *config.Config
}

func NewRouter(
	cartController *controller.CartController,
	checkoutController *controller.CheckoutController,
	productController *controller.ProductController,
	authMiddleware *middleware.AuthMiddleware,
	manager *cart.Manager,
	hub *websocket.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		cartController:     cartController,
		checkoutController: checkoutController,
		productController:  productController,
		authMiddleware:     authMiddleware,
		manager:            manager,
		hub:                hub,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     r.config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Tienda storefront API is running",
		})
	})

	session := middleware.SessionMiddleware(r.manager, r.config.Session.CookieMaxAge)

	v1 := router.Group("/api/v1")
	v1.Use(r.authMiddleware.OptionalAuthenticate())
	{
		products := v1.Group("/products")
		{
			products.GET("/:id", r.productController.GetProduct)
		}

		cartGroup := v1.Group("/cart", session)
		{
			cartGroup.GET("", r.cartController.GetCart)
			cartGroup.DELETE("", r.cartController.ClearCart)
			cartGroup.POST("/items", r.cartController.AddItem)
			cartGroup.PUT("/items", r.cartController.UpdateItem)
			cartGroup.DELETE("/items/:productId/:variantId", r.cartController.RemoveItem)
			cartGroup.PUT("/drawer", r.cartController.SetDrawer)
			cartGroup.GET("/ws", r.serveCartWS)
		}

		v1.POST("/checkout", session, r.checkoutController.Checkout)
	}

	return router
}

// serveCartWS upgrades the connection and streams cart_changed events for the
// request's session.
func (r *Router) serveCartWS(c *gin.Context) {
	store, ok := middleware.GetCartStore(c)
	if !ok {
		apierrors.BadRequest(c, apierrors.CartSessionMissing, "cart session missing")
		return
	}
	sessionID, _ := middleware.GetSessionID(c)

	websocket.ServeWS(r.hub, store, sessionID, c.Writer, c.Request)
}
