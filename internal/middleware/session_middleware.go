package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jcordero/tienda-storefront/internal/app/cart"
)

const (
	// SessionCookie names the cookie carrying the cart session ID.
	SessionCookie = "cart_session"

	// Context keys
	SessionIDKey = "session_id"
	CartStoreKey = "cart_store"
)

// SessionMiddleware assigns every request a cart session. A missing or
// malformed cookie gets a fresh UUID; the session's cart store is placed in
// the gin context for handlers downstream.
func SessionMiddleware(manager *cart.Manager, cookieMaxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
			c.SetCookie(SessionCookie, sessionID, int(cookieMaxAge.Seconds()), "/", "", false, true)
		}

		c.Set(SessionIDKey, sessionID)
		c.Set(CartStoreKey, manager.Get(sessionID))
		c.Next()
	}
}

// GetCartStore retrieves the session's cart store from gin context.
func GetCartStore(c *gin.Context) (*cart.Store, bool) {
	v, exists := c.Get(CartStoreKey)
	if !exists {
		return nil, false
	}
	store, ok := v.(*cart.Store)
	return store, ok
}

// GetSessionID retrieves the cart session ID from gin context.
func GetSessionID(c *gin.Context) (string, bool) {
	v, exists := c.Get(SessionIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
