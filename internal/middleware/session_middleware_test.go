package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jcordero/tienda-storefront/internal/app/cart"
	"github.com/jcordero/tienda-storefront/internal/app/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionTest(t *testing.T) (*gin.Engine, *cart.Manager) {
	t.Helper()

	manager := cart.NewManager(storage.NewMemory())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SessionMiddleware(manager, time.Hour))
	router.GET("/cart", func(c *gin.Context) {
		sessionID, ok := GetSessionID(c)
		require.True(t, ok)
		store, ok := GetCartStore(c)
		require.True(t, ok)
		require.NotNil(t, store)
		c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
	})

	return router, manager
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookie {
			return cookie
		}
	}
	return nil
}

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	router, manager := setupSessionTest(t)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.NoError(t, uuid.Validate(cookie.Value))
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 1, manager.Len())
}

func TestSessionMiddleware_ReusesExistingSession(t *testing.T) {
	router, manager := setupSessionTest(t)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)

	req = httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	// No new cookie and no new store for a returning session.
	assert.Nil(t, sessionCookie(t, w))
	assert.Equal(t, 1, manager.Len())
}

func TestSessionMiddleware_RejectsMalformedCookie(t *testing.T) {
	router, _ := setupSessionTest(t)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-uuid"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.NotEqual(t, "not-a-uuid", cookie.Value)
	assert.NoError(t, uuid.Validate(cookie.Value))
}

func TestSessionMiddleware_DistinctSessionsGetDistinctStores(t *testing.T) {
	router, manager := setupSessionTest(t)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 3, manager.Len())
}
