package errors

// Error code constants, CATEGORY_SPECIFIC_DETAIL. The web client maps these
// codes to user-facing messages.

const (
	// Auth (AUTH_)
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// Validation (VALIDATION_)
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"

	// Catalog (CATALOG_)
	CatalogProductNotFound = "CATALOG_PRODUCT_NOT_FOUND"
	CatalogVariantNotFound = "CATALOG_VARIANT_NOT_FOUND"

	// Cart (CART_)
	CartInsufficientStock = "CART_INSUFFICIENT_STOCK"
	CartSessionMissing    = "CART_SESSION_MISSING"

	// Checkout (CHECKOUT_)
	CheckoutEmptyCart = "CHECKOUT_EMPTY_CART"
	CheckoutRejected  = "CHECKOUT_REJECTED"

	// Internal (INTERNAL_)
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalBackendAPI  = "INTERNAL_BACKEND_API"
)
