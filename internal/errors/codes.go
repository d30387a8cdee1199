package errors

// Error code constants
// Format: CATEGORY_SPECIFIC_DETAIL
// The storefront maps these codes to user-facing messages

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Catalog (PRODUCT_) ====================
	ProductNotFound    = "PRODUCT_NOT_FOUND"
	CategoryNotFound   = "CATEGORY_NOT_FOUND"
	ProductUnavailable = "PRODUCT_UNAVAILABLE"

	// ==================== Cart (CART_) ====================
	CartNotFound        = "CART_NOT_FOUND"
	CartEmpty           = "CART_EMPTY"
	CartInvalidQuantity = "CART_INVALID_QUANTITY"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound        = "ORDER_NOT_FOUND"
	OrderNumberExhausted = "ORDER_NUMBER_EXHAUSTED"
	OrderNotRecorded     = "ORDER_NOT_RECORDED"

	// ==================== Payment (PAYMENT_) ====================
	PaymentDeclined           = "PAYMENT_DECLINED"
	PaymentGatewayUnavailable = "PAYMENT_GATEWAY_UNAVAILABLE"

	// ==================== User (USER_) ====================
	UserNotFound = "USER_NOT_FOUND"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
