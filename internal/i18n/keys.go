// Package i18n provides internationalization support for the allocation service.
package i18n

// Translation keys for error messages. Handlers and middleware pass these
// to Translate instead of hardcoding user-facing text.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyUnauthorized       = "error.unauthorized"
	// ErrKeyInvalidCredentials covers both unknown users and wrong passwords.
	ErrKeyInvalidCredentials = "error.invalid_credentials"
	ErrKeyAPIKeyRequired     = "error.api_key_required"
	ErrKeyInvalidAPIKey      = "error.invalid_api_key"
	ErrKeyForbidden          = "error.forbidden"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"
	ErrKeyConflict           = "error.conflict"
	// ErrKeyValidationQuantities rejects buy/ship vectors with negative or
	// non-integer quantities.
	ErrKeyValidationQuantities = "error.validation.quantities"
	ErrKeyInvalidToken         = "error.invalid_token"
	ErrKeyTokenRequired        = "error.token_required"
	ErrKeyTimeout              = "error.timeout"
)

// Translation keys for success messages.
const (
	SuccessKeyAllocated = "success.allocated"
)
