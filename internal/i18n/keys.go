// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess        = "success"
	KeyError          = "error"
	KeyRequestTimeout = "request.timeout"
	KeyRateLimited    = "request.rate_limited"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyAccessDenied     = "auth.access_denied"

	// Apartments
	KeyApartmentNotFound = "apartment.not_found"
	KeyApartmentListings = "apartment.listings"

	// Lease requests
	KeyLeaseRequestCreated       = "lease_request.created"
	KeyLeaseRequestNotFound      = "lease_request.not_found"
	KeyLeaseRequestOwnerApproved = "lease_request.owner_approved"
	KeyLeaseRequestApproved      = "lease_request.approved"
	KeyLeaseRequestRejected      = "lease_request.rejected"
	KeyLeaseRequestCancelled     = "lease_request.cancelled"
	KeyLeaseRequestInvalidID     = "lease_request.invalid_id"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationEmail    = "validation.invalid_email"
	KeyValidationPhone    = "validation.invalid_phone"
)
