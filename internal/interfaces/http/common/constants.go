package common

const (
	// MaxContactRequestBody limits the contact form JSON body.
	MaxContactRequestBody = 64 << 10
	// MaxAdminRequestBody limits admin PATCH payloads.
	MaxAdminRequestBody = 4 << 10
	// DefaultDeliveryPageSize is used when the admin listing has no limit.
	DefaultDeliveryPageSize = 50
)
