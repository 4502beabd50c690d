// Package common contains constants and sentinel errors shared by the client
// packages.
package common

// AuthorizationHeaderName carries the bearer token on outbound API requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName tags each outbound API request for server-side tracing.
const RequestIDHeaderName = "X-Request-ID"

// Store keys. The names match what earlier releases wrote so existing local
// databases keep working.
const (
	SessionKey    = "userSession"
	OnboardingKey = "user-has-onboarded"
	ThemeKey      = "user-app-theme"
	ArchiveKey    = "my_saved_documents"
)
