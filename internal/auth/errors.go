package auth

import (
	"errors"
	"net/http"
)

// Login flow failures. All are terminal for the current request; the user
// must re-initiate login from the widget.
var (
	// ErrMalformedAssertion: required widget fields are absent.
	ErrMalformedAssertion = errors.New("malformed login assertion")

	// ErrIntegrityCheckFailed: the supplied hash does not match the
	// recomputed digest. Forged or tampered assertion.
	ErrIntegrityCheckFailed = errors.New("login assertion failed integrity check")

	// ErrAssertionExpired: auth_date is outside the accepted window.
	ErrAssertionExpired = errors.New("login assertion expired")

	// ErrNotAdmin: cryptographically valid identity that is not
	// provisioned in the admin registry.
	ErrNotAdmin = errors.New("not a registered admin")

	// ErrSessionIssuance: the session backend rejected the mint request.
	ErrSessionIssuance = errors.New("session issuance failed")

	// ErrConfigMissing: the shared signing secret is not configured.
	ErrConfigMissing = errors.New("signing secret not configured")
)

// HTTPStatus maps a login flow failure to its response status.
// Authentication failures are 401, authorization failures 403,
// everything the caller cannot fix is 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMalformedAssertion),
		errors.Is(err, ErrIntegrityCheckFailed),
		errors.Is(err, ErrAssertionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotAdmin):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
