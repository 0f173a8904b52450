package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-kratos/kratos/v2/errors"
)

// HeaderInternalApiKey carries the shared key for the internal dispatcher
// and invoice endpoints. These endpoints are called by other backend
// components, never by browsers.
const HeaderInternalApiKey = "X-Internal-Api-Key"

// CheckInternalKey verifies the internal API key header of a request.
// An empty configured key disables the check (local development).
func CheckInternalKey(r *http.Request, configured string) error {
	if configured == "" {
		return nil
	}
	got := r.Header.Get(HeaderInternalApiKey)
	if subtle.ConstantTimeCompare([]byte(got), []byte(configured)) != 1 {
		return errors.Unauthorized("UNAUTHORIZED", "invalid internal api key")
	}
	return nil
}
