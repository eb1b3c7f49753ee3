package google

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Sentinel errors for Google API failures callers branch on. The
// messages double as user guidance, so they name the likely cause.
var (
	ErrUnauthorized = errors.New("google: unauthorised (invalid credentials)")
	ErrForbidden    = errors.New("google: forbidden (insufficient permissions)")
	ErrNotFound     = errors.New("google: resource not found")
	ErrRateLimited  = errors.New("google: rate limit exceeded")
)

// statusErrors maps googleapi status codes onto the sentinels above.
var statusErrors = map[int]error{
	http.StatusUnauthorized:    ErrUnauthorized,
	http.StatusForbidden:       ErrForbidden,
	http.StatusNotFound:        ErrNotFound,
	http.StatusTooManyRequests: ErrRateLimited,
}

// WrapError replaces recognised googleapi errors with the matching
// sentinel. Anything else passes through untouched.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	if sentinel, ok := statusErrors[gerr.Code]; ok {
		return sentinel
	}
	return err
}

// IsRateLimited reports whether the error is a 429, wrapped or raw.
// The drive connector backs off when it sees one.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests
}
