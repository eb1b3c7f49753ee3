package github

import (
	"errors"
	"fmt"
	"time"
)

// APIError carries a GitHub error response that is not quota-related.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: api returned %d for %s: %s", e.StatusCode, e.URL, e.Message)
}

// RateLimitError reports an exhausted GitHub API quota.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exhausted (%d/%d remaining), resets at %s",
		e.Remaining, e.Limit, e.ResetAt.Format(time.RFC3339))
}

// IsRateLimited reports whether the error carries a RateLimitError.
// The sync loop pauses until ResetAt when it sees one.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}
