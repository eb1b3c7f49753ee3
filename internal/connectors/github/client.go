package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// defaultTimeout bounds individual HTTP requests to the GitHub API.
const defaultTimeout = 30 * time.Second

// Client wraps go-github with rate limiting and error mapping. Every
// API call waits on the limiter first and feeds the response quota
// headers back into it afterwards.
type Client struct {
	gh      *gh.Client
	limiter *RateLimiter
}

// NewClient creates a GitHub API client. An empty token gives
// unauthenticated access, which GitHub caps at 60 requests per hour
// and restricts to public repositories.
func NewClient(token string) *Client {
	httpClient := &http.Client{Timeout: defaultTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = defaultTimeout
	}

	return &Client{
		gh:      gh.NewClient(httpClient),
		limiter: NewRateLimiter(),
	}
}

// GetRepository fetches repository metadata, including the default branch.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*gh.Repository, error) {
	return call(ctx, c, "get repo", func() (*gh.Repository, *gh.Response, error) {
		return c.gh.Repositories.Get(ctx, owner, repo)
	})
}

// GetTree fetches the repository tree at the given ref. The recursive
// form returns every file path in a single request.
func (c *Client) GetTree(ctx context.Context, owner, repo, ref string) (*gh.Tree, error) {
	return call(ctx, c, "get tree", func() (*gh.Tree, *gh.Response, error) {
		return c.gh.Git.GetTree(ctx, owner, repo, ref, true)
	})
}

// GetBlob fetches a blob (file content) by its SHA.
func (c *Client) GetBlob(ctx context.Context, owner, repo, sha string) (*gh.Blob, error) {
	return call(ctx, c, "get blob", func() (*gh.Blob, *gh.Response, error) {
		return c.gh.Git.GetBlob(ctx, owner, repo, sha)
	})
}

// RateLimiter returns the client's rate limiter.
func (c *Client) RateLimiter() *RateLimiter {
	return c.limiter
}

// call runs one API request under the rate limiter: wait for a slot,
// run the request, map any failure, and record the returned quota.
func call[T any](ctx context.Context, c *Client, op string, fn func() (T, *gh.Response, error)) (T, error) {
	var zero T

	if err := c.limiter.Wait(ctx); err != nil {
		return zero, fmt.Errorf("rate limit wait: %w", err)
	}

	out, resp, err := fn()
	if err != nil {
		return zero, wrapError(err, op)
	}

	if resp != nil && resp.Response != nil {
		c.limiter.UpdateFromResponse(resp.Response)
	}
	return out, nil
}

// wrapError maps go-github errors onto this package's error types.
func wrapError(err error, op string) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
			URL:        ghErr.Response.Request.URL.String(),
		}
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return &RateLimitError{
			ResetAt:   rateErr.Rate.Reset.Time,
			Remaining: rateErr.Rate.Remaining,
			Limit:     rateErr.Rate.Limit,
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
