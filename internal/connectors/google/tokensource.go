package google

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// ErrMissingCredentials indicates no usable OAuth2 material was supplied.
var ErrMissingCredentials = errors.New("google: credentials require a refresh token or access token")

// Credentials holds static OAuth2 material for Google API access.
type Credentials struct {
	// ClientID and ClientSecret identify the OAuth2 application.
	// Required when RefreshToken is set.
	ClientID     string
	ClientSecret string

	// RefreshToken mints fresh access tokens as needed. Preferred for
	// long-lived sources.
	RefreshToken string

	// AccessToken is used directly when no refresh token is available.
	// It expires whenever Google says it does.
	AccessToken string
}

// NewTokenSource builds an oauth2.TokenSource from static credentials.
// With a refresh token the source renews itself; with only an access
// token it is static.
func NewTokenSource(ctx context.Context, creds Credentials) (oauth2.TokenSource, error) {
	if creds.RefreshToken != "" {
		cfg := &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint:     googleoauth.Endpoint,
			Scopes:       []string{drive.DriveReadonlyScope},
		}
		return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken}), nil
	}

	if creds.AccessToken != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.AccessToken}), nil
	}

	return nil, ErrMissingCredentials
}

// NewDriveService builds a Drive API client backed by the token source.
func NewDriveService(ctx context.Context, ts oauth2.TokenSource) (*drive.Service, error) {
	return drive.NewService(ctx, option.WithTokenSource(ts))
}
