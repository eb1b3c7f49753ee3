// Package google provides shared infrastructure for Google API connectors.
//
// This package contains the common pieces used by the drive connector:
//   - TokenSource construction from static OAuth2 credentials
//   - Service factories for creating Google API clients
//   - Error handling for common Google API errors (401, 403, 404, 429)
//   - Rate limiting with retry-at backoff to respect Google API quotas
//
// # Usage
//
//	ts, err := google.NewTokenSource(ctx, creds)
//	if err != nil {
//	    return err
//	}
//	svc, err := google.NewDriveService(ctx, ts)
//
// # OAuth2 Scopes
//
// The drive connector uses the read-only scope:
//   - https://www.googleapis.com/auth/drive.readonly
//
// Credentials are supplied through source configuration: either a refresh
// token with client credentials (long-lived), or a bare access token
// (short-lived, useful for testing).
package google
