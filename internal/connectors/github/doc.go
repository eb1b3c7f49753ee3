// Package github implements a connector for GitHub repositories.
//
// The connector indexes the text files of a single configured repository.
// It fetches the full repository tree in one recursive Trees API call,
// then streams the content of each matching blob as a raw document.
//
// # Configuration
//
// Source configuration accepts the following keys:
//
//   - owner: repository owner (user or organisation). Required.
//   - repo: repository name. Required.
//   - branch: branch to index. Default: the repository's default branch.
//   - token: personal access token. Optional; unauthenticated access
//     works for public repositories but is capped at 60 requests per hour.
//   - file_patterns: comma-separated glob patterns for file filtering.
//     Example: "*.go,*.md". Default: all text files.
//
// # Authentication
//
// Personal Access Tokens (classic or fine-grained) are created at
// github.com/settings/tokens. Private repositories require the 'repo'
// scope. Authenticated requests get 5,000 API calls per hour.
//
// # Rate Limiting
//
// The connector implements a dual-strategy rate limiting approach:
//
//  1. Proactive throttling: a token bucket paces requests at roughly
//     1.2 per second, staying well under the hourly quota whilst
//     maximising throughput.
//
//  2. Reactive backoff: the X-RateLimit-Remaining and X-RateLimit-Reset
//     response headers are monitored. When the remaining quota runs low,
//     the connector waits until the reset time before continuing.
//
// # Sync
//
// Full sync fetches the repository tree, filters entries against the
// configured patterns, and retrieves blob content for each survivor.
// Binary files and files over 1MB are skipped.
//
// Documents are emitted with URIs of the form:
//
//	github://{owner}/{repo}/blob/{branch}/{path}
//
// Metadata includes the repository, branch, file path, blob SHA, size,
// and the corresponding github.com web URL.
//
// # Limitations
//
//   - Binary files are not indexed (text content only)
//   - File size limit: 1MB per file (GitHub blob API constraint)
//   - Watch mode is not supported (no webhook integration in a CLI)
//   - Private repository access requires appropriate token scopes
package github
