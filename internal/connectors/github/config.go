package github

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Config is what a GitHub source definition boils down to: which
// repository, which ref, and how to authenticate.
type Config struct {
	// Owner is the repository owner, user or organisation. Required.
	Owner string

	// Repo is the repository name. Required.
	Repo string

	// Branch is the ref to read. Empty means the default branch.
	Branch string

	// Token is a personal access token. Empty means unauthenticated
	// access, which only works for public repositories.
	Token string

	// FilePatterns narrows the tree to matching globs. Empty means
	// every text file.
	FilePatterns []string
}

// ParseConfig reads a source's config map. Owner and repo are the
// only mandatory keys.
func ParseConfig(source domain.Source) (*Config, error) {
	cfg := &Config{
		Owner:  strings.TrimSpace(source.Config["owner"]),
		Repo:   strings.TrimSpace(source.Config["repo"]),
		Branch: strings.TrimSpace(source.Config["branch"]),
		Token:  strings.TrimSpace(source.Config["token"]),
	}

	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("%w: github source requires owner and repo", domain.ErrInvalidInput)
	}

	if patterns, ok := source.Config["file_patterns"]; ok {
		cfg.FilePatterns = splitPatterns(patterns)
	}

	return cfg, nil
}

// splitPatterns breaks a comma-separated glob list apart, dropping
// blanks.
func splitPatterns(s string) []string {
	var patterns []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			patterns = append(patterns, part)
		}
	}
	return patterns
}
