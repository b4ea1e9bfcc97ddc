package profile

import (
	"context"
	"time"
)

// GitHub is the port the pipeline uses to read from the source-hosting API.
// Implementations live in the adapters layer (go-github, in-memory fake).
type GitHub interface {
	GetUser(ctx context.Context, username string) (*UserProfile, error)
	ListRepositories(ctx context.Context, username string, perPage int) ([]Repository, error)
	// ContributionTotal returns the calendar contribution total for the
	// window [from, to]. An error means the value is unusable.
	ContributionTotal(ctx context.Context, username string, from, to time.Time) (int, error)
	// SearchCommitCount returns the reported total match count for a commit search.
	SearchCommitCount(ctx context.Context, query string) (int, error)
	// GetReadme returns the decoded README for owner/repo. found is false
	// (with a nil error) when the repository has no README.
	GetReadme(ctx context.Context, owner, repo string) (content string, found bool, err error)
}

// SourceFactory builds a GitHub client authenticated with the given token.
type SourceFactory func(token string) GitHub
