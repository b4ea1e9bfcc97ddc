package profile_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tilsley/insights/apps/server/internal/profile"
)

// Compile-time interface compliance check.
var _ profile.GitHub = (*stubGitHub)(nil)

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ─── stubGitHub ───────────────────────────────────────────────────────────────

type stubGitHub struct {
	getUserFn       func(ctx context.Context, username string) (*profile.UserProfile, error)
	listReposFn     func(ctx context.Context, username string, perPage int) ([]profile.Repository, error)
	contributionFn  func(ctx context.Context, username string, from, to time.Time) (int, error)
	searchCommitsFn func(ctx context.Context, query string) (int, error)
	getReadmeFn     func(ctx context.Context, owner, repo string) (string, bool, error)

	calls         atomic.Int32
	mu            sync.Mutex
	searchQueries []string
}

func (s *stubGitHub) GetUser(ctx context.Context, username string) (*profile.UserProfile, error) {
	s.calls.Add(1)
	if s.getUserFn != nil {
		return s.getUserFn(ctx, username)
	}
	return &profile.UserProfile{Login: username}, nil
}

func (s *stubGitHub) ListRepositories(ctx context.Context, username string, perPage int) ([]profile.Repository, error) {
	s.calls.Add(1)
	if s.listReposFn != nil {
		return s.listReposFn(ctx, username, perPage)
	}
	return nil, nil
}

func (s *stubGitHub) ContributionTotal(ctx context.Context, username string, from, to time.Time) (int, error) {
	s.calls.Add(1)
	if s.contributionFn != nil {
		return s.contributionFn(ctx, username, from, to)
	}
	return 0, errBoom
}

func (s *stubGitHub) SearchCommitCount(ctx context.Context, query string) (int, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.searchQueries = append(s.searchQueries, query)
	s.mu.Unlock()
	if s.searchCommitsFn != nil {
		return s.searchCommitsFn(ctx, query)
	}
	return 0, errBoom
}

func (s *stubGitHub) GetReadme(ctx context.Context, owner, repo string) (string, bool, error) {
	s.calls.Add(1)
	if s.getReadmeFn != nil {
		return s.getReadmeFn(ctx, owner, repo)
	}
	return "", false, nil
}
