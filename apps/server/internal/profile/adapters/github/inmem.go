package github

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tilsley/insights/apps/server/internal/profile"
)

// Compile-time check: *InMem implements profile.GitHub.
var _ profile.GitHub = (*InMem)(nil)

// InMem is an in-memory profile.GitHub for unit tests.
type InMem struct {
	mu      sync.Mutex
	users   map[string]profile.UserProfile
	repos   map[string][]profile.Repository
	readmes map[string]string // "owner/repo" -> content

	contributions    *int
	commitCount      *int
	readmeErr        error
	primaryErr       error
	readmeFetchCount int
}

// NewInMem creates an empty InMem client. Contribution and commit-search
// lookups fail until seeded.
func NewInMem() *InMem {
	return &InMem{
		users:   make(map[string]profile.UserProfile),
		repos:   make(map[string][]profile.Repository),
		readmes: make(map[string]string),
	}
}

// SetUser seeds a user profile.
func (m *InMem) SetUser(u profile.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Login] = u
}

// SetRepositories seeds the repository listing for username.
func (m *InMem) SetRepositories(username string, repos []profile.Repository) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repos[username] = append([]profile.Repository(nil), repos...)
}

// SetReadme seeds the README for owner/repo.
func (m *InMem) SetReadme(owner, repo, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readmes[owner+"/"+repo] = content
}

// SetContributions makes ContributionTotal return n.
func (m *InMem) SetContributions(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contributions = &n
}

// SetCommitCount makes SearchCommitCount return n.
func (m *InMem) SetCommitCount(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commitCount = &n
}

// FailPrimary makes GetUser and ListRepositories return err.
func (m *InMem) FailPrimary(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.primaryErr = err
}

// FailReadmes makes every GetReadme call return err.
func (m *InMem) FailReadmes(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readmeErr = err
}

// ReadmeFetches returns how many GetReadme calls were made.
func (m *InMem) ReadmeFetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readmeFetchCount
}

// GetUser returns the seeded user, or an error if not found.
func (m *InMem) GetUser(_ context.Context, username string) (*profile.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.primaryErr != nil {
		return nil, m.primaryErr
	}
	u, ok := m.users[username]
	if !ok {
		return nil, fmt.Errorf("user not found: %s", username)
	}
	return &u, nil
}

// ListRepositories returns at most perPage seeded repositories.
func (m *InMem) ListRepositories(_ context.Context, username string, perPage int) ([]profile.Repository, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.primaryErr != nil {
		return nil, m.primaryErr
	}
	repos := m.repos[username]
	if perPage > 0 && len(repos) > perPage {
		repos = repos[:perPage]
	}
	return append([]profile.Repository(nil), repos...), nil
}

// ContributionTotal returns the seeded contribution count.
func (m *InMem) ContributionTotal(_ context.Context, username string, _, _ time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.contributions == nil {
		return 0, fmt.Errorf("no contribution data for %s", username)
	}
	return *m.contributions, nil
}

// SearchCommitCount returns the seeded commit count.
func (m *InMem) SearchCommitCount(_ context.Context, query string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.commitCount == nil {
		return 0, fmt.Errorf("search unavailable for %q", query)
	}
	return *m.commitCount, nil
}

// GetReadme returns the seeded README; unseeded repositories report found=false.
func (m *InMem) GetReadme(_ context.Context, owner, repo string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readmeFetchCount++
	if m.readmeErr != nil {
		return "", false, m.readmeErr
	}
	content, ok := m.readmes[owner+"/"+repo]
	return content, ok, nil
}
