// Package github implements the profile.GitHub port using the official
// go-github library. Wire it up with an authenticated *github.Client from
// apps/server/internal/platform/github.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gogithub "github.com/google/go-github/v75/github"

	"github.com/tilsley/insights/apps/server/internal/profile"
)

// Compile-time check: *Adapter implements profile.GitHub.
var _ profile.GitHub = (*Adapter)(nil)

const contributionQuery = `query($username: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $username) {
    contributionsCollection(from: $from, to: $to) {
      contributionCalendar {
        totalContributions
      }
    }
  }
}`

var errNoContributionData = errors.New("graphql response has no contribution data")

// Adapter wraps a go-github client. REST endpoints go through the typed
// services; the contribution calendar goes through the GraphQL endpoint on
// the same client so it shares the auth transport.
type Adapter struct {
	gh *gogithub.Client
}

// New creates an Adapter from an authenticated *github.Client.
func New(gh *gogithub.Client) *Adapter {
	return &Adapter{gh: gh}
}

// GetUser fetches the public profile for username.
func (a *Adapter) GetUser(ctx context.Context, username string) (*profile.UserProfile, error) {
	u, _, err := a.gh.Users.Get(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}
	return &profile.UserProfile{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		Bio:         u.GetBio(),
		Location:    u.GetLocation(),
		AvatarURL:   u.GetAvatarURL(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		PublicRepos: u.GetPublicRepos(),
		CreatedAt:   u.GetCreatedAt().Time,
	}, nil
}

// ListRepositories returns a single page of the user's repositories, most
// recently updated first.
func (a *Adapter) ListRepositories(ctx context.Context, username string, perPage int) ([]profile.Repository, error) {
	repos, _, err := a.gh.Repositories.ListByUser(ctx, username, &gogithub.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: gogithub.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, fmt.Errorf("list repositories for %s: %w", username, err)
	}

	out := make([]profile.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, profile.Repository{
			Name:        r.GetName(),
			HTMLURL:     r.GetHTMLURL(),
			Description: r.Description,
			Language:    r.Language,
			IsFork:      r.GetFork(),
			Stargazers:  r.GetStargazersCount(),
			Forks:       r.GetForksCount(),
			UpdatedAt:   r.GetUpdatedAt().Time,
		})
	}
	return out, nil
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type contributionResponse struct {
	Data *struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					TotalContributions *int `json:"totalContributions"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ContributionTotal queries the GraphQL contribution calendar for [from, to].
func (a *Adapter) ContributionTotal(ctx context.Context, username string, from, to time.Time) (int, error) {
	req, err := a.gh.NewRequest(http.MethodPost, "graphql", graphQLRequest{
		Query: contributionQuery,
		Variables: map[string]any{
			"username": username,
			"from":     from.UTC().Format(time.RFC3339),
			"to":       to.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return 0, fmt.Errorf("build graphql request: %w", err)
	}

	var resp contributionResponse
	if _, err := a.gh.Do(ctx, req, &resp); err != nil {
		return 0, fmt.Errorf("POST graphql: %w", err)
	}
	if len(resp.Errors) > 0 {
		return 0, fmt.Errorf("graphql: %s", resp.Errors[0].Message)
	}
	if resp.Data == nil || resp.Data.User == nil ||
		resp.Data.User.ContributionsCollection.ContributionCalendar.TotalContributions == nil {
		return 0, errNoContributionData
	}
	return *resp.Data.User.ContributionsCollection.ContributionCalendar.TotalContributions, nil
}

// SearchCommitCount runs a commit search and returns the reported total.
// Only one result is requested since the items themselves are unused.
func (a *Adapter) SearchCommitCount(ctx context.Context, query string) (int, error) {
	res, _, err := a.gh.Search.Commits(ctx, query, &gogithub.SearchOptions{
		ListOptions: gogithub.ListOptions{PerPage: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("search commits %q: %w", query, err)
	}
	if res == nil || res.Total == nil {
		return 0, fmt.Errorf("search commits %q: response has no total_count", query)
	}
	return res.GetTotal(), nil
}

// GetReadme fetches and decodes the repository README. A 404 is reported as
// found=false rather than an error.
func (a *Adapter) GetReadme(ctx context.Context, owner, repo string) (string, bool, error) {
	rc, resp, err := a.gh.Repositories.GetReadme(ctx, owner, repo, nil)
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get readme %s/%s: %w", owner, repo, err)
	}
	if rc == nil {
		return "", false, nil
	}
	content, err := rc.GetContent()
	if err != nil {
		return "", false, fmt.Errorf("decode readme %s/%s: %w", owner, repo, err)
	}
	return content, true, nil
}
