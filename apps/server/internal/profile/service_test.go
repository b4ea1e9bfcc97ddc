package profile_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilsley/insights/apps/server/internal/profile"
)

var creds = profile.Credentials{Token: "ghp_test", Username: "octo"}

func newService(gh profile.GitHub, opts ...profile.ServiceOption) *profile.Service {
	opts = append(opts, profile.WithEstimatorOptions(
		profile.WithClock(func() time.Time { return fixedNow }),
	))
	return profile.NewService(func(string) profile.GitHub { return gh }, discardLogger(), opts...)
}

func sampleRepos() []profile.Repository {
	return []profile.Repository{
		{Name: "alpha", Language: ptr("Go"), Stargazers: 10, Forks: 1, UpdatedAt: day(9), Description: ptr("Alpha service")},
		{Name: "beta", Language: ptr("Go"), Stargazers: 3, Forks: 0, UpdatedAt: day(8)},
		{Name: "forked", Language: ptr("C"), IsFork: true, Stargazers: 100, Forks: 50, UpdatedAt: day(20)},
		{Name: "gamma", Language: ptr("Rust"), Stargazers: 0, Forks: 2, UpdatedAt: day(7), Description: ptr("Gamma lib")},
	}
}

// ─── Configuration ────────────────────────────────────────────────────────────

func TestBuildProfileSummary_MissingCredentials_NoNetworkCalls(t *testing.T) {
	cases := map[string]profile.Credentials{
		"no token":       {Username: "octo"},
		"no username":    {Token: "ghp_test"},
		"blank username": {Token: "ghp_test", Username: "   "},
		"both absent":    {},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			var built atomic.Int32
			svc := profile.NewService(func(string) profile.GitHub {
				built.Add(1)
				return &stubGitHub{}
			}, discardLogger())

			got, err := svc.BuildProfileSummary(context.Background(), c)

			require.Error(t, err)
			assert.Nil(t, got)
			var cfgErr profile.ConfigurationError
			assert.True(t, errors.As(err, &cfgErr))
			assert.Zero(t, built.Load())
		})
	}
}

func TestBuildProfileSummary_PassesTokenToFactory(t *testing.T) {
	var gotToken string
	svc := profile.NewService(func(token string) profile.GitHub {
		gotToken = token
		return &stubGitHub{}
	}, discardLogger())

	_, err := svc.BuildProfileSummary(context.Background(), creds)

	require.NoError(t, err)
	assert.Equal(t, "ghp_test", gotToken)
}

// ─── Primary fetch ────────────────────────────────────────────────────────────

func TestBuildProfileSummary_UserFetchFails_RemoteFetchError(t *testing.T) {
	gh := &stubGitHub{
		getUserFn: func(context.Context, string) (*profile.UserProfile, error) {
			return nil, errBoom
		},
	}

	got, err := newService(gh).BuildProfileSummary(context.Background(), creds)

	require.Error(t, err)
	assert.Nil(t, got)
	var fetchErr profile.RemoteFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "user", fetchErr.Op)
	assert.ErrorIs(t, err, errBoom)
}

func TestBuildProfileSummary_RepoFetchFails_RemoteFetchError(t *testing.T) {
	gh := &stubGitHub{
		listReposFn: func(context.Context, string, int) ([]profile.Repository, error) {
			return nil, errBoom
		},
	}

	got, err := newService(gh).BuildProfileSummary(context.Background(), creds)

	require.Error(t, err)
	assert.Nil(t, got)
	var fetchErr profile.RemoteFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "repositories", fetchErr.Op)
}

func TestBuildProfileSummary_NilUserIsRemoteFetchError(t *testing.T) {
	gh := &stubGitHub{
		getUserFn: func(context.Context, string) (*profile.UserProfile, error) {
			return nil, nil //nolint:nilnil // exercising a malformed adapter
		},
	}

	_, err := newService(gh).BuildProfileSummary(context.Background(), creds)

	var fetchErr profile.RemoteFetchError
	assert.True(t, errors.As(err, &fetchErr))
}

func TestBuildProfileSummary_PageSize(t *testing.T) {
	var gotPerPage int
	gh := &stubGitHub{
		listReposFn: func(_ context.Context, _ string, perPage int) ([]profile.Repository, error) {
			gotPerPage = perPage
			return nil, nil
		},
	}

	cases := map[int]int{
		500: profile.DefaultPageSize,
		30:  30,
		1:   1,
		0:   1,
		-5:  1,
	}
	for in, want := range cases {
		_, err := newService(gh, profile.WithPageSize(in)).BuildProfileSummary(context.Background(), creds)
		require.NoError(t, err)
		assert.Equal(t, want, gotPerPage, "WithPageSize(%d)", in)
	}
}

// ─── Assembly ─────────────────────────────────────────────────────────────────

func TestBuildProfileSummary_AssemblesSummary(t *testing.T) {
	gh := &stubGitHub{
		getUserFn: func(_ context.Context, username string) (*profile.UserProfile, error) {
			return &profile.UserProfile{Login: username, Name: "Octo Cat", Followers: 12}, nil
		},
		listReposFn: func(context.Context, string, int) ([]profile.Repository, error) {
			return sampleRepos(), nil
		},
		contributionFn: func(context.Context, string, time.Time, time.Time) (int, error) {
			return 321, nil
		},
		getReadmeFn: func(_ context.Context, owner, repo string) (string, bool, error) {
			assert.Equal(t, "octo", owner)
			switch repo {
			case "alpha":
				return "# alpha\nAlpha does a great many useful things for its users.", true, nil
			case "beta":
				return "", false, nil
			default:
				return "", false, errBoom
			}
		},
	}

	got, err := newService(gh).BuildProfileSummary(context.Background(), creds)
	require.NoError(t, err)

	assert.Equal(t, "Octo Cat", got.User.Name)
	assert.Equal(t, 113, got.TotalStars)
	assert.Equal(t, 53, got.TotalForks)
	assert.Equal(t, 321, got.TotalContributions)
	assert.Equal(t, []profile.LanguageCount{
		{Language: "Go", Count: 2},
		{Language: "C", Count: 1},
		{Language: "Rust", Count: 1},
	}, got.TopLanguages)
	assert.Equal(t, 4, got.TotalLanguageRepos)

	require.Len(t, got.RecentRepos, 3)

	alpha := got.RecentRepos[0]
	assert.Equal(t, "alpha", alpha.Name)
	assert.True(t, alpha.HasRealReadme)
	assert.Equal(t, "Alpha does a great many useful things for its users.", alpha.ReadmePreview)
	assert.Equal(t, "Alpha service", *alpha.OriginalDescription)

	beta := got.RecentRepos[1]
	assert.Equal(t, "beta", beta.Name)
	assert.False(t, beta.HasRealReadme)
	assert.Equal(t, profile.PlaceholderMissing, beta.ReadmePreview)
	assert.Nil(t, beta.OriginalDescription)

	gamma := got.RecentRepos[2]
	assert.Equal(t, "gamma", gamma.Name)
	assert.False(t, gamma.HasRealReadme)
	assert.Equal(t, "Gamma lib", gamma.ReadmePreview)
}

func TestBuildProfileSummary_ReadmeErrorWithoutDescription(t *testing.T) {
	gh := &stubGitHub{
		listReposFn: func(context.Context, string, int) ([]profile.Repository, error) {
			return []profile.Repository{{Name: "solo", UpdatedAt: day(1)}}, nil
		},
		getReadmeFn: func(context.Context, string, string) (string, bool, error) {
			return "", false, errBoom
		},
	}

	got, err := newService(gh).BuildProfileSummary(context.Background(), creds)
	require.NoError(t, err)

	require.Len(t, got.RecentRepos, 1)
	assert.Equal(t, profile.PlaceholderUnavailable, got.RecentRepos[0].ReadmePreview)
}

func TestBuildProfileSummary_EnrichesAtMostSixConcurrently(t *testing.T) {
	var repos []profile.Repository
	for i := range 9 {
		repos = append(repos, profile.Repository{Name: fmt.Sprintf("r%d", i), UpdatedAt: day(i + 1)})
	}

	var inFlight, peak, fetched atomic.Int32
	release := make(chan struct{})
	gh := &stubGitHub{
		listReposFn: func(context.Context, string, int) ([]profile.Repository, error) {
			return repos, nil
		},
		getReadmeFn: func(_ context.Context, _, repo string) (string, bool, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			if fetched.Add(1) == 6 {
				close(release)
			}
			<-release
			inFlight.Add(-1)
			return "# " + repo + "\nA readme body that is comfortably long enough to use.", true, nil
		},
	}

	got, err := newService(gh).BuildProfileSummary(context.Background(), creds)
	require.NoError(t, err)

	assert.Equal(t, int32(6), fetched.Load())
	assert.Equal(t, int32(6), peak.Load())
	require.Len(t, got.RecentRepos, 6)
	assert.Equal(t, "r8", got.RecentRepos[0].Name)
	for _, r := range got.RecentRepos {
		assert.True(t, r.HasRealReadme)
		assert.NotEmpty(t, strings.TrimSpace(r.ReadmePreview))
	}
}

func TestBuildProfileSummary_EveryPreviewNonEmpty(t *testing.T) {
	gh := &stubGitHub{
		listReposFn: func(context.Context, string, int) ([]profile.Repository, error) {
			return []profile.Repository{
				{Name: "a", UpdatedAt: day(3)},
				{Name: "b", UpdatedAt: day(2), Description: ptr("")},
				{Name: "c", UpdatedAt: day(1)},
			}, nil
		},
		getReadmeFn: func(_ context.Context, _, repo string) (string, bool, error) {
			switch repo {
			case "a":
				return "# a\n![img](x.png)", true, nil
			case "b":
				return "", false, nil
			default:
				return "", false, errBoom
			}
		},
	}

	got, err := newService(gh).BuildProfileSummary(context.Background(), creds)
	require.NoError(t, err)

	previews := []string{}
	for _, r := range got.RecentRepos {
		previews = append(previews, r.ReadmePreview)
	}
	assert.Equal(t, []string{
		profile.PlaceholderNoContent,
		profile.PlaceholderMissing,
		profile.PlaceholderUnavailable,
	}, previews)
}

func TestBuildProfileSummary_Idempotent(t *testing.T) {
	gh := &stubGitHub{
		listReposFn: func(context.Context, string, int) ([]profile.Repository, error) {
			return sampleRepos(), nil
		},
		searchCommitsFn: func(context.Context, string) (int, error) {
			return 9, nil
		},
		getReadmeFn: func(_ context.Context, _, repo string) (string, bool, error) {
			return "# " + repo + "\nSomething descriptive about " + repo + " goes here.", true, nil
		},
	}
	svc := newService(gh)

	first, err := svc.BuildProfileSummary(context.Background(), creds)
	require.NoError(t, err)
	second, err := svc.BuildProfileSummary(context.Background(), creds)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}
