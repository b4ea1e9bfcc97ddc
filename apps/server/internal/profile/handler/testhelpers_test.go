package handler_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/tilsley/insights/apps/server/internal/platform/validation"
	"github.com/tilsley/insights/apps/server/internal/profile"
	"github.com/tilsley/insights/apps/server/internal/profile/adapters/github"
	"github.com/tilsley/insights/apps/server/internal/profile/cache"
	"github.com/tilsley/insights/apps/server/internal/profile/handler"
	"github.com/tilsley/insights/schemas"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func ptr[T any](v T) *T { return &v }

var creds = profile.Credentials{Token: "ghp_test", Username: "octo"}

// ─── testServer ───────────────────────────────────────────────────────────────

type testServer struct {
	router *gin.Engine
	gh     *github.InMem
	mr     *miniredis.Miniredis
}

type serverOpts struct {
	creds   profile.Credentials
	noCache bool
}

func newTestServer(t *testing.T, opts ...func(*serverOpts)) *testServer {
	t.Helper()
	o := serverOpts{creds: creds}
	for _, opt := range opts {
		opt(&o)
	}

	gh := seededInMem()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := profile.NewService(func(string) profile.GitHub { return gh }, log)

	ts := &testServer{gh: gh}
	var summaryCache handler.SummaryCache
	if !o.noCache {
		ts.mr = miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: ts.mr.Addr()})
		t.Cleanup(func() { rdb.Close() })
		summaryCache = cache.NewRedisSummaryCache(rdb, time.Minute)
	}

	mw, err := validation.New(schemas.OpenAPISpec)
	require.NoError(t, err)

	r := gin.New()
	r.Use(mw)
	handler.RegisterRoutes(r, svc, summaryCache, o.creds, log)
	ts.router = r
	return ts
}

func withoutCache(o *serverOpts) { o.noCache = true }

func withCreds(c profile.Credentials) func(*serverOpts) {
	return func(o *serverOpts) { o.creds = c }
}

func (ts *testServer) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func seededInMem() *github.InMem {
	gh := github.NewInMem()
	gh.SetUser(profile.UserProfile{Login: "octo", Name: "Octo Cat", PublicRepos: 3})
	gh.SetRepositories("octo", []profile.Repository{
		{
			Name:        "alpha",
			Language:    ptr("Go"),
			Stargazers:  7,
			Forks:       1,
			Description: ptr("Alpha service"),
			UpdatedAt:   time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:       "beta",
			Language:   ptr("TypeScript"),
			Stargazers: 2,
			UpdatedAt:  time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Name:       "upstream-fork",
			Language:   ptr("Go"),
			IsFork:     true,
			Stargazers: 40,
			Forks:      9,
			UpdatedAt:  time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
		},
	})
	gh.SetReadme("octo", "alpha", "# alpha\nAlpha routes requests between regional clusters.")
	gh.SetContributions(640)
	return gh
}
