// Package github builds authenticated go-github clients for the profile
// adapter in apps/server/internal/profile/adapters/github.
package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v75/github"
	"golang.org/x/oauth2"
)

const (
	defaultAPIURL  = "https://api.github.com"
	requestTimeout = 30 * time.Second
)

// NewTokenClient creates a *github.Client that sends token as a bearer
// credential. Pass baseURL="" to use the real GitHub API, or a custom URL
// (e.g. "http://localhost:9090") for apps/mock-github.
func NewTokenClient(token, baseURL string) *gogithub.Client {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: requestTimeout})
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	c := gogithub.NewClient(oauth2.NewClient(ctx, ts))
	applyBaseURL(c, baseURL)
	return c
}

func applyBaseURL(c *gogithub.Client, baseURL string) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" || baseURL == defaultAPIURL {
		return
	}
	u, err := url.Parse(baseURL + "/")
	if err != nil {
		return
	}
	c.BaseURL = u
}
