package main

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// User is the subset of GitHub's user object the insights server reads.
type User struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	AvatarURL   string    `json:"avatar_url"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"public_repos"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repo is the subset of GitHub's repository object the insights server reads.
type Repo struct {
	Name            string    `json:"name"`
	HTMLURL         string    `json:"html_url"`
	Description     *string   `json:"description"`
	Language        *string   `json:"language"`
	Fork            bool      `json:"fork"`
	StargazersCount int       `json:"stargazers_count"`
	ForksCount      int       `json:"forks_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// failures switches individual contribution tiers off so the server's
// fallback chain can be exercised end to end.
type failures struct {
	graphQL bool
	search  bool
}

// store holds seeded accounts keyed by lowercase login.
type store struct {
	mu            sync.RWMutex
	users         map[string]User
	repos         map[string][]Repo
	readmes       map[string]string // key: "owner/repo"
	contributions map[string]int
	commits       map[string]int
}

func newStore() *store {
	return &store{
		users:         make(map[string]User),
		repos:         make(map[string][]Repo),
		readmes:       make(map[string]string),
		contributions: make(map[string]int),
		commits:       make(map[string]int),
	}
}

func (s *store) user(login string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[strings.ToLower(login)]
	return u, ok
}

func (s *store) listRepos(login string, perPage int) ([]Repo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := strings.ToLower(login)
	if _, ok := s.users[key]; !ok {
		return nil, false
	}
	repos := s.repos[key]
	if perPage > 0 && len(repos) > perPage {
		repos = repos[:perPage]
	}
	out := make([]Repo, len(repos))
	copy(out, repos)
	return out, true
}

func (s *store) readme(owner, repo string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.readmes[strings.ToLower(owner+"/"+repo)]
	return content, ok
}

func (s *store) contributionTotal(login string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.contributions[strings.ToLower(login)]
	return n, ok
}

// commitCount answers "author:<login> ..." queries; other qualifiers are ignored.
func (s *store) commitCount(query string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, field := range strings.Fields(query) {
		if login, ok := strings.CutPrefix(field, "author:"); ok {
			return s.commits[strings.ToLower(login)]
		}
	}
	return 0
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	s := newStore()

	seedAccounts(s)
	log.Info("seeded accounts", "users", len(s.users))

	fail := failures{
		graphQL: os.Getenv("MOCK_FAIL_GRAPHQL") == "true",
		search:  os.Getenv("MOCK_FAIL_SEARCH") == "true",
	}

	r := gin.Default()
	registerAPIRoutes(r, s, fail, log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "9090"
	}

	log.Info("mock-github starting", "port", port, "failGraphQL", fail.graphQL, "failSearch", fail.search)
	if err := r.Run(":" + port); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func registerAPIRoutes(r *gin.Engine, s *store, fail failures, log *slog.Logger) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/users/:user", func(c *gin.Context) {
		u, ok := s.user(c.Param("user"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return
		}
		c.JSON(http.StatusOK, u)
	})

	r.GET("/users/:user/repos", func(c *gin.Context) {
		perPage := 30
		if v := c.Query("per_page"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid per_page"})
				return
			}
			perPage = n
		}
		repos, ok := s.listRepos(c.Param("user"), perPage)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return
		}
		c.JSON(http.StatusOK, repos)
	})

	// README endpoint (GitHub-compatible shape): base64 content or 404.
	r.GET("/repos/:owner/:repo/readme", func(c *gin.Context) {
		owner, repo := c.Param("owner"), c.Param("repo")
		content, ok := s.readme(owner, repo)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"type":     "file",
			"name":     "README.md",
			"path":     "README.md",
			"content":  base64.StdEncoding.EncodeToString([]byte(content)),
			"encoding": "base64",
		})
	})

	r.POST("/graphql", func(c *gin.Context) {
		if fail.graphQL {
			c.JSON(http.StatusBadGateway, gin.H{"message": "graphql disabled by MOCK_FAIL_GRAPHQL"})
			return
		}
		var req graphQLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		login, _ := req.Variables["username"].(string)
		total, ok := s.contributionTotal(login)
		if !ok {
			c.JSON(http.StatusOK, gin.H{
				"data":   gin.H{"user": nil},
				"errors": []gin.H{{"message": fmt.Sprintf("Could not resolve to a User with the login of '%s'.", login)}},
			})
			return
		}
		log.Info("graphql contributions", "login", login, "total", total)
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{"user": gin.H{"contributionsCollection": gin.H{
				"contributionCalendar": gin.H{"totalContributions": total},
			}}},
		})
	})

	r.GET("/search/commits", func(c *gin.Context) {
		if fail.search {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "search disabled by MOCK_FAIL_SEARCH"})
			return
		}
		q := c.Query("q")
		total := s.commitCount(q)
		log.Info("commit search", "q", q, "total", total)
		c.JSON(http.StatusOK, gin.H{
			"total_count":        total,
			"incomplete_results": false,
			"items":              []any{},
		})
	})
}
