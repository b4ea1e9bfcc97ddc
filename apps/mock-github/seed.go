package main

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

func strp(s string) *string { return &s }

// seedAccounts populates the store with one account covering each README
// shape the extractor distinguishes. Called before the server accepts requests.
func seedAccounts(s *store) {
	const login = "octo-dev"
	day := func(m time.Month, d int) time.Time { return time.Date(2025, m, d, 12, 0, 0, 0, time.UTC) }

	s.users[login] = User{
		Login:       login,
		Name:        "Octo Developer",
		Bio:         "Builds small tools.",
		Location:    "Leeds",
		AvatarURL:   "https://avatars.example.com/u/1",
		Followers:   42,
		Following:   7,
		PublicRepos: 8,
		CreatedAt:   time.Date(2016, time.March, 3, 9, 0, 0, 0, time.UTC),
	}

	repos := []Repo{
		{Name: "ledger", Description: strp("Double-entry bookkeeping service"), Language: strp("Go"), StargazersCount: 31, ForksCount: 4, UpdatedAt: day(time.June, 2)},
		{Name: "tidy-notes", Description: strp(""), Language: strp("TypeScript"), StargazersCount: 12, ForksCount: 1, UpdatedAt: day(time.May, 28)},
		{Name: "badge-wall", Language: strp("Go"), StargazersCount: 3, UpdatedAt: day(time.May, 20)},
		{Name: "dotfiles", Description: strp("Shell configuration"), Language: strp("Shell"), StargazersCount: 1, UpdatedAt: day(time.May, 11)},
		{Name: "kube-fork", Description: strp("Fork for a patch"), Language: strp("Go"), Fork: true, StargazersCount: 0, UpdatedAt: day(time.June, 10)},
		{Name: "weather-cli", Description: strp("Forecasts in the terminal"), Language: strp("Rust"), StargazersCount: 8, ForksCount: 2, UpdatedAt: day(time.April, 3)},
		{Name: "plot-kit", Language: strp("Python"), StargazersCount: 5, UpdatedAt: day(time.February, 14)},
		{Name: "old-site", Description: strp("Personal site, 2019 edition"), StargazersCount: 0, UpdatedAt: time.Date(2019, time.August, 1, 0, 0, 0, 0, time.UTC)},
	}
	for i := range repos {
		repos[i].HTMLURL = fmt.Sprintf("https://github.com/%s/%s", login, repos[i].Name)
	}
	// GitHub returns sort=updated newest first.
	slices.SortStableFunc(repos, func(a, b Repo) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	s.repos[login] = repos

	s.readmes[login+"/ledger"] = strings.Join([]string{
		"# Ledger",
		"",
		"[![build](https://img.shields.io/badge/build-passing-green.svg)](https://ci.example.com)",
		"",
		"Ledger records **double-entry** transactions and exposes balances over a small HTTP API.",
		"It is built for [reproducible](https://example.com/repro) month-end closes.",
		"",
		"## Install",
		"",
		"```sh",
		"go install example.com/ledger@latest",
		"```",
	}, "\n")
	s.readmes[login+"/tidy-notes"] = "# tidy-notes\n\n- sorts notes\n- tags notes\n"
	s.readmes[login+"/badge-wall"] = "[![a](https://img.shields.io/a.svg)](x)\n[![b](https://img.shields.io/b.svg)](y)\n"
	s.readmes[login+"/weather-cli"] = "# weather-cli\n\nPrints a seven-day forecast for any city using open data sources.\n"
	// dotfiles and plot-kit have no README.

	s.contributions[login] = 1337
	s.commits[login] = 212
}

