package profile

import "sort"

const (
	maxTopLanguages = 5
	maxRecentRepos  = 6
)

// RepositoryStats is the reduction of a repository list.
type RepositoryStats struct {
	TotalStars   int
	TotalForks   int
	TopLanguages []LanguageCount
	// TotalLanguageRepos is the sum of the TopLanguages counts, not the repository count.
	TotalLanguageRepos int
	RecentRepos        []Repository
}

// Aggregate computes totals, the language histogram and the most recently
// updated non-fork repositories. Totals include forks.
func Aggregate(repos []Repository) RepositoryStats {
	var stats RepositoryStats

	counts := make(map[string]int)
	var order []string
	for _, r := range repos {
		stats.TotalStars += r.Stargazers
		stats.TotalForks += r.Forks
		if r.Language == nil || *r.Language == "" {
			continue
		}
		if _, seen := counts[*r.Language]; !seen {
			order = append(order, *r.Language)
		}
		counts[*r.Language]++
	}

	languages := make([]LanguageCount, 0, len(order))
	for _, lang := range order {
		languages = append(languages, LanguageCount{Language: lang, Count: counts[lang]})
	}
	sort.SliceStable(languages, func(i, j int) bool {
		return languages[i].Count > languages[j].Count
	})
	if len(languages) > maxTopLanguages {
		languages = languages[:maxTopLanguages]
	}
	stats.TopLanguages = languages
	for _, l := range languages {
		stats.TotalLanguageRepos += l.Count
	}

	recent := make([]Repository, 0, len(repos))
	for _, r := range repos {
		if !r.IsFork {
			recent = append(recent, r)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].UpdatedAt.After(recent[j].UpdatedAt)
	})
	if len(recent) > maxRecentRepos {
		recent = recent[:maxRecentRepos]
	}
	stats.RecentRepos = recent

	return stats
}
