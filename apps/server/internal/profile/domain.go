package profile

import "time"

// Credentials identify the account to summarise and the token used to read it.
type Credentials struct {
	Token    string
	Username string
}

// UserProfile is a read-only snapshot of the remote user record.
type UserProfile struct {
	Login       string    `json:"login"       yaml:"login"`
	Name        string    `json:"name"        yaml:"name"`
	Bio         string    `json:"bio"         yaml:"bio"`
	Location    string    `json:"location"    yaml:"location"`
	AvatarURL   string    `json:"avatarUrl"   yaml:"avatarUrl"`
	Followers   int       `json:"followers"   yaml:"followers"`
	Following   int       `json:"following"   yaml:"following"`
	PublicRepos int       `json:"publicRepos" yaml:"publicRepos"`
	CreatedAt   time.Time `json:"createdAt"   yaml:"createdAt"`
}

// Repository is a single repository record as returned by the repository listing.
type Repository struct {
	Name        string    `json:"name"                  yaml:"name"`
	HTMLURL     string    `json:"htmlUrl"               yaml:"htmlUrl"`
	Description *string   `json:"description,omitempty" yaml:"description,omitempty"`
	Language    *string   `json:"language,omitempty"    yaml:"language,omitempty"`
	IsFork      bool      `json:"isFork"                yaml:"isFork"`
	Stargazers  int       `json:"stargazers"            yaml:"stargazers"`
	Forks       int       `json:"forks"                 yaml:"forks"`
	UpdatedAt   time.Time `json:"updatedAt"             yaml:"updatedAt"`
}

// EnrichedRepository is a Repository decorated with a README preview.
type EnrichedRepository struct {
	Repository          `yaml:",inline"`
	ReadmePreview       string  `json:"readmePreview"       yaml:"readmePreview"`
	HasRealReadme       bool    `json:"hasRealReadme"       yaml:"hasRealReadme"`
	OriginalDescription *string `json:"originalDescription" yaml:"originalDescription"`
}

// LanguageCount is one bucket of the language histogram.
type LanguageCount struct {
	Language string `json:"language" yaml:"language"`
	Count    int    `json:"count"    yaml:"count"`
}

// ContributionTier names the data source that produced a contribution count.
type ContributionTier string

const (
	TierExact       ContributionTier = "exact"
	TierApproximate ContributionTier = "approximate"
	TierEstimated   ContributionTier = "estimated"
)

// ContributionResult is the tagged outcome of the contribution estimator.
// Only Count reaches the ProfileSummary.
type ContributionResult struct {
	Count int
	Tier  ContributionTier
}

// ProfileSummary is the immutable output of one orchestrator invocation.
type ProfileSummary struct {
	User               UserProfile          `json:"user"               yaml:"user"`
	TotalStars         int                  `json:"totalStars"         yaml:"totalStars"`
	TotalForks         int                  `json:"totalForks"         yaml:"totalForks"`
	TopLanguages       []LanguageCount      `json:"topLanguages"       yaml:"topLanguages"`
	TotalLanguageRepos int                  `json:"totalLanguageRepos" yaml:"totalLanguageRepos"`
	RecentRepos        []EnrichedRepository `json:"recentRepos"        yaml:"recentRepos"`
	TotalContributions int                  `json:"totalContributions" yaml:"totalContributions"`
}
