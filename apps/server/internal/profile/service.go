package profile

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultPageSize is the repository page size; it is also the API maximum.
const DefaultPageSize = 100

var errEmptyUser = errors.New("empty user payload")

// Validate reports a ConfigurationError for missing credentials.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return ConfigurationError{Field: "token"}
	}
	if strings.TrimSpace(c.Username) == "" {
		return ConfigurationError{Field: "username"}
	}
	return nil
}

// Service orchestrates one profile aggregation per call. It holds no state
// that crosses invocations and is safe for concurrent use.
type Service struct {
	newSource     SourceFactory
	log           *slog.Logger
	pageSize      int
	estimatorOpts []EstimatorOption

	degraded metric.Int64Counter
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithPageSize sets the repository page size, clamped to 1..DefaultPageSize.
func WithPageSize(n int) ServiceOption {
	return func(s *Service) {
		s.pageSize = min(max(n, 1), DefaultPageSize)
	}
}

// WithEstimatorOptions forwards options to the contribution Estimator built per call.
func WithEstimatorOptions(opts ...EstimatorOption) ServiceOption {
	return func(s *Service) { s.estimatorOpts = append(s.estimatorOpts, opts...) }
}

// NewService creates a Service. newSource is called once per invocation with
// the caller's token, after the credentials have been validated.
func NewService(newSource SourceFactory, log *slog.Logger, opts ...ServiceOption) *Service {
	meter := otel.Meter(instrName)
	degraded, err := meter.Int64Counter("insights.readme.degraded",
		metric.WithDescription("README previews that fell back to a default"))
	if err != nil {
		log.Warn("readme degradation counter unavailable", "error", err)
	}

	s := &Service{
		newSource: newSource,
		log:       log,
		pageSize:  DefaultPageSize,
		degraded:  degraded,
	}
	for _, opt := range opts {
		opt(s)
	}
	// Appended last so the Estimator built per call reuses one instrument.
	s.estimatorOpts = append(s.estimatorOpts, withResolvedCounter(newResolvedCounter(meter, log)))
	return s
}

// BuildProfileSummary fetches the user and repositories, resolves the
// contribution count, aggregates repository statistics and enriches the most
// recently updated repositories with README previews.
//
// Only ConfigurationError and RemoteFetchError are returned; every other
// failure degrades to a default value.
func (s *Service) BuildProfileSummary(ctx context.Context, creds Credentials) (*ProfileSummary, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	log := s.log.With("runId", uuid.NewString(), "username", creds.Username)
	ctx, span := otel.Tracer(instrName).Start(ctx, "BuildProfileSummary",
		trace.WithAttributes(attribute.String("github.username", creds.Username)),
	)
	defer span.End()

	gh := s.newSource(creds.Token)

	user, repos, err := s.fetchPrimary(ctx, gh, creds.Username)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "primary fetch failed")
		log.Error("profile fetch failed", "error", err)
		return nil, err
	}

	contributions := NewEstimator(gh, log, s.estimatorOpts...).Estimate(ctx, creds.Username, repos)
	stats := Aggregate(repos)
	recent := s.enrich(ctx, gh, creds.Username, stats.RecentRepos, log)

	log.Info("profile summary built",
		"repos", len(repos),
		"recent", len(recent),
		"contributions", contributions.Count,
		"tier", contributions.Tier,
	)

	return &ProfileSummary{
		User:               *user,
		TotalStars:         stats.TotalStars,
		TotalForks:         stats.TotalForks,
		TopLanguages:       stats.TopLanguages,
		TotalLanguageRepos: stats.TotalLanguageRepos,
		RecentRepos:        recent,
		TotalContributions: contributions.Count,
	}, nil
}

// fetchPrimary loads the user and repository list in parallel. Either failure
// is terminal and reported as a RemoteFetchError.
func (s *Service) fetchPrimary(ctx context.Context, gh GitHub, username string) (*UserProfile, []Repository, error) {
	var (
		user  *UserProfile
		repos []Repository
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := gh.GetUser(gctx, username)
		if err == nil && u == nil {
			err = errEmptyUser
		}
		if err != nil {
			return RemoteFetchError{Op: "user", Err: err}
		}
		user = u
		return nil
	})
	g.Go(func() error {
		r, err := gh.ListRepositories(gctx, username, s.pageSize)
		if err != nil {
			return RemoteFetchError{Op: "repositories", Err: err}
		}
		repos = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return user, repos, nil
}

// enrich fetches README previews for repos concurrently. A failure for one
// repository only degrades that repository's preview.
func (s *Service) enrich(
	ctx context.Context,
	gh GitHub,
	owner string,
	repos []Repository,
	log *slog.Logger,
) []EnrichedRepository {
	out := make([]EnrichedRepository, len(repos))
	var g errgroup.Group
	for i, r := range repos {
		g.Go(func() error {
			out[i] = s.enrichOne(ctx, gh, owner, r, log)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // enrichOne never fails
	return out
}

func (s *Service) enrichOne(
	ctx context.Context,
	gh GitHub,
	owner string,
	r Repository,
	log *slog.Logger,
) EnrichedRepository {
	ctx, span := otel.Tracer(instrName).Start(ctx, "FetchReadme",
		trace.WithAttributes(attribute.String("repo.name", r.Name)),
	)
	defer span.End()

	er := EnrichedRepository{Repository: r, OriginalDescription: r.Description}

	content, found, err := gh.GetReadme(ctx, owner, r.Name)
	switch {
	case err != nil:
		span.RecordError(err)
		log.Warn("readme fetch degraded", "repo", r.Name, "error", err)
		s.degraded.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "error")))
		er.ReadmePreview = describeOr(r.Description, PlaceholderUnavailable)
	case !found:
		s.degraded.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "missing")))
		er.ReadmePreview = describeOr(r.Description, PlaceholderMissing)
	default:
		ex := ExtractExcerpt(content, r.Description)
		if !ex.IsReal {
			s.degraded.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "no_prose")))
		}
		er.ReadmePreview = ex.Preview
		er.HasRealReadme = ex.IsReal
	}
	return er
}
