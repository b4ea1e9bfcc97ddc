package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrName = "github.com/tilsley/insights"

// ContributionsPerActiveRepo is the per-repository multiplier of the estimated tier.
const ContributionsPerActiveRepo = 15

// DefaultEstimateCutoff is the activity cutoff used by the estimated tier.
var DefaultEstimateCutoff = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var errNegativeCount = errors.New("negative contribution count")

// Estimator resolves a contribution count through three tiers of decreasing
// precision. Tiers run strictly in order and a tier only runs after the
// previous one failed.
type Estimator struct {
	gh     GitHub
	log    *slog.Logger
	cutoff time.Time
	now    func() time.Time

	resolved metric.Int64Counter
}

// EstimatorOption customises an Estimator.
type EstimatorOption func(*Estimator)

// WithCutoff sets the activity cutoff used by the estimated tier.
func WithCutoff(t time.Time) EstimatorOption {
	return func(e *Estimator) { e.cutoff = t }
}

// WithClock replaces time.Now, which decides the calendar year queried.
func WithClock(now func() time.Time) EstimatorOption {
	return func(e *Estimator) { e.now = now }
}

func withResolvedCounter(c metric.Int64Counter) EstimatorOption {
	return func(e *Estimator) { e.resolved = c }
}

func newResolvedCounter(meter metric.Meter, log *slog.Logger) metric.Int64Counter {
	c, err := meter.Int64Counter("insights.contributions.resolved",
		metric.WithDescription("Contribution counts resolved, by tier"))
	if err != nil {
		log.Warn("contribution counter unavailable", "error", err)
	}
	return c
}

// NewEstimator creates an Estimator reading from gh.
func NewEstimator(gh GitHub, log *slog.Logger, opts ...EstimatorOption) *Estimator {
	e := &Estimator{
		gh:     gh,
		log:    log,
		cutoff: DefaultEstimateCutoff,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolved == nil {
		e.resolved = newResolvedCounter(otel.Meter(instrName), log)
	}
	return e
}

type remoteTier struct {
	tier ContributionTier
	run  func(ctx context.Context, username string, year int) (int, error)
}

// Estimate never fails: when both remote tiers degrade it falls back to
// EstimateFromActivity over repos.
func (e *Estimator) Estimate(ctx context.Context, username string, repos []Repository) ContributionResult {
	year := e.now().UTC().Year()

	tiers := []remoteTier{
		{tier: TierExact, run: e.exact},
		{tier: TierApproximate, run: e.approximate},
	}
	for _, t := range tiers {
		n, err := t.run(ctx, username, year)
		if err == nil && n < 0 {
			err = errNegativeCount
		}
		if err != nil {
			e.log.Warn("contribution tier degraded", "tier", t.tier, "username", username, "error", err)
			continue
		}
		return e.record(ctx, ContributionResult{Count: n, Tier: t.tier})
	}

	return e.record(ctx, ContributionResult{
		Count: EstimateFromActivity(repos, e.cutoff),
		Tier:  TierEstimated,
	})
}

func (e *Estimator) record(ctx context.Context, res ContributionResult) ContributionResult {
	e.resolved.Add(ctx, 1, metric.WithAttributes(attribute.String("tier", string(res.Tier))))
	e.log.Debug("contributions resolved", "tier", res.Tier, "count", res.Count)
	return res
}

func (e *Estimator) exact(ctx context.Context, username string, year int) (int, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	n, err := e.gh.ContributionTotal(ctx, username, from, to)
	if err != nil {
		return 0, fmt.Errorf("contribution calendar: %w", err)
	}
	return n, nil
}

func (e *Estimator) approximate(ctx context.Context, username string, year int) (int, error) {
	n, err := e.gh.SearchCommitCount(ctx, CommitSearchQuery(username, year))
	if err != nil {
		return 0, fmt.Errorf("commit search: %w", err)
	}
	return n, nil
}

// CommitSearchQuery builds the commit-search query for a user's commits in year.
func CommitSearchQuery(username string, year int) string {
	return fmt.Sprintf("author:%s author-date:%d-01-01..%d-12-31", username, year, year)
}

// EstimateFromActivity is the estimated tier: ContributionsPerActiveRepo for
// every non-fork repository updated on or after cutoff.
func EstimateFromActivity(repos []Repository, cutoff time.Time) int {
	active := 0
	for _, r := range repos {
		if !r.IsFork && !r.UpdatedAt.Before(cutoff) {
			active++
		}
	}
	return active * ContributionsPerActiveRepo
}
