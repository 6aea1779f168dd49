package engine

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/velowise/velowise-api/internal/cache"
	"github.com/velowise/velowise-api/internal/database"
	"github.com/velowise/velowise-api/internal/domain"
	"github.com/velowise/velowise-api/internal/fusion"
	"github.com/velowise/velowise-api/internal/intent"
	"github.com/velowise/velowise-api/internal/resilience"
	"github.com/velowise/velowise-api/internal/scorer"
	"github.com/velowise/velowise-api/internal/similarity"
)

// Options tunes the engine. Zero values fall back to the defaults below.
type Options struct {
	CacheTTL        time.Duration
	PeerCap         int
	TrendWindowDays int
	ActivityLimit   int
}

const (
	defaultCacheTTL        = 5 * time.Minute
	defaultPeerCap         = 5
	defaultTrendWindowDays = 7
	defaultActivityLimit   = 20

	breakerThreshold = 3
	breakerCooldown  = 30 * time.Second
)

// Engine is the recommendation engine: it owns its cache and collaborator
// handles and exposes the four public operations. Explicitly constructed,
// no ambient globals.
type Engine struct {
	catalog   database.CatalogRepository
	users     database.UserRepository
	analytics database.AnalyticsRepository

	preference    scorer.Signal
	peerAffinity  scorer.Signal
	localityTrend scorer.Signal
	affordability scorer.Signal

	socialBreaker    *resilience.Breaker
	analyticsBreaker *resilience.Breaker

	classifier    *intent.Classifier
	results       *cache.ResultCache
	activityLimit int
}

// New wires an engine from its collaborators.
func New(
	catalog database.CatalogRepository,
	users database.UserRepository,
	social database.SocialRepository,
	analytics database.AnalyticsRepository,
	opts Options,
) *Engine {
	if opts.CacheTTL == 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.PeerCap <= 0 {
		opts.PeerCap = defaultPeerCap
	}
	if opts.TrendWindowDays <= 0 {
		opts.TrendWindowDays = defaultTrendWindowDays
	}
	if opts.ActivityLimit <= 0 {
		opts.ActivityLimit = defaultActivityLimit
	}

	return &Engine{
		catalog:   catalog,
		users:     users,
		analytics: analytics,

		preference:    scorer.NewPreferenceScorer(),
		peerAffinity:  scorer.NewPeerScorer(social, opts.PeerCap),
		localityTrend: scorer.NewTrendScorer(analytics, opts.TrendWindowDays),
		affordability: scorer.NewAffordabilityScorer(),

		socialBreaker:    resilience.NewBreaker("social", breakerThreshold, breakerCooldown),
		analyticsBreaker: resilience.NewBreaker("analytics", breakerThreshold, breakerCooldown),

		classifier:    intent.NewClassifier(intent.DefaultTable),
		results:       cache.New(opts.CacheTTL),
		activityLimit: opts.ActivityLimit,
	}
}

// Recommend returns the fused, ranked recommendation list for a user. A
// failing signal contributes nothing and is logged, never surfaced; the
// worst case is a short or empty list.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) ([]domain.ScoredResult, error) {
	key := cache.RecommendKey(userID, limit)
	if cached, ok := e.results.Get(key); ok {
		return cached, nil
	}

	rc := e.buildContext(ctx, userID)

	items, err := e.catalog.ListItems(ctx)
	if err != nil {
		log.Printf("[Engine] Warning: catalog unavailable, returning empty list: %v", err)
		return []domain.ScoredResult{}, nil
	}

	signals := e.runSignals(ctx, items, rc)
	results := fusion.Fuse(signals, items, limit)

	e.results.Set(key, results)
	return results, nil
}

// Similar ranks catalog items by attribute proximity to the reference item.
// An unknown id returns database.ErrNotFound, distinguishable from a known
// item with no similar matches (empty list, nil error).
func (e *Engine) Similar(ctx context.Context, itemID string, limit int) ([]domain.ScoredResult, error) {
	key := cache.SimilarKey(itemID, limit)
	if cached, ok := e.results.Get(key); ok {
		return cached, nil
	}

	reference, err := e.catalog.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	items, err := e.catalog.ListItems(ctx)
	if err != nil {
		log.Printf("[Engine] Warning: catalog unavailable for similar(%s): %v", itemID, err)
		return []domain.ScoredResult{}, nil
	}

	results := similarity.Rank(*reference, items, limit)
	e.results.Set(key, results)
	return results, nil
}

// ClassifyIntent maps a free-text query to an intent with suggested
// filters. Pure and uncached.
func (e *Engine) ClassifyIntent(query string) intent.Classification {
	return e.classifier.Classify(query)
}

// Invalidate drops one cached result.
func (e *Engine) Invalidate(key cache.Key) {
	e.results.Invalidate(key)
}

// InvalidateUser drops every cached list for a user, e.g. after a
// preference change.
func (e *Engine) InvalidateUser(userID string) {
	e.results.InvalidateSubject(userID)
}

// ClearCache drops all cached results.
func (e *Engine) ClearCache() {
	e.results.Clear()
}

// buildContext assembles the per-request context from the user store. Every
// lookup degrades to absent on failure: an anonymous or unknown user simply
// yields a context no scorer can act on.
func (e *Engine) buildContext(ctx context.Context, userID string) *domain.RecommendationContext {
	rc := &domain.RecommendationContext{}
	if userID == "" {
		return rc
	}

	user, err := e.users.GetUser(ctx, userID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return rc
	case err != nil:
		log.Printf("[Engine] Warning: user lookup failed for %s: %v", userID, err)
		return rc
	}

	rc.UserID = user.ID
	if user.City != "" || user.Province != "" {
		rc.Location = &domain.Location{City: user.City, Province: user.Province}
	}

	prefs, err := e.users.GetPreferences(ctx, userID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		// declared nothing yet
	case err != nil:
		log.Printf("[Engine] Warning: preference lookup failed for %s: %v", userID, err)
	default:
		rc.Preferences = prefs
	}

	activity, err := e.analytics.RecentActivity(ctx, userID, e.activityLimit)
	if err != nil {
		log.Printf("[Engine] Warning: activity lookup failed for %s: %v", userID, err)
	} else {
		rc.RecentActivity = activity
	}

	rc.Sanitize()
	return rc
}

// runSignals fans out over the four scorers. Each writes its own slot, so
// the fixed blend order survives the concurrency; a failed signal leaves
// its slot empty.
func (e *Engine) runSignals(ctx context.Context, items []domain.CatalogItem, rc *domain.RecommendationContext) fusion.Signals {
	var signals fusion.Signals

	run := func(sig scorer.Signal, breaker *resilience.Breaker, slot *[]domain.PartialScore) func() error {
		return func() error {
			var (
				scores []domain.PartialScore
				err    error
			)
			if breaker != nil {
				err = breaker.Do(func() error {
					scores, err = sig.Score(ctx, items, rc)
					return err
				})
			} else {
				scores, err = sig.Score(ctx, items, rc)
			}
			if err != nil {
				log.Printf("[Engine] Warning: %s signal degraded to empty: %v", sig.Name(), err)
				return nil
			}
			*slot = scores
			return nil
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(run(e.preference, nil, &signals.Preference))
	g.Go(run(e.peerAffinity, e.socialBreaker, &signals.PeerAffinity))
	g.Go(run(e.localityTrend, e.analyticsBreaker, &signals.LocalityTrend))
	g.Go(run(e.affordability, nil, &signals.Affordability))
	_ = g.Wait() // the scorer closures never return errors

	return signals
}
