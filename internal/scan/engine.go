// Package scan orchestrates a grid scan: fan-out of one SERP fetch per grid
// point under bounded concurrency and a shared request-rate ceiling, with
// per-point failure tolerance and a single aggregate reduction at the end.
package scan

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/localpulse/gridscan/internal/grid"
	"github.com/localpulse/gridscan/internal/model"
	"github.com/localpulse/gridscan/internal/rank"
)

// SerpFetcher is the retrieval surface the engine fans out over. The
// production implementation is serp.Client; tests substitute their own.
type SerpFetcher interface {
	FetchStructuredSerp(ctx context.Context, req model.SerpRequest) (*model.SerpResponse, error)
}

// Progress is invoked after each point completes, successful or not.
type Progress func(completed, total int, point model.GridPoint)

// Request describes one grid scan.
type Request struct {
	Keyword      string           `json:"keyword"`
	TargetDomain string           `json:"target_domain"`
	CenterLat    float64          `json:"center_lat"`
	CenterLng    float64          `json:"center_lng"`
	Config       model.GridConfig `json:"config"`
	NumResults   int              `json:"num_results"`
	Device       model.Device     `json:"device"`
}

// Engine executes grid scans. Construct once with an injected fetcher; the
// only state shared across workers is the rate limiter's token bucket.
type Engine struct {
	fetcher     SerpFetcher
	limiter     *rate.Limiter
	concurrency int
}

// NewEngine creates an Engine. ratePerSec is the provider request-rate
// ceiling; the upstream both rate-limits and may penalize bursty concurrent
// access, so the exact ceiling is configuration, not a hard-coded guess.
func NewEngine(fetcher SerpFetcher, ratePerSec float64, concurrency int) *Engine {
	if ratePerSec <= 0 {
		ratePerSec = 2
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Engine{
		fetcher:     fetcher,
		limiter:     rate.NewLimiter(rate.Limit(ratePerSec), 1),
		concurrency: concurrency,
	}
}

// Run executes one scan. Configuration problems abort before any network
// activity; after that, a failed fetch for one point contributes a
// not-found result rather than failing the scan. Cancellation stops
// scheduling new points and lets in-flight requests finish.
func (e *Engine) Run(ctx context.Context, req Request, progress Progress) (*model.ScanResult, error) {
	if req.Keyword == "" {
		return nil, eris.New("scan: keyword is required")
	}
	if req.TargetDomain == "" {
		return nil, eris.New("scan: target_domain is required")
	}
	if violations := grid.ValidateConfig(req.Config); len(violations) > 0 {
		return nil, eris.Errorf("scan: invalid grid config: %v", violations)
	}

	points, err := grid.Generate(req.CenterLat, req.CenterLng, req.Config)
	if err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("keyword", req.Keyword),
		zap.String("target", req.TargetDomain),
		zap.Int("points", len(points)),
	)
	log.Info("starting grid scan")

	result := &model.ScanResult{
		ID:           uuid.New().String(),
		Keyword:      req.Keyword,
		TargetDomain: req.TargetDomain,
		Config:       req.Config,
		CenterLat:    req.CenterLat,
		CenterLng:    req.CenterLng,
		Points:       points,
		Ranks:        make([]model.RankResult, len(points)),
		StartedAt:    time.Now().UTC(),
	}

	var (
		mu        sync.Mutex
		completed int
		failed    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, point := range points {
		i, point := i, point
		// Stop scheduling new work once canceled; workers already running
		// finish naturally.
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			rr, fetchErr := e.scanPoint(gctx, req, point)
			if fetchErr != nil {
				log.Warn("point fetch failed",
					zap.Int("row", point.Row),
					zap.Int("col", point.Col),
					zap.Error(fetchErr),
				)
			}

			mu.Lock()
			result.Ranks[i] = rr
			if fetchErr != nil {
				failed++
			}
			completed++
			done := completed
			mu.Unlock()

			if progress != nil {
				progress(done, len(points), point)
			}
			return nil
		})
	}

	_ = g.Wait()

	result.Failed = failed
	result.Aggregate = rank.CalculateAggregateStats(result.Ranks, len(points))
	result.CompletedAt = time.Now().UTC()

	log.Info("grid scan complete",
		zap.Int("completed", completed),
		zap.Int("failed", failed),
		zap.Float64("visibility_score", result.Aggregate.VisibilityScore),
	)

	return result, ctx.Err()
}

// scanPoint fetches and evaluates a single grid point. Errors are returned
// alongside a zero-value (not-found) RankResult so the caller can count the
// failure without aborting the batch.
func (e *Engine) scanPoint(ctx context.Context, req Request, point model.GridPoint) (model.RankResult, error) {
	notFound := model.RankResult{TopCompetitors: []model.CompetitorResult{}}

	// Every worker acquires from the shared token bucket before issuing a
	// request.
	if err := e.limiter.Wait(ctx); err != nil {
		return notFound, eris.Wrap(err, "scan: rate limit wait")
	}

	resp, err := e.fetcher.FetchStructuredSerp(ctx, model.SerpRequest{
		Keyword:    req.Keyword,
		Lat:        point.Lat,
		Lng:        point.Lng,
		NumResults: req.NumResults,
		Device:     req.Device,
	})
	if err != nil {
		return notFound, err
	}

	return rank.ExtractRank(resp, req.TargetDomain), nil
}
