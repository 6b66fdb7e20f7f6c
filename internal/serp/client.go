package serp

import (
	"context"

	"go.uber.org/zap"

	"github.com/localpulse/gridscan/internal/model"
	"github.com/localpulse/gridscan/internal/rank"
	"github.com/localpulse/gridscan/pkg/serpapi"
)

// Client is the engine's SERP retrieval surface: a structured-data path with
// a transparent raw-markup fallback. Construct one per run and pass it by
// reference into the batch executor; it holds no mutable state beyond the
// underlying HTTP clients.
type Client struct {
	structured serpapi.Client
	raw        *RawFetcher
}

// NewClient creates a Client. structured may be nil, in which case only the
// raw path is used.
func NewClient(structured serpapi.Client, raw *RawFetcher) *Client {
	return &Client{
		structured: structured,
		raw:        raw,
	}
}

// FetchGeoTargetedSerp retrieves one result set via the raw markup path.
func (c *Client) FetchGeoTargetedSerp(ctx context.Context, req model.SerpRequest) (*model.SerpResponse, error) {
	resp, err := c.raw.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	fillDomains(resp)
	return resp, nil
}

// FetchStructuredSerp tries the structured endpoint first and falls back to
// the raw path on provider or transport failure. A missing-credential error
// never falls back: retrying without credentials cannot succeed.
func (c *Client) FetchStructuredSerp(ctx context.Context, req model.SerpRequest) (*model.SerpResponse, error) {
	if c.structured == nil {
		return c.FetchGeoTargetedSerp(ctx, req)
	}

	resp, err := c.structured.Search(ctx, req)
	if err == nil {
		fillDomains(resp)
		return resp, nil
	}

	if !serpapi.IsFallbackable(err) {
		return nil, err
	}

	zap.L().Debug("structured serp failed, falling back to raw path",
		zap.String("keyword", req.Keyword),
		zap.Float64("lat", req.Lat),
		zap.Float64("lng", req.Lng),
		zap.Error(err),
	)

	return c.FetchGeoTargetedSerp(ctx, req)
}

// fillDomains derives the normalized domain for each organic entry so
// downstream matching does not re-parse URLs per comparison.
func fillDomains(resp *model.SerpResponse) {
	for i := range resp.Organic {
		if resp.Organic[i].Domain == "" {
			resp.Organic[i].Domain = rank.ExtractDomainFromURL(resp.Organic[i].URL)
		}
	}
}
