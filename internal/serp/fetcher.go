package serp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/localpulse/gridscan/internal/model"
	"github.com/localpulse/gridscan/pkg/serpapi"
)

const (
	defaultRawBaseURL = "https://www.google.com/search"
	// The provider serves a degraded no-JS page to obvious bot agents; a
	// browser UA keeps the markup shape the parser expects.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxBodyBytes     = 2 * 1024 * 1024
)

// RawFetcher retrieves raw result-page markup for a geo-targeted query and
// delegates extraction to a Parser.
type RawFetcher struct {
	baseURL string
	http    *http.Client
	parser  Parser
}

// RawOption configures a RawFetcher.
type RawOption func(*RawFetcher)

// WithRawBaseURL overrides the provider search URL.
func WithRawBaseURL(u string) RawOption {
	return func(f *RawFetcher) {
		f.baseURL = u
	}
}

// WithRawHTTPClient overrides the default http.Client.
func WithRawHTTPClient(hc *http.Client) RawOption {
	return func(f *RawFetcher) {
		f.http = hc
	}
}

// NewRawFetcher creates a RawFetcher with the given parser.
func NewRawFetcher(parser Parser, opts ...RawOption) *RawFetcher {
	f := &RawFetcher{
		baseURL: defaultRawBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
		parser: parser,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fetch issues one geo-targeted search and parses the returned markup.
// The uule token pins the provider to the requested coordinate; the near
// parameter is the human-readable hint sent alongside it.
func (f *RawFetcher) Fetch(ctx context.Context, sreq model.SerpRequest) (*model.SerpResponse, error) {
	num := sreq.NumResults
	if num <= 0 {
		num = 20
	}

	q := url.Values{}
	q.Set("q", sreq.Keyword)
	q.Set("num", fmt.Sprintf("%d", num))
	q.Set("gl", "us")
	q.Set("hl", "en")
	q.Set("near", serpapi.Near(sreq.Lat, sreq.Lng))
	q.Set("uule", serpapi.BuildUULE(sreq.Lat, sreq.Lng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "serp: create raw request")
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, &serpapi.TransportError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &serpapi.TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &serpapi.ProviderError{Status: resp.StatusCode, Body: truncate(string(body), 512)}
	}

	parsed, err := f.parser.Parse(string(body))
	if err != nil {
		return nil, eris.Wrap(err, "serp: parse markup")
	}

	zap.L().Debug("raw serp fetched",
		zap.String("keyword", sreq.Keyword),
		zap.Float64("lat", sreq.Lat),
		zap.Float64("lng", sreq.Lng),
		zap.Int("organic", len(parsed.Organic)),
		zap.Int("local_pack", len(parsed.LocalPack)),
	)

	return parsed, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
