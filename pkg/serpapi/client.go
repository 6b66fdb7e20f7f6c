// Package serpapi is a client for the structured SERP provider endpoint:
// geo-targeted searches that return organic and local-pack result arrays
// directly, without markup parsing.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/localpulse/gridscan/internal/model"
)

const defaultBaseURL = "https://serpapi.com/search"

// Client performs structured geo-targeted SERP lookups.
type Client interface {
	Search(ctx context.Context, req model.SerpRequest) (*model.SerpResponse, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default provider endpoint.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a structured SERP client. The API key is checked at
// request time so a misconfigured client fails fast without a network call.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// searchResponse is the provider's wire shape before normalization.
type searchResponse struct {
	OrganicResults []struct {
		Position int    `json:"position"`
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
	} `json:"organic_results"`
	LocalResults struct {
		Places []struct {
			Position int      `json:"position"`
			Title    string   `json:"title"`
			Address  string   `json:"address"`
			Rating   *float64 `json:"rating"`
			Reviews  *int     `json:"reviews"`
			Phone    string   `json:"phone"`
			Website  string   `json:"website"`
			PlaceID  string   `json:"place_id"`
		} `json:"places"`
	} `json:"local_results"`
	SerpFeatures []string `json:"serp_features"`
}

func (c *httpClient) Search(ctx context.Context, sreq model.SerpRequest) (*model.SerpResponse, error) {
	if c.apiKey == "" {
		return nil, &ConfigError{Reason: "missing API key"}
	}

	num := sreq.NumResults
	if num <= 0 {
		num = 20
	}
	device := sreq.Device
	if device == "" {
		device = model.DeviceDesktop
	}

	q := url.Values{}
	q.Set("q", sreq.Keyword)
	q.Set("num", fmt.Sprintf("%d", num))
	q.Set("gl", "us")
	q.Set("hl", "en")
	q.Set("near", Near(sreq.Lat, sreq.Lng))
	q.Set("uule", BuildUULE(sreq.Lat, sreq.Lng))
	q.Set("device", string(device))
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "serpapi: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Status: resp.StatusCode, Body: string(body)}
	}

	var wire searchResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, eris.Wrap(err, "serpapi: unmarshal response")
	}

	return normalize(&wire), nil
}

// normalize converts the wire shape to the engine's response model,
// applying the organic (20) and local pack (3) caps.
func normalize(wire *searchResponse) *model.SerpResponse {
	out := &model.SerpResponse{Features: wire.SerpFeatures}

	for _, r := range wire.OrganicResults {
		if len(out.Organic) >= 20 {
			break
		}
		out.Organic = append(out.Organic, model.OrganicResult{
			Position: r.Position,
			Title:    r.Title,
			URL:      r.Link,
			Snippet:  r.Snippet,
		})
	}

	for _, p := range wire.LocalResults.Places {
		if len(out.LocalPack) >= 3 {
			break
		}
		out.LocalPack = append(out.LocalPack, model.LocalPackResult{
			Position:    p.Position,
			Title:       p.Title,
			Address:     p.Address,
			Rating:      p.Rating,
			ReviewCount: p.Reviews,
			Phone:       p.Phone,
			Website:     p.Website,
			PlaceID:     p.PlaceID,
		})
	}

	if len(wire.LocalResults.Places) > 0 && !containsFeature(out.Features, "local_pack") {
		out.Features = append(out.Features, "local_pack")
	}

	return out
}

func containsFeature(features []string, f string) bool {
	for _, v := range features {
		if v == f {
			return true
		}
	}
	return false
}
