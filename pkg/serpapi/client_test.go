package serpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/gridscan/internal/model"
)

const sampleResponse = `{
	"organic_results": [
		{"position": 1, "title": "Competitor Plumbing", "link": "https://competitor.com", "snippet": "Fast service."},
		{"position": 2, "title": "My Biz", "link": "https://mybiz.com/services", "snippet": "Licensed and insured."}
	],
	"local_results": {
		"places": [
			{"position": 1, "title": "My Biz", "rating": 4.8, "reviews": 120, "website": "https://mybiz.com", "place_id": "abc123"}
		]
	}
}`

func TestSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "plumber near me", q.Get("q"))
		assert.Equal(t, "20", q.Get("num"))
		assert.Equal(t, "us", q.Get("gl"))
		assert.Equal(t, "en", q.Get("hl"))
		assert.Equal(t, "40.000000,-75.000000", q.Get("near"))
		assert.True(t, strings.HasPrefix(q.Get("uule"), "w+CAIQICI"), "uule %q", q.Get("uule"))
		assert.Equal(t, "desktop", q.Get("device"))
		assert.Equal(t, "test-key", q.Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.Search(context.Background(), model.SerpRequest{
		Keyword: "plumber near me",
		Lat:     40.0,
		Lng:     -75.0,
	})

	require.NoError(t, err)
	require.Len(t, resp.Organic, 2)
	assert.Equal(t, 1, resp.Organic[0].Position)
	assert.Equal(t, "https://competitor.com", resp.Organic[0].URL)
	assert.Equal(t, "Licensed and insured.", resp.Organic[1].Snippet)

	require.Len(t, resp.LocalPack, 1)
	assert.Equal(t, "My Biz", resp.LocalPack[0].Title)
	require.NotNil(t, resp.LocalPack[0].Rating)
	assert.InDelta(t, 4.8, *resp.LocalPack[0].Rating, 0.001)
	require.NotNil(t, resp.LocalPack[0].ReviewCount)
	assert.Equal(t, 120, *resp.LocalPack[0].ReviewCount)
	assert.Equal(t, "https://mybiz.com", resp.LocalPack[0].Website)

	assert.Contains(t, resp.Features, "local_pack")
}

func TestSearch_MissingKeyNoNetworkCall(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := NewClient("", WithBaseURL(srv.URL))
	resp, err := client.Search(context.Background(), model.SerpRequest{Keyword: "x"})

	assert.Nil(t, resp)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Zero(t, hits.Load(), "no request should be issued without credentials")
}

func TestSearch_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.Search(context.Background(), model.SerpRequest{Keyword: "x"})

	assert.Nil(t, resp)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusTooManyRequests, pe.Status)
	assert.Contains(t, pe.Body, "rate limited")
}

func TestSearch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // connection refused

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.Search(context.Background(), model.SerpRequest{Keyword: "x"})

	assert.Nil(t, resp)
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestSearch_CapsApplied(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"organic_results": [`)
	for i := 1; i <= 30; i++ {
		if i > 1 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"position": ` + itoa(i) + `, "title": "t", "link": "https://example.com"}`)
	}
	sb.WriteString(`], "local_results": {"places": [`)
	for i := 1; i <= 5; i++ {
		if i > 1 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"position": ` + itoa(i) + `, "title": "p"}`)
	}
	sb.WriteString(`]}}`)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sb.String()))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.Search(context.Background(), model.SerpRequest{Keyword: "x", NumResults: 30})

	require.NoError(t, err)
	assert.Len(t, resp.Organic, 20)
	assert.Len(t, resp.LocalPack, 3)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
