package serp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkup = `<html><body>
<div class="g"><a href="https://competitor.com/page"><br><h3 class="LC20lb">Best Plumbers &amp; Co</h3></a>
<div class="VwiC3b yXK7lf">Top rated plumbing &amp; heating in town.</div></div>
<div class="g"><a href="https://www.mybiz.com/services"><h3>My Biz Plumbing</h3></a>
<div class="VwiC3b">Licensed &#39;round the clock&#39;.</div></div>
<a href="https://webcache.googleusercontent.com/search?q=cache:xyz"><h3>Cached Copy</h3></a>
<a href="https://www.google.com/search?q=related+searches"><h3>Related searches</h3></a>
<a href="https://www.googleadservices.com/pagead/aclk?sa=L"><h3>Sponsored Result</h3></a>
<div class="rlfl__tls">
<div class="dbg0pd"><span>Joe&#39;s Plumbing</span></div> 4.8 (120) · Plumber
<div class="dbg0pd"><span>My Biz Plumbing</span></div> 4.5 (87) · Plumber
</div>
<div class="related-question-pair">People also ask</div>
</body></html>`

func TestParse_Organic(t *testing.T) {
	resp, err := NewHTMLParser().Parse(sampleMarkup)
	require.NoError(t, err)

	require.Len(t, resp.Organic, 2)

	assert.Equal(t, 1, resp.Organic[0].Position)
	assert.Equal(t, "https://competitor.com/page", resp.Organic[0].URL)
	assert.Equal(t, "Best Plumbers & Co", resp.Organic[0].Title)
	assert.Equal(t, "Top rated plumbing & heating in town.", resp.Organic[0].Snippet)

	assert.Equal(t, 2, resp.Organic[1].Position)
	assert.Equal(t, "https://www.mybiz.com/services", resp.Organic[1].URL)
	assert.Equal(t, "Licensed 'round the clock'.", resp.Organic[1].Snippet)
}

func TestParse_ExcludesProviderLinks(t *testing.T) {
	resp, err := NewHTMLParser().Parse(sampleMarkup)
	require.NoError(t, err)

	for _, org := range resp.Organic {
		assert.NotContains(t, org.URL, "google")
		assert.NotContains(t, org.URL, "webcache")
	}
}

func TestParse_LocalPack(t *testing.T) {
	resp, err := NewHTMLParser().Parse(sampleMarkup)
	require.NoError(t, err)

	require.Len(t, resp.LocalPack, 2)
	assert.Equal(t, "Joe's Plumbing", resp.LocalPack[0].Title)
	assert.Equal(t, 1, resp.LocalPack[0].Position)
	require.NotNil(t, resp.LocalPack[0].Rating)
	assert.InDelta(t, 4.8, *resp.LocalPack[0].Rating, 0.001)
	require.NotNil(t, resp.LocalPack[0].ReviewCount)
	assert.Equal(t, 120, *resp.LocalPack[0].ReviewCount)

	assert.Equal(t, "My Biz Plumbing", resp.LocalPack[1].Title)
}

func TestParse_Features(t *testing.T) {
	resp, err := NewHTMLParser().Parse(sampleMarkup)
	require.NoError(t, err)

	assert.Contains(t, resp.Features, "local_pack")
	assert.Contains(t, resp.Features, "people_also_ask")
	assert.NotContains(t, resp.Features, "shopping")
}

func TestParse_EmptyPage(t *testing.T) {
	resp, err := NewHTMLParser().Parse("<html><body>nothing here</body></html>")
	require.NoError(t, err)

	assert.Empty(t, resp.Organic)
	assert.Empty(t, resp.LocalPack)
	assert.Empty(t, resp.Features)
}

func TestParse_MalformedFragmentDoesNotAbortPage(t *testing.T) {
	// A truncated anchor mid-page must not stop later results from parsing.
	markup := `<a href="https://first.com"><h3>First</h3></a>
<a href="https://broken.com"><h3>Broken
<a href="https://second.com/x"><h3>Second</h3></a>`

	resp, err := NewHTMLParser().Parse(markup)
	require.NoError(t, err)

	urls := make([]string, 0, len(resp.Organic))
	for _, org := range resp.Organic {
		urls = append(urls, org.URL)
	}
	assert.Contains(t, urls, "https://first.com")
	assert.Contains(t, urls, "https://second.com/x")
}

func TestParse_OrganicCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString(`<a href="https://example`)
		sb.WriteByte(byte('a' + i%26))
		sb.WriteString(`.com"><h3>Result</h3></a>`)
	}

	resp, err := NewHTMLParser().Parse(sb.String())
	require.NoError(t, err)
	assert.Len(t, resp.Organic, 20)
}

func TestParse_TitleTagsStripped(t *testing.T) {
	markup := `<a href="https://example.com"><h3>Best <em>Plumber</em> Ever</h3></a>`
	resp, err := NewHTMLParser().Parse(markup)
	require.NoError(t, err)

	require.Len(t, resp.Organic, 1)
	assert.Equal(t, "Best Plumber Ever", resp.Organic[0].Title)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, `"A & B" <ok>`, cleanText(`&quot;A &amp; B&quot; &lt;ok&gt;`))
	assert.Equal(t, "a b", cleanText("a&nbsp;b"))
	assert.Equal(t, "plain", cleanText("  plain  "))
}
