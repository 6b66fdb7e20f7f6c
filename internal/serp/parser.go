// Package serp retrieves and normalizes geo-targeted search result pages.
// The structured provider endpoint is preferred; raw markup parsing is the
// degradation path when the structured endpoint fails.
package serp

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/localpulse/gridscan/internal/model"
)

// Parser converts raw result-page markup into a normalized response.
// Implementations are best-effort: a single match failure must never abort
// the rest of the page, because the upstream markup is unversioned and a
// partial extraction is strictly better than none.
type Parser interface {
	Parse(markup string) (*model.SerpResponse, error)
}

// HTMLParser extracts results with token patterns rather than a full markup
// engine, so a malformed page still yields whatever did parse.
type HTMLParser struct{}

// NewHTMLParser creates an HTMLParser.
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{}
}

const (
	maxOrganic   = 20
	maxLocalPack = 3
	// titleWindow bounds how far past an anchor we look for its heading;
	// the window is also cut at the next anchor so a truncated result
	// cannot swallow its neighbor.
	titleWindow = 300
	// snippetWindow bounds how far past an organic anchor we look for its
	// snippet before risking bleed into the next result block.
	snippetWindow = 600
)

var (
	anchorRe  = regexp.MustCompile(`(?i)<a[^>]+href="(https?://[^"]+)"[^>]*>`)
	titleRe   = regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`)
	snippetRe = regexp.MustCompile(`(?is)<(?:div|span)[^>]+class="[^"]*(?:VwiC3b|IsZvec|lyLwlc)[^"]*"[^>]*>(.*?)</(?:div|span)>`)

	localPackTitleRe  = regexp.MustCompile(`(?is)<(?:div|span)[^>]+class="[^"]*(?:dbg0pd|OSrXXb)[^"]*"[^>]*>(?:<span[^>]*>)?(.*?)</`)
	localPackRatingRe = regexp.MustCompile(`(\d\.\d)`)
	localPackReviewRe = regexp.MustCompile(`\((\d[\d,]*)\)`)

	tagRe = regexp.MustCompile(`<[^>]+>`)
)

// featureMarkers maps a coarse result-page feature to markup fragments whose
// presence signals it. Substring heuristics, deliberately loose.
var featureMarkers = map[string][]string{
	"local_pack":       {`rllt__`, `VkpGBb`, `class="rlfl__`},
	"featured_snippet": {`xpdopen`, `featured snippet`, `M8OgIe`},
	"people_also_ask":  {`related-question-pair`, `People also ask`},
	"shopping":         {`commercial-unit`, `sh-dgr__`},
	"knowledge_panel":  {`kp-wholepage`, `knowledge-panel`},
	"video":            {`video-voyager`, `Videos</`},
	"image_pack":       {`islrg`, `imagebox`},
}

// entityReplacer decodes the text entities the provider emits in titles and
// snippets.
var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
	"&nbsp;", " ",
)

// Parse extracts organic results, local pack entries, and page features.
// It never returns an error for partially-matching markup; the error return
// exists for implementations with stricter strategies.
func (p *HTMLParser) Parse(markup string) (*model.SerpResponse, error) {
	resp := &model.SerpResponse{
		Features: detectFeatures(markup),
	}

	log := zap.L().With(zap.String("component", "serp.parser"))

	seen := make(map[string]bool)
	matches := anchorRe.FindAllStringSubmatchIndex(markup, -1)
	for _, m := range matches {
		if len(resp.Organic) >= maxOrganic {
			break
		}
		href := markup[m[2]:m[3]]
		if excludedHref(href) || seen[href] {
			continue
		}

		title, ok := findTitle(markup, m[1])
		if !ok {
			// Anchors without a heading are sitelinks or truncated
			// fragments; skip them without giving up on the page.
			log.Debug("anchor without title, skipping", zap.String("href", href))
			continue
		}

		seen[href] = true
		resp.Organic = append(resp.Organic, model.OrganicResult{
			Position: len(resp.Organic) + 1,
			Title:    title,
			URL:      href,
			Snippet:  findSnippet(markup, m[1]),
		})
	}

	resp.LocalPack = parseLocalPack(markup)
	if len(resp.LocalPack) > 0 && !hasFeature(resp.Features, "local_pack") {
		resp.Features = append(resp.Features, "local_pack")
	}

	if len(resp.Organic) == 0 {
		log.Debug("no organic results extracted", zap.Int("markup_bytes", len(markup)))
	}

	return resp, nil
}

// excludedHref filters links into the search engine's own properties,
// cached-page links, and ad-click redirects.
func excludedHref(href string) bool {
	lower := strings.ToLower(href)
	for _, frag := range []string{
		"google.com/search",
		"google.com/url",
		"google.com/aclk",
		"googleadservices.com",
		"webcache.googleusercontent.com",
		"accounts.google.com",
		"support.google.com",
		"policies.google.com",
		"maps.google.com",
	} {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// findTitle extracts the heading inside the window after an anchor. The
// window stops at the next anchor so one malformed result cannot consume
// the rest of the page.
func findTitle(markup string, from int) (string, bool) {
	end := from + titleWindow
	if end > len(markup) {
		end = len(markup)
	}
	window := markup[from:end]
	if next := strings.Index(window, "<a "); next >= 0 {
		window = window[:next]
	}

	m := titleRe.FindStringSubmatch(window)
	if len(m) < 2 {
		return "", false
	}
	title := cleanText(m[1])
	if title == "" {
		return "", false
	}
	return title, true
}

// findSnippet looks for a snippet within a bounded window after an organic
// anchor match.
func findSnippet(markup string, from int) string {
	end := from + snippetWindow
	if end > len(markup) {
		end = len(markup)
	}
	m := snippetRe.FindStringSubmatch(markup[from:end])
	if len(m) < 2 {
		return ""
	}
	return cleanText(m[1])
}

// parseLocalPack extracts up to three local pack entries. Rating and review
// count are pulled from a bounded window after each title match.
func parseLocalPack(markup string) []model.LocalPackResult {
	titles := localPackTitleRe.FindAllStringSubmatchIndex(markup, -1)

	var entries []model.LocalPackResult
	for _, m := range titles {
		if len(entries) >= maxLocalPack {
			break
		}
		title := cleanText(markup[m[2]:m[3]])
		if title == "" {
			continue
		}

		entry := model.LocalPackResult{
			Position: len(entries) + 1,
			Title:    title,
		}

		windowEnd := m[1] + 300
		if windowEnd > len(markup) {
			windowEnd = len(markup)
		}
		window := markup[m[1]:windowEnd]

		if rm := localPackRatingRe.FindStringSubmatch(window); len(rm) > 1 {
			if v, ok := parseRating(rm[1]); ok {
				entry.Rating = &v
			}
		}
		if rm := localPackReviewRe.FindStringSubmatch(window); len(rm) > 1 {
			if n, ok := parseReviewCount(rm[1]); ok {
				entry.ReviewCount = &n
			}
		}

		entries = append(entries, entry)
	}
	return entries
}

func detectFeatures(markup string) []string {
	var features []string
	for _, feature := range []string{
		"local_pack", "featured_snippet", "people_also_ask",
		"shopping", "knowledge_panel", "video", "image_pack",
	} {
		for _, marker := range featureMarkers[feature] {
			if strings.Contains(markup, marker) {
				features = append(features, feature)
				break
			}
		}
	}
	return features
}

// cleanText strips residual tags, decodes entities, and trims whitespace.
func cleanText(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	return strings.TrimSpace(s)
}

func hasFeature(features []string, f string) bool {
	for _, v := range features {
		if v == f {
			return true
		}
	}
	return false
}

func parseRating(s string) (float64, bool) {
	// Ratings are a single digit, a dot, and a single digit.
	if len(s) != 3 || s[1] != '.' {
		return 0, false
	}
	whole := float64(s[0] - '0')
	frac := float64(s[2] - '0')
	if whole > 5 {
		return 0, false
	}
	return whole + frac/10, true
}

func parseReviewCount(s string) (int, bool) {
	n := 0
	seen := false
	for _, c := range s {
		if c == ',' {
			continue
		}
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		seen = true
	}
	return n, seen
}
