package rank

import (
	"strings"

	"github.com/localpulse/gridscan/internal/model"
)

// maxCompetitors caps how many non-target domains are reported per point.
const maxCompetitors = 3

// Tier labels for GetTier.
const (
	TierNotFound  = "not_found"
	TierExcellent = "excellent"
	TierGood      = "good"
	TierModerate  = "moderate"
	TierPoor      = "poor"
	TierBad       = "bad"
)

// ExtractRank scans a normalized result set for the target domain and
// returns the point's rank evaluation. Organic results are scanned in
// position order and only the first (lowest-position) match counts; repeated
// appearances of a domain only count the best one.
func ExtractRank(resp *model.SerpResponse, targetDomain string) model.RankResult {
	result := model.RankResult{
		TopCompetitors: []model.CompetitorResult{},
	}
	if resp == nil {
		return result
	}
	result.Features = resp.Features

	for _, org := range resp.Organic {
		if DomainMatches(org.URL, targetDomain) {
			if result.OrganicRank == nil {
				pos := org.Position
				result.OrganicRank = &pos
				result.OrganicURL = org.URL
				result.OrganicTitle = org.Title
				result.OrganicSnippet = org.Snippet
			}
			continue
		}
		if len(result.TopCompetitors) < maxCompetitors {
			domain := org.Domain
			if domain == "" {
				domain = ExtractDomainFromURL(org.URL)
			}
			result.TopCompetitors = append(result.TopCompetitors, model.CompetitorResult{
				Domain:   domain,
				Position: org.Position,
				Title:    org.Title,
				URL:      org.URL,
			})
		}
	}

	targetNorm := NormalizeDomain(targetDomain)
	for _, entry := range resp.LocalPack {
		if matchesLocalPackEntry(entry, targetNorm) {
			pos := entry.Position
			result.LocalPackRank = &pos
			result.InLocalPack = true
			break
		}
	}

	return result
}

// matchesLocalPackEntry checks the entry's explicit website field first,
// falling back to a substring check against the title; many local pack
// entries omit a website.
func matchesLocalPackEntry(entry model.LocalPackResult, targetNorm string) bool {
	if entry.Website != "" {
		return DomainMatches(entry.Website, targetNorm)
	}
	if targetNorm == "" {
		return false
	}
	return strings.Contains(strings.ToLower(entry.Title), targetNorm)
}

// PointVisibilityScore maps a rank to a per-point score: 101-rank for ranks
// 1..100, else 0. Monotonically decreasing with a floor of 0.
func PointVisibilityScore(rank *int) int {
	if rank == nil {
		return 0
	}
	r := *rank
	if r < 1 || r > 100 {
		return 0
	}
	return 101 - r
}

// GetTier buckets a rank into a coarse quality label.
func GetTier(rank *int) string {
	switch {
	case rank == nil:
		return TierNotFound
	case *rank <= 3:
		return TierExcellent
	case *rank <= 10:
		return TierGood
	case *rank <= 20:
		return TierModerate
	case *rank <= 50:
		return TierPoor
	default:
		return TierBad
	}
}
