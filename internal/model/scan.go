// Package model defines the domain types shared across the grid scan engine.
package model

import "time"

// GridConfig describes the sampling grid for a scan. GridSize is always odd
// so a true center point exists.
type GridConfig struct {
	GridSize    int     `json:"grid_size" yaml:"grid_size"`
	RadiusMiles float64 `json:"radius_miles" yaml:"radius_miles"`
}

// GridPoint is a single sample coordinate in the grid. Points are immutable
// once generated; exactly one point per scan sits at DistanceFromCenter == 0.
type GridPoint struct {
	Row                int     `json:"row"`
	Col                int     `json:"col"`
	Lat                float64 `json:"lat"`
	Lng                float64 `json:"lng"`
	DistanceFromCenter float64 `json:"distance_from_center"`
}

// Device selects the SERP presentation requested from the provider.
type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceMobile  Device = "mobile"
)

// SerpRequest is one geo-targeted search request, transient per (point, keyword).
type SerpRequest struct {
	Keyword    string  `json:"keyword"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	NumResults int     `json:"num_results"`
	Device     Device  `json:"device"`
}

// OrganicResult is one organic listing on a results page.
type OrganicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Domain   string `json:"domain"`
	Snippet  string `json:"snippet,omitempty"`
}

// LocalPackResult is one entry in the map-anchored local pack.
type LocalPackResult struct {
	Position    int      `json:"position"`
	Title       string   `json:"title"`
	Address     string   `json:"address,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Website     string   `json:"website,omitempty"`
	PlaceID     string   `json:"place_id,omitempty"`
}

// SerpResponse is a normalized results page. Organic is ordered by ascending
// position (1 = top) and capped at 20 entries; LocalPack is capped at 3.
type SerpResponse struct {
	Organic   []OrganicResult   `json:"organic"`
	LocalPack []LocalPackResult `json:"local_pack"`
	Features  []string          `json:"serp_features"`
}

// CompetitorResult is a non-target domain appearing above or around the target.
type CompetitorResult struct {
	Domain   string `json:"domain"`
	Position int    `json:"position"`
	Title    string `json:"title"`
	URL      string `json:"url"`
}

// RankResult is one (point, keyword, target domain) evaluation. A nil
// OrganicRank means the target was not found in the organic listing.
type RankResult struct {
	OrganicRank    *int               `json:"organic_rank"`
	OrganicURL     string             `json:"organic_url,omitempty"`
	OrganicTitle   string             `json:"organic_title,omitempty"`
	OrganicSnippet string             `json:"organic_snippet,omitempty"`
	LocalPackRank  *int               `json:"local_pack_rank"`
	InLocalPack    bool               `json:"in_local_pack"`
	TopCompetitors []CompetitorResult `json:"top_competitors"`
	Features       []string           `json:"serp_features,omitempty"`
}

// AggregateStats summarizes all per-point results for a scan. Always
// recomputed fresh from the full result set, never mutated incrementally.
type AggregateStats struct {
	AvgRank              *float64 `json:"avg_rank"`
	BestRank             *int     `json:"best_rank"`
	WorstRank            *int     `json:"worst_rank"`
	PointsRanking        int      `json:"points_ranking"`
	PointsTop3           int      `json:"points_top3"`
	PointsTop10          int      `json:"points_top10"`
	PointsTop20          int      `json:"points_top20"`
	PointsNotFound       int      `json:"points_not_found"`
	TotalPoints          int      `json:"total_points"`
	PointsInLocalPack    int      `json:"points_in_local_pack"`
	AvgLocalPackPosition *float64 `json:"avg_local_pack_position"`
	VisibilityScore      float64  `json:"visibility_score"`
}

// ScanResult is the unit of output: one scan of a fixed (keyword, target
// domain, grid config) around a business location. Ranks[i] corresponds to
// Points[i]. Failed counts points whose fetch did not succeed; those carry a
// not-found RankResult rather than failing the scan.
type ScanResult struct {
	ID           string         `json:"id"`
	Keyword      string         `json:"keyword"`
	TargetDomain string         `json:"target_domain"`
	Config       GridConfig     `json:"config"`
	CenterLat    float64        `json:"center_lat"`
	CenterLng    float64        `json:"center_lng"`
	Points       []GridPoint    `json:"points"`
	Ranks        []RankResult   `json:"ranks"`
	Aggregate    AggregateStats `json:"aggregate"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  time.Time      `json:"completed_at"`
	Failed       int            `json:"failed"`
}
