package report

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/localpulse/gridscan/internal/model"
	"github.com/localpulse/gridscan/internal/rank"
)

// GeoJSON renders the scan as a FeatureCollection: one point feature per
// grid coordinate, with rank, tier, and visibility properties. Mapping
// tools consume this directly; no rendering happens here.
func GeoJSON(result *model.ScanResult) ([]byte, error) {
	features := make([]*geojson.Feature, 0, len(result.Points))

	for i, p := range result.Points {
		props := map[string]interface{}{
			"row":                  p.Row,
			"col":                  p.Col,
			"distance_from_center": p.DistanceFromCenter,
		}

		if i < len(result.Ranks) {
			rr := result.Ranks[i]
			props["tier"] = rank.GetTier(rr.OrganicRank)
			props["visibility"] = rank.PointVisibilityScore(rr.OrganicRank)
			props["in_local_pack"] = rr.InLocalPack
			if rr.OrganicRank != nil {
				props["organic_rank"] = *rr.OrganicRank
			}
			if rr.LocalPackRank != nil {
				props["local_pack_rank"] = *rr.LocalPackRank
			}
		}

		features = append(features, &geojson.Feature{
			Geometry:   geom.NewPointFlat(geom.XY, []float64{p.Lng, p.Lat}).SetSRID(4326),
			Properties: props,
		})
	}

	fc := &geojson.FeatureCollection{Features: features}
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, eris.Wrap(err, "report: encode geojson")
	}
	return data, nil
}
