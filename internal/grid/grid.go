// Package grid generates the square matrix of sample coordinates for a scan.
package grid

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/localpulse/gridscan/internal/model"
)

const (
	// MilesPerLatDegree is the approximate length of one degree of latitude.
	MilesPerLatDegree = 69.0
	// EarthRadiusMiles is the mean Earth radius used for great-circle distances.
	EarthRadiusMiles = 3959.0
)

// ValidSizes are the supported grid dimensions. Sizes are odd so the grid
// has a true center point.
var ValidSizes = []int{3, 5, 7}

// ValidRadii are the supported scan radii in miles.
var ValidRadii = []float64{1, 3, 5, 10, 15, 25}

// ValidateConfig checks a grid configuration and returns every violated
// constraint, so a caller can report all problems at once.
func ValidateConfig(cfg model.GridConfig) []string {
	var violations []string
	if !containsInt(ValidSizes, cfg.GridSize) {
		violations = append(violations, fmt.Sprintf("grid_size must be one of %v, got %d", ValidSizes, cfg.GridSize))
	}
	if !containsFloat(ValidRadii, cfg.RadiusMiles) {
		violations = append(violations, fmt.Sprintf("radius_miles must be one of %v, got %g", ValidRadii, cfg.RadiusMiles))
	}
	return violations
}

// Generate produces the gridSize² sample points centered on the given
// coordinate. The step between adjacent points is radius*2/(gridSize-1)
// miles. Row indexes are inverted so increasing north maps to decreasing
// row, matching a north-up visualization. Each point's distance from center
// is recomputed with the Haversine formula rather than reused from the
// planar offset; the two diverge at larger radii.
func Generate(centerLat, centerLng float64, cfg model.GridConfig) ([]model.GridPoint, error) {
	if violations := ValidateConfig(cfg); len(violations) > 0 {
		return nil, eris.Errorf("grid: invalid config: %v", violations)
	}

	half := cfg.GridSize / 2
	step := (cfg.RadiusMiles * 2) / float64(cfg.GridSize-1)
	center := geom.Coord{centerLng, centerLat}

	points := make([]model.GridPoint, 0, cfg.GridSize*cfg.GridSize)
	for row := 0; row < cfg.GridSize; row++ {
		for col := 0; col < cfg.GridSize; col++ {
			eastMiles := float64(col-half) * step
			northMiles := float64(half-row) * step

			latDelta := northMiles / MilesPerLatDegree
			// Longitude degrees compress away from the equator.
			lngDelta := eastMiles / (MilesPerLatDegree * math.Cos(centerLat*math.Pi/180))

			lat := center.Y() + latDelta
			lng := center.X() + lngDelta

			points = append(points, model.GridPoint{
				Row:                row,
				Col:                col,
				Lat:                lat,
				Lng:                lng,
				DistanceFromCenter: Haversine(centerLat, centerLng, lat, lng),
			})
		}
	}
	return points, nil
}

// Haversine returns the great-circle distance in miles between two coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	if lat1 == lat2 && lng1 == lng2 {
		return 0
	}
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMiles * c
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsFloat(xs []float64, x float64) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
