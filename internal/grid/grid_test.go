package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/gridscan/internal/model"
)

func TestGenerate_3x3(t *testing.T) {
	points, err := Generate(40.0, -75.0, model.GridConfig{GridSize: 3, RadiusMiles: 5})
	require.NoError(t, err)
	require.Len(t, points, 9)

	// Exactly one center point at distance 0.
	var centers int
	for _, p := range points {
		assert.GreaterOrEqual(t, p.DistanceFromCenter, 0.0)
		if p.DistanceFromCenter == 0 {
			centers++
			assert.Equal(t, 1, p.Row)
			assert.Equal(t, 1, p.Col)
			assert.InDelta(t, 40.0, p.Lat, 1e-9)
			assert.InDelta(t, -75.0, p.Lng, 1e-9)
		}
	}
	assert.Equal(t, 1, centers)

	// Step is 5 miles: edge-adjacent points sit ~5 miles out, corners ~7.07.
	top := points[1] // row 0, col 1
	assert.InDelta(t, 5.0, top.DistanceFromCenter, 0.05)

	corner := points[0] // row 0, col 0
	assert.InDelta(t, 5*math.Sqrt2, corner.DistanceFromCenter, 0.1)
}

func TestGenerate_RowInversion(t *testing.T) {
	// Row 0 is the north edge: its latitude must exceed the center's.
	points, err := Generate(40.0, -75.0, model.GridConfig{GridSize: 3, RadiusMiles: 5})
	require.NoError(t, err)

	assert.Greater(t, points[0].Lat, 40.0, "row 0 should be north of center")
	assert.Less(t, points[8].Lat, 40.0, "last row should be south of center")
	assert.Less(t, points[0].Lng, -75.0, "col 0 should be west of center")
	assert.Greater(t, points[2].Lng, -75.0, "last col should be east of center")
}

func TestGenerate_AllSizes(t *testing.T) {
	for _, size := range ValidSizes {
		for _, radius := range ValidRadii {
			points, err := Generate(34.05, -118.24, model.GridConfig{GridSize: size, RadiusMiles: radius})
			require.NoError(t, err)
			assert.Len(t, points, size*size)

			maxDist := radius*math.Sqrt2 + 0.25
			var centers int
			for _, p := range points {
				assert.LessOrEqual(t, p.DistanceFromCenter, maxDist,
					"size %d radius %g point (%d,%d)", size, radius, p.Row, p.Col)
				if p.DistanceFromCenter == 0 {
					centers++
				}
			}
			assert.Equal(t, 1, centers, "size %d radius %g", size, radius)
		}
	}
}

func TestGenerate_LongitudeCompression(t *testing.T) {
	// At 60°N a degree of longitude is half as long, so the same east
	// offset spans about twice as many degrees as at the equator.
	north, err := Generate(60.0, 10.0, model.GridConfig{GridSize: 3, RadiusMiles: 5})
	require.NoError(t, err)
	equator, err := Generate(0.0, 10.0, model.GridConfig{GridSize: 3, RadiusMiles: 5})
	require.NoError(t, err)

	northSpan := north[2].Lng - north[0].Lng
	equatorSpan := equator[2].Lng - equator[0].Lng
	assert.InDelta(t, 2.0, northSpan/equatorSpan, 0.05)
}

func TestGenerate_InvalidConfig(t *testing.T) {
	_, err := Generate(40.0, -75.0, model.GridConfig{GridSize: 4, RadiusMiles: 5})
	assert.Error(t, err)
}

func TestValidateConfig_ReportsAllViolations(t *testing.T) {
	violations := ValidateConfig(model.GridConfig{GridSize: 4, RadiusMiles: 2})
	assert.Len(t, violations, 2)

	violations = ValidateConfig(model.GridConfig{GridSize: 5, RadiusMiles: 2})
	assert.Len(t, violations, 1)

	violations = ValidateConfig(model.GridConfig{GridSize: 5, RadiusMiles: 10})
	assert.Empty(t, violations)
}

func TestHaversine(t *testing.T) {
	// Same point.
	assert.Zero(t, Haversine(40.0, -75.0, 40.0, -75.0))

	// One degree of latitude is about 69 miles.
	d := Haversine(40.0, -75.0, 41.0, -75.0)
	assert.InDelta(t, 69.0, d, 0.2)

	// NYC to LA is roughly 2445 miles great-circle.
	d = Haversine(40.7128, -74.0060, 34.0522, -118.2437)
	assert.InDelta(t, 2445, d, 15)
}
