package collision

import (
	"math"
	"testing"

	"coursemap/internal/exporter/geo"
	"coursemap/internal/exporter/models"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDensityFromPoints(t *testing.T) {
	tests := []struct {
		name   string
		pts    []geo.Point
		marker float64
		label  float64
	}{
		{"no points", nil, 1, 1},
		{"one point", []geo.Point{{X: 10, Y: 10}}, 1, 1},
		{"far apart", []geo.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}, 1, 1},
		{"exactly ideal", []geo.Point{{X: 0, Y: 0}, {X: 70, Y: 0}}, 1, 1},
		{"half ideal", []geo.Point{{X: 0, Y: 0}, {X: 35, Y: 0}}, 0.75, 0.8},
		{"stacked", []geo.Point{{X: 5, Y: 5}, {X: 5, Y: 5}, {X: 200, Y: 200}}, 0.5, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DensityFromPoints(tt.pts)
			assert.InDelta(t, tt.marker, m.MarkerScale, 1e-9)
			assert.InDelta(t, tt.label, m.LabelScale, 1e-9)
		})
	}
}

func TestDensityScalesStayBounded(t *testing.T) {
	for d := 0.0; d <= 200; d += 3.7 {
		m := DensityFromPoints([]geo.Point{{X: 0, Y: 0}, {X: d, Y: 0}, {X: 1000, Y: 1000}})
		assert.GreaterOrEqual(t, m.MarkerScale, 0.5)
		assert.LessOrEqual(t, m.MarkerScale, 1.0)
		assert.GreaterOrEqual(t, m.LabelScale, 0.6)
		assert.LessOrEqual(t, m.LabelScale, 1.0)
	}
}

func TestCalculateDensityMetricsUsesPointKinds(t *testing.T) {
	tr, err := geo.NewTransform(geo.Viewport{Width: 100, Height: 100, Bounds: geo.Bounds{MinLng: 0, MaxLng: 0.001, MinLat: 0, MaxLat: 0.001}})
	require.NoError(t, err)

	features := []models.Feature{
		{ID: "t", Geometry: orb.Point{0, 0}, Props: models.TeeProps{}},
		{ID: "b", Geometry: orb.Point{0.0001, 0}, Props: models.BasketProps{}},
		{ID: "tree", Geometry: orb.Point{0.00005, 0}, Props: models.TreeProps{}},
		{ID: "line", Geometry: orb.LineString{{0, 0}, {0.001, 0}}, Props: models.FlightLineProps{}},
	}
	m := CalculateDensityMetrics(features, tr)
	assert.Equal(t, 2, m.PointCount)
	assert.InDelta(t, 10, m.MinDistance, 0.01)
}

func TestRegistryCollision(t *testing.T) {
	r := NewRegistry()
	boxes := []geo.Rect{
		{X: 0, Y: 0, W: 10, H: 10},
		{X: 20, Y: 0, W: 10, H: 10},
		{X: 0, Y: 20, W: 10, H: 10},
	}
	for i, b := range boxes {
		r.Register(string(rune('a'+i)), b, PriorityTee)
	}

	assert.False(t, r.CheckCollision(geo.Rect{X: 40, Y: 40, W: 5, H: 5}, 0))
	assert.False(t, r.CheckCollision(geo.Rect{X: 10, Y: 0, W: 10, H: 10}, 0), "touching edges")
	assert.True(t, r.CheckCollision(geo.Rect{X: 10, Y: 0, W: 10, H: 10}, 0.5), "margin closes the gap")
	for _, b := range boxes {
		assert.True(t, r.CheckCollision(b, 0))
	}
	assert.Len(t, r.Elements(), 3)
}

func TestFindNonCollidingPositionFreeAnchor(t *testing.T) {
	r := NewRegistry()
	p := r.FindNonCollidingPosition(geo.Point{X: 50, Y: 50}, 20, 10, 80, 2)
	assert.Equal(t, geo.Point{X: 50, Y: 50}, p.Center)
	assert.False(t, p.NeedsLeader)
}

func TestFindNonCollidingPositionSearches(t *testing.T) {
	r := NewRegistry()
	r.Register("marker", geo.RectAround(geo.Point{X: 100, Y: 100}, 20, 20), PriorityTee)

	p := r.FindNonCollidingPosition(geo.Point{X: 100, Y: 100}, 10, 10, 80, 0)
	assert.False(t, p.Fallback)
	assert.False(t, r.CheckCollision(p.Box(10, 10), 0))
	assert.InDelta(t, 20, p.Offset.Len(), 1e-9)
	assert.False(t, p.NeedsLeader)
}

func TestFindNonCollidingPositionLeader(t *testing.T) {
	r := NewRegistry()
	r.Register("big", geo.RectAround(geo.Point{X: 100, Y: 100}, 60, 60), PriorityTee)

	p := r.FindNonCollidingPosition(geo.Point{X: 100, Y: 100}, 10, 10, 80, 0)
	assert.False(t, p.Fallback)
	assert.True(t, p.NeedsLeader)
	assert.Greater(t, p.Offset.Len(), 25.0)
}

func TestFindNonCollidingPositionFallback(t *testing.T) {
	r := NewRegistry()
	r.Register("wall", geo.Rect{X: -1000, Y: -1000, W: 2000, H: 2000}, PriorityTee)

	p := r.FindNonCollidingPosition(geo.Point{}, 10, 10, 60, 0)
	assert.True(t, p.Fallback)
	assert.True(t, p.NeedsLeader)
	assert.InDelta(t, 42, p.Offset.X, 1e-9)
	assert.InDelta(t, -42, p.Offset.Y, 1e-9)
}

func TestPlaceDistanceLabelPrefersPerpendicular(t *testing.T) {
	r := NewRegistry()
	mid := geo.Point{X: 100, Y: 100}

	p := r.PlaceDistanceLabel(mid, geo.Point{X: 1, Y: 0}, 30, 12, 14, 60, 0)
	assert.InDelta(t, 0, p.Offset.X, 1e-9)
	assert.InDelta(t, 14, math.Abs(p.Offset.Y), 1e-9)

	r.Register("first", p.Box(30, 12), PriorityLabel)
	q := r.PlaceDistanceLabel(mid, geo.Point{X: 1, Y: 0}, 30, 12, 14, 60, 0)
	assert.InDelta(t, 0, q.Offset.X, 1e-9)
	assert.InDelta(t, -p.Offset.Y, q.Offset.Y, 1e-9, "opposite side")
	assert.False(t, q.NeedsLeader)
}

func TestEstimateTextWidth(t *testing.T) {
	assert.InDelta(t, 30, EstimateTextWidth("12345", 10), 1e-9)
}
