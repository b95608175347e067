package collision

import (
	"math"

	"coursemap/internal/exporter/geo"
	"coursemap/internal/exporter/models"
)

// IdealMinDistance: расстояние между точечными фичами, при котором уменьшать маркеры не нужно.
const IdealMinDistance = 70.0

// DensityMetrics считаются заново на каждый экспорт и нигде не хранятся.
type DensityMetrics struct {
	PointCount    int
	MinDistance   float64
	DensityFactor float64
	MarkerScale   float64
	LabelScale    float64
}

// CalculateDensityMetrics проецирует точечные фичи и оценивает плотность по
// минимальному попарному расстоянию.
func CalculateDensityMetrics(features []models.Feature, t *geo.Transform) DensityMetrics {
	var pts []geo.Point
	for _, f := range features {
		if !f.Kind().IsPointKind() {
			continue
		}
		if p, ok := f.Point(); ok {
			pts = append(pts, t.GeoToSVG(p))
		}
	}
	return DensityFromPoints(pts)
}

// DensityFromPoints: densityFactor = clamp(1 − minDistance/70, 0, 1),
// markerScale = max(0.5, 1 − 0.5·factor), labelScale = max(0.6, 1 − 0.4·factor).
func DensityFromPoints(pts []geo.Point) DensityMetrics {
	m := DensityMetrics{PointCount: len(pts), MarkerScale: 1, LabelScale: 1}
	if len(pts) < 2 {
		return m
	}

	minDist := math.Inf(1)
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			if d := pts[i].Dist(pts[j]); d < minDist {
				minDist = d
			}
		}
	}
	if math.IsNaN(minDist) || math.IsInf(minDist, 0) {
		return m
	}

	m.MinDistance = minDist
	m.DensityFactor = math.Max(0, math.Min(1, 1-minDist/IdealMinDistance))
	m.MarkerScale = math.Max(0.5, 1-0.5*m.DensityFactor)
	m.LabelScale = math.Max(0.6, 1-0.4*m.DensityFactor)
	return m
}
