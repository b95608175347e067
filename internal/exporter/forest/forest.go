package forest

import (
	"math"
	"sort"
	"strings"

	"coursemap/internal/exporter/geo"
	"coursemap/internal/exporter/marker"
	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/pattern"
	"coursemap/internal/exporter/rng"
)

// ============================================================
// Forest fill
// ============================================================

// Params: плотность и ограничения для одного контекста вывода.
type Params struct {
	TreesPerHectare float64
	MinTrees        int
	MaxTrees        int
	AttemptsFactor  int
	EdgeMargin      float64
	Spacing         float64
}

var (
	// Overview: обзорная карта поля.
	Overview = Params{TreesPerHectare: 120, MinTrees: 3, MaxTrees: 250, AttemptsFactor: 20, EdgeMargin: 4, Spacing: 7}
	// CloseUp: знак у ти и страница лунки.
	CloseUp = Params{TreesPerHectare: 300, MinTrees: 5, MaxTrees: 400, AttemptsFactor: 50, EdgeMargin: 3, Spacing: 5}
)

type Placement struct {
	X        float64
	Y        float64
	Type     models.TreeType
	Size     float64
	Rotation float64
	Opacity  float64
}

// TargetCount = clamp(floor(площадь_м² / 10000 × деревьев_на_га), min, max).
func TargetCount(areaM2 float64, p Params) int {
	n := int(math.Floor(areaM2 / 10000 * p.TreesPerHectare))
	if n < p.MinTrees {
		n = p.MinTrees
	}
	if n > p.MaxTrees {
		n = p.MaxTrees
	}
	return n
}

// GenerateForestTreePlacements разбрасывает деревья внутри полигона (в пикселях).
// Точка принимается, если она внутри, не ближе EdgeMargin к ребру и не ближе
// Spacing к уже принятым. Число попыток ограничено target × AttemptsFactor.
// Результат отсортирован по Y: нижние деревья рисуются поверх верхних.
func GenerateForestTreePlacements(ring []geo.Point, seed int64, metersPerPixel float64, p Params) []Placement {
	ring = geo.CleanRing(ring)
	if len(ring) < 3 {
		return nil
	}
	box, _ := geo.BoundsOfPoints(ring)
	areaPx := geo.PolygonArea(ring)
	if box.W <= 0 || box.H <= 0 || areaPx <= 0 || math.IsNaN(areaPx) {
		return nil
	}
	if metersPerPixel <= 0 || math.IsNaN(metersPerPixel) || math.IsInf(metersPerPixel, 0) {
		metersPerPixel = 1
	}

	target := TargetCount(areaPx*metersPerPixel*metersPerPixel, p)
	attempts := target * p.AttemptsFactor
	spacingSq := p.Spacing * p.Spacing
	r := rng.WithSeed(seed)

	var out []Placement
	for i := 0; i < attempts && len(out) < target; i++ {
		c := geo.Point{X: box.X + r.Next()*box.W, Y: box.Y + r.Next()*box.H}
		if !geo.PointInPolygon(c, ring) {
			continue
		}
		edge := geo.DistanceToEdges(c, ring)
		if edge <= 0 || edge < p.EdgeMargin {
			continue
		}
		if tooClose(c, out, spacingSq) {
			continue
		}

		out = append(out, Placement{
			X:        c.X,
			Y:        c.Y,
			Type:     marker.ForestTreeTypes[r.Weighted(marker.ForestTreeWeights)],
			Size:     p.Spacing * (1.3 + r.Next()*0.7),
			Rotation: r.Next() * 360,
			Opacity:  0.85 + r.Next()*0.15,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Y < out[j].Y })
	return out
}

func tooClose(c geo.Point, placed []Placement, spacingSq float64) bool {
	for _, p := range placed {
		if c.DistSq(geo.Point{X: p.X, Y: p.Y}) < spacingSq {
			return true
		}
	}
	return false
}

// Render рисует деревья в порядке placements. Если в библиотеке есть растровые
// кроны, экземпляры ссылаются на общий <symbol>.
func Render(placements []Placement, lib *pattern.Library) string {
	if len(placements) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<g class="forest">`)
	for _, p := range placements {
		if lib != nil {
			if id, ok := lib.TreeSymbol(p.Type); ok {
				b.WriteString(pattern.Use(id, p.X, p.Y, p.Size, p.Rotation, p.Opacity))
				continue
			}
		}
		b.WriteString(marker.TreeTop(p.X, p.Y, marker.Tree{Type: p.Type, Size: p.Size, Rotation: p.Rotation, Opacity: p.Opacity}))
	}
	b.WriteString(`</g>`)
	return b.String()
}

// SeedFor: сид размещения по id фичи.
func SeedFor(featureID string) int64 {
	return rng.SeedFromString(featureID)
}
