package collision

import (
	"math"

	"coursemap/internal/exporter/geo"
)

// Приоритеты размещенных элементов: чем меньше, тем неподвижнее.
const (
	PriorityTee       = 1
	PriorityBasket    = 1
	PriorityDropzone  = 2
	PriorityMandatory = 3
	PriorityLabel     = 5
)

const (
	leaderThreshold  = 25.0
	searchAngles     = 8
	fallbackFraction = 0.7
)

var searchRadii = []float64{20, 35, 50, 65}

// Element хранит запись реестра, то есть рамку в пикселях и приоритет.
type Element struct {
	ID       string
	Box      geo.Rect
	Priority int
}

// Registry: список занятых рамок одного документа; только добавление.
type Registry struct {
	elements []Element
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(id string, box geo.Rect, priority int) {
	r.elements = append(r.elements, Element{ID: id, Box: box, Priority: priority})
}

func (r *Registry) Elements() []Element {
	return r.elements
}

// CheckCollision расширяет рамку на margin и ищет строгое пересечение с любой записью.
func (r *Registry) CheckCollision(box geo.Rect, margin float64) bool {
	query := box.Inflate(margin)
	for _, e := range r.elements {
		if query.Overlaps(e.Box) {
			return true
		}
	}
	return false
}

// Placement: итоговый центр подписи. NeedsLeader просит провести линию к якорю.
type Placement struct {
	Center      geo.Point
	Offset      geo.Point
	NeedsLeader bool
	Fallback    bool
}

// Box: рамка подписи размера w×h в этой позиции.
func (p Placement) Box(w, h float64) geo.Rect {
	return geo.RectAround(p.Center, w, h)
}

// FindNonCollidingPosition пробует сам якорь, затем 8 направлений на радиусах
// 20, 35, 50, 65 и maxOffset. Если места нет, возвращает смещение вверх-вправо
// на 70% maxOffset: подпись не теряется, но может перекрываться.
func (r *Registry) FindNonCollidingPosition(anchor geo.Point, w, h, maxOffset, margin float64) Placement {
	if !r.CheckCollision(geo.RectAround(anchor, w, h), margin) {
		return Placement{Center: anchor}
	}

	for _, radius := range radiiUpTo(maxOffset) {
		for i := 0; i < searchAngles; i++ {
			angle := float64(i) * 2 * math.Pi / searchAngles
			offset := geo.Point{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius}
			center := anchor.Add(offset)
			if !r.CheckCollision(geo.RectAround(center, w, h), margin) {
				return Placement{Center: center, Offset: offset, NeedsLeader: radius > leaderThreshold}
			}
		}
	}

	offset := geo.Point{X: maxOffset * fallbackFraction, Y: -maxOffset * fallbackFraction}
	return Placement{Center: anchor.Add(offset), Offset: offset, NeedsLeader: true, Fallback: true}
}

// PlaceDistanceLabel сначала пробует встать сбоку от линии: перпендикуляр
// с обеих сторон на 1× и 2× baseOffset. Затем идет общий радиальный поиск.
func (r *Registry) PlaceDistanceLabel(mid, direction geo.Point, w, h, baseOffset, maxOffset, margin float64) Placement {
	dir := direction.Unit()
	perp := geo.Point{X: -dir.Y, Y: dir.X}
	if perp.Len() == 0 {
		perp = geo.Point{X: 0, Y: -1}
	}

	for _, k := range []float64{1, -1, 2, -2} {
		offset := perp.Scale(k * baseOffset)
		center := mid.Add(offset)
		if !r.CheckCollision(geo.RectAround(center, w, h), margin) {
			return Placement{Center: center, Offset: offset}
		}
	}
	return r.FindNonCollidingPosition(mid, w, h, maxOffset, margin)
}

func radiiUpTo(maxOffset float64) []float64 {
	var out []float64
	for _, r := range searchRadii {
		if r < maxOffset {
			out = append(out, r)
		}
	}
	if maxOffset > 0 {
		out = append(out, maxOffset)
	}
	return out
}

// EstimateTextWidth оценивает ширину строки без метрик шрифта, по 0.6 em на символ.
func EstimateTextWidth(text string, fontSize float64) float64 {
	return float64(len([]rune(text))) * fontSize * 0.6
}
