package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// ============================================================
// Flat-earth constants
// ============================================================

const (
	MetersPerDegreeLat = 111320.0
	earthDegToRad      = math.Pi / 180
)

// MetersPerDegreeLng: длина градуса долготы на широте lat.
func MetersPerDegreeLng(lat float64) float64 {
	return MetersPerDegreeLat * math.Cos(lat*earthDegToRad)
}

// ============================================================
// Bounds
// ============================================================

// Bounds: прямоугольник в градусах.
type Bounds struct {
	MinLng float64
	MaxLng float64
	MinLat float64
	MaxLat float64
}

// Empty возвращает границы, готовые к расширению точками.
func Empty() Bounds {
	return Bounds{
		MinLng: math.Inf(1),
		MaxLng: math.Inf(-1),
		MinLat: math.Inf(1),
		MaxLat: math.Inf(-1),
	}
}

func FromOrb(b orb.Bound) Bounds {
	return Bounds{MinLng: b.Min[0], MaxLng: b.Max[0], MinLat: b.Min[1], MaxLat: b.Max[1]}
}

func (b Bounds) Orb() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinLng, b.MinLat}, Max: orb.Point{b.MaxLng, b.MaxLat}}
}

// Extend добавляет точку.
func (b Bounds) Extend(p orb.Point) Bounds {
	b.MinLng = math.Min(b.MinLng, p[0])
	b.MaxLng = math.Max(b.MaxLng, p[0])
	b.MinLat = math.Min(b.MinLat, p[1])
	b.MaxLat = math.Max(b.MaxLat, p[1])
	return b
}

// ExtendGeometry добавляет все вершины геометрии.
func (b Bounds) ExtendGeometry(g orb.Geometry) Bounds {
	if g == nil {
		return b
	}
	gb := g.Bound()
	if !finite(gb.Min[0], gb.Min[1], gb.Max[0], gb.Max[1]) {
		return b
	}
	return b.Extend(gb.Min).Extend(gb.Max)
}

// IsEmpty: ни одной точки не добавлено.
func (b Bounds) IsEmpty() bool {
	return b.MinLng > b.MaxLng || b.MinLat > b.MaxLat
}

// Valid: конечные и невырожденные границы, для которых определена проекция.
func (b Bounds) Valid() bool {
	return finite(b.MinLng, b.MaxLng, b.MinLat, b.MaxLat) && b.MaxLng > b.MinLng && b.MaxLat > b.MinLat
}

func (b Bounds) Center() orb.Point {
	return orb.Point{(b.MinLng + b.MaxLng) / 2, (b.MinLat + b.MaxLat) / 2}
}

func (b Bounds) SpanLng() float64 { return b.MaxLng - b.MinLng }
func (b Bounds) SpanLat() float64 { return b.MaxLat - b.MinLat }

// WidthMeters и HeightMeters: размеры по плоской аппроксимации на средней широте.
func (b Bounds) WidthMeters() float64 {
	return b.SpanLng() * MetersPerDegreeLng(b.Center()[1])
}

func (b Bounds) HeightMeters() float64 {
	return b.SpanLat() * MetersPerDegreeLat
}

// Pad расширяет границы на долю пролета с каждой стороны.
func (b Bounds) Pad(fraction float64) Bounds {
	dLng := b.SpanLng() * fraction
	dLat := b.SpanLat() * fraction
	return b.Expand(dLng, dLat)
}

// Expand расширяет границы на фиксированные градусы с каждой стороны.
func (b Bounds) Expand(dLng, dLat float64) Bounds {
	return Bounds{
		MinLng: b.MinLng - dLng,
		MaxLng: b.MaxLng + dLng,
		MinLat: b.MinLat - dLat,
		MaxLat: b.MaxLat + dLat,
	}
}

// EnsureMinSpan раздвигает вырожденные оси вокруг центра до minSpan градусов.
func (b Bounds) EnsureMinSpan(minSpan float64) Bounds {
	c := b.Center()
	if b.SpanLng() < minSpan {
		b.MinLng = c[0] - minSpan/2
		b.MaxLng = c[0] + minSpan/2
	}
	if b.SpanLat() < minSpan {
		b.MinLat = c[1] - minSpan/2
		b.MaxLat = c[1] + minSpan/2
	}
	return b
}

// MatchAspect расширяет более узкую ось (в метрах), чтобы width/height == aspect.
func (b Bounds) MatchAspect(aspect float64) Bounds {
	if aspect <= 0 || !b.Valid() {
		return b
	}
	w, h := b.WidthMeters(), b.HeightMeters()
	c := b.Center()
	if w/h < aspect {
		half := h * aspect / 2 / MetersPerDegreeLng(c[1])
		b.MinLng = c[0] - half
		b.MaxLng = c[0] + half
	} else {
		half := w / aspect / 2 / MetersPerDegreeLat
		b.MinLat = c[1] - half
		b.MaxLat = c[1] + half
	}
	return b
}

// ExpandForRotation раздувает границы так, чтобы после поворота на deg
// повернутый прямоугольник содержимого помещался целиком.
func (b Bounds) ExpandForRotation(deg float64) Bounds {
	rad := deg * earthDegToRad
	cos, sin := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	w, h := b.WidthMeters(), b.HeightMeters()
	newW := w*cos + h*sin
	newH := w*sin + h*cos

	c := b.Center()
	halfLng := newW / 2 / MetersPerDegreeLng(c[1])
	halfLat := newH / 2 / MetersPerDegreeLat
	return Bounds{
		MinLng: c[0] - halfLng,
		MaxLng: c[0] + halfLng,
		MinLat: c[1] - halfLat,
		MaxLat: c[1] + halfLat,
	}
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
