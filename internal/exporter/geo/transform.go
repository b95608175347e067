package geo

import (
	"fmt"
	"math"
	"strings"

	"coursemap/internal/exporter/svgx"

	"github.com/paulmach/orb"
)

// ============================================================
// Viewport & Transform
// ============================================================

// Viewport задает прямоугольник в пикселях (X, Y это его угол на странице), отступ под
// содержимое и географические границы. Rotation поворачивает проекцию вокруг
// центра области содержимого (по часовой, в градусах).
// Границы меняются (паддинг, поворот) до создания Transform, не после.
type Viewport struct {
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Padding  float64
	Rotation float64
	Bounds   Bounds
}

// ContentRect: область внутри отступов. Отступ не превышает четверти меньшей стороны.
func (v Viewport) ContentRect() Rect {
	pad := math.Max(0, math.Min(v.Padding, math.Min(v.Width, v.Height)/4))
	return Rect{X: v.X + pad, Y: v.Y + pad, W: v.Width - 2*pad, H: v.Height - 2*pad}
}

// Rect: весь прямоугольник панели, включая отступы.
func (v Viewport) Rect() Rect {
	return Rect{X: v.X, Y: v.Y, W: v.Width, H: v.Height}
}

// Transform: линейная проекция градусов в пиксели с одним масштабом на обе оси.
type Transform struct {
	viewport Viewport
	content  Rect

	mPerDegLng float64
	pxPerMeter float64
	offsetX    float64
	offsetY    float64
}

// NewTransform требует конечных невырожденных границ и холста положительного размера.
func NewTransform(v Viewport) (*Transform, error) {
	if !v.Bounds.Valid() {
		return nil, fmt.Errorf("degenerate bounds %+v", v.Bounds)
	}
	content := v.ContentRect()
	if !(content.W > 0) || !(content.H > 0) {
		return nil, fmt.Errorf("empty content area %vx%v", v.Width, v.Height)
	}
	if math.IsNaN(v.Rotation) || math.IsInf(v.Rotation, 0) {
		v.Rotation = 0
	}

	t := &Transform{
		viewport:   v,
		content:    content,
		mPerDegLng: MetersPerDegreeLng(v.Bounds.Center()[1]),
	}

	widthM := v.Bounds.SpanLng() * t.mPerDegLng
	heightM := v.Bounds.SpanLat() * MetersPerDegreeLat
	t.pxPerMeter = math.Min(content.W/widthM, content.H/heightM)

	t.offsetX = content.X + (content.W-widthM*t.pxPerMeter)/2
	t.offsetY = content.Y + (content.H-heightM*t.pxPerMeter)/2
	return t, nil
}

func (t *Transform) Viewport() Viewport { return t.viewport }
func (t *Transform) Content() Rect      { return t.content }

// MetersPerPixel: сколько метров местности приходится на один пиксель.
func (t *Transform) MetersPerPixel() float64 {
	return 1 / t.pxPerMeter
}

// PixelsPerMeter: обратная величина.
func (t *Transform) PixelsPerMeter() float64 {
	return t.pxPerMeter
}

// Rotation: поворот карты в градусах.
func (t *Transform) Rotation() float64 {
	return t.viewport.Rotation
}

// GeoToSVG проецирует [lng, lat]. Рост широты уменьшает Y.
func (t *Transform) GeoToSVG(p orb.Point) Point {
	b := t.viewport.Bounds
	x := (p[0] - b.MinLng) * t.mPerDegLng * t.pxPerMeter
	y := (b.MaxLat - p[1]) * MetersPerDegreeLat * t.pxPerMeter
	out := Point{X: t.offsetX + x, Y: t.offsetY + y}
	if t.viewport.Rotation != 0 {
		out = out.Rotate(t.viewport.Rotation, t.content.Center())
	}
	return out
}

// SVGToGeo: обратное преобразование.
func (t *Transform) SVGToGeo(p Point) orb.Point {
	if t.viewport.Rotation != 0 {
		p = p.Rotate(-t.viewport.Rotation, t.content.Center())
	}
	b := t.viewport.Bounds
	lng := b.MinLng + (p.X-t.offsetX)/t.pxPerMeter/t.mPerDegLng
	lat := b.MaxLat - (p.Y-t.offsetY)/t.pxPerMeter/MetersPerDegreeLat
	return orb.Point{lng, lat}
}

// Project проецирует последовательность вершин.
func (t *Transform) Project(pts []orb.Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = t.GeoToSVG(p)
	}
	return out
}

// ProjectRing проецирует кольцо и чистит его от повторов; nil, если точек меньше трех.
func (t *Transform) ProjectRing(ring orb.Ring) []Point {
	pts := CleanRing(t.Project(ring))
	if len(pts) < 3 {
		return nil
	}
	return pts
}

// ============================================================
// Path builders
// ============================================================

// PolygonCoordsToSVG возвращает список точек для <polygon points="...">.
func (t *Transform) PolygonCoordsToSVG(ring orb.Ring) string {
	pts := t.ProjectRing(ring)
	if pts == nil {
		return ""
	}
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = svgx.Pair(p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

// LineStringToSVG возвращает d для <path>; пусто, если различных точек меньше двух.
func (t *Transform) LineStringToSVG(ls orb.LineString) string {
	pts := t.Project(ls)
	var kept []Point
	for _, p := range pts {
		if len(kept) > 0 && kept[len(kept)-1].Equal(p) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) < 2 {
		return ""
	}

	var b strings.Builder
	for i, p := range kept {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(svgx.Num(p.X))
		b.WriteString(" ")
		b.WriteString(svgx.Num(p.Y))
	}
	return b.String()
}

// PolygonToPath строит замкнутый path, скругляя углы радиусом cornerRadius пикселей.
func (t *Transform) PolygonToPath(ring orb.Ring, cornerRadius float64) string {
	pts := t.ProjectRing(ring)
	if pts == nil {
		return ""
	}
	if cornerRadius <= 0 {
		return SimplePolygonPath(pts)
	}
	return RoundedPolygonPath(pts, cornerRadius)
}

// SimplePolygonPath: "M x y L x y ... Z".
func SimplePolygonPath(pts []Point) string {
	if len(pts) < 3 {
		return ""
	}
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(svgx.Num(p.X))
		b.WriteString(" ")
		b.WriteString(svgx.Num(p.Y))
	}
	b.WriteString(" Z")
	return b.String()
}

// RoundedPolygonPath отступает от каждой вершины на min(radius, 0.45 × короткое ребро)
// и соединяет отступы квадратичной кривой с контрольной точкой в вершине.
func RoundedPolygonPath(pts []Point, radius float64) string {
	n := len(pts)
	if n < 3 {
		return ""
	}
	if radius <= 0 {
		return SimplePolygonPath(pts)
	}

	var b strings.Builder
	for i := 0; i < n; i++ {
		cur := pts[i]
		prev := pts[(i-1+n)%n]
		next := pts[(i+1)%n]

		toPrev := prev.Sub(cur)
		toNext := next.Sub(cur)
		r := math.Min(radius, 0.45*math.Min(toPrev.Len(), toNext.Len()))

		a := cur.Add(toPrev.Unit().Scale(r))
		c := cur.Add(toNext.Unit().Scale(r))

		if i == 0 {
			fmt.Fprintf(&b, "M %s %s", svgx.Num(a.X), svgx.Num(a.Y))
		} else {
			fmt.Fprintf(&b, " L %s %s", svgx.Num(a.X), svgx.Num(a.Y))
		}
		fmt.Fprintf(&b, " Q %s %s %s %s", svgx.Num(cur.X), svgx.Num(cur.Y), svgx.Num(c.X), svgx.Num(c.Y))
	}
	b.WriteString(" Z")
	return b.String()
}

// SmoothClosedPath проводит замкнутую кривую Катмулла–Рома через точки
// и записывает ее кубическими сегментами Безье.
func SmoothClosedPath(pts []Point) string {
	n := len(pts)
	if n < 3 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s", svgx.Num(pts[0].X), svgx.Num(pts[0].Y))
	for i := 0; i < n; i++ {
		p0 := pts[(i-1+n)%n]
		p1 := pts[i]
		p2 := pts[(i+1)%n]
		p3 := pts[(i+2)%n]
		c1 := p1.Add(p2.Sub(p0).Scale(1.0 / 6))
		c2 := p2.Sub(p3.Sub(p1).Scale(1.0 / 6))
		fmt.Fprintf(&b, " C %s %s %s %s %s %s",
			svgx.Num(c1.X), svgx.Num(c1.Y), svgx.Num(c2.X), svgx.Num(c2.Y), svgx.Num(p2.X), svgx.Num(p2.Y))
	}
	b.WriteString(" Z")
	return b.String()
}
