package geo

import "math"

// ============================================================
// Pixel-space geometry
// ============================================================

// Point: координата в пикселях документа.
type Point struct {
	X float64
	Y float64
}

func (p Point) Add(q Point) Point      { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point      { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(k float64) Point  { return Point{p.X * k, p.Y * k} }
func (p Point) Dist(q Point) float64   { return math.Hypot(p.X-q.X, p.Y-q.Y) }
func (p Point) DistSq(q Point) float64 { dx, dy := p.X-q.X, p.Y-q.Y; return dx*dx + dy*dy }
func (p Point) Len() float64           { return math.Hypot(p.X, p.Y) }
func (p Point) Equal(q Point) bool     { return p.X == q.X && p.Y == q.Y }

// Unit возвращает единичный вектор; для нулевого тоже нулевой.
func (p Point) Unit() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Rotate поворачивает точку на deg градусов (по часовой в координатах SVG) вокруг center.
func (p Point) Rotate(deg float64, center Point) Point {
	rad := deg * earthDegToRad
	cos, sin := math.Cos(rad), math.Sin(rad)
	dx, dy := p.X-center.X, p.Y-center.Y
	return Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

// Rect: прямоугольник, выровненный по осям.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// RectAround строит прямоугольник с центром в c.
func RectAround(c Point, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }

func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// Inflate расширяет прямоугольник на m с каждой стороны.
func (r Rect) Inflate(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// Overlaps проверяет строгое пересечение, касание сторонами не считается.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// ContainsPoint включает границу.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// BoundsOfPoints: описывающий прямоугольник; ok=false для пустого набора.
func BoundsOfPoints(pts []Point) (Rect, bool) {
	if len(pts) == 0 {
		return Rect{}, false
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

// ============================================================
// Polygon helpers
// ============================================================

// CleanRing убирает замыкающую точку и подряд идущие дубликаты.
func CleanRing(pts []Point) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].Equal(p) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[0].Equal(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

// PointInPolygon: ray casting, кольцо без замыкающей точки.
func PointInPolygon(p Point, ring []Point) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// DistanceToSegment: расстояние от точки до отрезка и параметр проекции t∈[0,1].
func DistanceToSegment(p, v1, v2 Point) (float64, float64) {
	dx := v2.X - v1.X
	dy := v2.Y - v1.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Dist(v1), 0
	}

	t := ((p.X-v1.X)*dx + (p.Y-v1.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	proj := Point{v1.X + t*dx, v1.Y + t*dy}
	return p.Dist(proj), t
}

// DistanceToEdges: минимальное расстояние до ребер замкнутого кольца.
func DistanceToEdges(p Point, ring []Point) float64 {
	best := math.Inf(1)
	n := len(ring)
	for i := 0; i < n; i++ {
		d, _ := DistanceToSegment(p, ring[i], ring[(i+1)%n])
		if d < best {
			best = d
		}
	}
	return best
}

// PolygonArea: площадь по формуле шнурков (всегда неотрицательная).
func PolygonArea(ring []Point) float64 {
	n := len(ring)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return math.Abs(sum) / 2
}

// Centroid: среднее вершин; для подписи полигона этого достаточно.
func Centroid(ring []Point) Point {
	if len(ring) == 0 {
		return Point{}
	}
	var c Point
	for _, p := range ring {
		c = c.Add(p)
	}
	return c.Scale(1 / float64(len(ring)))
}
