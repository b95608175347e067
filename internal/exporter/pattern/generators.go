package pattern

import (
	"fmt"
	"math"
	"strings"

	"coursemap/internal/exporter/colors"
	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/rng"
	"coursemap/internal/exporter/svgx"
)

// ============================================================
// Terrain texture generators
// ============================================================

// Seeds фиксированы по типу местности: одинаковые параметры дают одинаковую разметку.
var Seeds = map[models.TerrainType]int64{
	models.TerrainGrass:      42,
	models.TerrainRoughGrass: 73,
	models.TerrainForest:     101,
	models.TerrainWater:      17,
	models.TerrainSand:       29,
	models.TerrainConcrete:   61,
	models.TerrainGravel:     88,
	models.TerrainMarsh:      53,
	models.TerrainRocks:      97,
}

type generator func(b *tile, r *rng.LCG, p colors.Palette)

var generators = map[models.TerrainType]struct {
	size float64
	gen  generator
}{
	models.TerrainGrass:      {20, grass},
	models.TerrainRoughGrass: {24, roughGrass},
	models.TerrainForest:     {40, forest},
	models.TerrainWater:      {40, water},
	models.TerrainSand:       {16, sand},
	models.TerrainConcrete:   {30, concrete},
	models.TerrainGravel:     {20, gravel},
	models.TerrainMarsh:      {30, marsh},
	models.TerrainRocks:      {36, rocks},
}

// Generate возвращает <pattern> для типа местности. Неизвестный тип рисуется как grass.
func Generate(t models.TerrainType, id string, p colors.Palette, scale float64) string {
	t = t.Valid()
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	def := generators[t]
	b := newTile(id, def.size*scale, scale)
	def.gen(b, rng.WithSeed(Seeds[t]), p)
	return b.String()
}

// Flat: заливка одним цветом для минимального режима.
func Flat(id string, p colors.Palette) string {
	return fmt.Sprintf(`<pattern id="%s" patternUnits="userSpaceOnUse" width="10" height="10"><rect width="10" height="10" fill="%s"/></pattern>`,
		id, p.Primary)
}

// ============================================================
// Tile builder
// ============================================================

type tile struct {
	id    string
	size  float64
	scale float64
	body  strings.Builder
}

func newTile(id string, size, scale float64) *tile {
	return &tile{id: id, size: size, scale: scale}
}

func (t *tile) add(format string, args ...any) {
	fmt.Fprintf(&t.body, format, args...)
}

// wrap повторяет фигуру у противоположного края, если она выходит за плитку.
func (t *tile) wrap(x, y, r float64, draw func(x, y float64)) {
	xs := []float64{x}
	ys := []float64{y}
	if x-r < 0 {
		xs = append(xs, x+t.size)
	}
	if x+r > t.size {
		xs = append(xs, x-t.size)
	}
	if y-r < 0 {
		ys = append(ys, y+t.size)
	}
	if y+r > t.size {
		ys = append(ys, y-t.size)
	}
	for _, wx := range xs {
		for _, wy := range ys {
			draw(wx, wy)
		}
	}
}

func (t *tile) background(fill string) {
	t.add(`<rect width="%s" height="%s" fill="%s"/>`, svgx.Num(t.size), svgx.Num(t.size), fill)
}

func (t *tile) String() string {
	return fmt.Sprintf(`<pattern id="%s" patternUnits="userSpaceOnUse" width="%s" height="%s">%s</pattern>`,
		t.id, svgx.Num(t.size), svgx.Num(t.size), t.body.String())
}

// ============================================================
// Generators
// ============================================================

func grass(t *tile, r *rng.LCG, p colors.Palette) {
	t.background(p.Primary)
	for i := 0; i < 30; i++ {
		x, y := r.Next()*t.size, r.Next()*t.size
		h := (2 + r.Next()*3) * t.scale
		lean := (r.Next() - 0.5) * 2 * t.scale
		stroke := p.Secondary
		if r.Next() > 0.6 {
			stroke = p.Accent
		}
		t.wrap(x, y, h, func(x, y float64) {
			t.add(`<path d="M %s %s Q %s %s %s %s" stroke="%s" stroke-width="%s" fill="none" stroke-linecap="round"/>`,
				svgx.Num(x), svgx.Num(y), svgx.Num(x+lean/2), svgx.Num(y-h/2), svgx.Num(x+lean), svgx.Num(y-h),
				stroke, svgx.Num(0.6*t.scale))
		})
	}
}

func roughGrass(t *tile, r *rng.LCG, p colors.Palette) {
	t.background(p.Primary)
	for i := 0; i < 14; i++ {
		x, y := r.Next()*t.size, r.Next()*t.size
		h := (4 + r.Next()*4) * t.scale
		stroke := p.Secondary
		if i%3 == 0 {
			stroke = p.Accent
		}
		t.wrap(x, y, h, func(x, y float64) {
			for blade := -1; blade <= 1; blade++ {
				dx := float64(blade) * 2 * t.scale
				t.add(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-linecap="round"/>`,
					svgx.Num(x), svgx.Num(y), svgx.Num(x+dx), svgx.Num(y-h+math.Abs(dx)),
					stroke, svgx.Num(0.8*t.scale))
			}
		})
	}
}

func forest(t *tile, r *rng.LCG, p colors.Palette) {
	t.background(p.Secondary)
	for i := 0; i < 8; i++ {
		x, y := r.Next()*t.size, r.Next()*t.size
		rad := (6 + r.Next()*4) * t.scale
		t.wrap(x, y, rad, func(x, y float64) {
			t.add(`<circle cx="%s" cy="%s" r="%s" fill="%s"/>`, svgx.Num(x), svgx.Num(y), svgx.Num(rad), p.Primary)
			t.add(`<circle cx="%s" cy="%s" r="%s" fill="%s" opacity="0.6"/>`,
				svgx.Num(x-rad/3), svgx.Num(y-rad/3), svgx.Num(rad/2.5), p.Accent)
		})
	}
}

func water(t *tile, r *rng.LCG, p colors.Palette) {
	t.background(p.Primary)
	step := t.size / 5
	for i := 0; i < 5; i++ {
		y := step*float64(i) + step/2
		x := r.Next() * t.size / 2
		w := t.size / 4
		amp := (1 + r.Next()*1.5) * t.scale
		t.add(`<path d="M %s %s q %s %s %s 0 t %s 0" stroke="%s" stroke-width="%s" fill="none" opacity="0.8"/>`,
			svgx.Num(x), svgx.Num(y), svgx.Num(w/2), svgx.Num(-amp), svgx.Num(w), svgx.Num(w),
			p.Accent, svgx.Num(0.8*t.scale))
	}
	for i := 0; i < 3; i++ {
		x, y := r.Next()*t.size, r.Next()*t.size
		t.add(`<circle cx="%s" cy="%s" r="%s" fill="%s" opacity="0.4"/>`,
			svgx.Num(x), svgx.Num(y), svgx.Num(0.8*t.scale), p.Secondary)
	}
}

func sand(t *tile, r *rng.LCG, p colors.Palette) {
	t.background(p.Primary)
	for i := 0; i < 25; i++ {
		x, y := r.Next()*t.size, r.Next()*t.size
		rad := (0.4 + r.Next()*0.6) * t.scale
		fill := p.Secondary
		if r.Next() > 0.7 {
			fill = p.Accent
		}
		t.add(`<circle cx="%s" cy="%s" r="%s" fill="%s"/>`, svgx.Num(x), svgx.Num(y), svgx.Num(rad), fill)
	}
}

func concrete(t *tile, r *rng.LCG, p colors.Palette) {
	t.background(p.Primary)
	t.add(`<path d="M 0 0 H %s M 0 0 V %s" stroke="%s" stroke-width="%s"/>`,
		svgx.Num(t.size), svgx.Num(t.size), p.Secondary, svgx.Num(0.8*t.scale))
	for i := 0; i < 12; i++ {
		x, y := r.Next()*t.size, r.Next()*t.size
		fill := p.Accent
		if r.Next() > 0.5 {
			fill = p.Secondary
		}
		t.add(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" opacity="0.7"/>`,
			svgx.Num(x), svgx.Num(y), svgx.Num(0.6*t.scale), svgx.Num(0.6*t.scale), fill)
	}
}

func gravel(t *tile, r *rng.LCG, p colors.Palette) {
	t.background(p.Primary)
	for i := 0; i < 18; i++ {
		x, y := r.Next()*t.size, r.Next()*t.size
		rx := (0.8 + r.Next()*1.2) * t.scale
		ry := rx * (0.6 + r.Next()*0.3)
		angle := r.Next() * 180
		fill := p.Secondary
		if i%3 == 0 {
			fill = p.Accent
		}
		t.wrap(x, y, rx, func(x, y float64) {
			t.add(`<ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="%s" transform="rotate(%s %s %s)"/>`,
				svgx.Num(x), svgx.Num(y), svgx.Num(rx), svgx.Num(ry), fill,
				svgx.Num(angle), svgx.Num(x), svgx.Num(y))
		})
	}
}

func marsh(t *tile, r *rng.LCG, p colors.Palette) {
	t.background(p.Primary)
	for i := 0; i < 4; i++ {
		x, y := r.Next()*t.size, r.Next()*t.size
		rx := (3 + r.Next()*3) * t.scale
		t.wrap(x, y, rx, func(x, y float64) {
			t.add(`<ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="%s" opacity="0.6"/>`,
				svgx.Num(x), svgx.Num(y), svgx.Num(rx), svgx.Num(rx/2), p.Accent)
		})
	}
	for i := 0; i < 10; i++ {
		x, y := r.Next()*t.size, r.Next()*t.size
		h := (3 + r.Next()*3) * t.scale
		t.add(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-linecap="round"/>`,
			svgx.Num(x), svgx.Num(y), svgx.Num(x), svgx.Num(y-h), p.Secondary, svgx.Num(0.6*t.scale))
	}
}

func rocks(t *tile, r *rng.LCG, p colors.Palette) {
	t.background(p.Primary)
	for i := 0; i < 6; i++ {
		cx, cy := r.Next()*t.size, r.Next()*t.size
		rad := (2.5 + r.Next()*3) * t.scale
		sides := 5 + r.Intn(3)
		pts := make([]string, sides)
		jitter := make([]float64, sides)
		for k := range jitter {
			jitter[k] = 0.7 + r.Next()*0.3
		}
		t.wrap(cx, cy, rad, func(x, y float64) {
			for k := 0; k < sides; k++ {
				a := 2 * math.Pi * float64(k) / float64(sides)
				pts[k] = svgx.Pair(x+math.Cos(a)*rad*jitter[k], y+math.Sin(a)*rad*jitter[k])
			}
			t.add(`<polygon points="%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
				strings.Join(pts, " "), p.Secondary, p.Accent, svgx.Num(0.4*t.scale))
		})
	}
}
