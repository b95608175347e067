package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"

	"coursemap/internal/exporter/geo"
	"coursemap/internal/exporter/marker"
	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/pattern"
	"coursemap/internal/exporter/svgx"
)

// ============================================================
// Document chrome: заголовок, компас, линейка, легенда
// ============================================================

const (
	titleHeight     = 44.0
	compassSize     = 48.0
	chromeMargin    = 12.0
	scaleBarMax     = 200.0
	teeLineMatchM   = 5.0
	untitledCourse  = "Untitled course"
	textWidthFactor = 0.55
)

func courseTitle(c *models.Course) string {
	if strings.TrimSpace(c.Name) == "" {
		return untitledCourse
	}
	return c.Name
}

// titleBlock: полоса с названием поля и сводкой по выбранным лункам.
func titleBlock(c *models.Course, holes []models.Hole, width float64, font string) string {
	par := totalPar(holes)
	summary := fmt.Sprintf("%d holes · Par %d", len(holes), par)
	if len(holes) == 1 {
		summary = fmt.Sprintf("%s · Par %d", holes[0].Label(), par)
	}
	if c.Location != "" {
		summary = c.Location + " · " + summary
	}

	var b strings.Builder
	b.WriteString(`<g class="title-block">`)
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%s" height="%s" fill="#263238"/>`, svgx.Num(width), svgx.Num(titleHeight))
	fmt.Fprintf(&b, `<text class="course-title" x="16" y="%s" dominant-baseline="central" font-family="%s" font-size="20" font-weight="bold" fill="#ffffff">%s</text>`,
		svgx.Num(titleHeight/2), svgx.Escape(font), svgx.Escape(courseTitle(c)))
	fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="end" dominant-baseline="central" font-family="%s" font-size="12" fill="#cfd8dc">%s</text>`,
		svgx.Num(width-16), svgx.Num(titleHeight/2), svgx.Escape(font), svgx.Escape(summary))
	b.WriteString(`</g>`)
	return b.String()
}

// decorations рисует компас, линейку и легенду внутри rect.
func (s *scene) decorations(rect geo.Rect) []string {
	var out []string
	if s.cfg.IncludeCompass {
		out = append(out, pattern.Compass(rect.MaxX()-chromeMargin-compassSize/2, rect.Y+chromeMargin+compassSize/2,
			compassSize, s.tr.Rotation()))
	}
	if s.cfg.IncludeScaleBar {
		out = append(out, pattern.ScaleBar(rect.X+chromeMargin+6, rect.MaxY()-chromeMargin,
			math.Min(scaleBarMax, rect.W*0.3), s.tr.MetersPerPixel(), s.cfg.Units))
	}
	if s.cfg.IncludeLegend {
		entries := marker.LegendEntries(s.present, s.style)
		if len(entries) > 0 {
			w, h := marker.LegendSize(entries)
			out = append(out, marker.Legend(rect.MaxX()-w-chromeMargin, rect.MaxY()-h-chromeMargin, entries))
		}
	}
	return out
}

// ============================================================
// Hole helpers
// ============================================================

// firstPoint: первая точечная фича вида kind.
func firstPoint(h models.Hole, kind models.Kind) (models.Feature, orb.Point, bool) {
	for _, f := range h.FeaturesOf(kind) {
		if p, ok := f.Point(); ok {
			return f, p, true
		}
	}
	return models.Feature{}, orb.Point{}, false
}

// TeeDistance: длина линии полета, начинающейся не дальше 5 м от ти,
// иначе расстояние по прямой до корзины. 0, если считать не от чего.
func TeeDistance(h models.Hole, tee orb.Point) float64 {
	for _, f := range h.FeaturesOf(models.KindFlightLine) {
		ls, ok := f.Line()
		if !ok || len(ls) < 2 {
			continue
		}
		if geo.DistanceMeters(ls[0], tee) <= teeLineMatchM {
			return geo.LineLengthMeters(ls)
		}
	}
	if _, basket, ok := firstPoint(h, models.KindBasket); ok {
		return geo.DistanceMeters(tee, basket)
	}
	return 0
}

// HoleLength: длина лунки от первой ти.
func HoleLength(h models.Hole) float64 {
	if _, tee, ok := firstPoint(h, models.KindTee); ok {
		return TeeDistance(h, tee)
	}
	return 0
}

// wrapText режет текст на строки не длиннее maxChars символов по границам слов.
func wrapText(text string, maxChars int) []string {
	if maxChars < 1 {
		maxChars = 1
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > maxChars {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}

// textBlock рисует строки с левым краем x, первая базовая линия: y.
func textBlock(class string, x, y, fontSize float64, fill, font string, lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<text class="%s" x="%s" y="%s" font-family="%s" font-size="%s" fill="%s">`,
		class, svgx.Num(x), svgx.Num(y), svgx.Escape(font), svgx.Num(fontSize), fill)
	for i, l := range lines {
		dy := "0"
		if i > 0 {
			dy = svgx.Num(fontSize * 1.3)
		}
		fmt.Fprintf(&b, `<tspan x="%s" dy="%s">%s</tspan>`, svgx.Num(x), dy, svgx.Escape(l))
	}
	b.WriteString(`</text>`)
	return b.String()
}

func charsFor(width, fontSize float64) int {
	return int(width / (fontSize * textWidthFactor))
}
