package pattern

import (
	"fmt"
	"strings"

	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/svgx"
)

// ============================================================
// Compass rose
// ============================================================

// Compass рисует розу ветров с центром в (cx, cy). rotation: поворот карты:
// стрелка N поворачивается вместе с ней и продолжает указывать на север.
func Compass(cx, cy, size, rotation float64) string {
	r := size / 2
	var b strings.Builder
	fmt.Fprintf(&b, `<g class="compass"%s>`, svgx.TransformAttr(svgx.Translate(cx, cy)))
	fmt.Fprintf(&b, `<circle r="%s" fill="#ffffff" fill-opacity="0.85" stroke="#424242" stroke-width="%s"/>`,
		svgx.Num(r), svgx.Num(size/40))

	fmt.Fprintf(&b, `<g%s>`, svgx.TransformAttr(svgx.Rotate(rotation, 0, 0)))
	fmt.Fprintf(&b, `<polygon points="%s %s %s" fill="#d32f2f"/>`,
		svgx.Pair(0, -r*0.8), svgx.Pair(-r*0.22, 0), svgx.Pair(r*0.22, 0))
	fmt.Fprintf(&b, `<polygon points="%s %s %s" fill="#ffffff" stroke="#424242" stroke-width="%s"/>`,
		svgx.Pair(0, r*0.8), svgx.Pair(-r*0.22, 0), svgx.Pair(r*0.22, 0), svgx.Num(size/60))
	fmt.Fprintf(&b, `<text x="0" y="%s" text-anchor="middle" font-family="Arial, sans-serif" font-size="%s" font-weight="bold" fill="#212121"%s>N</text>`,
		svgx.Num(-r*0.82-size*0.04), svgx.Num(size*0.22), svgx.TransformAttr(svgx.Rotate(-rotation, 0, -r*0.82-size*0.1)))
	b.WriteString(`</g></g>`)
	return b.String()
}

// ============================================================
// Scale bar
// ============================================================

var (
	meterSteps = []float64{10, 20, 50, 100, 200, 500, 1000}
	feetSteps  = []float64{25, 50, 100, 250, 500, 1000, 2000}
)

// PickScaleDistance выбирает самое большое круглое значение (в единицах units),
// чья длина в пикселях не превышает 80% maxWidth. Если не подходит ни одно, берется самое малое.
func PickScaleDistance(maxWidth, metersPerPixel float64, units models.Units) (float64, float64) {
	steps := meterSteps
	if units == models.UnitsFeet {
		steps = feetSteps
	}

	limit := maxWidth * 0.8
	pick := steps[0]
	for _, step := range steps {
		if pixelLength(step, metersPerPixel, units) <= limit {
			pick = step
		}
	}
	return pick, pixelLength(pick, metersPerPixel, units)
}

func pixelLength(value, metersPerPixel float64, units models.Units) float64 {
	meters := value
	if units == models.UnitsFeet {
		meters = value / models.FeetPerMeter
	}
	if metersPerPixel <= 0 {
		return 0
	}
	return meters / metersPerPixel
}

// ScaleBar рисует линейку с левым нижним углом в (x, y).
func ScaleBar(x, y, maxWidth, metersPerPixel float64, units models.Units) string {
	value, length := PickScaleDistance(maxWidth, metersPerPixel, units)
	if length <= 0 {
		return ""
	}
	h := 6.0

	var b strings.Builder
	fmt.Fprintf(&b, `<g class="scale-bar"%s>`, svgx.TransformAttr(svgx.Translate(x, y)))
	fmt.Fprintf(&b, `<rect x="-6" y="%s" width="%s" height="%s" fill="#ffffff" fill-opacity="0.85" rx="3"/>`,
		svgx.Num(-h-20), svgx.Num(length+12), svgx.Num(h+26))
	fmt.Fprintf(&b, `<rect x="0" y="%s" width="%s" height="%s" fill="#212121"/>`,
		svgx.Num(-h), svgx.Num(length/2), svgx.Num(h))
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="#ffffff" stroke="#212121" stroke-width="1"/>`,
		svgx.Num(length/2), svgx.Num(-h), svgx.Num(length/2), svgx.Num(h))
	fmt.Fprintf(&b, `<text x="0" y="%s" font-family="Arial, sans-serif" font-size="10" fill="#212121">0</text>`, svgx.Num(-h-4))
	fmt.Fprintf(&b, `<text class="scale-label" x="%s" y="%s" text-anchor="end" font-family="Arial, sans-serif" font-size="10" fill="#212121">%s %s</text>`,
		svgx.Num(length), svgx.Num(-h-4), svgx.Num(value), units.Suffix())
	b.WriteString(`</g>`)
	return b.String()
}
