package marker

import (
	"fmt"
	"strings"

	"coursemap/internal/exporter/colors"
	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/svgx"
)

// ============================================================
// Legend
// ============================================================

const (
	legendRow     = 20.0
	legendPadding = 10.0
	legendWidth   = 150.0
)

type LegendEntry struct {
	Kind  models.Kind
	Label string
	Color string
}

var legendOrder = []struct {
	kind  models.Kind
	label string
	color func(models.CourseStyle) string
}{
	{models.KindTee, "Tee", func(s models.CourseStyle) string { return s.TeeColor }},
	{models.KindBasket, "Basket", func(s models.CourseStyle) string { return s.BasketColor }},
	{models.KindDropzone, "Drop zone", func(s models.CourseStyle) string { return s.DropzoneColor }},
	{models.KindMandatory, "Mandatory", func(s models.CourseStyle) string { return s.MandatoryColor }},
	{models.KindFlightLine, "Flight line", func(s models.CourseStyle) string { return s.FlightLineColor }},
	{models.KindFairway, "Fairway", func(s models.CourseStyle) string { return s.FairwayColor }},
	{models.KindDropzoneArea, "Drop zone area", func(s models.CourseStyle) string { return s.DropzoneAreaColor }},
	{models.KindOBZone, "Out of bounds", func(s models.CourseStyle) string { return s.OBZoneColor }},
	{models.KindOBLine, "OB line", func(s models.CourseStyle) string { return s.OBLineColor }},
	{models.KindLandmark, "Landmark", func(s models.CourseStyle) string { return s.LandmarkColor }},
}

// LegendEntries возвращает записи только для присутствующих видов, в фиксированном порядке.
func LegendEntries(present map[models.Kind]bool, style models.CourseStyle) []LegendEntry {
	var out []LegendEntry
	for _, item := range legendOrder {
		if present[item.kind] {
			out = append(out, LegendEntry{Kind: item.kind, Label: item.label, Color: item.color(style)})
		}
	}
	return out
}

// LegendSize: размер плашки легенды.
func LegendSize(entries []LegendEntry) (float64, float64) {
	if len(entries) == 0 {
		return 0, 0
	}
	return legendWidth, legendPadding*2 + 16 + float64(len(entries))*legendRow
}

// Legend рисует плашку с левым верхним углом в (x, y).
func Legend(x, y float64, entries []LegendEntry) string {
	if len(entries) == 0 {
		return ""
	}
	w, h := LegendSize(entries)

	var b strings.Builder
	fmt.Fprintf(&b, `<g class="legend"%s>`, svgx.TransformAttr(svgx.Translate(x, y)))
	fmt.Fprintf(&b, `<rect width="%s" height="%s" rx="4" fill="#ffffff" fill-opacity="0.9" stroke="#9e9e9e" stroke-width="1"/>`,
		svgx.Num(w), svgx.Num(h))
	fmt.Fprintf(&b, `<text x="%s" y="%s" font-family="%s" font-size="12" font-weight="bold" fill="#212121">Legend</text>`,
		svgx.Num(legendPadding), svgx.Num(legendPadding+10), fontFamily)

	for i, e := range entries {
		cy := legendPadding + 16 + legendRow*float64(i) + legendRow/2
		b.WriteString(swatch(e, legendPadding+10, cy))
		fmt.Fprintf(&b, `<text x="%s" y="%s" dominant-baseline="central" font-family="%s" font-size="11" fill="#212121">%s</text>`,
			svgx.Num(legendPadding+28), svgx.Num(cy), fontFamily, svgx.Escape(e.Label))
	}
	b.WriteString(`</g>`)
	return b.String()
}

func swatch(e LegendEntry, cx, cy float64) string {
	fill := colors.Normalize(e.Color, colors.Fallback)
	stroke := colors.Darken(fill)
	class := "legend-swatch legend-" + string(e.Kind)

	switch e.Kind {
	case models.KindTee:
		return fmt.Sprintf(`<rect class="%s" x="%s" y="%s" width="16" height="10" rx="2" fill="%s" stroke="%s"/>`,
			class, svgx.Num(cx-8), svgx.Num(cy-5), fill, stroke)
	case models.KindBasket, models.KindDropzone:
		return fmt.Sprintf(`<circle class="%s" cx="%s" cy="%s" r="6" fill="%s" stroke="%s"/>`,
			class, svgx.Num(cx), svgx.Num(cy), fill, stroke)
	case models.KindMandatory:
		return fmt.Sprintf(`<path class="%s" d="M %s %s L %s %s L %s %s Z" fill="%s"/>`,
			class, svgx.Num(cx-7), svgx.Num(cy-5), svgx.Num(cx+7), svgx.Num(cy), svgx.Num(cx-7), svgx.Num(cy+5), fill)
	case models.KindFlightLine:
		return fmt.Sprintf(`<line class="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2" stroke-dasharray="4 2"/>`,
			class, svgx.Num(cx-8), svgx.Num(cy), svgx.Num(cx+8), svgx.Num(cy), stroke)
	case models.KindOBLine:
		return fmt.Sprintf(`<line class="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="3"/>`,
			class, svgx.Num(cx-8), svgx.Num(cy), svgx.Num(cx+8), svgx.Num(cy), fill)
	case models.KindLandmark:
		return fmt.Sprintf(`<circle class="%s" cx="%s" cy="%s" r="5" fill="%s"/>`, class, svgx.Num(cx), svgx.Num(cy), fill)
	}
	return fmt.Sprintf(`<rect class="%s" x="%s" y="%s" width="16" height="12" fill="%s" fill-opacity="0.6" stroke="%s"/>`,
		class, svgx.Num(cx-8), svgx.Num(cy-6), fill, stroke)
}
