package marker

import (
	"fmt"
	"strings"

	"coursemap/internal/exporter/colors"
	"coursemap/internal/exporter/svgx"

	"github.com/iancoleman/strcase"
)

const landmarkSize = 20.0

type Landmark struct {
	Type     string
	Label    string
	Color    string
	Size     float64
	Rotation float64
	Scale    float64
}

// landmarkGlyphs рисуют значок в квадрате [-1, 1], масштаб задает внешний transform.
var landmarkGlyphs = map[string]func(fill, stroke string) string{
	"bench": func(fill, stroke string) string {
		return fmt.Sprintf(`<rect x="-0.9" y="-0.3" width="1.8" height="0.35" fill="%s"/><rect x="-0.8" y="0.05" width="0.15" height="0.6" fill="%s"/><rect x="0.65" y="0.05" width="0.15" height="0.6" fill="%s"/>`, fill, stroke, stroke)
	},
	"parking": func(fill, stroke string) string {
		return `<rect x="-0.9" y="-0.9" width="1.8" height="1.8" rx="0.25" fill="#1565c0"/><text x="0" y="0.1" text-anchor="middle" dominant-baseline="central" font-family="Arial, sans-serif" font-size="1.4" font-weight="bold" fill="#ffffff">P</text>`
	},
	"restroom": func(fill, stroke string) string {
		return fmt.Sprintf(`<rect x="-0.9" y="-0.9" width="1.8" height="1.8" rx="0.25" fill="%s"/><text x="0" y="0.1" text-anchor="middle" dominant-baseline="central" font-family="Arial, sans-serif" font-size="0.9" font-weight="bold" fill="%s">WC</text>`, fill, colors.TextColor(fill))
	},
	"trashCan": func(fill, stroke string) string {
		return fmt.Sprintf(`<path d="M -0.6 -0.5 L 0.6 -0.5 L 0.45 0.9 L -0.45 0.9 Z" fill="%s" stroke="%s" stroke-width="0.1"/><rect x="-0.75" y="-0.75" width="1.5" height="0.2" fill="%s"/>`, fill, stroke, stroke)
	},
	"sign": func(fill, stroke string) string {
		return fmt.Sprintf(`<rect x="-0.08" y="-0.2" width="0.16" height="1.1" fill="%s"/><rect x="-0.8" y="-0.9" width="1.6" height="0.8" fill="%s" stroke="%s" stroke-width="0.08"/>`, stroke, fill, stroke)
	},
	"building": func(fill, stroke string) string {
		return fmt.Sprintf(`<path d="M -0.9 -0.1 L 0 -0.9 L 0.9 -0.1 L 0.7 -0.1 L 0.7 0.9 L -0.7 0.9 L -0.7 -0.1 Z" fill="%s" stroke="%s" stroke-width="0.1"/>`, fill, stroke)
	},
	"water": func(fill, stroke string) string {
		return `<path d="M 0 -0.9 C 0.5 -0.2 0.7 0.2 0.7 0.4 A 0.7 0.7 0 0 1 -0.7 0.4 C -0.7 0.2 -0.5 -0.2 0 -0.9 Z" fill="#29b6f6" stroke="#0277bd" stroke-width="0.08"/>`
	},
}

func defaultGlyph(fill, stroke string) string {
	return fmt.Sprintf(`<path d="M 0 0.95 C -0.3 0.4 -0.7 0 -0.7 -0.3 A 0.7 0.7 0 1 1 0.7 -0.3 C 0.7 0 0.3 0.4 0 0.95 Z" fill="%s" stroke="%s" stroke-width="0.08"/><circle cy="-0.3" r="0.25" fill="#ffffff"/>`, fill, stroke)
}

// LandmarkTypes: известные значки; остальные типы рисуются булавкой.
func LandmarkTypes() []string {
	out := make([]string, 0, len(landmarkGlyphs))
	for k := range landmarkGlyphs {
		out = append(out, k)
	}
	return out
}

func RenderLandmark(x, y float64, l Landmark) string {
	s := Common{Scale: l.Scale}.scale()
	size := l.Size
	if size <= 0 {
		size = landmarkSize
	}
	half := size * s / 2
	fill := colors.Normalize(l.Color, "#5D4037")
	stroke := colors.Darken(fill)

	glyph, ok := landmarkGlyphs[strcase.ToLowerCamel(l.Type)]
	if !ok {
		glyph = defaultGlyph
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<g%s>%s</g>`,
		svgx.TransformAttr(svgx.Rotate(l.Rotation, 0, 0), fmt.Sprintf("scale(%s)", svgx.Num(half))),
		glyph(fill, stroke))
	if l.Label != "" {
		b.WriteString(text(0, half+8*s, 10*s, "#212121", "normal", l.Label))
	}
	return group("landmark-marker", x, y, b.String())
}
