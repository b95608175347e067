package marker

import (
	"fmt"
	"math"
	"strings"

	"coursemap/internal/exporter/colors"
	"coursemap/internal/exporter/geo"
	"coursemap/internal/exporter/svgx"
)

// ============================================================
// Marker renderers
// ============================================================
//
// Все рендеры: чистые функции от позиции в пикселях и параметров.
// scale умножает каждый линейный размер, включая толщину обводки.
// Фигура поворачивается, текст остается горизонтальным.

const (
	teeWidth     = 30.0
	teeHeight    = 18.0
	basketRadius = 11.0
	dropzoneSize = 22.0
	mandatoryLen = 26.0
	fontFamily   = "Arial, sans-serif"
)

// Common: параметры, общие для точечных маркеров.
type Common struct {
	Color    string
	Label    string
	Rotation float64
	Scale    float64
	Selected bool
}

func (c Common) scale() float64 {
	if c.Scale <= 0 || math.IsNaN(c.Scale) {
		return 1
	}
	return c.Scale
}

// stroke возвращает цвет и толщину обводки; при выделении синий акцент двойной толщины.
func (c Common) stroke(base float64) (string, float64) {
	s := c.scale()
	if c.Selected {
		return colors.Accent, base * 2 * s
	}
	return colors.Darken(c.Color), base * s
}

func group(class string, x, y float64, body string) string {
	return fmt.Sprintf(`<g class="%s"%s>%s</g>`, class, svgx.TransformAttr(svgx.Translate(x, y)), body)
}

func text(x, y, size float64, fill, weight, content string) string {
	if content == "" {
		return ""
	}
	return fmt.Sprintf(`<text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%s" font-weight="%s" fill="%s">%s</text>`,
		svgx.Num(x), svgx.Num(y), fontFamily, svgx.Num(size), weight, fill, svgx.Escape(content))
}

// ============================================================
// Tee
// ============================================================

func Tee(x, y float64, o Common) string {
	s := o.scale()
	fill := colors.Normalize(o.Color, colors.Fallback)
	stroke, sw := o.stroke(1.5)
	w, h := teeWidth*s, teeHeight*s

	var b strings.Builder
	fmt.Fprintf(&b, `<g class="tee-shape"%s>`, svgx.TransformAttr(svgx.Rotate(o.Rotation, 0, 0)))
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
		svgx.Num(-w/2), svgx.Num(-h/2), svgx.Num(w), svgx.Num(h), svgx.Num(3*s), fill, stroke, svgx.Num(sw))
	fmt.Fprintf(&b, `<path d="M %s %s L %s %s L %s %s Z" fill="%s"/>`,
		svgx.Num(-4*s), svgx.Num(-h/2-1*s), svgx.Num(0), svgx.Num(-h/2-6*s), svgx.Num(4*s), svgx.Num(-h/2-1*s), stroke)
	b.WriteString(`</g>`)
	b.WriteString(text(0, 0, 11*s, colors.TextColor(fill), "bold", o.Label))
	return group("tee-marker", x, y, b.String())
}

// ============================================================
// Basket
// ============================================================

func Basket(x, y float64, o Common) string {
	s := o.scale()
	fill := colors.Normalize(o.Color, colors.Fallback)
	stroke, sw := o.stroke(1.5)
	r := basketRadius * s

	var b strings.Builder
	fmt.Fprintf(&b, `<circle r="%s" fill="%s" stroke="%s" stroke-width="%s"/>`, svgx.Num(r), fill, stroke, svgx.Num(sw))
	fmt.Fprintf(&b, `<circle r="%s" fill="none" stroke="%s" stroke-width="%s"/>`, svgx.Num(r*0.6), stroke, svgx.Num(sw*0.7))
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		fmt.Fprintf(&b, `<line x1="0" y1="0" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`,
			svgx.Num(math.Cos(a)*r*0.6), svgx.Num(math.Sin(a)*r*0.6), stroke, svgx.Num(sw*0.5))
	}
	if o.Label != "" {
		b.WriteString(text(0, r+8*s, 10*s, "#212121", "bold", o.Label))
	}
	return group("basket-marker", x, y, b.String())
}

// ============================================================
// Dropzone
// ============================================================

// Line: отдельно поворачиваемая граничная линия маркера.
type Line struct {
	Angle  float64
	Length float64
}

func (l Line) length(s float64) float64 {
	if l.Length <= 0 {
		return 0
	}
	return l.Length * s
}

func Dropzone(x, y float64, o Common, line Line) string {
	s := o.scale()
	fill := colors.Normalize(o.Color, colors.Fallback)
	stroke, sw := o.stroke(1.5)
	size := dropzoneSize * s

	var b strings.Builder
	if l := line.length(s); l > 0 {
		fmt.Fprintf(&b, `<line x1="%s" y1="0" x2="%s" y2="0" stroke="%s" stroke-width="%s" stroke-dasharray="%s"%s/>`,
			svgx.Num(-l/2), svgx.Num(l/2), stroke, svgx.Num(2*s), svgx.Num(4*s),
			svgx.TransformAttr(svgx.Rotate(line.Angle, 0, 0)))
	}
	fmt.Fprintf(&b, `<g class="dropzone-shape"%s>`, svgx.TransformAttr(svgx.Rotate(o.Rotation, 0, 0)))
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
		svgx.Num(-size/2), svgx.Num(-size/2), svgx.Num(size), svgx.Num(size), svgx.Num(size/2), fill, stroke, svgx.Num(sw))
	b.WriteString(`</g>`)

	label := o.Label
	if label == "" {
		label = "DZ"
	}
	b.WriteString(text(0, 0, 9*s, colors.TextColor(fill), "bold", label))
	return group("dropzone-marker", x, y, b.String())
}

// ============================================================
// Mandatory
// ============================================================

// Mandatory: стрелка направления поворачивается на o.Rotation, а граничная линия
// со стрелкой на конце поворачивается независимо, на line.Angle.
func Mandatory(x, y float64, o Common, line Line) string {
	s := o.scale()
	fill := colors.Normalize(o.Color, colors.Fallback)
	stroke, sw := o.stroke(1.2)

	var b strings.Builder
	if l := line.length(s); l > 0 {
		head := 6 * s
		fmt.Fprintf(&b, `<g class="mandatory-line"%s>`, svgx.TransformAttr(svgx.Rotate(line.Angle, 0, 0)))
		fmt.Fprintf(&b, `<line x1="0" y1="0" x2="%s" y2="0" stroke="%s" stroke-width="%s"/>`,
			svgx.Num(l), stroke, svgx.Num(2*s))
		fmt.Fprintf(&b, `<path d="M %s %s L %s 0 L %s %s Z" fill="%s"/>`,
			svgx.Num(l-head), svgx.Num(-head/2), svgx.Num(l), svgx.Num(l-head), svgx.Num(head/2), stroke)
		b.WriteString(`</g>`)
	}

	half := mandatoryLen * s / 2
	fmt.Fprintf(&b, `<g class="mandatory-arrow"%s>`, svgx.TransformAttr(svgx.Rotate(o.Rotation, 0, 0)))
	fmt.Fprintf(&b, `<path d="M %s %s L %s %s L %s %s L %s %s L %s %s L %s %s L %s %s Z" fill="%s" stroke="%s" stroke-width="%s"/>`,
		svgx.Num(-half), svgx.Num(-4*s),
		svgx.Num(half*0.3), svgx.Num(-4*s),
		svgx.Num(half*0.3), svgx.Num(-9*s),
		svgx.Num(half), svgx.Num(0),
		svgx.Num(half*0.3), svgx.Num(9*s),
		svgx.Num(half*0.3), svgx.Num(4*s),
		svgx.Num(-half), svgx.Num(4*s),
		fill, stroke, svgx.Num(sw))
	b.WriteString(`</g>`)
	return group("mandatory-marker", x, y, b.String())
}

// ============================================================
// Annotation
// ============================================================

type Annotation struct {
	Text       string
	FontSize   float64
	FontFamily string
	Color      string
	Background string
	Rotation   float64
	Scale      float64
}

// AnnotationSize: размеры плашки подписи в пикселях.
func AnnotationSize(a Annotation) (float64, float64) {
	s := Common{Scale: a.Scale}.scale()
	fs := annotationFont(a) * s
	w := float64(len([]rune(a.Text)))*fs*0.6 + 12*s
	return w, fs + 8*s
}

func annotationFont(a Annotation) float64 {
	if a.FontSize <= 0 {
		return 14
	}
	return a.FontSize
}

func RenderAnnotation(x, y float64, a Annotation) string {
	if strings.TrimSpace(a.Text) == "" {
		return ""
	}
	s := Common{Scale: a.Scale}.scale()
	fs := annotationFont(a) * s
	family := a.FontFamily
	if family == "" {
		family = fontFamily
	}
	fg := colors.Normalize(a.Color, "#212121")
	w, h := AnnotationSize(a)

	var b strings.Builder
	fmt.Fprintf(&b, `<g%s>`, svgx.TransformAttr(svgx.Rotate(a.Rotation, 0, 0)))
	if a.Background != "" {
		bg := colors.Normalize(a.Background, "#ffffff")
		fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s" fill-opacity="0.85"/>`,
			svgx.Num(-w/2), svgx.Num(-h/2), svgx.Num(w), svgx.Num(h), svgx.Num(3*s), bg)
		if a.Color == "" {
			fg = colors.TextColor(bg)
		}
	}
	fmt.Fprintf(&b, `<text x="0" y="0" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%s" fill="%s">%s</text>`,
		svgx.Escape(family), svgx.Num(fs), fg, svgx.Escape(a.Text))
	b.WriteString(`</g>`)
	return group("annotation-marker", x, y, b.String())
}

// ============================================================
// Bounds for collision registration
// ============================================================

// Box возвращает рамку маркера вида kind ("tee", "basket", ...) в точке p.
func Box(kind string, p geo.Point, scale float64) geo.Rect {
	s := Common{Scale: scale}.scale()
	switch kind {
	case "tee":
		return geo.RectAround(p, teeWidth*s, teeHeight*s)
	case "basket":
		return geo.RectAround(p, 2*basketRadius*s, 2*basketRadius*s)
	case "dropzone":
		return geo.RectAround(p, dropzoneSize*s, dropzoneSize*s)
	case "mandatory":
		return geo.RectAround(p, mandatoryLen*s, mandatoryLen*s)
	case "landmark":
		return geo.RectAround(p, landmarkSize*s, landmarkSize*s)
	}
	return geo.RectAround(p, 16*s, 16*s)
}
