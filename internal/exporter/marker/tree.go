package marker

import (
	"fmt"
	"strings"

	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/svgx"
)

// ============================================================
// Trees
// ============================================================

type treeLook struct {
	crown  string
	shade  string
	trunk  string
	conic  bool
	bushy  bool
	weight float64
}

var treeLooks = map[models.TreeType]treeLook{
	models.TreeOak:    {crown: "#2e7d32", shade: "#1b5e20", trunk: "#5d4037", weight: 3},
	models.TreePine:   {crown: "#1b5e20", shade: "#0d3d12", trunk: "#4e342e", conic: true, weight: 3},
	models.TreeBirch:  {crown: "#7cb342", shade: "#558b2f", trunk: "#eeeeee", weight: 1.5},
	models.TreeMaple:  {crown: "#388e3c", shade: "#8d6e00", trunk: "#5d4037", weight: 1.5},
	models.TreeSpruce: {crown: "#004d40", shade: "#00251a", trunk: "#3e2723", conic: true, weight: 2},
	models.TreeWillow: {crown: "#9ccc65", shade: "#689f38", trunk: "#6d4c41", weight: 0.7},
	models.TreeBush:   {crown: "#558b2f", shade: "#33691e", trunk: "#4e342e", bushy: true, weight: 1},
}

// ForestTreeTypes и ForestTreeWeights: палитра для случайного выбора в лесу.
var (
	ForestTreeTypes   = []models.TreeType{models.TreeOak, models.TreePine, models.TreeBirch, models.TreeMaple, models.TreeSpruce, models.TreeBush}
	ForestTreeWeights = weights(ForestTreeTypes)
)

func weights(types []models.TreeType) []float64 {
	out := make([]float64, len(types))
	for i, t := range types {
		out[i] = treeLooks[t].weight
	}
	return out
}

// Tree: параметры одного дерева в пикселях.
type Tree struct {
	Type     models.TreeType
	Size     float64
	Rotation float64
	Opacity  float64
}

func (t Tree) look() treeLook {
	return treeLooks[t.Type.Valid()]
}

func (t Tree) opacity() float64 {
	if t.Opacity <= 0 || t.Opacity > 1 {
		return 1
	}
	return t.Opacity
}

// TreeTop рисует вид сверху: крона кругом или звездой для хвойных, с тенью.
func TreeTop(x, y float64, t Tree) string {
	if t.Size <= 0 {
		return ""
	}
	look := t.look()
	r := t.Size / 2

	var b strings.Builder
	fmt.Fprintf(&b, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="#000000" opacity="0.18"/>`,
		svgx.Num(r*0.15), svgx.Num(r*0.2), svgx.Num(r), svgx.Num(r*0.9))
	if look.conic {
		pts := make([]string, 0, 16)
		for i := 0; i < 16; i++ {
			rad := r
			if i%2 == 1 {
				rad = r * 0.65
			}
			p := polar(rad, float64(i)*22.5)
			pts = append(pts, svgx.Pair(p[0], p[1]))
		}
		fmt.Fprintf(&b, `<polygon points="%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
			strings.Join(pts, " "), look.crown, look.shade, svgx.Num(r*0.08))
	} else {
		fmt.Fprintf(&b, `<circle r="%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
			svgx.Num(r), look.crown, look.shade, svgx.Num(r*0.08))
		fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="#ffffff" opacity="0.15"/>`,
			svgx.Num(-r*0.3), svgx.Num(-r*0.3), svgx.Num(r*0.45))
	}
	fmt.Fprintf(&b, `<circle r="%s" fill="%s"/>`, svgx.Num(r*0.12), look.trunk)

	return fmt.Sprintf(`<g class="tree tree-%s" opacity="%s"%s>%s</g>`,
		t.Type.Valid(), svgx.Num(t.opacity()),
		svgx.TransformAttr(svgx.Translate(x, y), svgx.Rotate(t.Rotation, 0, 0)), b.String())
}

// TreeSide рисует вид сбоку для знаков и печати; (x, y) это основание ствола.
func TreeSide(x, y float64, t Tree) string {
	if t.Size <= 0 {
		return ""
	}
	look := t.look()
	h := t.Size
	w := t.Size * 0.7

	var b strings.Builder
	if !look.bushy {
		fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
			svgx.Num(-h*0.05), svgx.Num(-h*0.35), svgx.Num(h*0.1), svgx.Num(h*0.35), look.trunk)
	}
	switch {
	case look.conic:
		fmt.Fprintf(&b, `<path d="M 0 %s L %s %s L %s %s Z" fill="%s" stroke="%s" stroke-width="%s"/>`,
			svgx.Num(-h), svgx.Num(w/2), svgx.Num(-h*0.25), svgx.Num(-w/2), svgx.Num(-h*0.25),
			look.crown, look.shade, svgx.Num(h*0.02))
	case look.bushy:
		fmt.Fprintf(&b, `<ellipse cx="0" cy="%s" rx="%s" ry="%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
			svgx.Num(-h*0.3), svgx.Num(w/2), svgx.Num(h*0.3), look.crown, look.shade, svgx.Num(h*0.02))
	default:
		fmt.Fprintf(&b, `<ellipse cx="0" cy="%s" rx="%s" ry="%s" fill="%s" stroke="%s" stroke-width="%s"/>`,
			svgx.Num(-h*0.62), svgx.Num(w/2), svgx.Num(h*0.38), look.crown, look.shade, svgx.Num(h*0.02))
	}

	return fmt.Sprintf(`<g class="tree tree-side tree-%s" opacity="%s"%s>%s</g>`,
		t.Type.Valid(), svgx.Num(t.opacity()), svgx.TransformAttr(svgx.Translate(x, y)), b.String())
}
