package marker

import (
	"strings"
	"testing"

	"coursemap/internal/exporter/colors"
	"coursemap/internal/exporter/geo"
	"coursemap/internal/exporter/models"

	"github.com/stretchr/testify/assert"
)

func TestTeeKeepsLabelUpright(t *testing.T) {
	out := Tee(100, 50, Common{Color: "#ff0000", Label: "7", Rotation: 30, Scale: 1})

	assert.True(t, strings.HasPrefix(out, `<g class="tee-marker" transform="translate(100 50)">`))
	assert.Contains(t, out, `<g class="tee-shape" transform="rotate(30 0 0)">`)
	shapeEnd := strings.Index(out, "</g>")
	label := strings.Index(out, ">7</text>")
	assert.Greater(t, label, shapeEnd, "label lives outside the rotated group")
	assert.Contains(t, out, `stroke="#d70000"`)
	assert.Contains(t, out, `fill="#ffffff">7</text>`)
}

func TestSelectedSwapsStroke(t *testing.T) {
	plain := Basket(0, 0, Common{Color: "#FDD835", Scale: 1})
	selected := Basket(0, 0, Common{Color: "#FDD835", Scale: 1, Selected: true})

	assert.NotContains(t, plain, colors.Accent)
	assert.Contains(t, selected, `stroke="#1E88E5" stroke-width="3"`)
}

func TestScaleMultipliesDimensions(t *testing.T) {
	full := Tee(0, 0, Common{Color: "#ff0000", Scale: 1})
	half := Tee(0, 0, Common{Color: "#ff0000", Scale: 0.5})

	assert.Contains(t, full, `width="30" height="18"`)
	assert.Contains(t, full, `stroke-width="1.5"`)
	assert.Contains(t, half, `width="15" height="9"`)
	assert.Contains(t, half, `stroke-width="0.75"`)
}

func TestMandatoryHasTwoRotations(t *testing.T) {
	out := Mandatory(10, 10, Common{Color: "#8E24AA", Rotation: 90, Scale: 1}, Line{Angle: 45, Length: 40})

	assert.Contains(t, out, `class="mandatory-marker"`)
	assert.Contains(t, out, `<g class="mandatory-line" transform="rotate(45 0 0)">`)
	assert.Contains(t, out, `<g class="mandatory-arrow" transform="rotate(90 0 0)">`)

	noLine := Mandatory(10, 10, Common{Color: "#8E24AA", Scale: 1}, Line{})
	assert.NotContains(t, noLine, "mandatory-line")
}

func TestDropzoneDefaultLabel(t *testing.T) {
	out := Dropzone(0, 0, Common{Color: "#FB8C00", Scale: 1}, Line{Angle: 10, Length: 30})
	assert.Contains(t, out, ">DZ</text>")
	assert.Contains(t, out, "stroke-dasharray")
}

func TestAnnotationEscapesText(t *testing.T) {
	out := RenderAnnotation(0, 0, Annotation{Text: `Watch <out> & "duck"`, Background: "#000000"})
	assert.Contains(t, out, "Watch &lt;out&gt; &amp; &quot;duck&quot;")
	assert.Contains(t, out, `fill="#ffffff"`, "white text on black plate")

	assert.Equal(t, "", RenderAnnotation(0, 0, Annotation{Text: "   "}))
}

func TestLandmarkGlyphs(t *testing.T) {
	bench := RenderLandmark(0, 0, Landmark{Type: "bench", Label: "Rest"})
	assert.Contains(t, bench, `class="landmark-marker"`)
	assert.Contains(t, bench, ">Rest</text>")

	unknown := RenderLandmark(0, 0, Landmark{Type: "ufo"})
	assert.Contains(t, unknown, `<circle cy="-0.3"`)

	snake := RenderLandmark(0, 0, Landmark{Type: "trash_can"})
	assert.Contains(t, snake, "L 0.45 0.9")
}

func TestTreesFallBackToOak(t *testing.T) {
	oak := TreeTop(0, 0, Tree{Type: models.TreeOak, Size: 10})
	unknown := TreeTop(0, 0, Tree{Type: "baobab", Size: 10})
	assert.Equal(t, oak, unknown)
	assert.Contains(t, oak, "tree-oak")

	pine := TreeTop(0, 0, Tree{Type: models.TreePine, Size: 10})
	assert.Contains(t, pine, "<polygon")

	side := TreeSide(0, 0, Tree{Type: models.TreeSpruce, Size: 20, Opacity: 0.8})
	assert.Contains(t, side, "tree-side")
	assert.Contains(t, side, `opacity="0.8"`)

	assert.Equal(t, "", TreeTop(0, 0, Tree{Size: 0}))
}

func TestLegend(t *testing.T) {
	style := models.DefaultCourseStyle()
	entries := LegendEntries(map[models.Kind]bool{
		models.KindBasket: true,
		models.KindTee:    true,
		models.KindOBZone: true,
	}, style)

	if assert.Len(t, entries, 3) {
		assert.Equal(t, models.KindTee, entries[0].Kind)
		assert.Equal(t, models.KindBasket, entries[1].Kind)
		assert.Equal(t, models.KindOBZone, entries[2].Kind)
	}

	out := Legend(10, 10, entries)
	assert.Contains(t, out, `class="legend"`)
	assert.Contains(t, out, "legend-tee")
	assert.NotContains(t, out, "tee-marker")

	assert.Equal(t, "", Legend(0, 0, nil))
}

func TestBox(t *testing.T) {
	assert.Equal(t, geo.Rect{X: -15, Y: -9, W: 30, H: 18}, Box("tee", geo.Point{}, 1))
	assert.Equal(t, geo.Rect{X: -5.5, Y: -5.5, W: 11, H: 11}, Box("basket", geo.Point{}, 0.5))
}
