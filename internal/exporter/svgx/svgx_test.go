package svgx

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{1.005, "1"},
		{12.345678, "12.35"},
		{-0.001, "0"},
		{-3.5, "-3.5"},
		{math.NaN(), "0"},
		{math.Inf(-1), "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Num(tt.in), "Num(%v)", tt.in)
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "Tom &amp; Jerry &lt;b&gt; &quot;x&quot; &apos;y&apos;", Escape(`Tom & Jerry <b> "x" 'y'`))
}

func TestIDSource(t *testing.T) {
	ids := NewIDSource()
	assert.Equal(t, "grass-0", ids.Next("grass"))
	assert.Equal(t, "water-1", ids.Next("water"))

	ids.Reset()
	assert.Equal(t, "grass-0", ids.Next("grass"))
}

func TestTransformAttr(t *testing.T) {
	assert.Equal(t, "", TransformAttr("", Rotate(0, 1, 1)))
	assert.Equal(t, ` transform="translate(1 2) rotate(45 3 4)"`, TransformAttr(Translate(1, 2), Rotate(45, 3, 4)))
}

func TestDocument(t *testing.T) {
	doc := NewDocument(320, 200)
	doc.AddDef(`<pattern id="p-0"/>`)
	doc.Add(`<rect/>`)
	doc.Add("")
	out := doc.String()

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, out, `width="320" height="200" viewBox="0 0 320 200"`)
	assert.Contains(t, out, "<defs>\n    <pattern id=\"p-0\"/>\n  </defs>")
	assert.NotContains(t, out, "xmlns:xlink")
	assert.True(t, strings.HasSuffix(out, "</svg>"))

	doc.XLink = true
	assert.Contains(t, doc.String(), `xmlns:xlink="http://www.w3.org/1999/xlink"`)
}

func TestPlaceholder(t *testing.T) {
	out := Placeholder(1024, 768, PlaceholderText)
	assert.Contains(t, out, `width="1024" height="768"`)
	assert.Contains(t, out, ">No features to export</text>")
}
