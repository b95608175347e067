package parser

import (
	"strings"
	"testing"

	"coursemap/internal/exporter/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want []geo.Point
	}{
		{"absolute", "M 0 0 L 10 0 L 10 10 Z", []geo.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 0}}},
		{"relative", "m 1,1 l 2,0 l 0,2", []geo.Point{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 3}}},
		{"implicit lines", "M 0 0 10 0 10 10", []geo.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}},
		{"axis", "M 5 5 H 9 V 1 h -4", []geo.Point{{X: 5, Y: 5}, {X: 9, Y: 5}, {X: 9, Y: 1}, {X: 5, Y: 1}}},
		{"curves keep endpoints", "M 0 0 Q 5 5 10 0 C 12 2 14 2 16 0", []geo.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 16, Y: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParsePath("   ")
	assert.Error(t, err)
	_, err = ParsePath("Z")
	assert.Error(t, err)
}

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600" viewBox="0 0 800 600">
  <g class="tee-marker" transform="translate(1 2)"><rect/><text>1</text></g>
  <g class="basket-marker"><circle/></g>
  <g class="distance-label"><rect/><text> 111 m </text></g>
  <image href="x.png"/>
</svg>`

func TestInspect(t *testing.T) {
	s, err := Inspect(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, 800.0, s.Width)
	assert.Equal(t, 600.0, s.Height)
	assert.Equal(t, "0 0 800 600", s.ViewBox)
	assert.Equal(t, 1, s.Count("tee-marker"))
	assert.Equal(t, 1, s.Count("basket-marker"))
	assert.Equal(t, []string{"111 m"}, s.DistanceLabels)
	assert.Equal(t, 1, s.Images)
	assert.False(t, s.Placeholder)
}

func TestInspectRejectsNonSVG(t *testing.T) {
	_, err := Inspect(strings.NewReader(`<html></html>`))
	assert.Error(t, err)

	_, err = Inspect(strings.NewReader(`<svg><g>`))
	assert.Error(t, err)

	_, err = Inspect(strings.NewReader(``))
	assert.Error(t, err)
}

func TestDecodeCourseSortsHoles(t *testing.T) {
	c, err := DecodeCourse(strings.NewReader(`{"id":"c","name":"N","holes":[{"id":"b","number":2,"par":3,"features":[]},{"id":"a","number":1,"par":4,"features":[]}]}`))
	require.NoError(t, err)
	require.Len(t, c.Holes, 2)
	assert.Equal(t, "a", c.Holes[0].ID)

	_, err = DecodeCourse(strings.NewReader(`{`))
	assert.Error(t, err)
}
