package models

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureUnmarshalVariants(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Props
	}{
		{
			name: "tee",
			json: `{"type":"Feature","geometry":{"type":"Point","coordinates":[10,20]},"properties":{"type":"tee","id":"t1","holeId":"h1","color":"#ff0000","rotation":45}}`,
			want: TeeProps{Color: "#ff0000", Rotation: 45},
		},
		{
			name: "snake case flight line",
			json: `{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[0,1]]},"properties":{"type":"flight_line","id":"f1"}}`,
			want: FlightLineProps{},
		},
		{
			name: "infrastructure becomes terrain",
			json: `{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},"properties":{"type":"infrastructure","id":"i1"}}`,
			want: TerrainProps{TerrainType: TerrainConcrete, Infrastructure: true},
		},
		{
			name: "unknown terrain falls back to grass",
			json: `{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},"properties":{"type":"terrain","terrainType":"lava","id":"x"}}`,
			want: TerrainProps{TerrainType: TerrainGrass},
		},
		{
			name: "unknown tree falls back to oak",
			json: `{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"type":"tree","treeType":"baobab","id":"x"}}`,
			want: TreeProps{TreeType: TreeOak},
		},
		{
			name: "unknown type is kept",
			json: `{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"type":"hotdogStand","id":"x"}}`,
			want: UnknownProps{Type: "hotdogStand"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Feature
			require.NoError(t, json.Unmarshal([]byte(tt.json), &f))
			assert.Equal(t, tt.want, f.Props)
		})
	}
}

func TestFeatureUnmarshalIDs(t *testing.T) {
	var f Feature
	data := `{"type":"Feature","id":"outer","geometry":{"type":"Point","coordinates":[10,20]},"properties":{"type":"basket","holeId":"h3"}}`
	require.NoError(t, json.Unmarshal([]byte(data), &f))

	assert.Equal(t, "outer", f.ID)
	assert.Equal(t, "h3", f.HoleID)
	assert.Equal(t, KindBasket, f.Kind())

	p, ok := f.Point()
	require.True(t, ok)
	assert.Equal(t, orb.Point{10, 20}, p)
}

func TestFeatureRoundTripKeepsType(t *testing.T) {
	in := Feature{
		ID:       "m1",
		HoleID:   "h1",
		Geometry: orb.Point{1, 2},
		Props:    MandatoryProps{Color: "#00ff00", LineAngle: 30, LineLength: 40},
	}

	blob, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `"type":"mandatory"`)

	var out Feature
	require.NoError(t, json.Unmarshal(blob, &out))
	assert.Equal(t, in, out)
}

func TestFeatureRingAcceptsPolygon(t *testing.T) {
	f := Feature{Geometry: orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}
	ring, ok := f.Ring()
	require.True(t, ok)
	assert.Len(t, ring, 4)

	_, ok = Feature{Geometry: orb.Point{0, 0}}.Ring()
	assert.False(t, ok)
}

func TestNormalizeKind(t *testing.T) {
	assert.Equal(t, KindOBZone, NormalizeKind("ob_zone"))
	assert.Equal(t, KindDropzoneArea, NormalizeKind("DropzoneArea"))
	assert.Equal(t, KindTerrain, NormalizeKind("infrastructure"))
	assert.Equal(t, KindUnknown, NormalizeKind("spaceship"))
}

func TestCourseUnmarshal(t *testing.T) {
	data := `{
		"id": "c1",
		"name": "Riverside",
		"style": {"teeColor": "#123456"},
		"holes": [
			{"id": "h1", "number": 1, "par": 3, "features": [
				{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":{"type":"tee","id":"t1"}},
				{"type":"Feature","geometry":{"type":"Point","coordinates":[0,0.001]},"properties":{"type":"basket","id":"b1"}}
			]},
			{"id": "h2", "number": 2, "par": 4, "features": []}
		]
	}`

	var c Course
	require.NoError(t, json.Unmarshal([]byte(data), &c))
	assert.Equal(t, 7, c.TotalPar())
	assert.Len(t, c.Holes[0].FeaturesOf(KindTee), 1)
	assert.Equal(t, "Hole 2", c.Holes[1].Label())

	h, ok := c.HoleByNumber(2)
	require.True(t, ok)
	assert.Equal(t, "h2", h.ID)

	style := c.Style.WithDefaults()
	assert.Equal(t, "#123456", style.TeeColor)
	assert.Equal(t, DefaultCourseStyle().BasketColor, style.BasketColor)
}
