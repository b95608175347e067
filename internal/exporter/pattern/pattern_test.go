package pattern

import (
	"strings"
	"testing"

	"coursemap/internal/exporter/colors"
	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/svgx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministic(t *testing.T) {
	for _, terrain := range models.TerrainTypes {
		t.Run(string(terrain), func(t *testing.T) {
			p := colors.TerrainPalette(terrain, "")

			first := NewLibrary(svgx.NewIDSource(), false, nil)
			second := NewLibrary(svgx.NewIDSource(), false, nil)
			idA := first.Terrain(terrain, p, 1.5)
			idB := second.Terrain(terrain, p, 1.5)

			assert.Equal(t, idA, idB)
			require.Len(t, first.Defs(), 1)
			assert.Equal(t, first.Defs()[0], second.Defs()[0])
			assert.True(t, strings.HasPrefix(first.Defs()[0], `<pattern id="`+idA+`"`))
		})
	}
}

func TestGenerateUnknownTerrainFallsBackToGrass(t *testing.T) {
	p := colors.TerrainPalette(models.TerrainGrass, "")
	assert.Equal(t, Generate(models.TerrainGrass, "x", p, 1), Generate("lava", "x", p, 1))
}

func TestGenerateScaleChangesTile(t *testing.T) {
	p := colors.TerrainPalette(models.TerrainSand, "")
	assert.Contains(t, Generate(models.TerrainSand, "s", p, 1), `width="16" height="16"`)
	assert.Contains(t, Generate(models.TerrainSand, "s", p, 2), `width="32" height="32"`)
	assert.Contains(t, Generate(models.TerrainSand, "s", p, 0), `width="16" height="16"`)
}

func TestLibraryDeduplicates(t *testing.T) {
	lib := NewLibrary(svgx.NewIDSource(), false, nil)
	p := colors.TerrainPalette(models.TerrainWater, "")

	a := lib.Terrain(models.TerrainWater, p, 1)
	b := lib.Terrain(models.TerrainWater, p, 1)
	c := lib.Terrain(models.TerrainWater, p, 2)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, lib.Defs(), 2)
}

func TestLibraryMinimalMode(t *testing.T) {
	lib := NewLibrary(svgx.NewIDSource(), true, nil)
	p := colors.TerrainPalette(models.TerrainForest, "")
	id := lib.Terrain(models.TerrainForest, p, 1)

	require.Len(t, lib.Defs(), 1)
	assert.Equal(t, Flat(id, p), lib.Defs()[0])
	assert.NotContains(t, lib.Defs()[0], "<circle")
}

type fakeAssets struct{}

func (fakeAssets) Href(name string) string { return "assets/" + name }

func TestGrassImage(t *testing.T) {
	lib := NewLibrary(svgx.NewIDSource(), false, fakeAssets{})
	p := colors.TerrainPalette(models.TerrainGrass, "")

	id := lib.GrassImage(0.05, p)
	assert.Equal(t, id, lib.GrassImage(0.05, p))
	require.Len(t, lib.Defs(), 1)
	assert.Contains(t, lib.Defs()[0], `width="80" height="80"`)
	assert.Contains(t, lib.Defs()[0], `href="assets/textures/grass.jpg"`)
	assert.Equal(t, []string{GrassAsset}, lib.Referenced())
	assert.True(t, lib.UsesImages())

	noImages := NewLibrary(svgx.NewIDSource(), false, nil)
	vector := noImages.GrassImage(0.05, p)
	assert.True(t, strings.HasPrefix(vector, "pattern-grass-"))
	assert.False(t, noImages.UsesImages())
}

// someAssets знает только о перечисленных ассетах.
type someAssets map[string]bool

func (someAssets) Href(name string) string { return "assets/" + name }
func (a someAssets) Has(name string) bool  { return a[name] }

func TestUnavailableAssetsFallBackToVector(t *testing.T) {
	lib := NewLibrary(svgx.NewIDSource(), false, someAssets{TreeAsset(models.TreePine): true})
	p := colors.TerrainPalette(models.TerrainGrass, "")

	assert.True(t, strings.HasPrefix(lib.GrassImage(0.05, p), "pattern-grass-"))
	_, ok := lib.TreeSymbol(models.TreeOak)
	assert.False(t, ok)
	_, ok = lib.TreeSymbol(models.TreePine)
	assert.True(t, ok)

	assert.Equal(t, []string{TreeAsset(models.TreePine)}, lib.Referenced())
	for _, def := range lib.Defs() {
		assert.NotContains(t, def, GrassAsset)
	}
}

func TestImageTileSize(t *testing.T) {
	assert.Equal(t, 80.0, ImageTileSize(0.05))
	assert.Equal(t, 30.0, ImageTileSize(1))
	assert.Equal(t, 800.0, ImageTileSize(0.001))
	assert.Equal(t, 800.0, ImageTileSize(0))
}

func TestTreeSymbolIsSharedPerType(t *testing.T) {
	lib := NewLibrary(svgx.NewIDSource(), false, fakeAssets{})

	oak, ok := lib.TreeSymbol(models.TreeOak)
	require.True(t, ok)
	again, _ := lib.TreeSymbol("baobab")
	assert.Equal(t, oak, again)

	pine, _ := lib.TreeSymbol(models.TreePine)
	assert.NotEqual(t, oak, pine)
	assert.Len(t, lib.Defs(), 2)

	use := Use(oak, 50, 50, 20, 0, 0.9)
	assert.Contains(t, use, `href="#`+oak+`"`)
	assert.Contains(t, use, `x="40" y="40"`)

	_, ok = NewLibrary(svgx.NewIDSource(), false, nil).TreeSymbol(models.TreeOak)
	assert.False(t, ok)
}

func TestPickScaleDistance(t *testing.T) {
	tests := []struct {
		name     string
		maxWidth float64
		mpp      float64
		units    models.Units
		want     float64
	}{
		{"fits 50 m", 200, 0.5, models.UnitsMeters, 50},
		{"fits 500 m", 1000, 1, models.UnitsMeters, 500},
		{"nothing fits", 10, 0.1, models.UnitsMeters, 10},
		{"feet", 200, 0.5, models.UnitsFeet, 250},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, length := PickScaleDistance(tt.maxWidth, tt.mpp, tt.units)
			assert.Equal(t, tt.want, got)
			assert.Greater(t, length, 0.0)
		})
	}
}

func TestScaleBarAndCompass(t *testing.T) {
	bar := ScaleBar(20, 580, 150, 1, models.UnitsMeters)
	assert.Contains(t, bar, `class="scale-bar"`)
	assert.Contains(t, bar, ">100 m</text>")

	c := Compass(740, 60, 60, 30)
	assert.Contains(t, c, `class="compass"`)
	assert.Contains(t, c, "rotate(30 0 0)")
	assert.Contains(t, c, ">N</text>")
}

func TestAssetNames(t *testing.T) {
	names := AssetNames()
	require.Len(t, names, 1+len(models.TreeTypes))
	assert.Equal(t, GrassAsset, names[0])
	assert.Contains(t, names, TreeAsset(models.TreeBush))
}
