package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursemap/internal/exporter/assets"
	"coursemap/internal/exporter/models"
)

func twoHoles() *models.Course {
	hole := func(id string, number int, lng float64) models.Hole {
		return models.Hole{ID: id, Number: number, Par: 3, Features: []models.Feature{
			{ID: id + "-tee", Geometry: orb.Point{lng, 0}, Props: models.TeeProps{}},
			{ID: id + "-basket", Geometry: orb.Point{lng, 0.001}, Props: models.BasketProps{}},
		}}
	}
	return &models.Course{
		Name:  "Archive Park",
		Holes: []models.Hole{hole("h1", 1, 0), hole("h2", 2, 0.002)},
		TreeFeatures: []models.Feature{
			{ID: "oak", Geometry: orb.Point{0.001, 0.0005}, Props: models.TreeProps{TreeType: models.TreeOak}},
		},
	}
}

func readZip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = body
	}
	return out
}

func grassPNG(t *testing.T) []byte {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestBuild(t *testing.T) {
	cache := assets.NewCache("", 0)
	require.NoError(t, cache.Put("textures/grass.jpg", grassPNG(t)))

	var buf bytes.Buffer
	manifest, err := Build(context.Background(), &buf, twoHoles(), Options{
		Config:   models.DefaultExportConfig(),
		Cache:    cache,
		TeeSigns: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"course.svg", "hole-01.svg", "hole-02.svg", "tee-sign-01.svg", "tee-sign-02.svg",
	}, manifest.Files)
	assert.Equal(t, []string{"assets/textures/grass.jpg"}, manifest.Assets)
	assert.NotEmpty(t, manifest.ID)

	files := readZip(t, buf.Bytes())
	assert.Contains(t, files, "manifest.json")
	assert.Contains(t, files, "assets/textures/grass.jpg")
	assert.Contains(t, string(files["course.svg"]), `href="assets/textures/grass.jpg"`)
	// крон в кэше нет: деревья векторные, ссылок на trees/ нет
	for name, body := range files {
		assert.NotContains(t, string(body), "assets/trees/", name)
	}

	var stored Manifest
	require.NoError(t, json.Unmarshal(files["manifest.json"], &stored))
	assert.Equal(t, manifest.ID, stored.ID)
}

func TestBuildWithoutTeeSigns(t *testing.T) {
	var buf bytes.Buffer
	manifest, err := Build(context.Background(), &buf, twoHoles(), Options{Config: models.DefaultExportConfig()})
	require.NoError(t, err)
	assert.Equal(t, []string{"course.svg", "hole-01.svg", "hole-02.svg"}, manifest.Files)
	assert.Empty(t, manifest.Assets)
}

func TestBuildWithoutCacheHasNoAssetLinks(t *testing.T) {
	var buf bytes.Buffer
	manifest, err := Build(context.Background(), &buf, twoHoles(), Options{
		Config:   models.DefaultExportConfig(),
		TeeSigns: true,
	})
	require.NoError(t, err)
	assert.Empty(t, manifest.Assets)

	for name, body := range readZip(t, buf.Bytes()) {
		assert.False(t, strings.HasPrefix(name, AssetDir), name)
		assert.NotContains(t, string(body), `href="assets/`, name)
	}
}

func TestBuildCourseMapHonorsHoleSelection(t *testing.T) {
	cfg := models.DefaultExportConfig()
	cfg.Holes = models.HoleIndices(1)

	var buf bytes.Buffer
	manifest, err := Build(context.Background(), &buf, twoHoles(), Options{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, []string{"course.svg", "hole-01.svg", "hole-02.svg"}, manifest.Files)

	files := readZip(t, buf.Bytes())
	assert.Equal(t, 1, strings.Count(string(files["course.svg"]), `class="tee-marker"`))
	// страницы лунок от выбора не зависят
	assert.Equal(t, 1, strings.Count(string(files["hole-02.svg"]), `class="tee-marker"`))
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := models.DefaultExportConfig()
	cfg.Width = -1

	_, err := Build(context.Background(), io.Discard, twoHoles(), Options{Config: cfg})
	var invalid *models.InvalidExportConfigError
	assert.True(t, errors.As(err, &invalid))
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, io.Discard, twoHoles(), Options{Config: models.DefaultExportConfig(), TeeSigns: true})
	assert.ErrorIs(t, err, context.Canceled)
}
