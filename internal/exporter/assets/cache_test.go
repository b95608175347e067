package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 40, G: 160, B: 60, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDetectMIME(t *testing.T) {
	mime, err := DetectMIME(pngBytes(t, 2, 2))
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	_, err = DetectMIME([]byte("plain text"))
	assert.Error(t, err)
}

func TestDownscale(t *testing.T) {
	out, mime, err := Downscale(pngBytes(t, 200, 100), 50)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)

	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)

	small := pngBytes(t, 10, 10)
	same, _, err := Downscale(small, 50)
	require.NoError(t, err)
	assert.Equal(t, small, same)
}

func TestCacheHref(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "textures"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "textures", "grass.jpg"), pngBytes(t, 4, 4), 0o644))

	c := NewCache(dir, 0)
	require.NoError(t, c.Load("textures/grass.jpg", "trees/tree1.png"))

	assert.True(t, strings.HasPrefix(c.Href("textures/grass.jpg"), "data:image/png;base64,"))
	assert.Equal(t, "trees/tree1.png", c.Href("trees/tree1.png"))
	assert.Equal(t, []string{"textures/grass.jpg"}, c.Names())

	data, ok := c.Bytes("textures/grass.jpg")
	assert.True(t, ok)
	assert.NotEmpty(t, data)
}

func TestCachePutRejectsNonImages(t *testing.T) {
	c := NewCache("", 0)
	assert.Error(t, c.Put("notes.txt", []byte("hello")))
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(Relative("assets/"))
	assert.Equal(t, "assets/trees/tree2.png", r.Href("trees/tree2.png"))
	r.Href("textures/grass.jpg")
	r.Href("trees/tree2.png")
	assert.Equal(t, []string{"textures/grass.jpg", "trees/tree2.png"}, r.Names())
	assert.True(t, r.Has("trees/tree9.png"))
}

func TestBundleOnlyOffersCachedAssets(t *testing.T) {
	c := NewCache("", 0)
	require.NoError(t, c.Put("textures/grass.jpg", pngBytes(t, 4, 4)))

	r := NewRecorder(Bundle{Prefix: "assets/", Cache: c})
	assert.True(t, r.Has("textures/grass.jpg"))
	assert.False(t, r.Has("trees/tree1.png"))
	assert.Equal(t, "assets/textures/grass.jpg", r.Href("textures/grass.jpg"))
	assert.True(t, c.Has("textures/grass.jpg"))

	assert.False(t, Bundle{Prefix: "assets/"}.Has("textures/grass.jpg"))
}
