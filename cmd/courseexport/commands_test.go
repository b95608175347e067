package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/parser"
)

func writeCourse(t *testing.T) string {
	t.Helper()
	course := models.Course{
		ID: "c", Name: "Riverside",
		Holes: []models.Hole{
			{ID: "h1", Number: 1, Par: 3, Features: []models.Feature{
				{ID: "t1", Geometry: orb.Point{0, 0}, Props: models.TeeProps{}},
				{ID: "b1", Geometry: orb.Point{0, 0.001}, Props: models.BasketProps{}},
			}},
			{ID: "h2", Number: 2, Par: 4, Features: []models.Feature{
				{ID: "t2", Geometry: orb.Point{0.002, 0}, Props: models.TeeProps{}},
				{ID: "b2", Geometry: orb.Point{0.002, 0.001}, Props: models.BasketProps{}},
			}},
		},
	}
	data, err := json.Marshal(course)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "course.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("COURSEMAP_CONFIG", "")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMapCommand(t *testing.T) {
	out, err := run(t, "map", "--course", writeCourse(t), "--width", "1000", "--holes", "1", "--no-legend")
	require.NoError(t, err)

	s, err := parser.Inspect(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1000.0, s.Width)
	assert.Equal(t, 1, s.Count("tee-marker"))
	assert.Zero(t, s.Count("legend"))
}

func TestPerHoleCommands(t *testing.T) {
	path := writeCourse(t)
	for _, name := range []string{"tee-sign", "hole-page"} {
		out, err := run(t, name, "--course", path, "--hole", "1", "--units", "feet")
		require.NoError(t, err, name)
		assert.Contains(t, out, "<svg", name)

		_, err = run(t, name, "--course", path, "--hole", "9")
		assert.ErrorIs(t, err, models.ErrHoleNotFound, name)
	}
}

func TestInvalidConfigFlag(t *testing.T) {
	_, err := run(t, "print", "--course", writeCourse(t), "--width", "-5")
	var cfgErr *models.InvalidExportConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestArchiveCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "course.zip")
	_, err := run(t, "archive", "--course", writeCourse(t), "--out", out, "--tee-signs=false")
	require.NoError(t, err)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "course.svg")
	assert.Contains(t, names, "hole-02.svg")

	_, err = run(t, "archive", "--course", writeCourse(t))
	assert.Error(t, err)
}

func TestParseHoles(t *testing.T) {
	sel, err := parseHoles("0, 2")
	require.NoError(t, err)
	assert.Equal(t, models.HoleIndices(0, 2), sel)

	sel, err = parseHoles("Current")
	require.NoError(t, err)
	assert.Equal(t, models.CurrentHole(), sel)

	_, err = parseHoles("one")
	assert.Error(t, err)
}
