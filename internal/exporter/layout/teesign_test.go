package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursemap/internal/exporter/geo"
	"coursemap/internal/exporter/models"
)

func teeSignCourse() *models.Course {
	course := oneHoleCourse(
		models.Feature{ID: "tee-red", Geometry: orb.Point{0, 0}, Props: models.TeeProps{Name: "Pro", Color: "#E53935"}},
		models.Feature{ID: "tee-white", Geometry: orb.Point{0.0002, -0.0003}, Props: models.TeeProps{Name: "Am", Color: "#FFFFFF"}},
		models.Feature{ID: "basket", Geometry: orb.Point{0.001, 0.001}, Props: models.BasketProps{}},
		models.Feature{ID: "line", Geometry: orb.LineString{{0, 0}, {0.001, 0.001}}, Props: models.FlightLineProps{}},
	)
	course.Holes[0].Notes = "Stay left of the creek & mind the road"
	course.Holes[0].Rules = "Road is OB"
	return course
}

func TestTeeSignSidebar(t *testing.T) {
	cfg := models.DefaultExportConfig()
	svg, err := GenerateTeeSignSVG(teeSignCourse(), 0, cfg, Options{})
	require.NoError(t, err)

	s := inspect(t, svg)
	assert.Equal(t, 1, s.Count("sidebar"))
	assert.Equal(t, 1, s.Count("hole-number"))
	assert.Equal(t, 1, s.Count("par"))
	assert.Equal(t, 2, s.Count("tee-distance"))
	assert.Equal(t, 1, s.Count("hole-notes"))
	assert.Equal(t, 1, s.Count("hole-rules"))
	assert.Equal(t, 1, s.Count("course-name"))
	assert.Equal(t, 1, s.Count("map-panel"))
	assert.Equal(t, 2, s.Count("tee-marker"))
	assert.Contains(t, s.Texts, "PAR 3")
	assert.Contains(t, svg, "creek &amp; mind")
}

func TestTeeSignFlagsHideSidebarParts(t *testing.T) {
	cfg := models.DefaultExportConfig()
	cfg.IncludeNotes, cfg.IncludeRules, cfg.IncludeCourseName, cfg.IncludeDistances = false, false, false, false

	svg, err := GenerateTeeSignSVG(teeSignCourse(), 0, cfg, Options{})
	require.NoError(t, err)

	s := inspect(t, svg)
	assert.Zero(t, s.Count("hole-notes"))
	assert.Zero(t, s.Count("hole-rules"))
	assert.Zero(t, s.Count("course-name"))
	assert.Zero(t, s.Count("tee-distance"))
	assert.Empty(t, s.DistanceLabels)
}

func TestTeeSignDistancesUseUnits(t *testing.T) {
	cfg := models.DefaultExportConfig()
	cfg.Units = models.UnitsFeet
	course := teeSignCourse()

	svg, err := GenerateTeeSignSVG(course, 0, cfg, Options{})
	require.NoError(t, err)

	line, _ := course.Holes[0].Features[3].Line()
	want := FormatDistance(geo.LineLengthMeters(line), models.UnitsFeet)
	assert.Contains(t, inspect(t, svg).Texts, want)
}

func TestTeeSignHoleIndexOutOfRange(t *testing.T) {
	for _, idx := range []int{-1, 1, 10} {
		_, err := GenerateTeeSignSVG(teeSignCourse(), idx, models.DefaultExportConfig(), Options{})
		assert.True(t, errors.Is(err, models.ErrHoleNotFound), "index %d", idx)
	}
}

func TestTeeSignEmptyHoleIsPlaceholder(t *testing.T) {
	course := oneHoleCourse()
	svg, err := GenerateTeeSignSVG(course, 0, models.DefaultExportConfig(), Options{})
	require.NoError(t, err)
	assert.True(t, inspect(t, svg).Placeholder)
}

func TestEmptyCourseHolePagesArePlaceholders(t *testing.T) {
	cfg := models.DefaultExportConfig()
	for _, course := range []*models.Course{nil, {}, {Name: "No holes yet"}} {
		sign, err := GenerateTeeSignSVG(course, 0, cfg, Options{})
		require.NoError(t, err)
		assert.True(t, inspect(t, sign).Placeholder)

		page, err := GenerateHolePageSVG(course, 0, cfg, Options{})
		require.NoError(t, err)
		assert.True(t, inspect(t, page).Placeholder)
	}

	// у непустого поля индекс за пределами по-прежнему ошибка
	_, err := GenerateHolePageSVG(oneHoleCourse(), 1, cfg, Options{})
	assert.ErrorIs(t, err, models.ErrHoleNotFound)
}

func TestTeeSignVariants(t *testing.T) {
	cfg := models.DefaultExportConfig()

	classic, err := GenerateTeeSignSVG(teeSignCourse(), 0, cfg, Options{})
	require.NoError(t, err)
	assert.Contains(t, classic, "<clipPath")
	assert.Zero(t, inspect(t, classic).Count("blob-frame"))

	cfg.TeeSignVariant = models.TeeSignBlob
	blob, err := GenerateTeeSignSVG(teeSignCourse(), 0, cfg, Options{})
	require.NoError(t, err)
	s := inspect(t, blob)
	assert.Equal(t, 1, s.Count("blob-frame"))
	assert.Contains(t, blob, " C ")
}

func TestTeeSignLogo(t *testing.T) {
	cfg := models.DefaultExportConfig()
	cfg.LogoDataURL = "data:image/png;base64,iVBORw0KGgo="

	svg, err := GenerateTeeSignSVG(teeSignCourse(), 0, cfg, Options{})
	require.NoError(t, err)
	assert.Contains(t, svg, `xmlns:xlink="http://www.w3.org/1999/xlink"`)
	assert.Equal(t, 1, inspect(t, svg).Count("logo"))
	assert.Equal(t, 1, inspect(t, svg).Images)
}

func TestTeeSignBoundsCoverRotatedHole(t *testing.T) {
	tee, basket := orb.Point{0, 0}, orb.Point{0.001, 0.001}
	raw := geo.Empty().Extend(tee).Extend(basket)
	rotation := geo.NorthUpRotation(tee, basket)

	w, h := 500.0, 560.0
	b := TeeSignBounds(raw, rotation, w, h)
	assert.InDelta(t, w/h, b.WidthMeters()/b.HeightMeters(), 1e-6)

	tr, err := geo.NewTransform(geo.Viewport{X: 200, Width: w, Height: h, Rotation: rotation, Bounds: b})
	require.NoError(t, err)

	pt, pb := tr.GeoToSVG(tee), tr.GeoToSVG(basket)
	assert.InDelta(t, pt.X, pb.X, 1e-6)
	assert.Less(t, pb.Y, pt.Y)

	// маркеры не ближе запаса к краю панели
	panel := geo.Rect{X: 200, W: w, H: h}
	for _, p := range []geo.Point{pt, pb} {
		assert.True(t, panel.Inflate(-MarkerMargin+1).ContainsPoint(p), "%+v", p)
	}
}

func TestSidebarWidth(t *testing.T) {
	assert.InDelta(t, 240, sidebarWidth(800), 1e-9)
	assert.InDelta(t, 140, sidebarWidth(300), 1e-9)
	assert.InDelta(t, 100, sidebarWidth(200), 1e-9)
}

// ============================================================
// Print layout
// ============================================================

func nineteenHoles() *models.Course {
	course := &models.Course{Name: "Long Course", Location: "Oslo"}
	for i := 0; i < 19; i++ {
		lng := float64(i) * 0.002
		course.Holes = append(course.Holes, models.Hole{
			ID: "h", Number: i + 1, Par: 3,
			Features: []models.Feature{
				{ID: "t", Geometry: orb.Point{lng, 0}, Props: models.TeeProps{}},
				{ID: "b", Geometry: orb.Point{lng, 0.001}, Props: models.BasketProps{}},
			},
		})
	}
	return course
}

func TestPrintLayout(t *testing.T) {
	cfg := models.DefaultExportConfig()
	cfg.Width, cfg.Height = 1000, 1400

	svg, err := GeneratePrintLayoutSVG(nineteenHoles(), cfg, Options{})
	require.NoError(t, err)

	s := inspect(t, svg)
	assert.Equal(t, 1, s.Count("page-header"))
	assert.Equal(t, 1, s.Count("summary-table"))
	assert.Equal(t, 19, s.Count("tee-marker"))
	assert.Equal(t, 3, s.Count("tree-side"))
	assert.Contains(t, s.Texts, "19")
	assert.Contains(t, s.Texts, "Total par 57 · Total length 2,115 m")
	assert.Zero(t, s.Count("layer-annotation"))
	assert.Empty(t, s.DistanceLabels)
}

func TestPrintLayoutReducesMarkers(t *testing.T) {
	cfg := models.DefaultExportConfig()
	course := oneHoleCourse(teeAndBasket()...)

	mapSVG, err := GenerateCourseSVG(course, cfg, Options{})
	require.NoError(t, err)
	printSVG, err := GeneratePrintLayoutSVG(course, cfg, Options{})
	require.NoError(t, err)

	assert.Contains(t, mapSVG, `width="30"`)
	assert.Contains(t, printSVG, `width="21"`)
}

func TestPrintLayoutEmptyCourse(t *testing.T) {
	svg, err := GeneratePrintLayoutSVG(&models.Course{}, models.DefaultExportConfig(), Options{})
	require.NoError(t, err)
	assert.True(t, inspect(t, svg).Placeholder)
}

func TestHolePage(t *testing.T) {
	cfg := models.DefaultExportConfig()
	cfg.Width, cfg.Height = 800, 1100

	svg, err := GenerateHolePageSVG(teeSignCourse(), 0, cfg, Options{})
	require.NoError(t, err)

	s := inspect(t, svg)
	assert.Equal(t, 1, s.Count("page-header"))
	assert.Equal(t, 1, s.Count("page-footer"))
	assert.Equal(t, 2, s.Count("tee-marker"))
	assert.Contains(t, s.Texts, "Hole 1")
	require.Len(t, s.DistanceLabels, 1)

	_, err = GenerateHolePageSVG(teeSignCourse(), 3, cfg, Options{})
	assert.ErrorIs(t, err, models.ErrHoleNotFound)
}

func TestGeneratorsAreIndependent(t *testing.T) {
	// id начинаются заново в каждом документе
	cfg := models.DefaultExportConfig()
	a, err := GenerateTeeSignSVG(teeSignCourse(), 0, cfg, Options{})
	require.NoError(t, err)
	_, err = GenerateCourseSVG(nineteenHoles(), cfg, Options{})
	require.NoError(t, err)
	b, err := GenerateTeeSignSVG(teeSignCourse(), 0, cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.False(t, strings.Contains(a, "NaN"))
}
