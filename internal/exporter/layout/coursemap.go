package layout

import (
	"coursemap/internal/exporter/geo"
	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/svgx"
)

// ============================================================
// Course map
// ============================================================

const (
	// MinSpanDegrees: минимальный пролет границ, чтобы одиночная точка не давала вырожденную проекцию.
	MinSpanDegrees = 0.0005
	// BoundsPadding: доля пролета, добавляемая с каждой стороны.
	BoundsPadding = 0.1
	// MapPadding: пиксельный отступ карты поля.
	MapPadding = 40.0
)

// GenerateCourseSVG рисует карту выбранных лунок вместе со слоями уровня поля.
func GenerateCourseSVG(course *models.Course, cfg models.ExportConfig, opts Options) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if course == nil {
		course = &models.Course{}
	}

	holes := cfg.Holes.Select(course.Holes, cfg.CurrentHole)
	bounds, ok := courseBounds(course, holes, cfg)
	if !ok {
		return svgx.Placeholder(cfg.Width, cfg.Height, svgx.PlaceholderText), nil
	}

	top := 0.0
	if cfg.IncludeTitle {
		top = titleHeight
	}
	tr, err := geo.NewTransform(geo.Viewport{
		Y:       top,
		Width:   cfg.Width,
		Height:  cfg.Height - top,
		Padding: MapPadding,
		Bounds:  bounds,
	})
	if err != nil {
		return svgx.Placeholder(cfg.Width, cfg.Height, svgx.PlaceholderText), nil
	}

	ctx := NewRenderContext(cfg, opts)
	s := newScene(ctx, tr, course, holes, cfg)
	s.area = geo.Rect{W: cfg.Width, H: cfg.Height}

	doc := svgx.NewDocument(cfg.Width, cfg.Height)
	for _, layer := range s.draw(CourseMapLayers) {
		doc.Add(layer)
	}
	if cfg.IncludeTitle {
		doc.Add(titleBlock(course, holes, cfg.Width, s.style.FontFamily))
	}
	for _, d := range s.decorations(geo.Rect{Y: top, W: cfg.Width, H: cfg.Height - top}) {
		doc.Add(d)
	}
	return ctx.Finish(doc), nil
}

// courseBounds: игровые фичи выбранных лунок, иначе слои уровня поля,
// иначе явные границы из конфига. false: рисовать нечего.
func courseBounds(course *models.Course, holes []models.Hole, cfg models.ExportConfig) (geo.Bounds, bool) {
	game := gameFeatures(holes)
	ambient := courseLevelFeatures(course, cfg)
	if len(game) == 0 && len(ambient) == 0 {
		return geo.Bounds{}, false
	}
	if cfg.Bounds != nil {
		return geo.FromOrb(*cfg.Bounds), true
	}

	b := featureBounds(game)
	if b.IsEmpty() {
		b = featureBounds(ambient)
	}
	if b.IsEmpty() {
		return geo.Bounds{}, false
	}
	return b.EnsureMinSpan(MinSpanDegrees).Pad(BoundsPadding), true
}

func courseLevelFeatures(course *models.Course, cfg models.ExportConfig) []models.Feature {
	var out []models.Feature
	if cfg.IncludeTerrain {
		out = append(out, course.TerrainFeatures...)
	}
	out = append(out, course.PathFeatures...)
	out = append(out, course.TreeFeatures...)
	return out
}
