package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"

	"coursemap/internal/exporter/collision"
	"coursemap/internal/exporter/colors"
	"coursemap/internal/exporter/forest"
	"coursemap/internal/exporter/geo"
	"coursemap/internal/exporter/marker"
	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/pattern"
	"coursemap/internal/exporter/svgx"
)

// ============================================================
// Scene: общий конвейер отрисовки слоев
// ============================================================

const (
	defaultTreeMeters  = 8.0
	minTreePixels      = 4.0
	maxTreePixels      = 80.0
	fairwayCorner      = 6.0
	distanceFontSize   = 12.0
	distanceBaseOffset = 10.0
	distanceMaxOffset  = 60.0
	labelMargin        = 2.0
	annotationMaxShift = 40.0
)

// scene держит все, что нужно слоям: трансформация, стиль, лунки и масштабы.
// Генераторы отличаются только тем, как строят scene и что рисуют вокруг.
type scene struct {
	ctx    *RenderContext
	tr     *geo.Transform
	cfg    models.ExportConfig
	style  models.CourseStyle
	course *models.Course
	holes  []models.Hole

	// area: прямоугольник, который заливает фон.
	area         geo.Rect
	markerScale  float64
	labelScale   float64
	patternScale float64
	forest       forest.Params

	present map[models.Kind]bool
	pending []distanceLabel
}

type distanceLabel struct {
	id     string
	meters float64
	mid    geo.Point
	dir    geo.Point
}

func newScene(ctx *RenderContext, tr *geo.Transform, course *models.Course, holes []models.Hole, cfg models.ExportConfig) *scene {
	density := collision.CalculateDensityMetrics(gameFeatures(holes), tr)
	return &scene{
		ctx:          ctx,
		tr:           tr,
		cfg:          cfg,
		style:        course.Style.WithDefaults(),
		course:       course,
		holes:        holes,
		area:         tr.Viewport().Rect(),
		markerScale:  density.MarkerScale,
		labelScale:   density.LabelScale,
		patternScale: 1,
		forest:       forest.Overview,
		present:      map[models.Kind]bool{},
	}
}

// draw рисует слои по порядку; пустые слои не попадают в документ.
func (s *scene) draw(layers []Layer) []string {
	var out []string
	for _, l := range layers {
		body := s.layer(l)
		if body == "" {
			continue
		}
		out = append(out, fmt.Sprintf(`<g class="layer layer-%s">%s</g>`, l, body))
	}
	return out
}

func (s *scene) layer(l Layer) string {
	switch l {
	case LayerBackground:
		return s.background()
	case LayerTerrain:
		return s.terrain()
	case LayerPaths:
		return s.paths()
	case LayerTrees:
		return s.trees()
	case LayerDistanceLabels:
		return s.distanceLabels()
	}

	kind, ok := layerKinds[l]
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, h := range s.holes {
		for _, f := range h.Features {
			if f.Kind() != kind {
				continue
			}
			markup := s.feature(h, f)
			if markup != "" {
				s.present[kind] = true
				b.WriteString(markup)
			}
		}
	}
	return b.String()
}

// ============================================================
// Ground layers
// ============================================================

func (s *scene) background() string {
	fill := colors.Normalize(s.style.BackgroundColor, "#E8F5E9")
	if s.cfg.IncludeTerrain && !s.cfg.Minimal {
		fill = pattern.Fill(s.groundPattern(s.style.DefaultTerrain.Valid(), ""))
	}
	a := s.area
	return fmt.Sprintf(`<rect class="background" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
		svgx.Num(a.X), svgx.Num(a.Y), svgx.Num(a.W), svgx.Num(a.H), fill)
}

// groundPattern: трава берется из фото, если доступны ассеты, остальное рисуется векторными текстурами.
func (s *scene) groundPattern(t models.TerrainType, base string) string {
	palette := colors.TerrainPalette(t, base)
	lib := s.ctx.Patterns
	if t == models.TerrainGrass && lib.ImageTextures() {
		return lib.GrassImage(s.tr.MetersPerPixel(), palette)
	}
	return lib.Terrain(t, palette, s.patternScale)
}

// terrainFeatures: полигоны уровня поля плюс полигоны, привязанные к выбранным лункам.
func (s *scene) terrainFeatures() []models.Feature {
	out := append([]models.Feature(nil), s.course.TerrainFeatures...)
	for _, h := range s.holes {
		out = append(out, h.FeaturesOf(models.KindTerrain)...)
	}
	return out
}

func (s *scene) terrain() string {
	if !s.cfg.IncludeTerrain {
		return ""
	}

	var ground, forests strings.Builder
	for _, f := range s.terrainFeatures() {
		p, ok := f.Props.(models.TerrainProps)
		if !ok {
			continue
		}
		if p.Infrastructure && !s.cfg.IncludeInfrastructure {
			continue
		}
		ring, ok := f.Ring()
		if !ok {
			continue
		}
		t := p.TerrainType.Valid()
		if t == models.TerrainForest {
			forests.WriteString(s.forestPolygon(f, ring, p))
			continue
		}
		d := s.tr.PolygonToPath(ring, 0)
		if d == "" {
			continue
		}
		fmt.Fprintf(&ground, `<path class="terrain terrain-%s" d="%s" fill="%s" opacity="%s"/>`,
			t, d, pattern.Fill(s.groundPattern(t, p.Color)), svgx.Num(opacityOr(p.Opacity, 1)))
	}
	// лес последним: кроны поверх остальных текстур
	return ground.String() + forests.String()
}

func (s *scene) forestPolygon(f models.Feature, ring orb.Ring, p models.TerrainProps) string {
	px := s.tr.ProjectRing(ring)
	if px == nil {
		return ""
	}
	palette := colors.TerrainPalette(models.TerrainForest, p.Color)

	var b strings.Builder
	fmt.Fprintf(&b, `<path class="terrain terrain-forest" d="%s" fill="%s" opacity="%s"/>`,
		geo.SimplePolygonPath(px), pattern.Fill(s.ctx.Patterns.Terrain(models.TerrainForest, palette, s.patternScale)),
		svgx.Num(opacityOr(p.Opacity, 1)))
	if !s.cfg.Minimal {
		placements := forest.GenerateForestTreePlacements(px, forest.SeedFor(f.ID), s.tr.MetersPerPixel(), s.forest)
		b.WriteString(forest.Render(placements, s.ctx.Patterns))
	}
	return b.String()
}

func (s *scene) paths() string {
	feats := append([]models.Feature(nil), s.course.PathFeatures...)
	for _, h := range s.holes {
		feats = append(feats, h.FeaturesOf(models.KindPath)...)
	}

	var b strings.Builder
	for _, f := range feats {
		p, ok := f.Props.(models.PathProps)
		if !ok {
			continue
		}
		ls, ok := f.Line()
		if !ok {
			continue
		}
		d := s.tr.LineStringToSVG(ls)
		if d == "" {
			continue
		}
		width := p.Width
		if width <= 0 {
			width = s.style.PathWidth
		}
		dash := ""
		if p.PathType == "trail" {
			dash = ` stroke-dasharray="6 4"`
		}
		fmt.Fprintf(&b, `<path class="path-line" d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"%s/>`,
			d, colors.Normalize(p.Color, s.style.PathColor), svgx.Num(width*s.markerScale), dash)
	}
	return b.String()
}

func (s *scene) trees() string {
	feats := append([]models.Feature(nil), s.course.TreeFeatures...)
	for _, h := range s.holes {
		feats = append(feats, h.FeaturesOf(models.KindTree)...)
	}

	var b strings.Builder
	for _, f := range feats {
		p, ok := f.Props.(models.TreeProps)
		if !ok {
			continue
		}
		pt, ok := f.Point()
		if !ok {
			continue
		}
		meters := p.Size
		if meters <= 0 {
			meters = defaultTreeMeters
		}
		size := math.Max(minTreePixels, math.Min(maxTreePixels, meters*s.tr.PixelsPerMeter()))
		at := s.tr.GeoToSVG(pt)
		t := p.TreeType.Valid()
		if id, ok := s.ctx.Patterns.TreeSymbol(t); ok {
			b.WriteString(pattern.Use(id, at.X, at.Y, size, p.Rotation+s.tr.Rotation(), 0.95))
			continue
		}
		b.WriteString(marker.TreeTop(at.X, at.Y, marker.Tree{Type: t, Size: size, Rotation: p.Rotation + s.tr.Rotation()}))
	}
	return b.String()
}

// ============================================================
// Game features
// ============================================================

// feature рисует одну игровую фичу; вид определяется типом свойств.
func (s *scene) feature(h models.Hole, f models.Feature) string {
	rot := s.tr.Rotation()

	switch p := f.Props.(type) {
	case models.TeeProps:
		at, ok := s.point(f)
		if !ok {
			return ""
		}
		label := ""
		if s.cfg.IncludeHoleNumbers {
			label = fmt.Sprint(h.Number)
		}
		s.ctx.Collisions.Register(f.ID, marker.Box("tee", at, s.markerScale), collision.PriorityTee)
		return marker.Tee(at.X, at.Y, marker.Common{
			Color: colors.Normalize(p.Color, s.style.TeeColor), Label: label,
			Rotation: p.Rotation + rot, Scale: s.markerScale, Selected: p.Selected,
		})

	case models.BasketProps:
		at, ok := s.point(f)
		if !ok {
			return ""
		}
		s.ctx.Collisions.Register(f.ID, marker.Box("basket", at, s.markerScale), collision.PriorityBasket)
		return marker.Basket(at.X, at.Y, marker.Common{
			Color: colors.Normalize(p.Color, s.style.BasketColor), Scale: s.markerScale, Selected: p.Selected,
		})

	case models.DropzoneProps:
		at, ok := s.point(f)
		if !ok {
			return ""
		}
		s.ctx.Collisions.Register(f.ID, marker.Box("dropzone", at, s.markerScale), collision.PriorityDropzone)
		return marker.Dropzone(at.X, at.Y, marker.Common{
			Color: colors.Normalize(p.Color, s.style.DropzoneColor), Label: p.Label,
			Rotation: p.Rotation + rot, Scale: s.markerScale,
		}, marker.Line{Angle: p.LineAngle + rot, Length: p.LineLength})

	case models.MandatoryProps:
		at, ok := s.point(f)
		if !ok {
			return ""
		}
		s.ctx.Collisions.Register(f.ID, marker.Box("mandatory", at, s.markerScale), collision.PriorityMandatory)
		return marker.Mandatory(at.X, at.Y, marker.Common{
			Color:    colors.Normalize(p.Color, s.style.MandatoryColor),
			Rotation: p.Rotation + rot, Scale: s.markerScale,
		}, marker.Line{Angle: p.LineAngle + rot, Length: p.LineLength})

	case models.AnnotationProps:
		return s.annotation(f, p)

	case models.LandmarkProps:
		at, ok := s.point(f)
		if !ok {
			return ""
		}
		s.ctx.Collisions.Register(f.ID, marker.Box("landmark", at, s.markerScale), collision.PriorityLabel)
		return marker.RenderLandmark(at.X, at.Y, marker.Landmark{
			Type: p.LandmarkType, Label: p.Label, Color: colors.Normalize(p.Color, s.style.LandmarkColor),
			Size: p.Size, Rotation: p.Rotation + rot, Scale: s.markerScale,
		})

	case models.FlightLineProps:
		return s.flightLine(f, p)

	case models.OBLineProps:
		ls, ok := f.Line()
		if !ok {
			return ""
		}
		d := s.tr.LineStringToSVG(ls)
		if d == "" {
			return ""
		}
		width := p.StrokeWidth
		if width <= 0 {
			width = s.style.OBLineWidth
		}
		return fmt.Sprintf(`<path class="ob-line" d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round"/>`,
			d, colors.Normalize(p.Color, s.style.OBLineColor), svgx.Num(width*s.markerScale))

	case models.OBZoneProps:
		color := colors.Normalize(p.Color, s.style.OBZoneColor)
		return s.polygon(f, "ob-zone", color, opacityOr(p.FillOpacity, s.style.OBZoneOpacity), 0,
			fmt.Sprintf(` stroke="%s" stroke-width="%s"`, colors.Darken(color), svgx.Num(1.5*s.markerScale)))

	case models.FairwayProps:
		return s.polygon(f, "fairway", colors.Normalize(p.Color, s.style.FairwayColor),
			opacityOr(p.Opacity, s.style.FairwayOpacity), fairwayCorner*s.markerScale, "")

	case models.DropzoneAreaProps:
		color := colors.Normalize(p.Color, s.style.DropzoneAreaColor)
		return s.polygon(f, "dropzone-area", color, opacityOr(p.Opacity, 0.35), 0,
			fmt.Sprintf(` stroke="%s" stroke-width="%s" stroke-dasharray="4 3"`, colors.Darken(color), svgx.Num(s.markerScale)))

	case models.TerrainProps, models.PathProps, models.TreeProps, models.UnknownProps:
		// местность, дорожки и деревья рисуются своими слоями, неизвестное пропускается
		return ""
	}
	return ""
}

func (s *scene) point(f models.Feature) (geo.Point, bool) {
	pt, ok := f.Point()
	if !ok {
		return geo.Point{}, false
	}
	return s.tr.GeoToSVG(pt), true
}

func (s *scene) polygon(f models.Feature, class, fill string, opacity, radius float64, extra string) string {
	ring, ok := f.Ring()
	if !ok {
		return ""
	}
	d := s.tr.PolygonToPath(ring, radius)
	if d == "" {
		return ""
	}
	return fmt.Sprintf(`<path class="%s" d="%s" fill="%s" fill-opacity="%s"%s/>`,
		class, d, fill, svgx.Num(opacity), extra)
}

func (s *scene) flightLine(f models.Feature, p models.FlightLineProps) string {
	ls, ok := f.Line()
	if !ok {
		return ""
	}
	d := s.tr.LineStringToSVG(ls)
	if d == "" {
		return ""
	}
	width := p.StrokeWidth
	if width <= 0 {
		width = s.style.FlightLineWidth
	}
	dash := ""
	if p.Dashed {
		dash = ` stroke-dasharray="8 5"`
	}

	if s.cfg.IncludeDistances {
		if mid, dir, ok := midpoint(s.tr.Project(ls)); ok {
			s.pending = append(s.pending, distanceLabel{
				id: f.ID, meters: geo.LineLengthMeters(ls), mid: mid, dir: dir,
			})
		}
	}

	return fmt.Sprintf(`<path class="flight-line" d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"%s/>`,
		d, colors.Normalize(p.Color, s.style.FlightLineColor), svgx.Num(width*s.markerScale), dash)
}

// annotation сдвигается от занятых мест так же, как подписи, но без выноски.
func (s *scene) annotation(f models.Feature, p models.AnnotationProps) string {
	at, ok := s.point(f)
	if !ok {
		return ""
	}
	a := marker.Annotation{
		Text: p.Text, FontSize: p.FontSize, FontFamily: p.FontFamily,
		Color: p.Color, Background: p.BackgroundColor, Rotation: p.Rotation, Scale: s.labelScale,
	}
	if a.Color == "" && a.Background == "" {
		a.Color = s.style.AnnotationColor
	}
	if strings.TrimSpace(a.Text) == "" {
		return ""
	}
	w, h := marker.AnnotationSize(a)
	place := s.ctx.Collisions.FindNonCollidingPosition(at, w, h, annotationMaxShift, labelMargin)
	if place.Fallback {
		place.Center = at
	}
	s.ctx.Collisions.Register(f.ID, geo.RectAround(place.Center, w, h), collision.PriorityLabel)
	return marker.RenderAnnotation(place.Center.X, place.Center.Y, a)
}

// ============================================================
// Distance labels
// ============================================================

// distanceLabels размещаются последними: к этому моменту все маркеры уже в реестре.
func (s *scene) distanceLabels() string {
	var b strings.Builder
	for _, dl := range s.pending {
		text := FormatDistance(dl.meters, s.cfg.Units)
		fs := distanceFontSize * s.labelScale
		w := collision.EstimateTextWidth(text, fs) + 8*s.labelScale
		h := fs + 6*s.labelScale

		place := s.ctx.Collisions.PlaceDistanceLabel(dl.mid, dl.dir, w, h,
			distanceBaseOffset*s.labelScale+h/2, distanceMaxOffset, labelMargin)
		box := place.Box(w, h)
		s.ctx.Collisions.Register(dl.id+"-label", box, collision.PriorityLabel)

		b.WriteString(`<g class="distance-label">`)
		if place.NeedsLeader {
			fmt.Fprintf(&b, `<line class="leader-line" x1="%s" y1="%s" x2="%s" y2="%s" stroke="#424242" stroke-width="1" stroke-dasharray="2 2"/>`,
				svgx.Num(dl.mid.X), svgx.Num(dl.mid.Y), svgx.Num(place.Center.X), svgx.Num(place.Center.Y))
		}
		fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="#ffffff" fill-opacity="0.9" stroke="#424242" stroke-width="0.5"/>`,
			svgx.Num(box.X), svgx.Num(box.Y), svgx.Num(box.W), svgx.Num(box.H), svgx.Num(3*s.labelScale))
		fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="%s" font-weight="bold" fill="#212121">%s</text>`,
			svgx.Num(place.Center.X), svgx.Num(place.Center.Y), svgx.Escape(s.style.FontFamily), svgx.Num(fs), svgx.Escape(text))
		b.WriteString(`</g>`)
	}
	return b.String()
}

// FormatDistance округляет длину до целых в выбранных единицах: "111 m", "364 ft".
func FormatDistance(meters float64, units models.Units) string {
	return fmt.Sprintf("%d %s", int(math.Round(units.FromMeters(meters))), units.Suffix())
}

// midpoint: точка на половине длины ломаной и направление сегмента в ней.
func midpoint(pts []geo.Point) (geo.Point, geo.Point, bool) {
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += pts[i].Dist(pts[i-1])
	}
	if total == 0 {
		return geo.Point{}, geo.Point{}, false
	}
	half := total / 2
	for i := 1; i < len(pts); i++ {
		seg := pts[i].Dist(pts[i-1])
		if seg == 0 {
			continue
		}
		if half <= seg {
			dir := pts[i].Sub(pts[i-1]).Unit()
			return pts[i-1].Add(dir.Scale(half)), dir, true
		}
		half -= seg
	}
	last := len(pts) - 1
	return pts[last], pts[last].Sub(pts[last-1]).Unit(), true
}

// ============================================================
// Helpers
// ============================================================

func opacityOr(v, def float64) float64 {
	if v <= 0 || v > 1 || math.IsNaN(v) {
		return def
	}
	return v
}

// gameFeatures: все известные фичи выбранных лунок.
func gameFeatures(holes []models.Hole) []models.Feature {
	var out []models.Feature
	for _, h := range holes {
		for _, f := range h.Features {
			if f.Kind() != models.KindUnknown {
				out = append(out, f)
			}
		}
	}
	return out
}

// featureBounds: охват геометрий; пустые Bounds, если геометрий нет.
func featureBounds(features []models.Feature) geo.Bounds {
	b := geo.Empty()
	for _, f := range features {
		if f.Geometry != nil {
			b = b.ExtendGeometry(f.Geometry)
		}
	}
	return b
}
