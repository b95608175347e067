package layout

import (
	"fmt"
	"math"
	"strings"

	"coursemap/internal/exporter/colors"
	"coursemap/internal/exporter/forest"
	"coursemap/internal/exporter/geo"
	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/parser"
	"coursemap/internal/exporter/svgx"
)

// ============================================================
// Tee sign
// ============================================================

const (
	// MarkerMargin: пиксельный запас вокруг ти и корзины на крупных картах.
	MarkerMargin = 35.0

	sidebarFraction = 0.3
	minSidebar      = 140.0
	panelInset      = 12.0
	sidebarColor    = "#1B5E20"
	frameColor      = "#263238"
	teeBoxHeight    = 28.0

	// blobOutline: контур «капли» в единичном квадрате, сглаживается при отрисовке.
	blobOutline = "M 0.5 0.03 L 0.77 0.07 L 0.94 0.22 L 0.97 0.5 L 0.91 0.78 L 0.7 0.95 L 0.42 0.97 L 0.16 0.87 L 0.04 0.62 L 0.05 0.33 L 0.2 0.11 Z"
)

// GenerateTeeSignSVG рисует знак для лунки holeIndex: сайдбар с номером, паром
// и дистанциями и карту лунки, повернутую так, чтобы корзина была сверху.
func GenerateTeeSignSVG(course *models.Course, holeIndex int, cfg models.ExportConfig, opts Options) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if course == nil || len(course.Holes) == 0 {
		return svgx.Placeholder(cfg.Width, cfg.Height, svgx.PlaceholderText), nil
	}
	if holeIndex < 0 || holeIndex >= len(course.Holes) {
		return "", fmt.Errorf("tee sign for hole index %d: %w", holeIndex, models.ErrHoleNotFound)
	}

	hole := course.Holes[holeIndex]
	holes := []models.Hole{hole}
	game := gameFeatures(holes)
	if len(game) == 0 {
		return svgx.Placeholder(cfg.Width, cfg.Height, svgx.PlaceholderText), nil
	}

	sidebar := sidebarWidth(cfg.Width)
	panel := geo.Rect{X: sidebar, W: cfg.Width - sidebar, H: cfg.Height}.Inflate(-panelInset)
	if panel.W <= 0 || panel.H <= 0 {
		return svgx.Placeholder(cfg.Width, cfg.Height, svgx.PlaceholderText), nil
	}

	rotation := 0.0
	if _, tee, ok := firstPoint(hole, models.KindTee); ok {
		if _, basket, ok := firstPoint(hole, models.KindBasket); ok {
			rotation = geo.NorthUpRotation(tee, basket)
		}
	}

	tr, err := geo.NewTransform(geo.Viewport{
		X:        panel.X,
		Y:        panel.Y,
		Width:    panel.W,
		Height:   panel.H,
		Rotation: rotation,
		Bounds:   TeeSignBounds(featureBounds(game), rotation, panel.W, panel.H),
	})
	if err != nil {
		return svgx.Placeholder(cfg.Width, cfg.Height, svgx.PlaceholderText), nil
	}

	ctx := NewRenderContext(cfg, opts)
	s := newScene(ctx, tr, course, holes, cfg)
	s.forest = forest.CloseUp
	s.area = panel

	shape, frame := classicFrame(panel)
	if cfg.TeeSignVariant == models.TeeSignBlob {
		shape, frame = blobFrame(panel)
	}
	clipID := ctx.Patterns.Clip("clip-map", shape)

	doc := svgx.NewDocument(cfg.Width, cfg.Height)
	doc.Add(teeSignSidebar(ctx, course, hole, cfg, s.style, sidebar))
	doc.Add(fmt.Sprintf(`<g class="map-panel" clip-path="url(#%s)">%s</g>`, clipID, strings.Join(s.draw(TeeSignLayers), "")))
	doc.Add(frame)
	for _, d := range s.decorations(panel) {
		doc.Add(d)
	}
	return ctx.Finish(doc), nil
}

// TeeSignBounds готовит границы для повернутой панel w×h: раздувает их под поворот,
// добавляет MarkerMargin пикселей и доводит пропорции до пропорций панели.
func TeeSignBounds(b geo.Bounds, rotation, w, h float64) geo.Bounds {
	b = b.EnsureMinSpan(MinSpanDegrees).ExpandForRotation(rotation)

	innerW := math.Max(w-2*MarkerMargin, w/2)
	innerH := math.Max(h-2*MarkerMargin, h/2)
	mpp := math.Max(b.WidthMeters()/innerW, b.HeightMeters()/innerH)
	margin := MarkerMargin * mpp

	lat := b.Center()[1]
	b = b.Expand(margin/geo.MetersPerDegreeLng(lat), margin/geo.MetersPerDegreeLat)
	return b.MatchAspect(w / h)
}

func sidebarWidth(width float64) float64 {
	return math.Min(width*0.5, math.Max(minSidebar, width*sidebarFraction))
}

func classicFrame(panel geo.Rect) (string, string) {
	rect := fmt.Sprintf(`x="%s" y="%s" width="%s" height="%s" rx="10"`,
		svgx.Num(panel.X), svgx.Num(panel.Y), svgx.Num(panel.W), svgx.Num(panel.H))
	return `<rect ` + rect + `/>`,
		fmt.Sprintf(`<rect class="map-frame" %s fill="none" stroke="%s" stroke-width="3"/>`, rect, frameColor)
}

// blobFrame масштабирует контур капли в панель и сглаживает его.
func blobFrame(panel geo.Rect) (string, string) {
	outline, err := parser.ParsePath(blobOutline)
	if err != nil {
		return classicFrame(panel)
	}
	pts := geo.CleanRing(outline)
	for i, p := range pts {
		pts[i] = geo.Point{X: panel.X + p.X*panel.W, Y: panel.Y + p.Y*panel.H}
	}
	d := geo.SmoothClosedPath(pts)
	return fmt.Sprintf(`<path d="%s"/>`, d),
		fmt.Sprintf(`<path class="map-frame blob-frame" d="%s" fill="none" stroke="%s" stroke-width="3"/>`, d, frameColor)
}

// ============================================================
// Sidebar
// ============================================================

func teeSignSidebar(ctx *RenderContext, course *models.Course, hole models.Hole, cfg models.ExportConfig, style models.CourseStyle, width float64) string {
	k := math.Max(0.7, math.Min(1.6, width/240))
	pad := 16 * k
	inner := width - 2*pad
	font := style.FontFamily

	var b strings.Builder
	b.WriteString(`<g class="sidebar">`)
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%s" height="%s" fill="%s"/>`, svgx.Num(width), svgx.Num(cfg.Height), sidebarColor)

	y := pad
	if cfg.IncludeCourseName {
		fs := 13 * k
		lines := wrapText(courseTitle(course), charsFor(inner, fs))
		y += fs
		b.WriteString(textBlock("course-name", pad, y, fs, "#C8E6C9", font, lines))
		y += float64(len(lines)-1)*fs*1.3 + 10*k
	}

	fmt.Fprintf(&b, `<text x="%s" y="%s" font-family="%s" font-size="%s" fill="#ffffff" letter-spacing="2">HOLE</text>`,
		svgx.Num(pad), svgx.Num(y+14*k), svgx.Escape(font), svgx.Num(14*k))
	y += 14 * k
	fmt.Fprintf(&b, `<text class="hole-number" x="%s" y="%s" font-family="%s" font-size="%s" font-weight="bold" fill="#ffffff">%d</text>`,
		svgx.Num(pad), svgx.Num(y+64*k), svgx.Escape(font), svgx.Num(64*k), hole.Number)
	y += 64*k + 8*k
	if hole.Name != "" {
		y += 14 * k
		fmt.Fprintf(&b, `<text class="hole-name" x="%s" y="%s" font-family="%s" font-size="%s" fill="#ffffff">%s</text>`,
			svgx.Num(pad), svgx.Num(y), svgx.Escape(font), svgx.Num(14*k), svgx.Escape(hole.Name))
		y += 6 * k
	}
	y += 22 * k
	fmt.Fprintf(&b, `<text class="par" x="%s" y="%s" font-family="%s" font-size="%s" font-weight="bold" fill="#ffffff">PAR %d</text>`,
		svgx.Num(pad), svgx.Num(y), svgx.Escape(font), svgx.Num(22*k), hole.Par)
	y += 16 * k

	if cfg.IncludeDistances {
		tees := hole.FeaturesOf(models.KindTee)
		for i, f := range tees {
			tee, ok := f.Point()
			if !ok {
				continue
			}
			p, _ := f.Props.(models.TeeProps)
			name := p.Name
			if name == "" {
				name = "Tee"
				if len(tees) > 1 {
					name = fmt.Sprintf("Tee %d", i+1)
				}
			}
			dist := "-"
			if m := TeeDistance(hole, tee); m > 0 {
				dist = FormatDistance(m, cfg.Units)
			}
			fill := colors.Normalize(p.Color, style.TeeColor)
			fg := colors.TextColor(fill)
			h := teeBoxHeight * k
			fmt.Fprintf(&b, `<g class="tee-distance"><rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s"/>`,
				svgx.Num(pad), svgx.Num(y), svgx.Num(inner), svgx.Num(h), svgx.Num(4*k), fill)
			fmt.Fprintf(&b, `<text x="%s" y="%s" dominant-baseline="central" font-family="%s" font-size="%s" fill="%s">%s</text>`,
				svgx.Num(pad+8*k), svgx.Num(y+h/2), svgx.Escape(font), svgx.Num(13*k), fg, svgx.Escape(name))
			fmt.Fprintf(&b, `<text x="%s" y="%s" text-anchor="end" dominant-baseline="central" font-family="%s" font-size="%s" font-weight="bold" fill="%s">%s</text></g>`,
				svgx.Num(pad+inner-8*k), svgx.Num(y+h/2), svgx.Escape(font), svgx.Num(14*k), fg, svgx.Escape(dist))
			y += h + 6*k
		}
	}

	for _, block := range []struct {
		on    bool
		class string
		title string
		text  string
	}{
		{cfg.IncludeNotes, "hole-notes", "Notes", hole.Notes},
		{cfg.IncludeRules, "hole-rules", "Rules", hole.Rules},
	} {
		if !block.on || strings.TrimSpace(block.text) == "" {
			continue
		}
		fs := 12 * k
		y += 18 * k
		fmt.Fprintf(&b, `<text x="%s" y="%s" font-family="%s" font-size="%s" font-weight="bold" fill="#ffffff">%s</text>`,
			svgx.Num(pad), svgx.Num(y), svgx.Escape(font), svgx.Num(13*k), block.title)
		y += fs * 1.4
		lines := wrapText(block.text, charsFor(inner, fs))
		b.WriteString(textBlock(block.class, pad, y, fs, "#E8F5E9", font, lines))
		y += float64(len(lines)-1) * fs * 1.3
	}

	if cfg.LogoDataURL != "" {
		ctx.UseXLink()
		h := inner * 0.6
		href := svgx.Escape(cfg.LogoDataURL)
		fmt.Fprintf(&b, `<image class="logo" href="%s" xlink:href="%s" x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid meet"/>`,
			href, href, svgx.Num(pad), svgx.Num(cfg.Height-h-pad), svgx.Num(inner), svgx.Num(h))
	}

	b.WriteString(`</g>`)
	return b.String()
}
