package layout

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"coursemap/internal/exporter/forest"
	"coursemap/internal/exporter/geo"
	"coursemap/internal/exporter/marker"
	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/svgx"
)

// ============================================================
// Print layout
// ============================================================

const (
	// PrintMarkerScale уменьшает маркеры обзорной страницы буклета.
	PrintMarkerScale = 0.7
	// HolePageMarkerScale увеличивает маркеры страницы одной лунки.
	HolePageMarkerScale = 1.25

	headerHeight   = 64.0
	printPadding   = 20.0
	holesPerRow    = 9
	tableRowHeight = 18.0
	tableGap       = 6.0
	totalsHeight   = 24.0
	footerLine     = 16.0
)

// GeneratePrintLayoutSVG собирает страницу буклета: шапка, обзорная карта всех выбранных
// лунок и таблица лунок с паром.
func GeneratePrintLayoutSVG(course *models.Course, cfg models.ExportConfig, opts Options) (string, error) {
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

	rows := int(math.Ceil(float64(len(holes)) / holesPerRow))
	footer := float64(rows)*(2*tableRowHeight+tableGap) + totalsHeight + printPadding
	tr, err := geo.NewTransform(geo.Viewport{
		Y:       headerHeight,
		Width:   cfg.Width,
		Height:  cfg.Height - headerHeight - footer,
		Padding: printPadding,
		Bounds:  bounds,
	})
	if err != nil {
		return svgx.Placeholder(cfg.Width, cfg.Height, svgx.PlaceholderText), nil
	}

	ctx := NewRenderContext(cfg, opts)
	s := newScene(ctx, tr, course, holes, cfg)
	s.markerScale *= PrintMarkerScale
	s.labelScale *= PrintMarkerScale

	summary := fmt.Sprintf("%d holes · Par %d", len(holes), totalPar(holes))
	if course.Location != "" {
		summary = course.Location + " · " + summary
	}

	doc := svgx.NewDocument(cfg.Width, cfg.Height)
	doc.Addf(`<rect class="page" x="0" y="0" width="%s" height="%s" fill="#ffffff"/>`, svgx.Num(cfg.Width), svgx.Num(cfg.Height))
	doc.Add(pageHeader(courseTitle(course), summary, cfg.Width, s.style.FontFamily, true))
	for _, layer := range s.draw(PrintLayers) {
		doc.Add(layer)
	}
	for _, d := range s.decorations(tr.Viewport().Rect()) {
		doc.Add(d)
	}
	doc.Add(summaryTable(holes, cfg, s.style.FontFamily, cfg.Height-footer))
	return ctx.Finish(doc), nil
}

// GenerateHolePageSVG собирает страницу буклета для одной лунки: крупная карта на север,
// шапка с номером, паром и длиной, внизу заметки и правила.
func GenerateHolePageSVG(course *models.Course, holeIndex int, cfg models.ExportConfig, opts Options) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if course == nil || len(course.Holes) == 0 {
		return svgx.Placeholder(cfg.Width, cfg.Height, svgx.PlaceholderText), nil
	}
	if holeIndex < 0 || holeIndex >= len(course.Holes) {
		return "", fmt.Errorf("hole page for hole index %d: %w", holeIndex, models.ErrHoleNotFound)
	}

	hole := course.Holes[holeIndex]
	holes := []models.Hole{hole}
	game := gameFeatures(holes)
	if len(game) == 0 {
		return svgx.Placeholder(cfg.Width, cfg.Height, svgx.PlaceholderText), nil
	}

	font := course.Style.WithDefaults().FontFamily
	notes := holePageNotes(hole, cfg, cfg.Width-2*printPadding)
	footer := 0.0
	if len(notes) > 0 {
		footer = math.Min(cfg.Height*0.3, float64(len(notes))*footerLine+printPadding)
	}

	tr, err := geo.NewTransform(geo.Viewport{
		Y:       headerHeight,
		Width:   cfg.Width,
		Height:  cfg.Height - headerHeight - footer,
		Padding: MarkerMargin,
		Bounds:  featureBounds(game).EnsureMinSpan(MinSpanDegrees).Pad(BoundsPadding),
	})
	if err != nil {
		return svgx.Placeholder(cfg.Width, cfg.Height, svgx.PlaceholderText), nil
	}

	ctx := NewRenderContext(cfg, opts)
	s := newScene(ctx, tr, course, holes, cfg)
	s.forest = forest.CloseUp
	s.markerScale *= HolePageMarkerScale
	s.labelScale *= HolePageMarkerScale

	summary := fmt.Sprintf("Par %d", hole.Par)
	if length := HoleLength(hole); length > 0 {
		summary += " · " + FormatDistance(length, cfg.Units)
	}
	if cfg.IncludeCourseName {
		summary = courseTitle(course) + " · " + summary
	}

	doc := svgx.NewDocument(cfg.Width, cfg.Height)
	doc.Addf(`<rect class="page" x="0" y="0" width="%s" height="%s" fill="#ffffff"/>`, svgx.Num(cfg.Width), svgx.Num(cfg.Height))
	doc.Add(pageHeader(hole.Label(), summary, cfg.Width, font, false))
	for _, layer := range s.draw(TeeSignLayers) {
		doc.Add(layer)
	}
	for _, d := range s.decorations(tr.Viewport().Rect()) {
		doc.Add(d)
	}
	if len(notes) > 0 {
		doc.Add(textBlock("page-footer", printPadding, cfg.Height-footer+footerLine, 12, "#212121", font, notes))
	}
	return ctx.Finish(doc), nil
}

// ============================================================
// Page parts
// ============================================================

// pageHeader: заголовок слева, сводка справа; trees добавляет деревья сбоку по краям.
func pageHeader(title, summary string, width float64, font string, trees bool) string {
	var b strings.Builder
	b.WriteString(`<g class="page-header">`)
	fmt.Fprintf(&b, `<rect x="0" y="0" width="%s" height="%s" fill="#1B5E20"/>`, svgx.Num(width), svgx.Num(headerHeight))
	left := printPadding
	if trees {
		b.WriteString(marker.TreeSide(printPadding+10, headerHeight-8, marker.Tree{Type: models.TreePine, Size: 44}))
		b.WriteString(marker.TreeSide(printPadding+34, headerHeight-8, marker.Tree{Type: models.TreeOak, Size: 34}))
		b.WriteString(marker.TreeSide(width-printPadding-10, headerHeight-8, marker.Tree{Type: models.TreeSpruce, Size: 44}))
		left += 56
	}
	fmt.Fprintf(&b, `<text class="page-title" x="%s" y="%s" dominant-baseline="central" font-family="%s" font-size="24" font-weight="bold" fill="#ffffff">%s</text>`,
		svgx.Num(left), svgx.Num(headerHeight/2), svgx.Escape(font), svgx.Escape(title))
	right := width - printPadding
	if trees {
		right -= 32
	}
	fmt.Fprintf(&b, `<text class="page-summary" x="%s" y="%s" text-anchor="end" dominant-baseline="central" font-family="%s" font-size="13" fill="#C8E6C9">%s</text>`,
		svgx.Num(right), svgx.Num(headerHeight/2), svgx.Escape(font), svgx.Escape(summary))
	b.WriteString(`</g>`)
	return b.String()
}

// summaryTable: строки «Hole»/«Par» по 9 лунок и итог по пару и длине.
func summaryTable(holes []models.Hole, cfg models.ExportConfig, font string, top float64) string {
	cellW := (cfg.Width - 2*printPadding) / (holesPerRow + 1)

	var b strings.Builder
	b.WriteString(`<g class="summary-table">`)
	y := top
	for start := 0; start < len(holes); start += holesPerRow {
		end := min(start+holesPerRow, len(holes))
		for r, head := range []string{"Hole", "Par"} {
			rowY := y + float64(r)*tableRowHeight
			fill := "#ffffff"
			if r == 0 {
				fill = "#E8F5E9"
			}
			fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="#9e9e9e" stroke-width="0.5"/>`,
				svgx.Num(printPadding), svgx.Num(rowY), svgx.Num(cellW*float64(end-start+1)), svgx.Num(tableRowHeight), fill)
			b.WriteString(cell(printPadding, rowY, cellW, head, font, true))
			for i, h := range holes[start:end] {
				value := h.Par
				if r == 0 {
					value = h.Number
				}
				b.WriteString(cell(printPadding+cellW*float64(i+1), rowY, cellW, fmt.Sprint(value), font, false))
			}
		}
		y += 2*tableRowHeight + tableGap
	}

	length := 0.0
	for _, h := range holes {
		length += HoleLength(h)
	}
	p := message.NewPrinter(language.English)
	fmt.Fprintf(&b, `<text class="summary-totals" x="%s" y="%s" dominant-baseline="central" font-family="%s" font-size="13" font-weight="bold" fill="#212121">%s</text>`,
		svgx.Num(printPadding), svgx.Num(y+totalsHeight/2), svgx.Escape(font),
		svgx.Escape(p.Sprintf("Total par %d · Total length %d %s",
			totalPar(holes), int(math.Round(cfg.Units.FromMeters(length))), cfg.Units.Suffix())))
	b.WriteString(`</g>`)
	return b.String()
}

func cell(x, y, w float64, text, font string, bold bool) string {
	weight := "normal"
	if bold {
		weight = "bold"
	}
	return fmt.Sprintf(`<text x="%s" y="%s" text-anchor="middle" dominant-baseline="central" font-family="%s" font-size="11" font-weight="%s" fill="#212121">%s</text>`,
		svgx.Num(x+w/2), svgx.Num(y+tableRowHeight/2), svgx.Escape(font), weight, svgx.Escape(text))
}

func holePageNotes(h models.Hole, cfg models.ExportConfig, width float64) []string {
	var lines []string
	chars := charsFor(width, 12)
	if cfg.IncludeNotes && strings.TrimSpace(h.Notes) != "" {
		lines = append(lines, wrapText("Notes: "+h.Notes, chars)...)
	}
	if cfg.IncludeRules && strings.TrimSpace(h.Rules) != "" {
		lines = append(lines, wrapText("Rules: "+h.Rules, chars)...)
	}
	return lines
}

func totalPar(holes []models.Hole) int {
	total := 0
	for _, h := range holes {
		total += h.Par
	}
	return total
}
