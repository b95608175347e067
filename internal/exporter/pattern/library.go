package pattern

import (
	"fmt"
	"math"
	"sort"

	"coursemap/internal/exporter/colors"
	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/svgx"
)

// ============================================================
// Per-document pattern library
// ============================================================

// AssetResolver превращает имя растрового ассета в href: data URI из кэша
// или относительный путь для внешнего окружения.
type AssetResolver interface {
	Href(name string) string
}

// assetChecker реализуют резолверы, которые знают, какие ассеты у них есть.
// Для отсутствующих Library рисует векторную текстуру вместо битой ссылки.
type assetChecker interface {
	Has(name string) bool
}

const (
	GrassAsset         = "textures/grass.jpg"
	grassMetersPerTile = 4.0
	minImageTile       = 30.0
	maxImageTile       = 800.0
	treeSymbolSize     = 100.0
)

var treeAssets = map[models.TreeType]string{
	models.TreeOak:    "trees/tree1.png",
	models.TreePine:   "trees/tree2.png",
	models.TreeBirch:  "trees/tree3.png",
	models.TreeMaple:  "trees/tree4.png",
	models.TreeSpruce: "trees/tree5.png",
	models.TreeWillow: "trees/tree6.png",
	models.TreeBush:   "trees/tree7.png",
}

// TreeAsset возвращает имя картинки кроны; неизвестный тип рисуется как oak.
func TreeAsset(t models.TreeType) string {
	return treeAssets[t.Valid()]
}

// AssetNames: все растровые ассеты, на которые может сослаться документ.
func AssetNames() []string {
	names := []string{GrassAsset}
	for _, t := range models.TreeTypes {
		names = append(names, treeAssets[t])
	}
	return names
}

// Library копит defs одного документа и выдает один id на одинаковый запрос.
type Library struct {
	ids     *svgx.IDSource
	minimal bool
	assets  AssetResolver

	byKey      map[string]string
	defs       []string
	referenced map[string]bool
}

// NewLibrary: minimal включает плоские заливки, assets==nil отключает растровые текстуры.
func NewLibrary(ids *svgx.IDSource, minimal bool, assets AssetResolver) *Library {
	return &Library{
		ids:        ids,
		minimal:    minimal,
		assets:     assets,
		byKey:      map[string]string{},
		referenced: map[string]bool{},
	}
}

// Terrain возвращает id паттерна местности.
func (l *Library) Terrain(t models.TerrainType, p colors.Palette, scale float64) string {
	t = t.Valid()
	key := fmt.Sprintf("terrain|%s|%s|%s|%s|%g", t, p.Primary, p.Secondary, p.Accent, scale)
	if id, ok := l.byKey[key]; ok {
		return id
	}

	id := l.ids.Next("pattern-" + string(t))
	if l.minimal {
		l.defs = append(l.defs, Flat(id, p))
	} else {
		l.defs = append(l.defs, Generate(t, id, p, scale))
	}
	l.byKey[key] = id
	return id
}

// ImageTextures: доступны ли растровые ассеты.
func (l *Library) ImageTextures() bool {
	return l.assets != nil && !l.minimal
}

// GrassImage: паттерн из фото травы. Размер плитки в пикселях подбирается так,
// чтобы одна плитка покрывала одинаковое число метров на любом масштабе.
func (l *Library) GrassImage(metersPerPixel float64, fallback colors.Palette) string {
	if !l.available(GrassAsset) {
		return l.Terrain(models.TerrainGrass, fallback, 1)
	}

	size := ImageTileSize(metersPerPixel)
	key := fmt.Sprintf("grass-image|%g", size)
	if id, ok := l.byKey[key]; ok {
		return id
	}

	id := l.ids.Next("pattern-grass-image")
	href := l.reference(GrassAsset)
	l.defs = append(l.defs, fmt.Sprintf(
		`<pattern id="%s" patternUnits="userSpaceOnUse" width="%s" height="%s"><image href="%s" xlink:href="%s" width="%s" height="%s" preserveAspectRatio="none"/></pattern>`,
		id, svgx.Num(size), svgx.Num(size), href, href, svgx.Num(size), svgx.Num(size)))
	l.byKey[key] = id
	return id
}

// ImageTileSize = metersPerTile / metersPerPixel, в пределах [30, 800].
func ImageTileSize(metersPerPixel float64) float64 {
	if metersPerPixel <= 0 || math.IsNaN(metersPerPixel) || math.IsInf(metersPerPixel, 0) {
		return maxImageTile
	}
	size := grassMetersPerTile / metersPerPixel
	return math.Max(minImageTile, math.Min(maxImageTile, size))
}

// TreeSymbol регистрирует <symbol> с картинкой кроны; картинка встраивается один раз
// на документ, экземпляры ссылаются на нее через <use>.
func (l *Library) TreeSymbol(t models.TreeType) (string, bool) {
	t = t.Valid()
	if !l.available(TreeAsset(t)) {
		return "", false
	}
	key := "tree-symbol|" + string(t)
	if id, ok := l.byKey[key]; ok {
		return id, true
	}

	id := l.ids.Next("tree-" + string(t))
	href := l.reference(TreeAsset(t))
	l.defs = append(l.defs, fmt.Sprintf(
		`<symbol id="%s" viewBox="0 0 %s %s"><image href="%s" xlink:href="%s" width="%s" height="%s"/></symbol>`,
		id, svgx.Num(treeSymbolSize), svgx.Num(treeSymbolSize), href, href,
		svgx.Num(treeSymbolSize), svgx.Num(treeSymbolSize)))
	l.byKey[key] = id
	return id, true
}

// Use размещает символ с центром в (x, y).
func Use(symbolID string, x, y, size, rotation, opacity float64) string {
	transform := svgx.TransformAttr(svgx.Rotate(rotation, x, y))
	return fmt.Sprintf(`<use href="#%s" xlink:href="#%s" x="%s" y="%s" width="%s" height="%s" opacity="%s"%s/>`,
		symbolID, symbolID, svgx.Num(x-size/2), svgx.Num(y-size/2), svgx.Num(size), svgx.Num(size),
		svgx.Num(opacity), transform)
}

// Clip регистрирует произвольный clipPath и возвращает его id.
func (l *Library) Clip(prefix, shape string) string {
	id := l.ids.Next(prefix)
	l.defs = append(l.defs, fmt.Sprintf(`<clipPath id="%s">%s</clipPath>`, id, shape))
	return id
}

// Def добавляет готовое определение под свежим id; format должен содержать один %s для id.
func (l *Library) Def(prefix, format string) string {
	id := l.ids.Next(prefix)
	l.defs = append(l.defs, fmt.Sprintf(format, id))
	return id
}

func (l *Library) available(name string) bool {
	if !l.ImageTextures() {
		return false
	}
	if c, ok := l.assets.(assetChecker); ok {
		return c.Has(name)
	}
	return true
}

func (l *Library) reference(name string) string {
	l.referenced[name] = true
	return l.assets.Href(name)
}

// Defs: определения в порядке регистрации.
func (l *Library) Defs() []string {
	return l.defs
}

// Referenced: имена растровых ассетов, на которые ссылается документ.
func (l *Library) Referenced() []string {
	out := make([]string, 0, len(l.referenced))
	for name := range l.referenced {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// UsesImages: нужен ли xmlns:xlink.
func (l *Library) UsesImages() bool {
	return len(l.referenced) > 0
}

// Fill оформляет ссылку на паттерн.
func Fill(id string) string {
	return "url(#" + id + ")"
}
