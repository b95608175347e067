package layout

import (
	"coursemap/internal/exporter/collision"
	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/pattern"
	"coursemap/internal/exporter/svgx"
)

// ============================================================
// Render context
// ============================================================

// Options: внешние зависимости генераторов.
type Options struct {
	// Assets разрешает имена растровых текстур. nil: только векторные текстуры.
	Assets pattern.AssetResolver
}

// RenderContext хранит изменяемое состояние одного экспорта: счетчик id, реестр
// занятых рамок и библиотека паттернов. Создается заново на каждый вызов
// генератора, поэтому параллельные экспорты не пересекаются.
type RenderContext struct {
	IDs        *svgx.IDSource
	Collisions *collision.Registry
	Patterns   *pattern.Library

	xlink bool
}

func NewRenderContext(cfg models.ExportConfig, opts Options) *RenderContext {
	ids := svgx.NewIDSource()
	return &RenderContext{
		IDs:        ids,
		Collisions: collision.NewRegistry(),
		Patterns:   pattern.NewLibrary(ids, cfg.Minimal, opts.Assets),
	}
}

// UseXLink отмечает, что документ ссылается на внешнее изображение.
func (c *RenderContext) UseXLink() {
	c.xlink = true
}

// Finish переносит накопленные defs в документ и сериализует его.
func (c *RenderContext) Finish(doc *svgx.Document) string {
	for _, def := range c.Patterns.Defs() {
		doc.AddDef(def)
	}
	doc.XLink = c.xlink || c.Patterns.UsesImages()
	return doc.String()
}
