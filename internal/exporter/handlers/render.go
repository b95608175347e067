package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"coursemap/internal/exporter/archive"
	"coursemap/internal/exporter/assets"
	"coursemap/internal/exporter/layout"
	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/parser"
)

// ============================================================
// Render Handlers
// ============================================================

// RenderRequest: тело всех запросов рендера. Config накладывается на умолчания
// сервиса, отсутствующие поля остаются умолчаниями.
type RenderRequest struct {
	Course    *models.Course  `json:"course"`
	Config    json.RawMessage `json:"config,omitempty"`
	HoleIndex int             `json:"holeIndex"`
}

type RenderHandler struct {
	defaults models.ExportConfig
	cache    *assets.Cache
}

// NewRenderHandler; при nil или пустом cache текстуры-картинки не используются.
func NewRenderHandler(defaults models.ExportConfig, cache *assets.Cache) *RenderHandler {
	return &RenderHandler{defaults: defaults, cache: cache}
}

func (h *RenderHandler) options() layout.Options {
	if h.cache == nil || len(h.cache.Names()) == 0 {
		return layout.Options{}
	}
	return layout.Options{Assets: h.cache}
}

// CourseMap: POST /render/course
func (h *RenderHandler) CourseMap(c fiber.Ctx) error {
	return h.render(c, "course", func(req *RenderRequest, cfg models.ExportConfig) (string, error) {
		return layout.GenerateCourseSVG(req.Course, cfg, h.options())
	})
}

// TeeSign: POST /render/tee-sign
func (h *RenderHandler) TeeSign(c fiber.Ctx) error {
	return h.render(c, "tee-sign", func(req *RenderRequest, cfg models.ExportConfig) (string, error) {
		return layout.GenerateTeeSignSVG(req.Course, req.HoleIndex, cfg, h.options())
	})
}

// Print: POST /render/print
func (h *RenderHandler) Print(c fiber.Ctx) error {
	return h.render(c, "print", func(req *RenderRequest, cfg models.ExportConfig) (string, error) {
		return layout.GeneratePrintLayoutSVG(req.Course, cfg, h.options())
	})
}

// HolePage: POST /render/hole-page
func (h *RenderHandler) HolePage(c fiber.Ctx) error {
	return h.render(c, "hole-page", func(req *RenderRequest, cfg models.ExportConfig) (string, error) {
		return layout.GenerateHolePageSVG(req.Course, req.HoleIndex, cfg, h.options())
	})
}

// Archive: POST /render/archive, отдает zip. ?teeSigns=false убирает знаки ти.
func (h *RenderHandler) Archive(c fiber.Ctx) error {
	req, cfg, msg := h.decode(c)
	if msg != "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	var buf bytes.Buffer
	manifest, err := archive.Build(c.Context(), &buf, req.Course, archive.Options{
		Config:   cfg,
		Cache:    h.cache,
		TeeSigns: c.Query("teeSigns") != "false",
	})
	if err != nil {
		log.Printf("[RENDER] archive error: %v", err)
		return renderError(c, err)
	}

	log.Printf("[RENDER] archive %s: %d files, %d bytes", manifest.ID, len(manifest.Files), buf.Len())
	c.Set("Content-Type", "application/zip")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.zip"`, manifest.ID))
	c.Set("X-Export-ID", manifest.ID)
	return c.Send(buf.Bytes())
}

// ============================================================
// Helpers
// ============================================================

func (h *RenderHandler) render(c fiber.Ctx, kind string, fn func(*RenderRequest, models.ExportConfig) (string, error)) error {
	log.Printf("[RENDER] %s: Content-Length: %d", kind, len(c.Body()))

	req, cfg, msg := h.decode(c)
	if msg != "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	svg, err := fn(req, cfg)
	if err != nil {
		log.Printf("[RENDER] %s error: %v", kind, err)
		return renderError(c, err)
	}

	if summary, err := parser.Inspect(bytes.NewReader([]byte(svg))); err == nil && summary.Placeholder {
		c.Set("X-Export-Placeholder", "true")
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// decode разбирает тело и накладывает config на умолчания. Непустая строка означает текст ошибки 400.
func (h *RenderHandler) decode(c fiber.Ctx) (*RenderRequest, models.ExportConfig, string) {
	cfg := h.defaults
	if len(c.Body()) == 0 {
		return nil, cfg, "body required"
	}

	var req RenderRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		log.Printf("[RENDER] Decode error: %v", err)
		return nil, cfg, "invalid JSON payload"
	}
	if req.Course == nil {
		return nil, cfg, "course required"
	}
	parser.SortHoles(req.Course)

	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			log.Printf("[RENDER] Config decode error: %v", err)
			return nil, cfg, "invalid config"
		}
	}
	return &req, cfg, ""
}

func renderError(c fiber.Ctx, err error) error {
	var cfgErr *models.InvalidExportConfigError
	switch {
	case errors.As(err, &cfgErr):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "field": cfgErr.Field})
	case errors.Is(err, models.ErrHoleNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
