package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"coursemap/internal/exporter/importer"
	exportmodels "coursemap/internal/exporter/models"
	"coursemap/internal/exporter/parser"
	"coursemap/internal/library/models"
	"coursemap/internal/library/repository"
	"coursemap/internal/library/service"
)

// ============================================================
// Library Handler
// ============================================================

// Renderer: рендер-сервис; в проде service.RenderClient.
type Renderer interface {
	Render(ctx context.Context, kind string, job service.RenderJob) ([]byte, string, error)
}

type LibraryHandler struct {
	repo     *repository.Repository
	storage  *service.FileStorage
	tracker  *service.ExportTracker
	renderer Renderer
}

func NewLibraryHandler(repo *repository.Repository, storage *service.FileStorage, tracker *service.ExportTracker, renderer Renderer) *LibraryHandler {
	return &LibraryHandler{
		repo:     repo,
		storage:  storage,
		tracker:  tracker,
		renderer: renderer,
	}
}

type exportRequest struct {
	Kind      models.ExportKind `json:"kind"`
	HoleIndex int               `json:"holeIndex"`
	Config    json.RawMessage   `json:"config,omitempty"`
}

type exportPayload struct {
	models.ExportRecord
	Summary json.RawMessage `json:"summary,omitempty"`
}

// Ready: readiness с проверкой БД.
func (h *LibraryHandler) Ready(c fiber.Ctx) error {
	if err := h.repo.Ping(c.Context()); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "db unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// ============================================================
// Courses
// ============================================================

// CreateCourse сохраняет курс из тела; id генерируется, если не задан.
func (h *LibraryHandler) CreateCourse(c fiber.Ctx) error {
	course, err := decodeCourse(c.Body())
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	if _, err := h.repo.GetCourse(c.Context(), course.ID); err == nil {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "course already exists"})
	}

	rec, err := courseRecord(course)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode course"})
	}
	if err := h.repo.CreateCourse(c.Context(), rec); err != nil {
		log.Printf("[LIBRARY] create course error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save course"})
	}

	log.Printf("[LIBRARY] course %s created: %d holes", rec.ID, rec.HoleCount)
	return c.Status(http.StatusCreated).JSON(rec)
}

func (h *LibraryHandler) ListCourses(c fiber.Ctx) error {
	list, err := h.repo.ListCourses(c.Context())
	if err != nil {
		log.Printf("[LIBRARY] list courses error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list courses"})
	}
	return c.JSON(list)
}

// GetCourse отдает курс в том же JSON, что принимает рендер.
func (h *LibraryHandler) GetCourse(c fiber.Ctx) error {
	rec, err := h.repo.GetCourse(c.Context(), c.Params("id"))
	if err != nil {
		return notFoundOr500(c, err, "course not found")
	}
	c.Set("Content-Type", "application/json")
	return c.Send(rec.Data)
}

func (h *LibraryHandler) UpdateCourse(c fiber.Ctx) error {
	course, err := decodeCourse(c.Body())
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	course.ID = c.Params("id")

	rec, err := courseRecord(course)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode course"})
	}
	if err := h.repo.UpdateCourse(c.Context(), rec); err != nil {
		return notFoundOr500(c, err, "course not found")
	}
	return c.JSON(rec)
}

func (h *LibraryHandler) DeleteCourse(c fiber.Ctx) error {
	id := c.Params("id")
	if _, err := h.repo.DeleteCourse(c.Context(), id); err != nil {
		return notFoundOr500(c, err, "course not found")
	}
	if err := h.storage.RemoveCourse(id); err != nil {
		log.Printf("[LIBRARY] remove files of %s: %v", id, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ImportTerrain принимает .shp/.shx/.dbf в поле file и добавляет местность,
// дорожки и деревья к курсу. ?replace=true сначала очищает слои поля.
func (h *LibraryHandler) ImportTerrain(c fiber.Ctx) error {
	id := c.Params("id")
	rec, err := h.repo.GetCourse(c.Context(), id)
	if err != nil {
		return notFoundOr500(c, err, "course not found")
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["file"]) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "file required"})
	}

	dir, err := h.storage.ImportDir(id)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to prepare import"})
	}
	defer os.RemoveAll(dir)

	var shpPath string
	for _, fh := range form.File["file"] {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		switch ext {
		case ".shp", ".shx", ".dbf":
		default:
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "only .shp, .shx and .dbf allowed"})
		}
		target := filepath.Join(dir, "terrain"+ext)
		if err := c.SaveFile(fh, target); err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
		}
		if ext == ".shp" {
			shpPath = target
		}
	}
	if shpPath == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": ".shp file required"})
	}

	layers, err := importer.LoadTerrain(shpPath, importer.Options{
		TypeField:           c.Query("typeField"),
		InfrastructureField: c.Query("infraField"),
		SizeField:           c.Query("sizeField"),
	})
	if err != nil {
		log.Printf("[LIBRARY] import terrain for %s: %v", id, err)
		if errors.Is(err, importer.ErrMissingColumn) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "type column not found, upload the .dbf or set typeField"})
		}
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid shapefile"})
	}

	var course exportmodels.Course
	if err := json.Unmarshal(rec.Data, &course); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "stored course is corrupt"})
	}
	if c.Query("replace") == "true" {
		course.TerrainFeatures, course.PathFeatures, course.TreeFeatures = nil, nil, nil
	}
	layers.ApplyTo(&course)

	updated, err := courseRecord(&course)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to encode course"})
	}
	if err := h.repo.UpdateCourse(c.Context(), updated); err != nil {
		return notFoundOr500(c, err, "course not found")
	}

	log.Printf("[LIBRARY] course %s: imported %d features", id, layers.Count())
	return c.JSON(fiber.Map{
		"terrain": len(layers.Terrain),
		"paths":   len(layers.Paths),
		"trees":   len(layers.Trees),
	})
}

// ============================================================
// Exports
// ============================================================

// CreateExport рендерит курс через рендер-сервис, сохраняет файл и запись о нем.
func (h *LibraryHandler) CreateExport(c fiber.Ctx) error {
	courseID := c.Params("id")
	var req exportRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if !req.Kind.Valid() {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("unknown export kind %q", req.Kind)})
	}

	rec, err := h.repo.GetCourse(c.Context(), courseID)
	if err != nil {
		return notFoundOr500(c, err, "course not found")
	}

	key := fmt.Sprintf("%s/%s/%d", courseID, req.Kind, req.HoleIndex)
	jobID, ok := h.tracker.Begin(key)
	if !ok {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "export already running"})
	}
	defer h.tracker.Done(key)

	data, contentType, err := h.renderer.Render(c.Context(), string(req.Kind), service.RenderJob{
		Course:    rec.Data,
		Config:    req.Config,
		HoleIndex: req.HoleIndex,
	})
	if err != nil {
		log.Printf("[LIBRARY] export %s (%s) failed: %v", jobID, key, err)
		var upstream *service.UpstreamError
		if errors.As(err, &upstream) && upstream.Status < 500 {
			return c.Status(upstream.Status).JSON(fiber.Map{"error": upstream.Message})
		}
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": "renderer failed"})
	}

	export := &models.ExportRecord{
		ID:          jobID,
		CourseID:    courseID,
		Kind:        req.Kind,
		HoleIndex:   req.HoleIndex,
		Path:        h.storage.ExportPath(courseID, jobID, req.Kind.Ext()),
		ContentType: contentType,
		Size:        int64(len(data)),
		Summary:     summarize(req.Kind, data),
	}
	if err := h.storage.SaveFile(courseID, export.Path, data); err != nil {
		log.Printf("[LIBRARY] save export error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save file"})
	}
	if err := h.repo.CreateExport(c.Context(), export); err != nil {
		log.Printf("[LIBRARY] insert export error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save export"})
	}

	log.Printf("[LIBRARY] export %s: %s of %s, %d bytes", export.ID, export.Kind, courseID, export.Size)
	return c.Status(http.StatusCreated).JSON(exportPayload{ExportRecord: *export, Summary: export.Summary})
}

func (h *LibraryHandler) ListExports(c fiber.Ctx) error {
	courseID := c.Params("id")
	if _, err := h.repo.GetCourse(c.Context(), courseID); err != nil {
		return notFoundOr500(c, err, "course not found")
	}
	list, err := h.repo.ListExports(c.Context(), courseID)
	if err != nil {
		log.Printf("[LIBRARY] list exports error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list exports"})
	}

	out := make([]exportPayload, 0, len(list))
	for _, e := range list {
		out = append(out, exportPayload{ExportRecord: e, Summary: e.Summary})
	}
	return c.JSON(out)
}

func (h *LibraryHandler) GetExport(c fiber.Ctx) error {
	e, err := h.repo.GetExport(c.Context(), c.Params("id"))
	if err != nil {
		return notFoundOr500(c, err, "export not found")
	}
	return c.JSON(exportPayload{ExportRecord: *e, Summary: e.Summary})
}

// GetExportFile отдает сохраненный файл экспорта.
func (h *LibraryHandler) GetExportFile(c fiber.Ctx) error {
	e, err := h.repo.GetExport(c.Context(), c.Params("id"))
	if err != nil {
		return notFoundOr500(c, err, "export not found")
	}
	data, err := os.ReadFile(e.Path)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "file not found"})
	}
	c.Set("Content-Type", e.ContentType)
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s%s"`, e.CourseID, e.Kind, e.Kind.Ext()))
	return c.Send(data)
}

// ============================================================
// Helpers
// ============================================================

func decodeCourse(body []byte) (*exportmodels.Course, error) {
	if len(body) == 0 {
		return nil, errors.New("empty body")
	}
	course, err := parser.DecodeCourse(bytes.NewReader(body))
	if err != nil {
		return nil, errors.New("invalid course json")
	}
	return course, nil
}

func courseRecord(course *exportmodels.Course) (*models.CourseRecord, error) {
	data, err := json.Marshal(course)
	if err != nil {
		return nil, err
	}
	return &models.CourseRecord{
		ID:        course.ID,
		Name:      course.Name,
		Location:  course.Location,
		HoleCount: len(course.Holes),
		TotalPar:  course.TotalPar(),
		Data:      data,
	}, nil
}

// summarize для SVG разбирает документ, для архива читает его manifest.json.
func summarize(kind models.ExportKind, data []byte) []byte {
	if kind == models.ExportArchive {
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil
		}
		for _, f := range zr.File {
			if f.Name != "manifest.json" {
				continue
			}
			rc, err := f.Open()
			if err != nil {
				return nil
			}
			defer rc.Close()
			blob, err := io.ReadAll(rc)
			if err != nil {
				return nil
			}
			return blob
		}
		return nil
	}

	summary, err := parser.Inspect(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	blob, err := json.Marshal(summary)
	if err != nil {
		return nil
	}
	return blob
}

func notFoundOr500(c fiber.Ctx, err error, msg string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": msg})
	}
	log.Printf("[LIBRARY] repository error: %v", err)
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
