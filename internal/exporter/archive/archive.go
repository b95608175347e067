package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"
	"golang.org/x/sync/errgroup"

	"coursemap/internal/exporter/assets"
	"coursemap/internal/exporter/layout"
	"coursemap/internal/exporter/models"
)

// ============================================================
// Hole archive
// ============================================================

// AssetDir: каталог ассетов внутри архива; SVG ссылаются на него относительными путями.
const AssetDir = "assets/"

const defaultConcurrency = 4

// Options: настройки упаковки.
type Options struct {
	Config models.ExportConfig
	// Cache дает байты ассетов для assets/. Растровые текстуры берутся только
	// для ассетов из кэша, без кэша документы остаются векторными.
	Cache       *assets.Cache
	TeeSigns    bool
	Concurrency int
}

// Manifest описывает содержимое архива и кладется в него как manifest.json.
type Manifest struct {
	ID     string   `json:"id"`
	Course string   `json:"course"`
	Files  []string `json:"files"`
	Assets []string `json:"assets,omitempty"`
}

type file struct {
	name string
	body string
}

// Build рендерит карту поля, страницу каждой лунки и (опционально) знаки ти
// параллельно, затем пишет их в zip в стабильном порядке.
func Build(ctx context.Context, w io.Writer, course *models.Course, opts Options) (*Manifest, error) {
	if course == nil {
		return nil, fmt.Errorf("build archive: nil course")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("build archive: %w", err)
	}

	var recorder *assets.Recorder
	var render layout.Options
	if opts.Cache != nil {
		recorder = assets.NewRecorder(assets.Bundle{Prefix: AssetDir, Cache: opts.Cache})
		render.Assets = recorder
	}

	files := make([]file, 1+len(course.Holes)*2)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency(opts.Concurrency))

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		svg, err := layout.GenerateCourseSVG(course, opts.Config, render)
		if err != nil {
			return fmt.Errorf("course map: %w", err)
		}
		files[0] = file{name: "course.svg", body: svg}
		return nil
	})

	for i, hole := range course.Holes {
		number := hole.Number
		if number <= 0 {
			number = i + 1
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			svg, err := layout.GenerateHolePageSVG(course, i, opts.Config, render)
			if err != nil {
				return fmt.Errorf("hole %d: %w", number, err)
			}
			files[1+i] = file{name: fmt.Sprintf("hole-%02d.svg", number), body: svg}
			return nil
		})

		if !opts.TeeSigns {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			svg, err := layout.GenerateTeeSignSVG(course, i, opts.Config, render)
			if err != nil {
				return fmt.Errorf("tee sign %d: %w", number, err)
			}
			files[1+len(course.Holes)+i] = file{name: fmt.Sprintf("tee-sign-%02d.svg", number), body: svg}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build archive: %w", err)
	}

	manifest := &Manifest{ID: uuid.NewString(), Course: course.Name}
	zw := zip.NewWriter(w)
	for _, f := range files {
		if f.name == "" {
			continue
		}
		if err := writeFile(zw, f.name, []byte(f.body)); err != nil {
			return nil, err
		}
		manifest.Files = append(manifest.Files, f.name)
	}

	if recorder != nil {
		for _, name := range recorder.Names() {
			data, ok := opts.Cache.Bytes(name)
			if !ok {
				return nil, fmt.Errorf("build archive: asset %s left the cache", name)
			}
			if err := writeFile(zw, AssetDir+name, data); err != nil {
				return nil, err
			}
			manifest.Assets = append(manifest.Assets, AssetDir+name)
		}
	}

	blob, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := writeFile(zw, "manifest.json", blob); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}

	log.Printf("[ARCHIVE] %s: %d files, %d assets for %q", manifest.ID, len(manifest.Files), len(manifest.Assets), course.Name)
	return manifest, nil
}

func writeFile(zw *zip.Writer, name string, data []byte) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func concurrency(n int) int {
	if n <= 0 {
		return defaultConcurrency
	}
	return n
}
