package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"coursemap/internal/common/config"
	"coursemap/internal/exporter/archive"
	"coursemap/internal/exporter/assets"
	"coursemap/internal/exporter/importer"
	"coursemap/internal/exporter/layout"
	"coursemap/internal/exporter/models"
	"coursemap/internal/exporter/parser"
	"coursemap/internal/exporter/pattern"
)

// ============================================================
// Commands
// ============================================================

type options struct {
	coursePath string
	outPath    string
	assetsDir  string
	holeIndex  int
	holes      string
	width      float64
	height     float64
	units      string
	variant    string
	minimal    bool
	noLegend   bool
	noTitle    bool
	noTerrain  bool
	infra      bool
	logo       string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "courseexport",
		Short:        "Render disc golf course maps, tee signs and print pages as SVG",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.coursePath, "course", "c", "-", "course JSON file, - for stdin")
	root.PersistentFlags().StringVarP(&opts.outPath, "out", "o", "-", "output file, - for stdout")

	root.AddCommand(
		renderCmd(opts, "map", "Render the course overview map", func(c *models.Course, cfg models.ExportConfig, lo layout.Options) (string, error) {
			return layout.GenerateCourseSVG(c, cfg, lo)
		}),
		renderCmd(opts, "tee-sign", "Render the tee sign of one hole", func(c *models.Course, cfg models.ExportConfig, lo layout.Options) (string, error) {
			return layout.GenerateTeeSignSVG(c, opts.holeIndex, cfg, lo)
		}),
		renderCmd(opts, "print", "Render the printable course booklet page", func(c *models.Course, cfg models.ExportConfig, lo layout.Options) (string, error) {
			return layout.GeneratePrintLayoutSVG(c, cfg, lo)
		}),
		renderCmd(opts, "hole-page", "Render the printable page of one hole", func(c *models.Course, cfg models.ExportConfig, lo layout.Options) (string, error) {
			return layout.GenerateHolePageSVG(c, opts.holeIndex, cfg, lo)
		}),
		archiveCmd(opts),
		importTerrainCmd(opts),
	)
	return root
}

func addExportFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.StringVar(&opts.assetsDir, "assets", "", "directory with textures/ and trees/ images to inline")
	f.IntVar(&opts.holeIndex, "hole", 0, "zero-based hole index for per-hole outputs")
	f.StringVar(&opts.holes, "holes", "", `hole selection: "all", "current" or comma-separated indices`)
	f.Float64Var(&opts.width, "width", 0, "canvas width in px")
	f.Float64Var(&opts.height, "height", 0, "canvas height in px")
	f.StringVar(&opts.units, "units", "", "meters or feet")
	f.StringVar(&opts.variant, "variant", "", "tee sign variant: classic or blob")
	f.BoolVar(&opts.minimal, "minimal", false, "flat fills, no forest or textures")
	f.BoolVar(&opts.noLegend, "no-legend", false, "hide the legend")
	f.BoolVar(&opts.noTitle, "no-title", false, "hide the title block")
	f.BoolVar(&opts.noTerrain, "no-terrain", false, "hide terrain polygons")
	f.BoolVar(&opts.infra, "infrastructure", false, "draw buildings, parking and roads")
	f.StringVar(&opts.logo, "logo", "", "image file placed on tee signs")
}

func renderCmd(opts *options, use, short string, fn func(*models.Course, models.ExportConfig, layout.Options) (string, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			course, err := readCourse(cmd, opts.coursePath)
			if err != nil {
				return err
			}
			cfg, err := exportConfig(cmd, opts)
			if err != nil {
				return err
			}
			lo, _, err := layoutOptions(opts.assetsDir)
			if err != nil {
				return err
			}

			svg, err := fn(course, cfg, lo)
			if err != nil {
				return err
			}
			log.Printf("%s: %d bytes", use, len(svg))
			return writeOutput(cmd, opts.outPath, []byte(svg))
		},
	}
	addExportFlags(cmd, opts)
	return cmd
}

func archiveCmd(opts *options) *cobra.Command {
	var teeSigns bool
	var concurrency int
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Render every hole into a zip with the overview map and assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.outPath == "-" {
				return fmt.Errorf("archive needs --out")
			}
			course, err := readCourse(cmd, opts.coursePath)
			if err != nil {
				return err
			}
			cfg, err := exportConfig(cmd, opts)
			if err != nil {
				return err
			}
			_, cache, err := layoutOptions(opts.assetsDir)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			manifest, err := archive.Build(context.Background(), &buf, course, archive.Options{
				Config:      cfg,
				Cache:       cache,
				TeeSigns:    teeSigns,
				Concurrency: concurrency,
			})
			if err != nil {
				return err
			}
			log.Printf("archive %s: %d files", manifest.ID, len(manifest.Files))
			return writeOutput(cmd, opts.outPath, buf.Bytes())
		},
	}
	addExportFlags(cmd, opts)
	cmd.Flags().BoolVar(&teeSigns, "tee-signs", true, "include a tee sign per hole")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel renders (default 4)")
	return cmd
}

func importTerrainCmd(opts *options) *cobra.Command {
	var shpPath string
	var replace bool
	var fields importer.Options
	cmd := &cobra.Command{
		Use:   "import-terrain",
		Short: "Add terrain, paths and trees from an ESRI shapefile to a course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			course, err := readCourse(cmd, opts.coursePath)
			if err != nil {
				return err
			}
			layers, err := importer.LoadTerrain(shpPath, fields)
			if err != nil {
				return err
			}
			if replace {
				course.TerrainFeatures, course.PathFeatures, course.TreeFeatures = nil, nil, nil
			}
			layers.ApplyTo(course)
			log.Printf("imported %d terrain, %d paths, %d trees", len(layers.Terrain), len(layers.Paths), len(layers.Trees))

			out, err := json.MarshalIndent(course, "", "  ")
			if err != nil {
				return fmt.Errorf("encode course: %w", err)
			}
			return writeOutput(cmd, opts.outPath, append(out, '\n'))
		},
	}
	cmd.Flags().StringVar(&shpPath, "shp", "", "shapefile (.shp with .shx and .dbf next to it)")
	cmd.Flags().BoolVar(&replace, "replace", false, "drop existing course-level features first")
	cmd.Flags().StringVar(&fields.TypeField, "type-field", "", "attribute with the terrain or tree type (default TYPE)")
	cmd.Flags().StringVar(&fields.InfrastructureField, "infra-field", "", "attribute marking infrastructure (default INFRA)")
	cmd.Flags().StringVar(&fields.SizeField, "size-field", "", "attribute with tree crown size in meters (default SIZE)")
	_ = cmd.MarkFlagRequired("shp")
	return cmd
}

// ============================================================
// Helpers
// ============================================================

func readCourse(cmd *cobra.Command, path string) (*models.Course, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open course: %w", err)
		}
		defer f.Close()
		r = f
	}
	return parser.DecodeCourse(r)
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// exportConfig: умолчания из config.Load (включая YAML), поверх них флаги.
func exportConfig(cmd *cobra.Command, opts *options) (models.ExportConfig, error) {
	cfg := config.Load().Export
	f := cmd.Flags()

	if f.Changed("width") {
		cfg.Width = opts.width
	}
	if f.Changed("height") {
		cfg.Height = opts.height
	}
	if f.Changed("units") {
		cfg.Units = models.Units(opts.units)
	}
	if f.Changed("variant") {
		cfg.TeeSignVariant = models.TeeSignVariant(opts.variant)
	}
	if f.Changed("minimal") {
		cfg.Minimal = opts.minimal
	}
	if f.Changed("no-legend") {
		cfg.IncludeLegend = !opts.noLegend
	}
	if f.Changed("no-title") {
		cfg.IncludeTitle = !opts.noTitle
	}
	if f.Changed("no-terrain") {
		cfg.IncludeTerrain = !opts.noTerrain
	}
	if f.Changed("infrastructure") {
		cfg.IncludeInfrastructure = opts.infra
	}
	cfg.CurrentHole = opts.holeIndex
	if opts.holes != "" {
		sel, err := parseHoles(opts.holes)
		if err != nil {
			return cfg, err
		}
		cfg.Holes = sel
	}
	if opts.logo != "" {
		data, err := os.ReadFile(opts.logo)
		if err != nil {
			return cfg, fmt.Errorf("read logo: %w", err)
		}
		uri, err := assets.DataURI(data)
		if err != nil {
			return cfg, fmt.Errorf("logo: %w", err)
		}
		cfg.LogoDataURL = uri
	}
	return cfg, cfg.Validate()
}

func parseHoles(s string) (models.HoleSelection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return models.AllHoles(), nil
	case "current":
		return models.CurrentHole(), nil
	}
	var idx []int
	for _, part := range strings.Split(s, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return models.HoleSelection{}, fmt.Errorf("holes: %q is not an index", part)
		}
		idx = append(idx, i)
	}
	return models.HoleIndices(idx...), nil
}

// layoutOptions грузит ассеты из dir; без dir текстуры рисуются векторно.
func layoutOptions(dir string) (layout.Options, *assets.Cache, error) {
	if dir == "" {
		return layout.Options{}, nil, nil
	}
	cache := assets.NewCache(dir, assets.DefaultMaxSide)
	if err := cache.Load(pattern.AssetNames()...); err != nil {
		return layout.Options{}, nil, err
	}
	if len(cache.Names()) == 0 {
		return layout.Options{}, nil, nil
	}
	return layout.Options{Assets: cache}, cache, nil
}
