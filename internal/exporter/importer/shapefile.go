package importer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"coursemap/internal/exporter/models"
)

// ============================================================
// Shapefile terrain import
// ============================================================

// ErrMissingColumn: в .dbf нет колонки с типом (или самого .dbf рядом с .shp).
var ErrMissingColumn = errors.New("attribute column not found")

// Options: имена колонок атрибутов. Пустые значения заменяются умолчаниями.
type Options struct {
	TypeField           string
	InfrastructureField string
	SizeField           string
}

func (o Options) withDefaults() Options {
	if o.TypeField == "" {
		o.TypeField = "TYPE"
	}
	if o.InfrastructureField == "" {
		o.InfrastructureField = "INFRA"
	}
	if o.SizeField == "" {
		o.SizeField = "SIZE"
	}
	return o
}

// Layers: фичи уровня поля, прочитанные из шейп-файла.
type Layers struct {
	Terrain []models.Feature
	Paths   []models.Feature
	Trees   []models.Feature
}

// Count: сколько фич прочитано.
func (l Layers) Count() int {
	return len(l.Terrain) + len(l.Paths) + len(l.Trees)
}

// ApplyTo добавляет слои к полю.
func (l Layers) ApplyTo(course *models.Course) {
	course.TerrainFeatures = append(course.TerrainFeatures, l.Terrain...)
	course.PathFeatures = append(course.PathFeatures, l.Paths...)
	course.TreeFeatures = append(course.TreeFeatures, l.Trees...)
}

// LoadTerrain читает шейп-файл: полигоны становятся местностью, линии дорожками,
// точки деревьями. Тип берется из колонки opts.TypeField; неизвестные типы
// местности становятся травой, деревьев дубом.
func LoadTerrain(path string, opts Options) (Layers, error) {
	opts = opts.withDefaults()

	shape, err := shp.Open(path)
	if err != nil {
		return Layers{}, fmt.Errorf("open shapefile %s: %w", path, err)
	}
	defer shape.Close()

	columns := map[string]int{}
	for i, field := range shape.Fields() {
		columns[strings.ToUpper(fieldName(field))] = i
	}
	if _, ok := columns[strings.ToUpper(opts.TypeField)]; !ok {
		return Layers{}, fmt.Errorf("shapefile %s: %w: %s", path, ErrMissingColumn, opts.TypeField)
	}
	attr := func(row int, name string) string {
		idx, ok := columns[strings.ToUpper(name)]
		if !ok {
			return ""
		}
		return strings.TrimSpace(shape.ReadAttribute(row, idx))
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var out Layers
	for shape.Next() {
		n, p := shape.Shape()
		id := fmt.Sprintf("%s-%d", base, n)
		kind := attr(n, opts.TypeField)

		switch geom := p.(type) {
		case *shp.Polygon:
			ring := outerRing(geom.Parts, geom.Points)
			if len(ring) < 4 {
				continue
			}
			out.Terrain = append(out.Terrain, models.Feature{
				ID:       id,
				Geometry: orb.Polygon{ring},
				Props:    terrainProps(kind, truthy(attr(n, opts.InfrastructureField))),
			})

		case *shp.PolyLine:
			line := firstPart(geom.Parts, geom.Points)
			if len(line) < 2 {
				continue
			}
			out.Paths = append(out.Paths, models.Feature{
				ID:       id,
				Geometry: line,
				Props:    models.PathProps{PathType: strcase.ToLowerCamel(kind)},
			})

		case *shp.Point:
			size, _ := strconv.ParseFloat(attr(n, opts.SizeField), 64)
			out.Trees = append(out.Trees, models.Feature{
				ID:       id,
				Geometry: orb.Point{geom.X, geom.Y},
				Props: models.TreeProps{
					TreeType: models.TreeType(strcase.ToLowerCamel(kind)).Valid(),
					Size:     size,
				},
			})
		}
	}
	if err := shape.Err(); err != nil {
		return Layers{}, fmt.Errorf("read shapefile %s: %w", path, err)
	}
	return out, nil
}

func terrainProps(kind string, infrastructure bool) models.TerrainProps {
	t := models.TerrainType(strcase.ToLowerCamel(kind))
	if strings.EqualFold(kind, "infrastructure") {
		infrastructure = true
		t = models.TerrainConcrete
	}
	return models.TerrainProps{TerrainType: t.Valid(), Infrastructure: infrastructure}
}

// outerRing: первая часть полигона, замкнутая.
func outerRing(parts []int32, points []shp.Point) orb.Ring {
	line := firstPart(parts, points)
	if len(line) < 3 {
		return nil
	}
	ring := orb.Ring(line)
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return ring
}

func firstPart(parts []int32, points []shp.Point) orb.LineString {
	end := len(points)
	if len(parts) > 1 && int(parts[1]) <= len(points) {
		end = int(parts[1])
	}
	start := 0
	if len(parts) > 0 && int(parts[0]) < end {
		start = int(parts[0])
	}

	line := make(orb.LineString, 0, end-start)
	for _, p := range points[start:end] {
		line = append(line, orb.Point{p.X, p.Y})
	}
	return line
}

func fieldName(f shp.Field) string {
	return strings.TrimRight(string(f.Name[:]), "\x00 ")
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "t":
		return true
	}
	return false
}
