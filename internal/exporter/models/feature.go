package models

import (
	"github.com/paulmach/orb"
)

// ============================================================
// Feature kinds
// ============================================================

type Kind string

const (
	KindTee          Kind = "tee"
	KindBasket       Kind = "basket"
	KindDropzone     Kind = "dropzone"
	KindMandatory    Kind = "mandatory"
	KindFlightLine   Kind = "flightLine"
	KindOBZone       Kind = "obZone"
	KindOBLine       Kind = "obLine"
	KindFairway      Kind = "fairway"
	KindDropzoneArea Kind = "dropzoneArea"
	KindAnnotation   Kind = "annotation"
	KindLandmark     Kind = "landmark"
	KindTerrain      Kind = "terrain"
	KindPath         Kind = "path"
	KindTree         Kind = "tree"
	KindUnknown      Kind = "unknown"
)

// IsPointKind: виды, которые рисуются маркером в точке и участвуют в расчете плотности.
func (k Kind) IsPointKind() bool {
	switch k {
	case KindTee, KindBasket, KindDropzone, KindMandatory, KindAnnotation, KindLandmark:
		return true
	}
	return false
}

// ============================================================
// Feature
// ============================================================

// Feature: геометрия в градусах ([lng, lat]) плюс типизированные свойства.
type Feature struct {
	ID       string
	HoleID   string
	Geometry orb.Geometry
	Props    Props
}

func (f Feature) Kind() Kind {
	if f.Props == nil {
		return KindUnknown
	}
	return f.Props.Kind()
}

// Point возвращает координату точечной фичи.
func (f Feature) Point() (orb.Point, bool) {
	p, ok := f.Geometry.(orb.Point)
	return p, ok
}

// Line возвращает координаты линейной фичи.
func (f Feature) Line() (orb.LineString, bool) {
	l, ok := f.Geometry.(orb.LineString)
	return l, ok
}

// Ring возвращает внешнее кольцо полигональной фичи.
func (f Feature) Ring() (orb.Ring, bool) {
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		if len(g) == 0 {
			return nil, false
		}
		return g[0], true
	case orb.Ring:
		return g, true
	}
	return nil, false
}

// ============================================================
// Props (sealed sum type)
// ============================================================

// Props реализуют только типы этого пакета; вариант выбирается через type switch.
type Props interface {
	Kind() Kind
	sealed()
}

type TeeProps struct {
	Name     string  `json:"name,omitempty"`
	Color    string  `json:"color,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
	Selected bool    `json:"selected,omitempty"`
}

type BasketProps struct {
	Color    string `json:"color,omitempty"`
	Selected bool   `json:"selected,omitempty"`
}

type DropzoneProps struct {
	Label      string  `json:"label,omitempty"`
	Color      string  `json:"color,omitempty"`
	Rotation   float64 `json:"rotation,omitempty"`
	LineAngle  float64 `json:"lineAngle,omitempty"`
	LineLength float64 `json:"lineLength,omitempty"`
}

type MandatoryProps struct {
	Color      string  `json:"color,omitempty"`
	Rotation   float64 `json:"rotation,omitempty"`
	LineAngle  float64 `json:"lineAngle,omitempty"`
	LineLength float64 `json:"lineLength,omitempty"`
}

type FlightLineProps struct {
	Color       string  `json:"color,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Dashed      bool    `json:"dashed,omitempty"`
}

type OBZoneProps struct {
	Color       string  `json:"color,omitempty"`
	FillOpacity float64 `json:"fillOpacity,omitempty"`
}

type OBLineProps struct {
	Color       string  `json:"color,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

type FairwayProps struct {
	Color   string  `json:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

type DropzoneAreaProps struct {
	Color   string  `json:"color,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

type AnnotationProps struct {
	Text            string  `json:"text"`
	FontSize        float64 `json:"fontSize,omitempty"`
	FontFamily      string  `json:"fontFamily,omitempty"`
	Color           string  `json:"color,omitempty"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	Rotation        float64 `json:"rotation,omitempty"`
}

type LandmarkProps struct {
	LandmarkType string  `json:"landmarkType,omitempty"`
	Label        string  `json:"label,omitempty"`
	Color        string  `json:"color,omitempty"`
	Size         float64 `json:"size,omitempty"`
	Rotation     float64 `json:"rotation,omitempty"`
}

// TerrainProps: полигон местности. Infrastructure (здания, парковки, дороги)
// рисуется только при includeInfrastructure.
type TerrainProps struct {
	TerrainType    TerrainType `json:"terrainType"`
	Infrastructure bool        `json:"infrastructure,omitempty"`
	Color          string      `json:"color,omitempty"`
	Opacity        float64     `json:"opacity,omitempty"`
}

type PathProps struct {
	PathType string  `json:"pathType,omitempty"`
	Color    string  `json:"color,omitempty"`
	Width    float64 `json:"width,omitempty"`
}

type TreeProps struct {
	TreeType TreeType `json:"treeType,omitempty"`
	Size     float64  `json:"size,omitempty"` // диаметр кроны, м
	Rotation float64  `json:"rotation,omitempty"`
}

// UnknownProps сохраняет исходный тип, чтобы фича пережила round-trip; рендер ее пропускает.
type UnknownProps struct {
	Type string `json:"type"`
}

func (TeeProps) Kind() Kind          { return KindTee }
func (BasketProps) Kind() Kind       { return KindBasket }
func (DropzoneProps) Kind() Kind     { return KindDropzone }
func (MandatoryProps) Kind() Kind    { return KindMandatory }
func (FlightLineProps) Kind() Kind   { return KindFlightLine }
func (OBZoneProps) Kind() Kind       { return KindOBZone }
func (OBLineProps) Kind() Kind       { return KindOBLine }
func (FairwayProps) Kind() Kind      { return KindFairway }
func (DropzoneAreaProps) Kind() Kind { return KindDropzoneArea }
func (AnnotationProps) Kind() Kind   { return KindAnnotation }
func (LandmarkProps) Kind() Kind     { return KindLandmark }
func (TerrainProps) Kind() Kind      { return KindTerrain }
func (PathProps) Kind() Kind         { return KindPath }
func (TreeProps) Kind() Kind         { return KindTree }
func (UnknownProps) Kind() Kind      { return KindUnknown }

func (TeeProps) sealed()          {}
func (BasketProps) sealed()       {}
func (DropzoneProps) sealed()     {}
func (MandatoryProps) sealed()    {}
func (FlightLineProps) sealed()   {}
func (OBZoneProps) sealed()       {}
func (OBLineProps) sealed()       {}
func (FairwayProps) sealed()      {}
func (DropzoneAreaProps) sealed() {}
func (AnnotationProps) sealed()   {}
func (LandmarkProps) sealed()     {}
func (TerrainProps) sealed()      {}
func (PathProps) sealed()         {}
func (TreeProps) sealed()         {}
func (UnknownProps) sealed()      {}

// ============================================================
// Terrain and tree variants
// ============================================================

type TerrainType string

const (
	TerrainGrass      TerrainType = "grass"
	TerrainRoughGrass TerrainType = "roughGrass"
	TerrainForest     TerrainType = "forest"
	TerrainWater      TerrainType = "water"
	TerrainSand       TerrainType = "sand"
	TerrainConcrete   TerrainType = "concrete"
	TerrainGravel     TerrainType = "gravel"
	TerrainMarsh      TerrainType = "marsh"
	TerrainRocks      TerrainType = "rocks"
)

var TerrainTypes = []TerrainType{
	TerrainGrass, TerrainRoughGrass, TerrainForest, TerrainWater, TerrainSand,
	TerrainConcrete, TerrainGravel, TerrainMarsh, TerrainRocks,
}

// Valid возвращает вариант, а для неизвестных значений: grass.
func (t TerrainType) Valid() TerrainType {
	for _, known := range TerrainTypes {
		if t == known {
			return t
		}
	}
	return TerrainGrass
}

type TreeType string

const (
	TreeOak    TreeType = "oak"
	TreePine   TreeType = "pine"
	TreeBirch  TreeType = "birch"
	TreeMaple  TreeType = "maple"
	TreeSpruce TreeType = "spruce"
	TreeWillow TreeType = "willow"
	TreeBush   TreeType = "bush"
)

var TreeTypes = []TreeType{TreeOak, TreePine, TreeBirch, TreeMaple, TreeSpruce, TreeWillow, TreeBush}

// Valid возвращает вариант, а для неизвестных значений: oak.
func (t TreeType) Valid() TreeType {
	for _, known := range TreeTypes {
		if t == known {
			return t
		}
	}
	return TreeOak
}
