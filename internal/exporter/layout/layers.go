package layout

import "coursemap/internal/exporter/models"

// ============================================================
// Layers
// ============================================================

// Layer: именованный слой документа. Порядок слоев задается списком, а не кодом.
type Layer string

const (
	LayerBackground     Layer = "background"
	LayerTerrain        Layer = "terrain"
	LayerPaths          Layer = "paths"
	LayerTrees          Layer = "trees"
	LayerFairway        Layer = "fairway"
	LayerDropzoneArea   Layer = "dropzoneArea"
	LayerOBLine         Layer = "obLine"
	LayerOBZone         Layer = "obZone"
	LayerFlightLine     Layer = "flightLine"
	LayerDropzone       Layer = "dropzone"
	LayerMandatory      Layer = "mandatory"
	LayerAnnotation     Layer = "annotation"
	LayerLandmark       Layer = "landmark"
	LayerTee            Layer = "tee"
	LayerBasket         Layer = "basket"
	LayerDistanceLabels Layer = "distanceLabels"
)

var (
	// CourseMapLayers: полная карта поля.
	CourseMapLayers = []Layer{
		LayerBackground, LayerTerrain, LayerPaths, LayerTrees,
		LayerFairway, LayerDropzoneArea, LayerOBLine, LayerOBZone, LayerFlightLine,
		LayerDropzone, LayerMandatory, LayerAnnotation, LayerLandmark,
		LayerTee, LayerBasket, LayerDistanceLabels,
	}

	// TeeSignLayers: карта одной лунки на знаке и на странице лунки.
	TeeSignLayers = CourseMapLayers

	// PrintLayers рисуют обзор для буклета, без подписей и аннотаций.
	PrintLayers = []Layer{
		LayerBackground, LayerTerrain, LayerPaths,
		LayerFairway, LayerDropzoneArea, LayerOBLine, LayerOBZone, LayerFlightLine,
		LayerDropzone, LayerMandatory, LayerTee, LayerBasket,
	}
)

// layerKinds связывает слои игровых фич с видом фичи.
var layerKinds = map[Layer]models.Kind{
	LayerFairway:      models.KindFairway,
	LayerDropzoneArea: models.KindDropzoneArea,
	LayerOBLine:       models.KindOBLine,
	LayerOBZone:       models.KindOBZone,
	LayerFlightLine:   models.KindFlightLine,
	LayerDropzone:     models.KindDropzone,
	LayerMandatory:    models.KindMandatory,
	LayerAnnotation:   models.KindAnnotation,
	LayerLandmark:     models.KindLandmark,
	LayerTee:          models.KindTee,
	LayerBasket:       models.KindBasket,
}
