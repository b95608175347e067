package models

// ============================================================
// Course style
// ============================================================

// CourseStyle: цвета, ширины и прозрачности для каждого класса фич.
// Пустые поля заполняются значениями из DefaultCourseStyle.
type CourseStyle struct {
	TeeColor          string      `json:"teeColor,omitempty" yaml:"teeColor"`
	BasketColor       string      `json:"basketColor,omitempty" yaml:"basketColor"`
	DropzoneColor     string      `json:"dropzoneColor,omitempty" yaml:"dropzoneColor"`
	MandatoryColor    string      `json:"mandatoryColor,omitempty" yaml:"mandatoryColor"`
	FlightLineColor   string      `json:"flightLineColor,omitempty" yaml:"flightLineColor"`
	FlightLineWidth   float64     `json:"flightLineWidth,omitempty" yaml:"flightLineWidth"`
	OBZoneColor       string      `json:"obZoneColor,omitempty" yaml:"obZoneColor"`
	OBZoneOpacity     float64     `json:"obZoneOpacity,omitempty" yaml:"obZoneOpacity"`
	OBLineColor       string      `json:"obLineColor,omitempty" yaml:"obLineColor"`
	OBLineWidth       float64     `json:"obLineWidth,omitempty" yaml:"obLineWidth"`
	FairwayColor      string      `json:"fairwayColor,omitempty" yaml:"fairwayColor"`
	FairwayOpacity    float64     `json:"fairwayOpacity,omitempty" yaml:"fairwayOpacity"`
	DropzoneAreaColor string      `json:"dropzoneAreaColor,omitempty" yaml:"dropzoneAreaColor"`
	AnnotationColor   string      `json:"annotationColor,omitempty" yaml:"annotationColor"`
	LandmarkColor     string      `json:"landmarkColor,omitempty" yaml:"landmarkColor"`
	PathColor         string      `json:"pathColor,omitempty" yaml:"pathColor"`
	PathWidth         float64     `json:"pathWidth,omitempty" yaml:"pathWidth"`
	BackgroundColor   string      `json:"backgroundColor,omitempty" yaml:"backgroundColor"`
	DefaultTerrain    TerrainType `json:"defaultTerrain,omitempty" yaml:"defaultTerrain"`
	MapStyle          string      `json:"mapStyle,omitempty" yaml:"mapStyle"`
	FontFamily        string      `json:"fontFamily,omitempty" yaml:"fontFamily"`
}

func DefaultCourseStyle() CourseStyle {
	return CourseStyle{
		TeeColor:          "#E53935",
		BasketColor:       "#FDD835",
		DropzoneColor:     "#FB8C00",
		MandatoryColor:    "#8E24AA",
		FlightLineColor:   "#FFFFFF",
		FlightLineWidth:   2,
		OBZoneColor:       "#D32F2F",
		OBZoneOpacity:     0.3,
		OBLineColor:       "#D32F2F",
		OBLineWidth:       3,
		FairwayColor:      "#81C784",
		FairwayOpacity:    0.5,
		DropzoneAreaColor: "#FFB74D",
		AnnotationColor:   "#212121",
		LandmarkColor:     "#5D4037",
		PathColor:         "#BCAAA4",
		PathWidth:         3,
		BackgroundColor:   "#E8F5E9",
		DefaultTerrain:    TerrainGrass,
		MapStyle:          "satellite",
		FontFamily:        "Arial, sans-serif",
	}
}

// WithDefaults возвращает копию стиля, где пустые поля взяты из DefaultCourseStyle.
func (s CourseStyle) WithDefaults() CourseStyle {
	d := DefaultCourseStyle()
	str := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	num := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}

	str(&s.TeeColor, d.TeeColor)
	str(&s.BasketColor, d.BasketColor)
	str(&s.DropzoneColor, d.DropzoneColor)
	str(&s.MandatoryColor, d.MandatoryColor)
	str(&s.FlightLineColor, d.FlightLineColor)
	num(&s.FlightLineWidth, d.FlightLineWidth)
	str(&s.OBZoneColor, d.OBZoneColor)
	num(&s.OBZoneOpacity, d.OBZoneOpacity)
	str(&s.OBLineColor, d.OBLineColor)
	num(&s.OBLineWidth, d.OBLineWidth)
	str(&s.FairwayColor, d.FairwayColor)
	num(&s.FairwayOpacity, d.FairwayOpacity)
	str(&s.DropzoneAreaColor, d.DropzoneAreaColor)
	str(&s.AnnotationColor, d.AnnotationColor)
	str(&s.LandmarkColor, d.LandmarkColor)
	str(&s.PathColor, d.PathColor)
	num(&s.PathWidth, d.PathWidth)
	str(&s.BackgroundColor, d.BackgroundColor)
	str(&s.MapStyle, d.MapStyle)
	str(&s.FontFamily, d.FontFamily)
	if s.DefaultTerrain == "" {
		s.DefaultTerrain = d.DefaultTerrain
	}
	s.DefaultTerrain = s.DefaultTerrain.Valid()
	return s
}
