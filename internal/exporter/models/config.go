package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// ============================================================
// Export configuration
// ============================================================

type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

type Units string

const (
	UnitsMeters Units = "meters"
	UnitsFeet   Units = "feet"
)

const FeetPerMeter = 3.28084

// FromMeters переводит расстояние в выбранные единицы.
func (u Units) FromMeters(m float64) float64 {
	if u == UnitsFeet {
		return m * FeetPerMeter
	}
	return m
}

// Suffix: подпись единиц в метках расстояний.
func (u Units) Suffix() string {
	if u == UnitsFeet {
		return "ft"
	}
	return "m"
}

type TeeSignVariant string

const (
	TeeSignClassic TeeSignVariant = "classic"
	TeeSignBlob    TeeSignVariant = "blob"
)

type ExportConfig struct {
	Format                Format         `json:"format" yaml:"format"`
	Width                 float64        `json:"width" yaml:"width"`
	Height                float64        `json:"height" yaml:"height"`
	DPI                   int            `json:"dpi,omitempty" yaml:"dpi"`
	IncludeLegend         bool           `json:"includeLegend" yaml:"includeLegend"`
	IncludeTitle          bool           `json:"includeTitle" yaml:"includeTitle"`
	IncludeHoleNumbers    bool           `json:"includeHoleNumbers" yaml:"includeHoleNumbers"`
	IncludeDistances      bool           `json:"includeDistances" yaml:"includeDistances"`
	Holes                 HoleSelection  `json:"holes" yaml:"-"`
	CurrentHole           int            `json:"currentHole,omitempty" yaml:"-"`
	IncludeTerrain        bool           `json:"includeTerrain" yaml:"includeTerrain"`
	IncludeCompass        bool           `json:"includeCompass" yaml:"includeCompass"`
	IncludeScaleBar       bool           `json:"includeScaleBar" yaml:"includeScaleBar"`
	IncludeInfrastructure bool           `json:"includeInfrastructure" yaml:"includeInfrastructure"`
	Units                 Units          `json:"units,omitempty" yaml:"units"`
	IncludeNotes          bool           `json:"includeNotes" yaml:"includeNotes"`
	IncludeRules          bool           `json:"includeRules" yaml:"includeRules"`
	IncludeCourseName     bool           `json:"includeCourseName" yaml:"includeCourseName"`
	LogoDataURL           string         `json:"logoDataUrl,omitempty" yaml:"logoDataUrl"`
	TeeSignVariant        TeeSignVariant `json:"teeSignVariant,omitempty" yaml:"teeSignVariant"`
	Minimal               bool           `json:"minimal,omitempty" yaml:"minimal"`
	// Bounds задает границы карты явно вместо расчета по фичам.
	Bounds *orb.Bound `json:"bounds,omitempty" yaml:"-"`
}

// DefaultExportConfig: 800×600, все флаги кроме инфраструктуры включены, метры.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Format:             FormatSVG,
		Width:              800,
		Height:             600,
		DPI:                96,
		IncludeLegend:      true,
		IncludeTitle:       true,
		IncludeHoleNumbers: true,
		IncludeDistances:   true,
		Holes:              AllHoles(),
		IncludeTerrain:     true,
		IncludeCompass:     true,
		IncludeScaleBar:    true,
		Units:              UnitsMeters,
		IncludeNotes:       true,
		IncludeRules:       true,
		IncludeCourseName:  true,
		TeeSignVariant:     TeeSignClassic,
	}
}

// Validate проверяет то, без чего документ получится битым.
func (c ExportConfig) Validate() error {
	if c.Format != "" && c.Format != FormatSVG {
		return &InvalidExportConfigError{Field: "format", Reason: fmt.Sprintf("%q is not produced, only svg", c.Format)}
	}
	if !positiveFinite(c.Width) {
		return &InvalidExportConfigError{Field: "width", Reason: fmt.Sprintf("must be a positive finite number, got %v", c.Width)}
	}
	if !positiveFinite(c.Height) {
		return &InvalidExportConfigError{Field: "height", Reason: fmt.Sprintf("must be a positive finite number, got %v", c.Height)}
	}
	switch c.Units {
	case "", UnitsMeters, UnitsFeet:
	default:
		return &InvalidExportConfigError{Field: "units", Reason: fmt.Sprintf("unknown value %q", c.Units)}
	}
	switch c.TeeSignVariant {
	case "", TeeSignClassic, TeeSignBlob:
	default:
		return &InvalidExportConfigError{Field: "teeSignVariant", Reason: fmt.Sprintf("unknown value %q", c.TeeSignVariant)}
	}
	if c.Bounds != nil {
		b := *c.Bounds
		for _, v := range []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &InvalidExportConfigError{Field: "bounds", Reason: "must be finite"}
			}
		}
		if b.Max[0] <= b.Min[0] || b.Max[1] <= b.Min[1] {
			return &InvalidExportConfigError{Field: "bounds", Reason: "must be non-degenerate"}
		}
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ============================================================
// Hole selection
// ============================================================

type SelectionMode string

const (
	SelectAll     SelectionMode = "all"
	SelectCurrent SelectionMode = "current"
	SelectIndices SelectionMode = "indices"
)

// HoleSelection в JSON: строка "all" / "current" или массив индексов (с нуля).
type HoleSelection struct {
	Mode    SelectionMode
	Indices []int
}

func AllHoles() HoleSelection    { return HoleSelection{Mode: SelectAll} }
func CurrentHole() HoleSelection { return HoleSelection{Mode: SelectCurrent} }
func HoleIndices(idx ...int) HoleSelection {
	return HoleSelection{Mode: SelectIndices, Indices: idx}
}

func (s *HoleSelection) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = AllHoles()
		return nil
	}

	if data[0] == '[' {
		var idx []int
		if err := json.Unmarshal(data, &idx); err != nil {
			return fmt.Errorf("holes: %w", err)
		}
		*s = HoleIndices(idx...)
		return nil
	}

	var mode string
	if err := json.Unmarshal(data, &mode); err != nil {
		return fmt.Errorf("holes: %w", err)
	}
	switch SelectionMode(mode) {
	case SelectAll, "":
		*s = AllHoles()
	case SelectCurrent:
		*s = CurrentHole()
	default:
		return fmt.Errorf("holes: unknown selection %q", mode)
	}
	return nil
}

func (s HoleSelection) MarshalJSON() ([]byte, error) {
	switch s.Mode {
	case SelectIndices:
		idx := s.Indices
		if idx == nil {
			idx = []int{}
		}
		return json.Marshal(idx)
	case SelectCurrent:
		return json.Marshal(string(SelectCurrent))
	}
	return json.Marshal(string(SelectAll))
}

// Select возвращает выбранные лунки в порядке курса. Индексы вне диапазона пропускаются.
func (s HoleSelection) Select(holes []Hole, current int) []Hole {
	switch s.Mode {
	case SelectCurrent:
		if current < 0 || current >= len(holes) {
			return nil
		}
		return []Hole{holes[current]}
	case SelectIndices:
		picked := make([]bool, len(holes))
		for _, i := range s.Indices {
			if i >= 0 && i < len(holes) {
				picked[i] = true
			}
		}
		var out []Hole
		for i, h := range holes {
			if picked[i] {
				out = append(out, h)
			}
		}
		return out
	}
	return holes
}
