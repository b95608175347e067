package colors

import "coursemap/internal/exporter/models"

// Palette: три цвета текстуры: основа, второй план, акценты.
type Palette struct {
	Primary   string
	Secondary string
	Accent    string
}

var terrainPalettes = map[models.TerrainType]Palette{
	models.TerrainGrass:      {Primary: "#7cb342", Secondary: "#689f38", Accent: "#9ccc65"},
	models.TerrainRoughGrass: {Primary: "#8d9e4a", Secondary: "#6b7a2f", Accent: "#b5c06a"},
	models.TerrainForest:     {Primary: "#2e7d32", Secondary: "#1b5e20", Accent: "#43a047"},
	models.TerrainWater:      {Primary: "#4fc3f7", Secondary: "#0288d1", Accent: "#b3e5fc"},
	models.TerrainSand:       {Primary: "#f4e4bc", Secondary: "#d7c28a", Accent: "#fff3d6"},
	models.TerrainConcrete:   {Primary: "#bdbdbd", Secondary: "#9e9e9e", Accent: "#e0e0e0"},
	models.TerrainGravel:     {Primary: "#a1887f", Secondary: "#795548", Accent: "#d7ccc8"},
	models.TerrainMarsh:      {Primary: "#6d8f5e", Secondary: "#4a6b3c", Accent: "#90caf9"},
	models.TerrainRocks:      {Primary: "#9e9e9e", Secondary: "#616161", Accent: "#cfcfcf"},
}

// TerrainPalette возвращает палитру типа местности. Если задан base, палитра
// выводится из него: второй план темнее, акцент светлее.
func TerrainPalette(t models.TerrainType, base string) Palette {
	if _, ok := Parse(base); ok {
		primary := Normalize(base, Fallback)
		return Palette{
			Primary:   primary,
			Secondary: Mix(primary, "#000000", 0.2),
			Accent:    Mix(primary, "#ffffff", 0.25),
		}
	}
	return terrainPalettes[t.Valid()]
}
