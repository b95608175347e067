package models

import "strconv"

// ============================================================
// Course model
// ============================================================

// Course: модель поля, которую редактор отдает экспортеру. Экспортер ее только читает.
type Course struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Location        string      `json:"location,omitempty"`
	Style           CourseStyle `json:"style"`
	Holes           []Hole      `json:"holes"`
	TerrainFeatures []Feature   `json:"terrainFeatures,omitempty"`
	PathFeatures    []Feature   `json:"pathFeatures,omitempty"`
	TreeFeatures    []Feature   `json:"treeFeatures,omitempty"`
}

type Hole struct {
	ID       string    `json:"id"`
	Number   int       `json:"number"`
	Name     string    `json:"name,omitempty"`
	Par      int       `json:"par"`
	Notes    string    `json:"notes,omitempty"`
	Rules    string    `json:"rules,omitempty"`
	Features []Feature `json:"features"`
}

// Label возвращает имя лунки для подписей: имя, если задано, иначе "Hole N".
func (h Hole) Label() string {
	if h.Name != "" {
		return h.Name
	}
	return "Hole " + strconv.Itoa(h.Number)
}

// FeaturesOf возвращает фичи лунки заданного вида в исходном порядке.
func (h Hole) FeaturesOf(kind Kind) []Feature {
	var out []Feature
	for _, f := range h.Features {
		if f.Kind() == kind {
			out = append(out, f)
		}
	}
	return out
}

// TotalPar суммирует пар по всем лункам.
func (c *Course) TotalPar() int {
	total := 0
	for _, h := range c.Holes {
		total += h.Par
	}
	return total
}

// HoleByNumber ищет лунку по отображаемому номеру.
func (c *Course) HoleByNumber(number int) (Hole, bool) {
	for _, h := range c.Holes {
		if h.Number == number {
			return h, true
		}
	}
	return Hole{}, false
}
