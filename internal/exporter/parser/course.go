package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"coursemap/internal/exporter/models"
)

// DecodeCourse читает курс в JSON (фичи: GeoJSON) и упорядочивает лунки по номеру.
func DecodeCourse(r io.Reader) (*models.Course, error) {
	var course models.Course
	if err := json.NewDecoder(r).Decode(&course); err != nil {
		return nil, fmt.Errorf("decode course: %w", err)
	}
	SortHoles(&course)
	return &course, nil
}

// SortHoles сортирует лунки по номеру, сохраняя порядок равных.
func SortHoles(course *models.Course) {
	sort.SliceStable(course.Holes, func(i, j int) bool {
		return course.Holes[i].Number < course.Holes[j].Number
	})
}
