package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"coursemap/internal/exporter/geo"
)

// ============================================================
// Path Parser
// ============================================================

var pathCommand = regexp.MustCompile(`([MmLlHhVvQqCcZz])([^MmLlHhVvQqCcZz]*)`)

// ParsePath разбирает d в список вершин. Для кривых (Q, C) берется конечная точка,
// контрольные точки пропускаются. Повторяющиеся пары координат после команды
// трактуются как неявные L.
func ParsePath(d string) ([]geo.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []geo.Point
	var cur geo.Point

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords := parseCoords(match[2])

		switch cmd {
		case "M", "L":
			for i := 0; i+1 < len(coords); i += 2 {
				cur = geo.Point{X: coords[i], Y: coords[i+1]}
				points = append(points, cur)
			}

		case "m", "l":
			for i := 0; i+1 < len(coords); i += 2 {
				cur = geo.Point{X: cur.X + coords[i], Y: cur.Y + coords[i+1]}
				points = append(points, cur)
			}

		case "H", "h", "V", "v":
			for _, c := range coords {
				switch cmd {
				case "H":
					cur.X = c
				case "h":
					cur.X += c
				case "V":
					cur.Y = c
				case "v":
					cur.Y += c
				}
				points = append(points, cur)
			}

		case "Q", "q", "C", "c":
			step := 4
			if cmd == "C" || cmd == "c" {
				step = 6
			}
			for i := 0; i+step-1 < len(coords); i += step {
				x, y := coords[i+step-2], coords[i+step-1]
				if cmd == "q" || cmd == "c" {
					x += cur.X
					y += cur.Y
				}
				cur = geo.Point{X: x, Y: y}
				points = append(points, cur)
			}

		case "Z", "z":
			// Замыкаем путь, возвращаясь к первой точке
			if len(points) > 0 {
				points = append(points, points[0])
				cur = points[0]
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("path %q has no coordinates", d)
	}
	return points, nil
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Разделитель: запятая или пробел
	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)

	var coords []float64
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}

	return coords
}
