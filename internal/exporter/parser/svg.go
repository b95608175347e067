package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ============================================================
// Exported document inspection
// ============================================================

// Summary описывает готовый документ: размеры, число групп по классам,
// тексты подписей расстояний.
type Summary struct {
	Width          float64        `json:"width"`
	Height         float64        `json:"height"`
	ViewBox        string         `json:"viewBox"`
	Classes        map[string]int `json:"classes"`
	DistanceLabels []string       `json:"distanceLabels,omitempty"`
	Texts          []string       `json:"-"`
	Placeholder    bool           `json:"placeholder"`
	Images         int            `json:"images"`
}

// Count возвращает число элементов с классом class.
func (s *Summary) Count(class string) int {
	return s.Classes[class]
}

// Inspect потоково читает SVG и собирает Summary.
func Inspect(r io.Reader) (*Summary, error) {
	decoder := xml.NewDecoder(r)
	summary := &Summary{Classes: map[string]int{}}

	var stack []string
	var sawRoot bool
	var text strings.Builder

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode svg: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if !sawRoot {
				if el.Name.Local != "svg" {
					return nil, fmt.Errorf("root element is <%s>, want <svg>", el.Name.Local)
				}
				sawRoot = true
				readRoot(summary, el)
			}

			class := attr(el, "class")
			for _, c := range strings.Fields(class) {
				summary.Classes[c]++
			}
			if el.Name.Local == "image" {
				summary.Images++
			}
			if strings.Contains(class, "placeholder") {
				summary.Placeholder = true
			}
			stack = append(stack, class)
			if el.Name.Local == "text" {
				text.Reset()
			}

		case xml.CharData:
			text.Write(el)

		case xml.EndElement:
			if el.Name.Local == "text" {
				content := strings.TrimSpace(text.String())
				summary.Texts = append(summary.Texts, content)
				if insideClass(stack, "distance-label") {
					summary.DistanceLabels = append(summary.DistanceLabels, content)
				}
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if !sawRoot {
		return nil, fmt.Errorf("no <svg> root element")
	}
	return summary, nil
}

func readRoot(s *Summary, el xml.StartElement) {
	s.Width, _ = strconv.ParseFloat(attr(el, "width"), 64)
	s.Height, _ = strconv.ParseFloat(attr(el, "height"), 64)
	s.ViewBox = attr(el, "viewBox")
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func insideClass(stack []string, class string) bool {
	for _, c := range stack {
		for _, f := range strings.Fields(c) {
			if f == class {
				return true
			}
		}
	}
	return false
}
