package colors

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Fallback: цвет для отсутствующих и битых значений.
const Fallback = "#666666"

const (
	darkenStep         = 40
	luminanceThreshold = 128
	Accent             = "#1E88E5"
)

// ============================================================
// Parsing
// ============================================================

// Parse понимает "#rrggbb", "#rgb" и имена CSS ("forestgreen").
func Parse(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return colorful.Color{}, false
	}
	if strings.HasPrefix(s, "#") {
		if len(s) != 4 && len(s) != 7 {
			return colorful.Color{}, false
		}
		c, err := colorful.Hex(strings.ToLower(s))
		if err != nil {
			return colorful.Color{}, false
		}
		return c, true
	}
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		c, _ := colorful.MakeColor(named)
		return c, true
	}
	return colorful.Color{}, false
}

// RGB возвращает каналы 0..255 либо каналы Fallback.
func RGB(s string) (uint8, uint8, uint8) {
	c, ok := Parse(s)
	if !ok {
		c, _ = Parse(Fallback)
	}
	return c.RGB255()
}

// Normalize приводит цвет к "#rrggbb"; битые значения дают def.
func Normalize(s, def string) string {
	c, ok := Parse(s)
	if !ok {
		return def
	}
	r, g, b := c.RGB255()
	return hex(r, g, b)
}

// ============================================================
// Derivations
// ============================================================

// Darken уменьшает каждый канал на 40 с отсечением по нулю.
func Darken(s string) string {
	c, ok := Parse(s)
	if !ok {
		return Fallback
	}
	r, g, b := c.RGB255()
	return hex(sub(r), sub(g), sub(b))
}

// TextColor: черный текст на светлом фоне, белый на темном.
func TextColor(background string) string {
	if Luminance(background) > luminanceThreshold {
		return "#000000"
	}
	return "#ffffff"
}

// Luminance: 0.299R + 0.587G + 0.114B.
func Luminance(s string) float64 {
	r, g, b := RGB(s)
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// Mix смешивает цвета в пространстве Lab, t=0 дает a.
func Mix(a, b string, t float64) string {
	ca, ok := Parse(a)
	if !ok {
		ca, _ = Parse(Fallback)
	}
	cb, ok := Parse(b)
	if !ok {
		cb, _ = Parse(Fallback)
	}
	return ca.BlendLab(cb, t).Clamped().Hex()
}

func sub(v uint8) uint8 {
	if v < darkenStep {
		return 0
	}
	return v - darkenStep
}

func hex(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
