package svgx

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================
// Number and text formatting
// ============================================================

// Num округляет до двух знаков и печатает без хвостовых нулей.
// NaN и бесконечности превращаются в "0", чтобы не портить документ.
func Num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	v = math.Round(v*100) / 100
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Pair печатает координату в виде "x,y".
func Pair(x, y float64) string {
	return Num(x) + "," + Num(y)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

// Escape экранирует текст перед вставкой в документ.
func Escape(s string) string {
	return xmlEscaper.Replace(s)
}

func Translate(x, y float64) string {
	return fmt.Sprintf("translate(%s %s)", Num(x), Num(y))
}

// Rotate возвращает пустую строку для нулевого угла.
func Rotate(deg, cx, cy float64) string {
	if deg == 0 || math.IsNaN(deg) {
		return ""
	}
	return fmt.Sprintf("rotate(%s %s %s)", Num(deg), Num(cx), Num(cy))
}

// TransformAttr собирает атрибут transform из непустых частей.
func TransformAttr(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return ` transform="` + strings.Join(kept, " ") + `"`
}
