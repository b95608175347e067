package svgx

import (
	"fmt"
	"strings"
)

// ============================================================
// Document
// ============================================================

// Document собирает самодостаточный SVG: defs и тело в порядке добавления.
type Document struct {
	Width  float64
	Height float64
	XLink  bool

	defs []string
	body []string
}

func NewDocument(width, height float64) *Document {
	return &Document{Width: width, Height: height}
}

func (d *Document) AddDef(markup string) {
	if markup != "" {
		d.defs = append(d.defs, markup)
	}
}

func (d *Document) Add(markup string) {
	if markup != "" {
		d.body = append(d.body, markup)
	}
}

// Addf добавляет отформатированный фрагмент.
func (d *Document) Addf(format string, args ...any) {
	d.Add(fmt.Sprintf(format, args...))
}

func (d *Document) String() string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<svg xmlns="http://www.w3.org/2000/svg"`)
	if d.XLink {
		builder.WriteString(` xmlns:xlink="http://www.w3.org/1999/xlink"`)
	}
	builder.WriteString(fmt.Sprintf(` width="%s" height="%s" viewBox="0 0 %s %s">`,
		Num(d.Width), Num(d.Height), Num(d.Width), Num(d.Height)))
	builder.WriteString("\n")

	if len(d.defs) > 0 {
		builder.WriteString("  <defs>\n")
		for _, def := range d.defs {
			builder.WriteString("    ")
			builder.WriteString(def)
			builder.WriteString("\n")
		}
		builder.WriteString("  </defs>\n")
	}

	for _, elem := range d.body {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String()
}

// PlaceholderText: подпись пустого документа.
const PlaceholderText = "No features to export"

// Placeholder возвращает пустой холст точного размера с сообщением по центру.
func Placeholder(width, height float64, message string) string {
	doc := NewDocument(width, height)
	doc.Addf(`<rect class="placeholder" x="0" y="0" width="%s" height="%s" fill="#f5f5f5"/>`, Num(width), Num(height))
	doc.Addf(`<text class="placeholder-text" x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" font-family="Arial, sans-serif" font-size="16" fill="#757575">%s</text>`,
		Num(width/2), Num(height/2), Escape(message))
	return doc.String()
}
