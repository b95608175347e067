package models

import "time"

// ============================================================
// Library Models
// ============================================================

// CourseRecord описывает строку courses, то есть метаданные поля плюс сам курс в JSON.
type CourseRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	HoleCount int       `json:"holeCount"`
	TotalPar  int       `json:"totalPar"`
	Data      []byte    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExportKind: что было отрендерено; совпадает с путем рендер-сервиса.
type ExportKind string

const (
	ExportCourse   ExportKind = "course"
	ExportTeeSign  ExportKind = "tee-sign"
	ExportPrint    ExportKind = "print"
	ExportHolePage ExportKind = "hole-page"
	ExportArchive  ExportKind = "archive"
)

func (k ExportKind) Valid() bool {
	switch k {
	case ExportCourse, ExportTeeSign, ExportPrint, ExportHolePage, ExportArchive:
		return true
	}
	return false
}

// PerHole: виды, которым нужен holeIndex.
func (k ExportKind) PerHole() bool {
	return k == ExportTeeSign || k == ExportHolePage
}

// Ext: расширение сохраненного файла.
func (k ExportKind) Ext() string {
	if k == ExportArchive {
		return ".zip"
	}
	return ".svg"
}

// ExportRecord описывает строку exports. Summary хранит JSON с разбором готового SVG.
type ExportRecord struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"courseId"`
	Kind        ExportKind `json:"kind"`
	HoleIndex   int        `json:"holeIndex"`
	Path        string     `json:"-"`
	ContentType string     `json:"contentType"`
	Size        int64      `json:"size"`
	Summary     []byte     `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
}
