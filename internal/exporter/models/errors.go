package models

import (
	"errors"
	"fmt"
)

// ErrHoleNotFound возвращают генераторы одной лунки при индексе вне диапазона.
var ErrHoleNotFound = errors.New("hole not found")

// InvalidExportConfigError это единственная ошибка ядра: неположительные или
// нечисловые размеры холста либо вырожденные/бесконечные границы.
type InvalidExportConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidExportConfigError) Error() string {
	return fmt.Sprintf("invalid export config: %s %s", e.Field, e.Reason)
}
