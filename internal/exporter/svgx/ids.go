package svgx

import "strconv"

// IDSource выдает уникальные в пределах одного документа id элементов.
// Создается заново на каждый экспорт, поэтому id не растут между вызовами.
type IDSource struct {
	next int
}

func NewIDSource() *IDSource {
	return &IDSource{}
}

func (s *IDSource) Next(prefix string) string {
	id := prefix + "-" + strconv.Itoa(s.next)
	s.next++
	return id
}

// Reset возвращает счетчик к нулю.
func (s *IDSource) Reset() {
	s.next = 0
}
