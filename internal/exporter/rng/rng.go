// Package rng: детерминированный линейный конгруэнтный генератор для текстур и леса.
package rng

const (
	multiplier = 9301
	increment  = 49297
	modulus    = 233280
)

// LCG не потокобезопасен; каждому генератору текстуры: свой экземпляр.
type LCG struct {
	seed int64
}

func WithSeed(seed int64) *LCG {
	s := seed % modulus
	if s < 0 {
		s += modulus
	}
	return &LCG{seed: s}
}

// Next возвращает число в [0, 1).
func (r *LCG) Next() float64 {
	r.seed = (r.seed*multiplier + increment) % modulus
	return float64(r.seed) / modulus
}

// Range возвращает число в [min, max).
func (r *LCG) Range(min, max float64) float64 {
	return min + r.Next()*(max-min)
}

// Intn возвращает целое в [0, n).
func (r *LCG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	i := int(r.Next() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Weighted выбирает индекс пропорционально весам.
func (r *LCG) Weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	pick := r.Next() * total
	for i, w := range weights {
		if pick < w {
			return i
		}
		pick -= w
	}
	return len(weights) - 1
}

// SeedFromString: полиномиальный хеш кодов символов, стабильный между экспортами.
// Пустая строка дает 1.
func SeedFromString(s string) int64 {
	if s == "" {
		return 1
	}
	var h int64
	for _, ch := range s {
		h = (h*31 + int64(ch)) % 2147483647
	}
	if h == 0 {
		h = 1
	}
	return h
}
