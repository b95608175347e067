package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// DistanceMeters: расстояние по плоской аппроксимации на средней широте.
func DistanceMeters(a, b orb.Point) float64 {
	dE, dN := offsetMeters(a, b)
	return math.Hypot(dE, dN)
}

// LineLengthMeters суммирует длины сегментов.
func LineLengthMeters(ls orb.LineString) float64 {
	total := 0.0
	for i := 1; i < len(ls); i++ {
		total += DistanceMeters(ls[i-1], ls[i])
	}
	return total
}

// BearingDegrees: угол вектора a→b в градусах против часовой от востока.
func BearingDegrees(a, b orb.Point) float64 {
	dE, dN := offsetMeters(a, b)
	if dE == 0 && dN == 0 {
		return 0
	}
	return math.Atan2(dN, dE) / earthDegToRad
}

// NorthUpRotation: поворот карты, при котором направление a→b смотрит вверх страницы.
func NorthUpRotation(a, b orb.Point) float64 {
	dE, dN := offsetMeters(a, b)
	if dE == 0 && dN == 0 {
		return 0
	}
	return BearingDegrees(a, b) - 90
}

func offsetMeters(a, b orb.Point) (float64, float64) {
	midLat := (a[1] + b[1]) / 2
	dE := (b[0] - a[0]) * MetersPerDegreeLng(midLat)
	dN := (b[1] - a[1]) * MetersPerDegreeLat
	return dE, dN
}
