package marker

import "math"

func polar(r, deg float64) [2]float64 {
	rad := deg * math.Pi / 180
	return [2]float64{r * math.Cos(rad), r * math.Sin(rad)}
}
