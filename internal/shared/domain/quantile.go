package domain

import (
	"math"
	"slices"
)

// Median retourne la médiane d'un échantillon. ok=false si l'échantillon est vide.
// L'échantillon n'est pas modifié.
func Median(values []float64) (median float64, ok bool) {
	return Quantile(values, 0.5)
}

// Quantile retourne le quantile q (0..1) par interpolation linéaire entre les rangs
// encadrants: position = q*(n-1) sur l'échantillon trié.
func Quantile(values []float64, q float64) (float64, bool) {
	if len(values) == 0 || q < 0 || q > 1 {
		return 0, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return quantileSorted(sorted, q), true
}

// Quartiles retourne Q1, médiane et Q3 en un seul tri
func Quartiles(values []float64) (q1, median, q3 float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, 0, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return quantileSorted(sorted, 0.25), quantileSorted(sorted, 0.5), quantileSorted(sorted, 0.75), true
}

func quantileSorted(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
