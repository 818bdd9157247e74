package model

import "math"

// minVariance keeps constant columns from being scaled by a near-zero deviation.
const minVariance = 1e-12

// welford accumulates a running mean and variance.
type welford struct {
	count int
	mean  float64
	m2    float64
}

func (w *welford) add(v float64) {
	w.count++
	delta := v - w.mean
	w.mean += delta / float64(w.count)
	w.m2 += delta * (v - w.mean)
}

// sigma is the population standard deviation, or 1 when the column carries no
// spread.
func (w *welford) sigma() float64 {
	if w.count == 0 {
		return 1
	}
	variance := w.m2 / float64(w.count)
	if variance <= minVariance {
		return 1
	}
	return math.Sqrt(variance)
}

// moments returns per-column mean and standard deviation, ignoring NaN.
func moments(xs [][]float64) (mean, scale []float64) {
	acc := make([]welford, len(xs[0]))
	for _, row := range xs {
		for j, v := range row {
			if !math.IsNaN(v) {
				acc[j].add(v)
			}
		}
	}
	mean = make([]float64, len(acc))
	scale = make([]float64, len(acc))
	for j := range acc {
		mean[j] = acc[j].mean
		scale[j] = acc[j].sigma()
	}
	return mean, scale
}
