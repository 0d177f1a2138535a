package core

import "github.com/cwbudde/algo-vecmath"

// PeakNormalize scales buf in place so that its largest absolute sample is 1.
//
// It returns the peak found before scaling. An all-zero (or empty) buffer is
// left untouched and reported as silent.
func PeakNormalize(buf []float64) (peak float64, silent bool) {
	peak = vecmath.MaxAbs(buf)
	if peak == 0 {
		return 0, true
	}
	if peak != 1 {
		vecmath.ScaleBlockInPlace(buf, 1/peak)
	}
	return peak, false
}

// Peak returns the largest absolute sample of buf, or 0 when buf is empty.
func Peak(buf []float64) float64 {
	return vecmath.MaxAbs(buf)
}
