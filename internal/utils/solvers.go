package utils

import "math"

// BisectRoot narrows the bracket [lo, hi] around a sign change of f until it
// is no wider than eps. If f does not change sign on the bracket, it is
// returned as is with ok == false.
func BisectRoot(f func(float64) float64, lo, hi, eps float64) (float64, float64, bool) {
	fLo, fHi := f(lo), f(hi)
	if math.Signbit(fLo) == math.Signbit(fHi) {
		return lo, hi, false
	}
	for math.Abs(hi-lo) > eps {
		c := (lo + hi) * 0.5
		if c == lo || c == hi {
			break
		}
		if fc := f(c); math.Signbit(fc) == math.Signbit(fLo) {
			lo, fLo = c, fc
		} else {
			hi = c
		}
	}
	return lo, hi, true
}
