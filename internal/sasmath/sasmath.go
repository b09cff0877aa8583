// Package sasmath holds the numeric primitives shared by the form factor
// kernels.
package sasmath

import (
	"math"

	"github.com/wildstyl3r/sasphere/internal/constants"
	"github.com/wildstyl3r/sasphere/internal/utils"
)

// SphereVolume returns 4/3 π r³. The radius is not validated.
func SphereVolume(radius float64) float64 {
	return constants.FourThirdsPi * radius * radius * radius
}

// Sas3j1xx computes 3 j1(x) / x, the normalized first order spherical
// Bessel function.
//
// Below |x| = 0.1 the closed form 3 (sin x / x - cos x) / x² cancels badly,
// so a Taylor series is used there instead:
//
//	3 j1(x) / x = 1 - x²/10 + x⁴/280 - x⁶/15120 + x⁸/1330560 - ...
//
// Special cases:
//   - Sas3j1xx(0) = 1
//   - Sas3j1xx(±Inf) = 0
//   - Sas3j1xx(NaN) = NaN
func Sas3j1xx(x float64) float64 {
	if math.Abs(x) < constants.Sas3j1xxSeriesCutoff {
		x2 := x * x
		return 1. + x2*(-1./10.+x2*(1./280.+x2*(-1./15120.+x2*(1./1330560.))))
	}
	if math.IsInf(x, 0) {
		return 0
	}
	sin, cos := math.Sincos(x)
	return 3. * (sin/x - cos) / (x * x)
}

// FirstMinimumQ returns the q of the first zero of the sphere form factor,
// refined by bisection on Sas3j1xx to within eps in q.
func FirstMinimumQ(radius, eps float64) float64 {
	radius = math.Abs(radius)
	tolerance := math.Max(eps*radius, 1e-14)
	lo, hi, ok := utils.BisectRoot(Sas3j1xx, math.Pi, 1.5*math.Pi, tolerance)
	if !ok {
		return constants.Sas3j1xxFirstZero / radius
	}
	return 0.5 * (lo + hi) / radius
}
