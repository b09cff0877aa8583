package model

import (
	"math"

	"github.com/wildstyl3r/sasphere/internal/constants"
	"github.com/wildstyl3r/sasphere/internal/sasmath"
)

// Parameters of a homogeneous sphere in internal units:
// Radius [Å], Sld and SldSolvent [1e-6 Å^-2].
type Parameters struct {
	Radius     float64
	Sld        float64
	SldSolvent float64
}

func (p Parameters) Contrast() float64 {
	return p.Sld - p.SldSolvent
}

func (p Parameters) Volume() float64 {
	return FormVolume(p.Radius)
}

func (p Parameters) Fq(q float64) (f1, f2 float64) {
	return Fq(q, p.Sld, p.SldSolvent, p.Radius)
}

func (p Parameters) Iq(q float64) float64 {
	return Iq(q, p.Sld, p.SldSolvent, p.Radius)
}

// FormVolume is the volume used to normalize the polydisperse average.
func FormVolume(radius float64) float64 {
	return sasmath.SphereVolume(radius)
}

// Iq is kept for callers that have not moved to Fq; it is the F2 of Fq.
func Iq(q, sld, sldSolvent, radius float64) float64 {
	_, f2 := Fq(q, sld, sldSolvent, radius)
	return f2
}

// Fq returns the scattering amplitude and its square at a single q.
func Fq(q, sld, sldSolvent, radius float64) (f1, f2 float64) {
	fq := sasmath.Sas3j1xx(q * radius)
	contrast := sld - sldSolvent
	form := constants.FormScale * contrast * sasmath.SphereVolume(radius) * fq
	return form, form * form
}

// Iqxy evaluates the isotropic sphere at |q| = hypot(qx, qy).
func Iqxy(qx, qy, sld, sldSolvent, radius float64) float64 {
	return Iq(math.Hypot(qx, qy), sld, sldSolvent, radius)
}
