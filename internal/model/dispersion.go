package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrUnknownDispersion = errors.New("unknown dispersion type")
	ErrInvalidDispersion = errors.New("invalid dispersion")
)

type WeightedPoint struct {
	Value  float64
	Weight float64
}

// Dispersion describes the spread of a volume parameter around its center.
// Width is relative to the center value.
type Dispersion struct {
	Type    string
	Width   float64
	Npts    int
	Nsigmas float64
}

const defaultNsigmas = 3.

func (d Dispersion) monodisperse() bool {
	return d.Type == "none" || d.Width == 0 || d.Npts <= 1
}

// Weights samples the distribution at Npts points centered on center.
// Non-positive abscissae are dropped.
func (d Dispersion) Weights(center float64) ([]WeightedPoint, error) {
	if d.monodisperse() {
		return []WeightedPoint{{Value: center, Weight: 1}}, nil
	}
	if d.Width < 0 || center <= 0 {
		return nil, fmt.Errorf("%w: width %g around %g", ErrInvalidDispersion, d.Width, center)
	}
	nsigmas := d.Nsigmas
	if nsigmas <= 0 {
		nsigmas = defaultNsigmas
	}
	sigma := d.Width * center

	var lo, hi float64
	var prob func(float64) float64
	switch d.Type {
	case "", "gaussian":
		lo, hi = center-nsigmas*sigma, center+nsigmas*sigma
		prob = distuv.Normal{Mu: center, Sigma: sigma}.Prob
	case "lognormal":
		lo, hi = center*math.Exp(-nsigmas*d.Width), center*math.Exp(nsigmas*d.Width)
		prob = distuv.LogNormal{Mu: math.Log(center), Sigma: d.Width}.Prob
	case "schulz":
		z := 1./(d.Width*d.Width) - 1.
		if z <= 0 {
			return nil, fmt.Errorf("%w: schulz width %g must be below 1", ErrInvalidDispersion, d.Width)
		}
		lo, hi = center-nsigmas*sigma, center+nsigmas*sigma
		prob = distuv.Gamma{Alpha: z + 1, Beta: (z + 1) / center}.Prob
	case "rectangle":
		halfWidth := math.Sqrt(3) * sigma
		lo, hi = center-halfWidth, center+halfWidth
		prob = distuv.Uniform{Min: lo, Max: hi}.Prob
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDispersion, d.Type)
	}

	x := floats.Span(make([]float64, d.Npts), lo, hi)
	points := make([]WeightedPoint, 0, len(x))
	for _, v := range x {
		if v <= 0 {
			continue
		}
		points = append(points, WeightedPoint{Value: v, Weight: prob(v)})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no positive points in [%g, %g]", ErrInvalidDispersion, lo, hi)
	}
	return points, nil
}

func values(points []WeightedPoint) (v, w []float64) {
	v = make([]float64, len(points))
	w = make([]float64, len(points))
	for i := range points {
		v[i], w[i] = points[i].Value, points[i].Weight
	}
	return
}
