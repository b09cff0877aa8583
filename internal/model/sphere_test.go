package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wildstyl3r/sasphere/internal/sasmath"
)

var sweep = []struct {
	q, sld, sldSolvent, radius float64
}{
	{0, 1, 6.3, 60},
	{0.001, 1, 6.3, 60},
	{0.05, 4, -0.56, 20},
	{0.1, -0.5, 6.36, 35.5},
	{0.3, 2.07, 2.07, 100},
	{1.7, 6.3, 1, 7},
}

func TestFormVolume(t *testing.T) {
	assert.InEpsilon(t, 904778.6842338604526772, FormVolume(60), 1e-14)
	assert.InEpsilon(t, 4./3.*math.Pi*125, FormVolume(5), 1e-15)
	assert.Equal(t, 8*FormVolume(3), FormVolume(6))
}

func TestFqReference(t *testing.T) {
	f1, f2 := Fq(0.001, 1.0, 6.3, 60)
	assert.InEpsilon(t, -47936.00930650282441991681, f1, 1e-8)
	assert.InEpsilon(t, 2297860988.233125393781086, f2, 1e-8)
	assert.Equal(t, f1*f1, f2)
	assert.Equal(t, f2, Iq(0.001, 1.0, 6.3, 60))
}

func TestFqSecondMomentIsSquare(t *testing.T) {
	for _, c := range sweep {
		f1, f2 := Fq(c.q, c.sld, c.sldSolvent, c.radius)
		assert.Equal(t, f1*f1, f2, "%+v", c)
		assert.GreaterOrEqual(t, f2, 0.)
	}
}

func TestIqMatchesFq(t *testing.T) {
	for _, c := range sweep {
		_, f2 := Fq(c.q, c.sld, c.sldSolvent, c.radius)
		assert.Equal(t, f2, Iq(c.q, c.sld, c.sldSolvent, c.radius), "%+v", c)
	}
}

func TestFqAtZeroQ(t *testing.T) {
	f1, f2 := Fq(0, 1, 6.3, 60)
	assert.Equal(t, 1e-2*(1-6.3)*FormVolume(60), f1)
	assert.Equal(t, f1*f1, f2)
	assert.Equal(t, f1*f1, Iq(0, 1, 6.3, 60))
}

func TestFqContrastSymmetry(t *testing.T) {
	for _, c := range sweep {
		f1, f2 := Fq(c.q, c.sld, c.sldSolvent, c.radius)
		g1, g2 := Fq(c.q, c.sldSolvent, c.sld, c.radius)
		assert.Equal(t, -f1, g1, "%+v", c)
		assert.Equal(t, f2, g2, "%+v", c)
		assert.Equal(t, Iq(c.q, c.sld, c.sldSolvent, c.radius), Iq(c.q, c.sldSolvent, c.sld, c.radius))
	}
}

func TestFqScaleLaw(t *testing.T) {
	for _, x := range []float64{0, 0.05, 1, 4, 9.5} {
		radius := 25.
		f1, _ := Fq(x/radius, 2, 5, radius)
		g1, _ := Fq(x/(2*radius), 2, 5, 2*radius)
		assert.InEpsilon(t, 8*FormVolume(radius), FormVolume(2*radius), 1e-15)
		if f1 == 0 {
			assert.Zero(t, g1)
			continue
		}
		assert.InEpsilon(t, 8*f1, g1, 1e-12, "qR = %g", x)
	}
}

func TestFqPropagatesNaN(t *testing.T) {
	f1, f2 := Fq(math.NaN(), 1, 2, 10)
	assert.True(t, math.IsNaN(f1))
	assert.True(t, math.IsNaN(f2))
	assert.True(t, math.IsNaN(Iq(0.1, math.NaN(), 2, 10)))
}

func TestIqxyIsIsotropic(t *testing.T) {
	q := 0.05
	want := Iq(q, 1, 6.3, 60)
	for _, angle := range []float64{0, 0.3, math.Pi / 2, 2.5} {
		qx, qy := q*math.Cos(angle), q*math.Sin(angle)
		assert.InEpsilon(t, want, Iqxy(qx, qy, 1, 6.3, 60), 1e-12)
	}
}

func TestParametersMethods(t *testing.T) {
	p := Parameters{Radius: 60, Sld: 1, SldSolvent: 6.3}
	assert.InDelta(t, -5.3, p.Contrast(), 1e-14)
	assert.Equal(t, sasmath.SphereVolume(60), p.Volume())
	f1, f2 := p.Fq(0.02)
	g1, g2 := Fq(0.02, 1, 6.3, 60)
	assert.Equal(t, g1, f1)
	assert.Equal(t, g2, f2)
	assert.Equal(t, g2, p.Iq(0.02))
}
