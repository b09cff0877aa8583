package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckUnits(t *testing.T) {
	extended, conflicts := checkUnits(nil)
	assert.Empty(t, conflicts)
	assert.Equal(t, defaultUnits, extended)

	extended, conflicts = checkUnits([]string{"nm"})
	assert.Empty(t, conflicts)
	assert.Equal(t, []string{"nm", "cm^-1"}, extended)

	_, conflicts = checkUnits([]string{"nm", "um"})
	assert.Equal(t, []string{"um"}, conflicts)
}

func TestConvert(t *testing.T) {
	nm := []string{"nm", "m^-1"}
	cases := []struct {
		name     string
		value    float64
		classes  []UnitElement
		internal float64
	}{
		{"length", 6, UnitsOf("Radius"), 60},
		{"q", 0.1, UnitsOf("QMin"), 0.01},
		{"sld", 100, UnitsOf("Sld"), 1},
		{"intensity", 100, UnitsOf("Background"), 1},
		{"dimensionless", 3, UnitsOf("Scale"), 3},
	}
	for _, c := range cases {
		got := Convert(c.value, c.classes, nm, true)
		assert.InEpsilon(t, c.internal, got, 1e-14, c.name)
		assert.InEpsilon(t, c.value, Convert(got, c.classes, nm, false), 1e-14, c.name)
	}

	// internal units are the identity
	assert.Equal(t, 0.37, Convert(0.37, UnitsOf("Sld"), defaultUnits, true))
}

func TestUnitOf(t *testing.T) {
	assert.Equal(t, "nm", UnitOf(Length, []string{"m^-1", "nm"}))
	assert.Equal(t, "m^-1", UnitOf(Intensity, []string{"m^-1", "nm"}))
	assert.Equal(t, "", UnitOf(Intensity, []string{"nm"}))
}
