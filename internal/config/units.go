package config

import "github.com/wildstyl3r/sasphere/internal/utils"

var unitToInternal = map[string]float64{
	"A":     1,    // [Å]
	"nm":    10,   // [Å]
	"um":    1e4,  // [Å]
	"cm^-1": 1,    // [cm^-1]
	"m^-1":  1e-2, // [cm^-1]
}

type UnitClass int

const (
	Length UnitClass = iota
	Intensity
)

var unitsInClass = map[UnitClass][]string{
	Length:    {"A", "nm", "um"},
	Intensity: {"cm^-1", "m^-1"},
}

var classesOfUnits = map[string]UnitClass{
	"A":     Length,
	"nm":    Length,
	"um":    Length,
	"cm^-1": Intensity,
	"m^-1":  Intensity,
}

type UnitElement = struct {
	Class UnitClass
	Power int
}

// checkUnits reports unknown units and units sharing a class as conflicts and
// fills the classes left unset from defaultUnits.
func checkUnits(units []string) (extended, conflicts []string) {
	classes := map[UnitClass]struct{}{}
	for _, unit := range units {
		class, known := classesOfUnits[unit]
		if _, some := classes[class]; some || !known {
			conflicts = append(conflicts, unit)
		} else {
			classes[class] = struct{}{}
		}
	}
	extended = append([]string(nil), units...)
	for _, unit := range defaultUnits {
		if _, some := classes[classesOfUnits[unit]]; !some {
			extended = append(extended, unit)
		}
	}
	return
}

// Convert takes v from the given units to the internal ones (Å, cm^-1) when
// toInternal is set, and back otherwise.
func Convert(v float64, classes []UnitElement, units []string, toInternal bool) float64 {
	for _, uc := range classes {
		unit := utils.Intersect(unitsInClass[uc.Class], units)
		if unit == nil {
			continue
		}
		factor := unitToInternal[*unit]
		multiply := (uc.Power > 0) == toInternal
		for range utils.IntAbs(uc.Power) {
			if multiply {
				v *= factor
			} else {
				v /= factor
			}
		}
	}
	return v
}

// UnitOf returns the unit of the class among units, or "" if there is none.
func UnitOf(class UnitClass, units []string) string {
	if unit := utils.Intersect(unitsInClass[class], units); unit != nil {
		return *unit
	}
	return ""
}
