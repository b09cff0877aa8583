package utils

import (
	"slices"

	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Float | constraints.Integer
}

func IntAbs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// Intersect returns the first element of a that is also in b.
func Intersect(a, b []string) *string {
	for i := range a {
		if slices.Contains(b, a[i]) {
			return &a[i]
		}
	}
	return nil
}

func SumSlice[T Number](arr []T) (r T) {
	for i := range arr {
		r += arr[i]
	}
	return
}

// WeightedMeanAndVariance treats weights as unnormalized frequencies.
// Empty or zero-weight input yields NaN for both.
func WeightedMeanAndVariance[T, W Number](s []T, weights []W) (mean, variance float64) {
	norm := float64(SumSlice(weights))
	for i := range s {
		mean += float64(weights[i]) * float64(s[i])
	}
	mean /= norm
	for i := range s {
		d := float64(s[i]) - mean
		variance += float64(weights[i]) * d * d
	}
	variance /= norm
	return
}
