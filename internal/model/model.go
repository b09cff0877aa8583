package model

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/wildstyl3r/sasphere/internal/utils"
)

// Kernel evaluates a sphere over a q vector, averaging over a radius
// distribution the way the polydisperse kernels do: points with weight not
// above Cutoff are skipped, NaN evaluations are excluded, and the weighted
// intensity is normalized by the weighted volume.
type Kernel struct {
	Parameters Parameters
	Scale      float64
	Background float64
	Cutoff     float64
	Radius     []WeightedPoint
	Threads    int
}

func NewKernel(p Parameters, scale, background float64, radius Dispersion, cutoff float64, threads int) (*Kernel, error) {
	points, err := radius.Weights(p.Radius)
	if err != nil {
		return nil, fmt.Errorf("radius dispersion: %w", err)
	}
	return &Kernel{
		Parameters: p,
		Scale:      scale,
		Background: background,
		Cutoff:     cutoff,
		Radius:     points,
		Threads:    threads,
	}, nil
}

// Moments holds the distribution averages of the amplitude <F1>, its square
// <F2>, the matching intensity and the weighted mean volume.
type Moments struct {
	F1     []float64
	F2     []float64
	Iq     []float64
	Volume float64
}

func (k *Kernel) radiusPoints() []WeightedPoint {
	if len(k.Radius) == 0 {
		return []WeightedPoint{{Value: k.Parameters.Radius, Weight: 1}}
	}
	return k.Radius
}

func (k *Kernel) threads() int {
	if k.Threads > 0 {
		return k.Threads
	}
	return runtime.NumCPU()
}

// run calls eval for every index in [0, n) on k.threads() workers. Each
// index is handed to exactly one worker.
func (k *Kernel) run(n int, eval func(i int)) {
	var computeWg sync.WaitGroup
	computeflow := make(chan int, n)
	for i := range n {
		computeflow <- i
	}
	close(computeflow)

	for range min(k.threads(), max(n, 1)) {
		computeWg.Add(1)
		go func() {
			defer computeWg.Done()
			for i := range computeflow {
				eval(i)
			}
		}()
	}
	computeWg.Wait()
}

func (k *Kernel) iqAt(q float64) float64 {
	var ret, norm, vol, normVol float64
	for _, point := range k.radiusPoints() {
		if point.Weight <= k.Cutoff {
			continue
		}
		scattering := Iq(q, k.Parameters.Sld, k.Parameters.SldSolvent, point.Value)
		if math.IsNaN(scattering) {
			continue
		}
		ret += point.Weight * scattering
		norm += point.Weight
		vol += point.Weight * FormVolume(point.Value)
		normVol += point.Weight
	}
	if vol*normVol != 0 {
		ret *= normVol / vol
	}
	return k.Scale*ret/norm + k.Background
}

// Iq returns the polydisperse intensity for every q.
func (k *Kernel) Iq(q []float64) []float64 {
	result := make([]float64, len(q))
	k.run(len(q), func(i int) {
		result[i] = k.iqAt(q[i])
	})
	return result
}

// Iqxy evaluates the kernel at |q| of each (qx[i], qy[i]) pair.
func (k *Kernel) Iqxy(qx, qy []float64) []float64 {
	result := make([]float64, min(len(qx), len(qy)))
	k.run(len(result), func(i int) {
		result[i] = k.iqAt(math.Hypot(qx[i], qy[i]))
	})
	return result
}

// Fq returns the amplitude moments for every q. Its Iq agrees with the
// Iq method to rounding.
func (k *Kernel) Fq(q []float64) Moments {
	m := Moments{
		F1:     make([]float64, len(q)),
		F2:     make([]float64, len(q)),
		Iq:     make([]float64, len(q)),
		Volume: k.MeanVolume(),
	}
	k.run(len(q), func(i int) {
		var f1Sum, f2Sum, norm, vol float64
		for _, point := range k.radiusPoints() {
			if point.Weight <= k.Cutoff {
				continue
			}
			f1, f2 := Fq(q[i], k.Parameters.Sld, k.Parameters.SldSolvent, point.Value)
			if math.IsNaN(f2) {
				continue
			}
			f1Sum += point.Weight * f1
			f2Sum += point.Weight * f2
			vol += point.Weight * FormVolume(point.Value)
			norm += point.Weight
		}
		m.F1[i] = f1Sum / norm
		m.F2[i] = f2Sum / norm
		if vol != 0 {
			m.Iq[i] = k.Scale*f2Sum/vol + k.Background
		} else {
			m.Iq[i] = k.Scale*m.F2[i] + k.Background
		}
	})
	return m
}

// MeanVolume is the weighted form volume over the points above the cutoff.
func (k *Kernel) MeanVolume() float64 {
	var vol, norm float64
	for _, point := range k.radiusPoints() {
		if point.Weight <= k.Cutoff {
			continue
		}
		vol += point.Weight * FormVolume(point.Value)
		norm += point.Weight
	}
	return vol / norm
}

// RadiusStats returns the weighted mean and standard deviation of the
// sampled radius distribution.
func (k *Kernel) RadiusStats() (mean, std float64) {
	v, w := values(k.radiusPoints())
	mean, variance := utils.WeightedMeanAndVariance(v, w)
	return mean, math.Sqrt(variance)
}
