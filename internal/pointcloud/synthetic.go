package pointcloud

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// SyntheticParams configures the terrain simulator used when no survey
// data is available for a location.
type SyntheticParams struct {
	// Points is the number of samples to generate.
	Points int
	// HalfExtent is the half-width of the square sample area, centred
	// on the origin, in source units.
	HalfExtent float64
	// NoiseSigma is the standard deviation of the per-sample Gaussian
	// elevation noise.
	NoiseSigma float64
	// Seed makes generation reproducible. The same seed always yields
	// the same cloud.
	Seed uint64
}

// DefaultSyntheticParams mirrors the terrain shape used by the survey
// simulator: a 100m square of rolling hills with two peaks.
func DefaultSyntheticParams(seed uint64) SyntheticParams {
	return SyntheticParams{
		Points:     100000,
		HalfExtent: 50,
		NoiseSigma: 0.5,
		Seed:       seed,
	}
}

// syntheticPeak is a localised exponential bump added to the base terrain.
type syntheticPeak struct {
	x, y, height float64
}

var syntheticPeaks = []syntheticPeak{
	{20, 20, 30},
	{-25, -15, 25},
}

// Synthesize generates a reproducible synthetic survey cloud: rolling
// sinusoidal hills, larger cross features, Gaussian sample noise, and
// two exponential peaks.
func Synthesize(p SyntheticParams) *Cloud {
	if p.Points <= 0 {
		p.Points = 1
	}
	src := rand.NewPCG(p.Seed, p.Seed)
	rng := rand.New(src)
	noise := distuv.Normal{Mu: 0, Sigma: p.NoiseSigma, Src: src}

	c := &Cloud{
		X: make([]float64, p.Points),
		Y: make([]float64, p.Points),
		Z: make([]float64, p.Points),
	}
	for i := 0; i < p.Points; i++ {
		x := (rng.Float64()*2 - 1) * p.HalfExtent
		y := (rng.Float64()*2 - 1) * p.HalfExtent

		z := 10*math.Sin(x/10)*math.Cos(y/10) + // rolling hills
			5*math.Sin(x/5) + // larger features
			3*math.Cos(y/8) // cross valleys
		if p.NoiseSigma > 0 {
			z += noise.Rand()
		}
		for _, pk := range syntheticPeaks {
			dist := math.Hypot(x-pk.x, y-pk.y)
			z += pk.height * math.Exp(-dist/10)
		}

		c.X[i] = x
		c.Y[i] = y
		c.Z[i] = z
	}
	return c
}
