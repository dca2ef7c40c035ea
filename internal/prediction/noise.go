package prediction

import (
	"math/rand"
	"time"
)

// NoiseSource yields the multiplicative noise factors applied to forecast
// points. One source is consumed per forecast run.
type NoiseSource interface {
	Factor() float64
}

// NoiseFactory builds a fresh NoiseSource for each forecast run, so concurrent
// calls never share or race on generator state.
type NoiseFactory func() NoiseSource

type gaussianNoise struct {
	rng    *rand.Rand
	mean   float64
	stddev float64
}

func (g *gaussianNoise) Factor() float64 {
	return g.mean + g.rng.NormFloat64()*g.stddev
}

// GaussianNoise returns a factory producing normally distributed factors
// (mean 1.0, stddev 0.1) from the given seed. Two runs with the same seed and
// inputs produce identical forecasts.
func GaussianNoise(seed int64) NoiseFactory {
	return func() NoiseSource {
		return &gaussianNoise{rng: rand.New(rand.NewSource(seed)), mean: 1.0, stddev: 0.1}
	}
}

// RandomNoise is the production default: a new time-seeded generator per run.
func RandomNoise() NoiseFactory {
	return func() NoiseSource {
		return &gaussianNoise{rng: rand.New(rand.NewSource(time.Now().UnixNano())), mean: 1.0, stddev: 0.1}
	}
}

// FixedNoise returns a factory whose factors are always the given constant.
// Useful in tests that assert exact arithmetic without distribution noise.
func FixedNoise(factor float64) NoiseFactory {
	return func() NoiseSource { return fixedNoise(factor) }
}

type fixedNoise float64

func (f fixedNoise) Factor() float64 { return float64(f) }
