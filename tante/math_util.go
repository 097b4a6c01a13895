package tante

import "math"

// Rand is the random source injected into a network. *math/rand.Rand
// satisfies it.
type Rand interface {
	// Float64 returns a uniform draw in [0,1).
	Float64() float64
}

// clamp restricts a value to a given range [minVal, maxVal].
func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(value, maxVal))
}

// uniformRange draws uniformly from [minVal, maxVal).
func uniformRange(rng Rand, minVal, maxVal float64) float64 {
	return minVal + rng.Float64()*(maxVal-minVal)
}

// randIndex draws uniformly from [0, n). n must be positive.
func randIndex(rng Rand, n int) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
