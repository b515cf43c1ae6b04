// Package analysis quantifies how an ensemble of near-identical
// systems spreads apart over time.
package analysis

import (
	"math"

	"github.com/san-kum/spinsim/internal/shard"
)

// Spread returns the RMS distance of the ball positions in a stride-4
// snapshot from their ensemble mean. It grows as the per-id initial
// offsets are amplified by the dynamics.
func Spread(snapshot []float32) float64 {
	n := len(snapshot) / shard.Stride
	if n == 0 {
		return 0
	}

	var mx, my float64
	for i := 0; i < n; i++ {
		mx += float64(snapshot[i*shard.Stride])
		my += float64(snapshot[i*shard.Stride+1])
	}
	mx /= float64(n)
	my /= float64(n)

	var sum float64
	for i := 0; i < n; i++ {
		dx := float64(snapshot[i*shard.Stride]) - mx
		dy := float64(snapshot[i*shard.Stride+1]) - my
		sum += dx*dx + dy*dy
	}
	return math.Sqrt(sum / float64(n))
}

// DivergenceExponent estimates the exponential growth rate of a spread
// series sampled every dt seconds: the mean log growth ratio per unit
// time. A positive value indicates sensitive dependence on initial
// conditions.
func DivergenceExponent(spread []float64, dt float64) float64 {
	if dt <= 0 {
		return 0
	}

	sumLog := 0.0
	count := 0
	for i := 1; i < len(spread); i++ {
		if spread[i-1] > 0 && spread[i] > 0 {
			sumLog += math.Log(spread[i] / spread[i-1])
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
