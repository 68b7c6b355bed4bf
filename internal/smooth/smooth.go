// Package smooth shortens planner output by randomly attempting straight
// shortcuts between non-adjacent waypoints.
package smooth

import (
	"math/rand"

	"github.com/paulmach/orb"

	"github.com/san-kum/kinoplan/internal/geom"
)

// Options tune a smoothing pass. Zero values fall back to the defaults.
type Options struct {
	Attempts int     // shortcut attempts, default 50
	Margin   float64 // obstacle safety margin, default geom.DefaultMargin
	Samples  int     // segment collision samples, default geom.DefaultSegmentSamples
}

func (o Options) withDefaults() Options {
	if o.Attempts == 0 {
		o.Attempts = 50
	}
	if o.Margin == 0 {
		o.Margin = geom.DefaultMargin
	}
	if o.Samples == 0 {
		o.Samples = geom.DefaultSegmentSamples
	}
	return o
}

// Shortcut runs the fixed-attempt shortcut pass over path. Each attempt
// picks two distinct indices i<j and, when the straight segment between them
// is collision-free, drops every waypoint strictly between them. The first
// and last waypoints are always retained and the result is never longer
// than the input. The input slice is not modified.
//
// The same sampled segment test as the planner applies, so the result is
// piecewise collision-free only up to that approximation.
func Shortcut(path []orb.Point, workspace orb.Bound, obstacles []geom.Obstacle, opts Options, rng *rand.Rand) []orb.Point {
	opts = opts.withDefaults()

	out := make([]orb.Point, len(path))
	copy(out, path)

	for a := 0; a < opts.Attempts; a++ {
		if len(out) <= 2 {
			break
		}
		i, j := pickPair(rng, len(out))
		if j-i < 2 {
			continue // adjacent waypoints, nothing between them to drop
		}
		if !geom.FreeSegment(out[i], out[j], workspace, obstacles, opts.Margin, opts.Samples) {
			continue
		}
		// Splice into a fresh slice rather than slicing out in place, so no
		// retained waypoint aliases the discarded middle.
		next := make([]orb.Point, 0, i+1+len(out)-j)
		next = append(next, out[:i+1]...)
		next = append(next, out[j:]...)
		out = next
	}
	return out
}

// pickPair draws two distinct indices from [0, n) and returns them ordered.
func pickPair(rng *rand.Rand, n int) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	if i < j {
		return i, j
	}
	return j, i
}
