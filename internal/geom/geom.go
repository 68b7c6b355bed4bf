package geom

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	// DefaultMargin is the clearance added around obstacle boxes for
	// collision tests.
	DefaultMargin = 0.1

	// DefaultSegmentSamples is the number of interpolation points checked
	// along a segment, endpoints included.
	DefaultSegmentSamples = 100
)

// Obstacle is an axis-aligned rectangular region given by an unordered set
// of corner points. Its effective extent is the bounding box of the corners.
type Obstacle struct {
	Name    string
	Corners orb.MultiPoint
}

// Bounds returns the obstacle's bounding box expanded by margin on all sides.
func (o Obstacle) Bounds(margin float64) orb.Bound {
	return o.Corners.Bound().Pad(margin)
}

// Validate rejects obstacles with no corner geometry.
func (o Obstacle) Validate() error {
	if len(o.Corners) == 0 {
		return fmt.Errorf("geom: obstacle %q has no corner points", o.Name)
	}
	return nil
}

// InBounds reports whether p lies within the workspace.
func InBounds(p orb.Point, workspace orb.Bound) bool {
	return workspace.Contains(p)
}

// Collides reports whether p lies within the obstacle's margin-expanded box.
func Collides(p orb.Point, o Obstacle, margin float64) bool {
	return o.Bounds(margin).Contains(p)
}

// Free reports whether p is inside the workspace and clear of every obstacle.
func Free(p orb.Point, workspace orb.Bound, obstacles []Obstacle, margin float64) bool {
	if !workspace.Contains(p) {
		return false
	}
	for _, o := range obstacles {
		if Collides(p, o, margin) {
			return false
		}
	}
	return true
}

// FreeSegment checks the straight line from p1 to p2 by testing samples
// equally spaced interpolation points, endpoints included.
//
// This is a sampled approximation, not an exact sweep: an obstacle thinner
// than the sample spacing can slip between consecutive samples. Callers that
// care must size samples relative to the thinnest obstacle.
func FreeSegment(p1, p2 orb.Point, workspace orb.Bound, obstacles []Obstacle, margin float64, samples int) bool {
	if samples < 2 {
		samples = 2
	}
	for i := 0; i < samples; i++ {
		t := float64(i) / float64(samples-1)
		if !Free(Lerp(p1, p2, t), workspace, obstacles, margin) {
			return false
		}
	}
	return true
}

// Lerp interpolates between a and b; t=0 yields a, t=1 yields b.
func Lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

// InGoal reports whether p lies within the bounding box of the goal corners.
func InGoal(p orb.Point, goal orb.MultiPoint) bool {
	return goal.Bound().Contains(p)
}

// Deviation returns the signed perpendicular distance of p from the line
// through a and b. Positive values are to the left of the a→b direction.
// For a degenerate line (a == b) it falls back to the distance from a.
func Deviation(p, a, b orb.Point) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]
	length := math.Hypot(dx, dy)
	if length == 0 {
		return planar.Distance(a, p)
	}
	return (dx*(a[1]-p[1]) - (a[0]-p[0])*dy) / length
}
