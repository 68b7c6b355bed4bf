package geom

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

var testWorkspace = orb.Bound{Min: orb.Point{-0.5, -0.4}, Max: orb.Point{1.5, 0.4}}

func wall() Obstacle {
	return Obstacle{
		Name: "wall_3",
		Corners: orb.MultiPoint{
			{0.5, -0.15}, {0.5, 0.15}, {0.6, 0.15}, {0.6, -0.15},
		},
	}
}

func TestInBounds(t *testing.T) {
	tests := []struct {
		name string
		p    orb.Point
		want bool
	}{
		{"origin", orb.Point{0, 0}, true},
		{"corner", orb.Point{-0.5, -0.4}, true},
		{"left of workspace", orb.Point{-0.51, 0}, false},
		{"above workspace", orb.Point{0, 0.41}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InBounds(tt.p, testWorkspace); got != tt.want {
				t.Errorf("InBounds(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestCollidesMargin(t *testing.T) {
	o := wall()

	tests := []struct {
		name   string
		p      orb.Point
		margin float64
		want   bool
	}{
		{"inside box", orb.Point{0.55, 0}, 0.1, true},
		{"inside margin band", orb.Point{0.45, 0}, 0.1, true},
		{"outside margin band", orb.Point{0.38, 0}, 0.1, false},
		{"no margin at band point", orb.Point{0.45, 0}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Collides(tt.p, o, tt.margin); got != tt.want {
				t.Errorf("Collides(%v, margin=%v) = %v, want %v", tt.p, tt.margin, got, tt.want)
			}
		})
	}
}

func TestFree(t *testing.T) {
	obstacles := []Obstacle{wall()}

	if Free(orb.Point{0.55, 0}, testWorkspace, obstacles, DefaultMargin) {
		t.Error("point inside obstacle should not be free")
	}
	if Free(orb.Point{2.0, 0}, testWorkspace, obstacles, DefaultMargin) {
		t.Error("point outside workspace should not be free")
	}
	if !Free(orb.Point{0, 0}, testWorkspace, obstacles, DefaultMargin) {
		t.Error("start position should be free")
	}
}

func TestFreeSegment(t *testing.T) {
	obstacles := []Obstacle{wall()}

	// Straight through the wall.
	if FreeSegment(orb.Point{0, 0}, orb.Point{1, 0}, testWorkspace, obstacles, DefaultMargin, DefaultSegmentSamples) {
		t.Error("segment through the wall should not be free")
	}
	// Around the wall, above the margin band.
	if !FreeSegment(orb.Point{0, 0.38}, orb.Point{1, 0.38}, testWorkspace, obstacles, DefaultMargin, DefaultSegmentSamples) {
		t.Error("segment above the wall should be free")
	}
	// Endpoints are included in the samples.
	if FreeSegment(orb.Point{0.55, 0}, orb.Point{1.2, 0}, testWorkspace, obstacles, DefaultMargin, DefaultSegmentSamples) {
		t.Error("segment starting inside the wall should not be free")
	}
}

// The segment test is sampled, so obstacles thinner than the sample spacing
// can be missed. This pins the documented limitation: tests that depend on
// segment checks must size the sample count against the thinnest obstacle.
func TestFreeSegmentSamplingResolution(t *testing.T) {
	sliver := Obstacle{
		Name:    "sliver",
		Corners: orb.MultiPoint{{0.7, -0.4}, {0.7, 0.4}, {0.7001, 0.4}, {0.7001, -0.4}},
	}
	obstacles := []Obstacle{sliver}
	a := orb.Point{-0.4, 0}
	b := orb.Point{1.4, 0}

	// Three samples land at x = -0.4, 0.5 and 1.4, all outside the sliver:
	// the coarse check reports the blocked segment as free.
	if !FreeSegment(a, b, testWorkspace, obstacles, 0, 3) {
		t.Fatal("expected the coarse check to miss the sliver")
	}
	// The default density with the margin band cannot step over the
	// 0.2-wide expanded box.
	if FreeSegment(a, b, testWorkspace, obstacles, DefaultMargin, DefaultSegmentSamples) {
		t.Error("dense sampling should catch the sliver")
	}
}

func TestInGoal(t *testing.T) {
	goal := orb.MultiPoint{{0.9, -0.3}, {0.9, 0.3}, {1.1, 0.3}, {1.1, -0.3}}

	tests := []struct {
		name string
		p    orb.Point
		want bool
	}{
		{"center", orb.Point{1.0, 0}, true},
		{"on edge", orb.Point{0.9, 0}, true},
		{"left of goal", orb.Point{0.89, 0}, false},
		{"above goal", orb.Point{1.0, 0.31}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InGoal(tt.p, goal); got != tt.want {
				t.Errorf("InGoal(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDeviation(t *testing.T) {
	a := orb.Point{0, 0}
	b := orb.Point{1, 0}

	if d := Deviation(orb.Point{0.5, 0}, a, b); math.Abs(d) > 1e-12 {
		t.Errorf("point on the line should have zero deviation, got %f", d)
	}

	up := Deviation(orb.Point{0.5, 0.2}, a, b)
	down := Deviation(orb.Point{0.5, -0.2}, a, b)
	if math.Abs(math.Abs(up)-0.2) > 1e-12 || math.Abs(math.Abs(down)-0.2) > 1e-12 {
		t.Errorf("deviation magnitude should be 0.2, got %f and %f", up, down)
	}
	if up*down >= 0 {
		t.Errorf("deviations on opposite sides should have opposite signs, got %f and %f", up, down)
	}
}

func TestDeviationDegenerateLine(t *testing.T) {
	a := orb.Point{0.3, 0.3}
	if d := Deviation(orb.Point{0.3, 0.5}, a, a); math.Abs(d-0.2) > 1e-12 {
		t.Errorf("degenerate line should fall back to point distance, got %f", d)
	}
}

func TestLerp(t *testing.T) {
	a := orb.Point{0, 0}
	b := orb.Point{2, -1}
	if p := Lerp(a, b, 0); !p.Equal(a) {
		t.Errorf("t=0 should yield a, got %v", p)
	}
	if p := Lerp(a, b, 1); !p.Equal(b) {
		t.Errorf("t=1 should yield b, got %v", p)
	}
	if p := Lerp(a, b, 0.5); p[0] != 1 || p[1] != -0.5 {
		t.Errorf("midpoint wrong: %v", p)
	}
}

func TestObstacleValidate(t *testing.T) {
	if err := wall().Validate(); err != nil {
		t.Errorf("valid obstacle rejected: %v", err)
	}
	empty := Obstacle{Name: "ghost"}
	if err := empty.Validate(); err == nil {
		t.Error("expected error for obstacle without corners")
	}
}
