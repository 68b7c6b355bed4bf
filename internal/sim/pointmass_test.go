package sim

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestPointMassValidation(t *testing.T) {
	tests := []struct {
		name     string
		dt       float64
		response float64
	}{
		{"zero dt", 0, 0.1},
		{"negative dt", -0.01, 0.1},
		{"negative response", 0.01, -0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPointMassWithResponse(orb.Point{0, 0}, tt.dt, tt.response); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestPointMassIdealActuator(t *testing.T) {
	// Zero response time means the velocity is the command.
	m, err := NewPointMassWithResponse(orb.Point{0, 0}, 0.01, 0)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	m.Apply(orb.Point{2, -1})
	if v := m.Velocity(); v[0] != 2 || v[1] != -1 {
		t.Errorf("velocity %v, want {2 -1}", v)
	}
	if p := m.Position(); math.Abs(p[0]-0.02) > 1e-12 || math.Abs(p[1]+0.01) > 1e-12 {
		t.Errorf("position %v, want {0.02 -0.01}", p)
	}
}

func TestPointMassVelocityLag(t *testing.T) {
	m, err := NewPointMass(orb.Point{0, 0}, 0.01)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	m.Apply(orb.Point{1, 0})
	first := m.Velocity()[0]
	if first <= 0 || first >= 1 {
		t.Fatalf("first-tick velocity %f should be strictly between 0 and the command", first)
	}

	// Under a held command the velocity approaches it monotonically.
	prev := first
	for i := 0; i < 200; i++ {
		m.Apply(orb.Point{1, 0})
		v := m.Velocity()[0]
		if v < prev {
			t.Fatalf("velocity not monotone: %f after %f", v, prev)
		}
		prev = v
	}
	if math.Abs(prev-1) > 1e-3 {
		t.Errorf("velocity %f did not settle near the command", prev)
	}
}

func TestPointMassPositionIntegration(t *testing.T) {
	m, err := NewPointMassWithResponse(orb.Point{0.5, -0.2}, 0.01, 0)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}

	// 100 ticks of unit velocity cover one unit of distance.
	for i := 0; i < 100; i++ {
		m.Apply(orb.Point{1, 0})
	}
	p := m.Position()
	if math.Abs(p[0]-1.5) > 1e-9 || math.Abs(p[1]+0.2) > 1e-9 {
		t.Errorf("position %v, want {1.5 -0.2}", p)
	}
}
