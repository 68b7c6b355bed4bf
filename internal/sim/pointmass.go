// Package sim provides the simulated actuator the follower drives: a
// velocity-commanded point mass with first-order response.
package sim

import (
	"fmt"

	"github.com/paulmach/orb"
)

// DefaultResponseTime is the velocity-tracking time constant. A perfectly
// instantaneous actuator chatters against the controller's derivative term,
// so the default models a small amount of actuator lag.
const DefaultResponseTime = 0.1

// PointMass is a point agent whose velocity tracks the applied control with
// a first-order lag, integrated by forward Euler. It implements the
// follower's Actuator contract.
type PointMass struct {
	pos   orb.Point
	vel   orb.Point
	dt    float64
	alpha float64
}

// NewPointMass places the agent at start with the given physics timestep
// and the default response time.
func NewPointMass(start orb.Point, dt float64) (*PointMass, error) {
	return NewPointMassWithResponse(start, dt, DefaultResponseTime)
}

// NewPointMassWithResponse also sets the velocity time constant. A zero
// time constant yields an ideal actuator whose velocity is the command.
func NewPointMassWithResponse(start orb.Point, dt, responseTime float64) (*PointMass, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("sim: physics timestep must be positive, got %f", dt)
	}
	if responseTime < 0 {
		return nil, fmt.Errorf("sim: response time must not be negative, got %f", responseTime)
	}
	return &PointMass{
		pos:   start,
		dt:    dt,
		alpha: dt / (responseTime + dt),
	}, nil
}

// Apply advances the agent one tick under velocity command u.
func (m *PointMass) Apply(u orb.Point) {
	m.vel[0] += (u[0] - m.vel[0]) * m.alpha
	m.vel[1] += (u[1] - m.vel[1]) * m.alpha
	m.pos[0] += m.vel[0] * m.dt
	m.pos[1] += m.vel[1] * m.dt
}

// Position returns the agent's current position.
func (m *PointMass) Position() orb.Point { return m.pos }

// Velocity returns the agent's current velocity.
func (m *PointMass) Velocity() orb.Point { return m.vel }
