// Package metrics collects summary statistics over a follower run. Each
// metric is an observer on the control loop and reports a single value.
package metrics

import (
	"math"

	"github.com/paulmach/orb/planar"

	"github.com/san-kum/kinoplan/internal/follow"
)

// Metric is a named summary over observed control ticks.
type Metric interface {
	follow.Observer
	Name() string
	Value() float64
	Reset()
}

// ControlEffort reports the mean absolute control magnitude per tick.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) OnTick(s follow.Sample) {
	c.sum += math.Abs(s.Control[0]) + math.Abs(s.Control[1])
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// MaxDeviation reports the largest absolute path deviation seen.
type MaxDeviation struct {
	max float64
}

func NewMaxDeviation() *MaxDeviation { return &MaxDeviation{} }

func (m *MaxDeviation) Name() string { return "max_deviation" }

func (m *MaxDeviation) OnTick(s follow.Sample) {
	if d := math.Abs(s.Deviation); d > m.max {
		m.max = d
	}
}

func (m *MaxDeviation) Value() float64 { return m.max }

func (m *MaxDeviation) Reset() { m.max = 0 }

// PathLength reports the distance actually traveled by the agent.
type PathLength struct {
	length float64
	prev   follow.Sample
	seen   bool
}

func NewPathLength() *PathLength { return &PathLength{} }

func (p *PathLength) Name() string { return "path_length" }

func (p *PathLength) OnTick(s follow.Sample) {
	if p.seen {
		p.length += planar.Distance(p.prev.Pos, s.Pos)
	}
	p.prev = s
	p.seen = true
}

func (p *PathLength) Value() float64 { return p.length }

func (p *PathLength) Reset() {
	p.length = 0
	p.seen = false
}
