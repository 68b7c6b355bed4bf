package follow

import (
	"context"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/san-kum/kinoplan/internal/geom"
)

// Actuator is the external simulation boundary: apply one control tick,
// read the agent's current position.
type Actuator interface {
	Apply(u orb.Point)
	Position() orb.Point
}

// Frame is the optional presentation collaborator, invoked once per tick.
// The follower never depends on anything it does.
type Frame interface {
	Render()
	PollEvents()
}

// Sample is one control tick as seen by observers. Deviation is the signed
// perpendicular distance from the current segment's line; it feeds
// diagnostics only and has no effect on control.
type Sample struct {
	Time      float64
	Segment   int
	Pos       orb.Point
	Control   orb.Point
	Deviation float64
}

// Observer receives every control tick.
type Observer interface {
	OnTick(s Sample)
}

// Options tune the follower. Zero values fall back to the defaults.
type Options struct {
	Dt       float64 // control timestep, default 0.01
	Arrival  float64 // segment arrival threshold, default 0.05
	Cruise   float64 // desired speed away from waypoints, default 10.0
	Floor    float64 // minimum speed near waypoints, default 1.0
	Slowdown float64 // distance at which slowdown begins, default 1.0

	// ResetBetweenSegments clears PID integral/derivative memory at each
	// segment transition. Off by default: the loops carry their memory
	// across segments, accepting the integral transient when the setpoint
	// jumps.
	ResetBetweenSegments bool
}

func (o Options) withDefaults() Options {
	if o.Dt == 0 {
		o.Dt = 0.01
	}
	if o.Arrival == 0 {
		o.Arrival = 0.05
	}
	if o.Cruise == 0 {
		o.Cruise = 10.0
	}
	if o.Floor == 0 {
		o.Floor = 1.0
	}
	if o.Slowdown == 0 {
		o.Slowdown = 1.0
	}
	return o
}

func (o Options) validate() error {
	if o.Dt <= 0 {
		return fmt.Errorf("follow: control timestep must be positive, got %f", o.Dt)
	}
	if o.Arrival <= 0 {
		return fmt.Errorf("follow: arrival threshold must be positive, got %f", o.Arrival)
	}
	return nil
}

// Follower drives an actuator along a path segment by segment, one pair of
// axis PID loops steering toward the current segment's endpoint.
type Follower struct {
	x, y      *PID
	act       Actuator
	frame     Frame
	observers []Observer
	opts      Options

	path []orb.Point
	seg  int
	t    float64
	done bool
}

// New wires a follower to its actuator. The axis controllers are passed in
// so callers can tune or share gain configuration.
func New(act Actuator, pidX, pidY *PID, opts Options) *Follower {
	return &Follower{
		x:    pidX,
		y:    pidY,
		act:  act,
		opts: opts.withDefaults(),
	}
}

// AttachFrame registers the presentation collaborator.
func (f *Follower) AttachFrame(fr Frame) { f.frame = fr }

// AddObserver registers a diagnostics sink.
func (f *Follower) AddObserver(o Observer) { f.observers = append(f.observers, o) }

// AxisControllers exposes the PID pair, for live tuning.
func (f *Follower) AxisControllers() (*PID, *PID) { return f.x, f.y }

// Begin validates options and arms the follower on a path. A path with
// fewer than two waypoints is already complete.
func (f *Follower) Begin(path []orb.Point) error {
	if err := f.opts.validate(); err != nil {
		return err
	}
	f.path = path
	f.seg = 0
	f.t = 0
	f.done = len(path) < 2
	if !f.done {
		f.setSegment(0)
	}
	return nil
}

// Done reports whether the final segment has been reached.
func (f *Follower) Done() bool { return f.done }

// Time returns elapsed simulated time.
func (f *Follower) Time() float64 { return f.t }

// Segment returns the index of the segment currently tracked.
func (f *Follower) Segment() int { return f.seg }

func (f *Follower) setSegment(i int) {
	end := f.path[i+1]
	f.x.Setpoint = end[0]
	f.y.Setpoint = end[1]
	if f.opts.ResetBetweenSegments && i > 0 {
		f.x.Reset()
		f.y.Reset()
	}
}

func (f *Follower) advance() {
	f.seg++
	if f.seg >= len(f.path)-1 {
		f.done = true
		return
	}
	f.setSegment(f.seg)
}

// Tick runs one control step: read position, advance past any arrived or
// degenerate segments, compute the shaped control and apply it.
func (f *Follower) Tick() Sample {
	for !f.done {
		start, end := f.path[f.seg], f.path[f.seg+1]
		if start.Equal(end) {
			// Zero-length segment: treat as already arrived rather than
			// normalizing a zero direction.
			f.advance()
			continue
		}
		pos := f.act.Position()
		dist := planar.Distance(pos, end)
		if dist < f.opts.Arrival {
			f.advance()
			continue
		}
		return f.step(start, end, pos, dist)
	}
	return Sample{Time: f.t}
}

func (f *Follower) step(start, end, pos orb.Point, dist float64) Sample {
	speed := f.opts.Cruise
	if dist < f.opts.Slowdown {
		speed = math.Max(f.opts.Floor, dist/f.opts.Slowdown*f.opts.Cruise)
	}

	u := orb.Point{
		f.x.Compute(pos[0], f.opts.Dt),
		f.y.Compute(pos[1], f.opts.Dt),
	}
	if mag := math.Hypot(u[0], u[1]); mag > 0 {
		u[0] = u[0] / mag * speed
		u[1] = u[1] / mag * speed
	}

	f.act.Apply(u)
	if f.frame != nil {
		f.frame.Render()
		f.frame.PollEvents()
	}

	s := Sample{
		Time:      f.t,
		Segment:   f.seg,
		Pos:       pos,
		Control:   u,
		Deviation: geom.Deviation(pos, start, end),
	}
	for _, o := range f.observers {
		o.OnTick(s)
	}
	f.t += f.opts.Dt
	return s
}

// Follow runs the whole path to completion, blocking until the final
// segment's arrival threshold is met or the context is canceled.
func (f *Follower) Follow(ctx context.Context, path []orb.Point) error {
	if err := f.Begin(path); err != nil {
		return err
	}
	for !f.done {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		f.Tick()
	}
	return nil
}
