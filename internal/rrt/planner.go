package rrt

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/paulmach/orb"

	"github.com/san-kum/kinoplan/internal/geom"
)

// ErrNoPath is returned when the iteration budget is exhausted before any
// tree node reaches the goal region. Retrying with a larger budget is the
// caller's decision.
var ErrNoPath = errors.New("rrt: no path found within iteration budget")

// Options tune a planning run. Zero values fall back to the defaults.
type Options struct {
	Budget int     // expansion attempts, default 1000
	StepDt float64 // forward-simulation timestep, default 0.05
	Margin float64 // obstacle safety margin, default geom.DefaultMargin
	Index  string  // nearest-neighbor strategy, default IndexLinear
}

func (o *Options) withDefaults() Options {
	out := *o
	if out.Budget == 0 {
		out.Budget = 1000
	}
	if out.StepDt == 0 {
		out.StepDt = 0.05
	}
	if out.Margin == 0 {
		out.Margin = geom.DefaultMargin
	}
	if out.Index == "" {
		out.Index = IndexLinear
	}
	return out
}

func (o Options) validate() error {
	if o.Budget < 0 {
		return fmt.Errorf("rrt: budget must not be negative, got %d", o.Budget)
	}
	if o.StepDt < 0 {
		return fmt.Errorf("rrt: step timestep must not be negative, got %f", o.StepDt)
	}
	if o.Index != IndexLinear && o.Index != IndexRTree {
		return fmt.Errorf("rrt: unknown nearest-neighbor index %q", o.Index)
	}
	return nil
}

// Planner grows a kinodynamic tree from a start state toward a goal region.
// It is not safe for concurrent use; give each goroutine its own Planner.
type Planner struct {
	workspace orb.Bound
	obstacles []geom.Obstacle
	goal      orb.MultiPoint
	opts      Options
	rng       *rand.Rand
}

// Result holds a successful plan. Tree is the full exploration tree, kept
// for inspection and visualization.
type Result struct {
	Path       []orb.Point
	Tree       *Tree
	Iterations int
}

// New builds a planner. The random source is injected so runs are
// reproducible under a fixed seed.
func New(workspace orb.Bound, obstacles []geom.Obstacle, goal orb.MultiPoint, opts Options, rng *rand.Rand) (*Planner, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(goal) == 0 {
		return nil, errors.New("rrt: goal region has no corner points")
	}
	for _, o := range obstacles {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}
	return &Planner{
		workspace: workspace,
		obstacles: obstacles,
		goal:      goal,
		opts:      opts,
		rng:       rng,
	}, nil
}

// Plan runs up to Budget expansion attempts and returns the waypoint
// sequence from start into the goal region. Exhausting the budget yields
// ErrNoPath; there is no partial result.
func (p *Planner) Plan(ctx context.Context, start orb.Point) (*Result, error) {
	if !geom.Free(start, p.workspace, p.obstacles, p.opts.Margin) {
		return nil, fmt.Errorf("rrt: start position %v is not collision-free", start)
	}

	tree := NewTree(start)
	var index nnIndex
	if p.opts.Index == IndexRTree {
		index = newRTreeIndex(start)
	} else {
		index = &linearIndex{tree: tree}
	}

	for i := 0; i < p.opts.Budget; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sample := p.sample()
		ni := index.nearest(sample)
		near := tree.At(ni)

		control, ok := steer(near.Pos, sample)
		if !ok {
			continue // sample coincides with the nearest node
		}
		cand := simulate(near.Pos, control, p.opts.StepDt)

		if !geom.Free(cand, p.workspace, p.obstacles, p.opts.Margin) {
			continue
		}
		id := tree.Add(cand, ni, control)
		index.insert(id, cand)

		if geom.InGoal(cand, p.goal) {
			return &Result{Path: tree.Backtrack(id), Tree: tree, Iterations: i + 1}, nil
		}
	}
	return nil, ErrNoPath
}

// sample draws a uniformly random position within the workspace. Sampling
// is independent of the obstacle set; rejection happens after simulation.
func (p *Planner) sample() orb.Point {
	return orb.Point{
		p.workspace.Min[0] + p.rng.Float64()*(p.workspace.Max[0]-p.workspace.Min[0]),
		p.workspace.Min[1] + p.rng.Float64()*(p.workspace.Max[1]-p.workspace.Min[1]),
	}
}

// steer returns the unit-vector control pointing from to toward. Only the
// direction matters; the magnitude of each expansion is fixed by StepDt.
func steer(from, toward orb.Point) (orb.Point, bool) {
	dx := toward[0] - from[0]
	dy := toward[1] - from[1]
	mag := math.Hypot(dx, dy)
	if mag == 0 {
		return orb.Point{}, false
	}
	return orb.Point{dx / mag, dy / mag}, true
}

// simulate advances one fixed forward-Euler step under the given control.
func simulate(from, control orb.Point, dt float64) orb.Point {
	return orb.Point{from[0] + control[0]*dt, from[1] + control[1]*dt}
}
