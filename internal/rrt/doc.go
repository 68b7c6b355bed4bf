// Package rrt implements a kinodynamic rapidly-exploring random tree
// planner for a point agent in a 2D workspace.
//
// Each iteration samples a uniform position, steers the nearest tree node
// one fixed forward-simulation step toward it and keeps the new state only
// if it is collision-free. Planning succeeds as soon as an accepted state
// lands inside the goal region.
//
//	rng := rand.New(rand.NewSource(seed))
//	p, _ := rrt.New(workspace, obstacles, goal, rrt.Options{}, rng)
//	res, err := p.Plan(ctx, start)
//
// The planner is feasibility-only: it gives no optimality guarantee, and a
// run that exhausts its budget reports [ErrNoPath].
package rrt
