// Package geom provides the collision predicates shared by the planner,
// the smoother and the follower.
//
// The workspace is a fixed axis-aligned rectangle ([orb.Bound]); obstacles
// are axis-aligned boxes given by unordered corner sets. Collision tests
// expand obstacle boxes by a safety margin:
//
//   - [Free]: point-level test against workspace bounds and all obstacles
//   - [FreeSegment]: sampled test along a straight segment
//   - [InGoal]: bounding-box containment against the goal corners
//
// FreeSegment is an approximation; see its documentation for the limits.
package geom
