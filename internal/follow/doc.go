// Package follow converts a planned waypoint sequence into per-tick control
// commands for an external actuator.
//
// Two independent [PID] loops, one per axis, steer toward the endpoint of
// the current segment. The combined output is normalized and scaled to a
// desired speed that shrinks linearly inside a slowdown radius around each
// waypoint. The follower advances to the next segment once the agent is
// within the arrival threshold of the current endpoint.
//
// Controller memory carries across segment transitions by default; set
// [Options.ResetBetweenSegments] to clear it at each transition instead.
package follow
