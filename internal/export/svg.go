// Package export renders runs to standalone SVG documents for reports and
// docs, where the terminal canvas is not available.
package export

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"github.com/san-kum/kinoplan/internal/geom"
)

// Scene holds everything one run can draw: the workspace with its
// obstacles and goal box, the planned waypoints and the executed positions.
// Path and Trace may be empty.
type Scene struct {
	Workspace orb.Bound
	Obstacles []geom.Obstacle
	Goal      orb.MultiPoint
	Path      []orb.Point
	Trace     []orb.Point
}

// SceneSVG renders the scene into an SVG of the given pixel width. The
// height follows from the workspace aspect ratio, so nothing is distorted.
func SceneSVG(s Scene, width int) string {
	spanX := s.Workspace.Max[0] - s.Workspace.Min[0]
	spanY := s.Workspace.Max[1] - s.Workspace.Min[1]
	if spanX <= 0 || spanY <= 0 || width <= 0 {
		return ""
	}
	height := int(float64(width) * spanY / spanX)

	// World to pixel, with the y axis flipped.
	px := func(p orb.Point) (float64, float64) {
		x := (p[0] - s.Workspace.Min[0]) / spanX * float64(width)
		y := (s.Workspace.Max[1] - p[1]) / spanY * float64(height)
		return x, y
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for _, o := range s.Obstacles {
		b := o.Corners.Bound()
		x, y := px(orb.Point{b.Min[0], b.Max[1]})
		w := (b.Max[0] - b.Min[0]) / spanX * float64(width)
		h := (b.Max[1] - b.Min[1]) / spanY * float64(height)
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#aa3333"/>
`, x, y, w, h))
	}

	if len(s.Goal) > 0 {
		b := s.Goal.Bound()
		x, y := px(orb.Point{b.Min[0], b.Max[1]})
		w := (b.Max[0] - b.Min[0]) / spanX * float64(width)
		h := (b.Max[1] - b.Min[1]) / spanY * float64(height)
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#33aa33" stroke-width="1.5"/>
`, x, y, w, h))
	}

	writePolyline(&sb, s.Trace, px, "#888888", 1.0)
	writePolyline(&sb, s.Path, px, "#00ff00", 1.5)

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writePolyline(sb *strings.Builder, pts []orb.Point, px func(orb.Point) (float64, float64), stroke string, width float64) {
	if len(pts) < 2 {
		return
	}
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="%.1f" d="M`, stroke, width))
	for i, p := range pts {
		x, y := px(p)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString("\"/>\n")
}
