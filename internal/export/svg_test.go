package export

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/san-kum/kinoplan/internal/geom"
)

func testScene() Scene {
	return Scene{
		Workspace: orb.Bound{Min: orb.Point{-0.5, -0.4}, Max: orb.Point{1.5, 0.4}},
		Obstacles: []geom.Obstacle{{
			Name: "wall_3",
			Corners: orb.MultiPoint{
				{0.5, -0.15}, {0.5, 0.15}, {0.6, 0.15}, {0.6, -0.15},
			},
		}},
		Goal: orb.MultiPoint{{0.9, -0.3}, {0.9, 0.3}, {1.1, 0.3}, {1.1, -0.3}},
		Path: []orb.Point{{0, 0}, {0.4, 0.3}, {1.0, 0}},
	}
}

func TestSceneSVG(t *testing.T) {
	out := SceneSVG(testScene(), 800)

	if !strings.HasPrefix(out, `<?xml version="1.0"`) {
		t.Error("missing XML prolog")
	}
	if !strings.Contains(out, `width="800" height="320"`) {
		t.Error("height should follow the 2.0 x 0.8 workspace aspect ratio")
	}
	// One filled obstacle, one outlined goal box, one path polyline.
	if got := strings.Count(out, `fill="#aa3333"`); got != 1 {
		t.Errorf("expected 1 obstacle rect, found %d", got)
	}
	if !strings.Contains(out, `stroke="#33aa33"`) {
		t.Error("missing goal outline")
	}
	if got := strings.Count(out, "<path "); got != 1 {
		t.Errorf("expected 1 polyline, found %d", got)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("document not closed")
	}
}

func TestSceneSVGWithTrace(t *testing.T) {
	s := testScene()
	s.Trace = []orb.Point{{0, 0}, {0.1, 0.05}, {0.4, 0.28}}

	out := SceneSVG(s, 800)
	if got := strings.Count(out, "<path "); got != 2 {
		t.Errorf("expected planned path and trace polylines, found %d", got)
	}
}

func TestSceneSVGDegenerateInputs(t *testing.T) {
	s := testScene()
	s.Workspace = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{0, 0}}
	if SceneSVG(s, 800) != "" {
		t.Error("degenerate workspace should produce no document")
	}
	if SceneSVG(testScene(), 0) != "" {
		t.Error("zero width should produce no document")
	}
}

func TestSceneSVGShortPath(t *testing.T) {
	s := testScene()
	s.Path = []orb.Point{{0, 0}}

	out := SceneSVG(s, 400)
	if strings.Contains(out, "<path ") {
		t.Error("a single waypoint is not drawable as a polyline")
	}
}
