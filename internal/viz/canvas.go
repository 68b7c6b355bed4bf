package viz

import (
	"strings"

	"github.com/paulmach/orb"

	"github.com/san-kum/kinoplan/internal/geom"
)

// Braille Patterns: 2x4 dots per character cell, Unicode offset 0x2800.
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas renders workspace geometry onto a braille character grid. World
// coordinates are mapped onto the sub-pixel grid from a fixed bound, so
// obstacles, path and agent share one projection.
type Canvas struct {
	Width, Height int
	world         orb.Bound
	grid          [][]rune
}

// NewCanvas builds a canvas of w x h character cells covering world.
func NewCanvas(w, h int, world orb.Bound) *Canvas {
	c := &Canvas{Width: w, Height: h, world: world, grid: make([][]rune, h)}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
	return c
}

// Clear resets the canvas.
func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
}

// project maps a world position to sub-pixel coordinates. The y axis flips:
// world y grows upward, the grid downward.
func (c *Canvas) project(p orb.Point) (int, int) {
	spanX := c.world.Max[0] - c.world.Min[0]
	spanY := c.world.Max[1] - c.world.Min[1]
	cw := float64(c.Width*2 - 1)
	ch := float64(c.Height*4 - 1)
	x := int((p[0] - c.world.Min[0]) / spanX * cw)
	y := int((c.world.Max[1] - p[1]) / spanY * ch)
	return x, y
}

func (c *Canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// DrawPoint marks a single world position.
func (c *Canvas) DrawPoint(p orb.Point) {
	x, y := c.project(p)
	c.set(x, y)
}

// DrawSegment draws the straight line between two world positions using
// Bresenham's algorithm over the sub-pixel grid.
func (c *Canvas) DrawSegment(a, b orb.Point) {
	x0, y0 := c.project(a)
	x1, y1 := c.project(b)

	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawPath draws every segment of a waypoint sequence.
func (c *Canvas) DrawPath(path []orb.Point) {
	for i := 0; i+1 < len(path); i++ {
		c.DrawSegment(path[i], path[i+1])
	}
}

// DrawBox fills an axis-aligned box.
func (c *Canvas) DrawBox(b orb.Bound) {
	x0, y0 := c.project(orb.Point{b.Min[0], b.Max[1]})
	x1, y1 := c.project(orb.Point{b.Max[0], b.Min[1]})
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.set(x, y)
		}
	}
}

// DrawBoxOutline draws only the border of an axis-aligned box.
func (c *Canvas) DrawBoxOutline(b orb.Bound) {
	ll := orb.Point{b.Min[0], b.Min[1]}
	lr := orb.Point{b.Max[0], b.Min[1]}
	ul := orb.Point{b.Min[0], b.Max[1]}
	ur := orb.Point{b.Max[0], b.Max[1]}
	c.DrawSegment(ll, lr)
	c.DrawSegment(lr, ur)
	c.DrawSegment(ur, ul)
	c.DrawSegment(ul, ll)
}

// DrawScene renders a whole scenario: obstacle boxes filled, the goal box
// outlined and the path on top.
func (c *Canvas) DrawScene(obstacles []geom.Obstacle, goal orb.MultiPoint, path []orb.Point) {
	for _, o := range obstacles {
		c.DrawBox(o.Corners.Bound())
	}
	if len(goal) > 0 {
		c.DrawBoxOutline(goal.Bound())
	}
	c.DrawPath(path)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
