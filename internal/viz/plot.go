package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/kinoplan/internal/follow"
)

// DeviationPlot renders the per-tick path deviation of a run as a terminal
// line chart.
func DeviationPlot(trace []follow.Sample, width, height int) string {
	if len(trace) < 2 {
		return "(not enough samples to plot)"
	}
	devs := make([]float64, len(trace))
	for i, s := range trace {
		devs[i] = s.Deviation
	}
	return asciigraph.Plot(devs,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("deviation from segment line"),
	)
}
