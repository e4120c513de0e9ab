package parser

import "github.com/tfcanvas/canvas/internal/graph"

// Options configures the parser behavior.
type Options struct {
	// MaxParallel is the max number of files parsed concurrently (0 = default).
	MaxParallel int
	// Columns is the width of the fallback layout grid.
	Columns int
	// Origin is the position of the first grid cell.
	Origin graph.Point
	// Spacing is the distance between neighbouring grid cells.
	Spacing graph.Point
}

// DefaultOptions returns default parser options.
func DefaultOptions() Options {
	return Options{
		MaxParallel: 0, // use runtime.NumCPU in parser
		Columns:     4,
		Origin:      graph.Point{X: 40, Y: 40},
		Spacing:     graph.Point{X: 240, Y: 140},
	}
}
