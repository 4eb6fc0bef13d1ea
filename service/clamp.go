package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/beka-birhanu/vinom-maze/maze"
)

// ClampSize parses a requested maze size. Empty or malformed input yields
// def; anything else is clamped into [min, max).
func ClampSize(raw string, def, min, max int) int {
	size, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		size = def
	}
	if size < min {
		size = min
	}
	if size >= max {
		size = max - 1
	}
	return size
}

// ClampPos maps a world position onto the cell covering it. Columns span
// (x-1, x], rows are centered on y. The result always lies inside a grid of
// the given size.
func ClampPos(x, y float64, size int) maze.Pos {
	cx := int(math.Ceil(x)) - 1
	cy := int(math.RoundToEven(y))
	return maze.Pos{X: clamp(cx, 0, size-1), Y: clamp(cy, 0, size-1)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
