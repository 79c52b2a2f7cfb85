package simplifier

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// douglasPeuckerIndices follows orb's simplify.DouglasPeucker, but returns
// the indices of the kept points rather than a rewritten line.
// ls must have at least three points.
func douglasPeuckerIndices(ls orb.LineString, threshold float64) []int {
	mask := make([]bool, len(ls))
	mask[0] = true
	mask[len(mask)-1] = true

	found := 2
	stack := []int{0, len(ls) - 1}
	for len(stack) > 0 {
		start := stack[len(stack)-2]
		end := stack[len(stack)-1]

		maxDist := 0.0
		maxIndex := 0
		for i := start + 1; i < end; i++ {
			dist := planar.DistanceFromSegmentSquared(ls[start], ls[end], ls[i])
			if dist > maxDist {
				maxDist = dist
				maxIndex = i
			}
		}

		if maxDist > threshold*threshold {
			found++
			mask[maxIndex] = true
			stack[len(stack)-1] = maxIndex
			stack = append(stack, maxIndex, end)
		} else {
			stack = stack[:len(stack)-2]
		}
	}

	out := make([]int, 0, found)
	for i, keep := range mask {
		if keep {
			out = append(out, i)
		}
	}
	return out
}
