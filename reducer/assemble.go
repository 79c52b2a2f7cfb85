package reducer

import (
	"fmt"

	"github.com/rotblauer/trackreduce/types/track"
)

// Assemble builds the reduced track from the original and the winning
// per-segment indices. Segment count and order are preserved, and the
// track properties are copied over unchanged.
func Assemble[P track.Locator](original *track.Track[P], indices [][]int) *track.Track[P] {
	if len(indices) != len(original.Segments) {
		panic(fmt.Sprintf("reducer: %d index sets for %d segments", len(indices), len(original.Segments)))
	}
	out := &track.Track[P]{
		Properties: original.Properties.Clone(),
		Segments:   make([]track.Segment[P], len(original.Segments)),
	}
	for i, seg := range original.Segments {
		out.Segments[i] = FromIndices(seg, indices[i])
	}
	return out
}
