package reducer

import (
	"github.com/paulmach/orb"
	"github.com/rotblauer/trackreduce/types/track"
)

// LineString projects a segment to the coordinates the primitive works on.
// Length and order are unchanged.
func LineString[P track.Locator](seg track.Segment[P]) orb.LineString {
	ls := make(orb.LineString, len(seg))
	for i, p := range seg {
		ls[i] = p.Point()
	}
	return ls
}

// LineStrings projects every segment of t, in order.
func LineStrings[P track.Locator](t *track.Track[P]) []orb.LineString {
	out := make([]orb.LineString, len(t.Segments))
	for i, seg := range t.Segments {
		out[i] = LineString(seg)
	}
	return out
}

// FromIndices returns a new segment holding seg[i] for each i in indices.
// Points are copied as-is, attributes and all.
// Indices come from the primitive: ascending, unique and in range.
func FromIndices[P track.Locator](seg track.Segment[P], indices []int) track.Segment[P] {
	out := make(track.Segment[P], len(indices))
	for i, idx := range indices {
		out[i] = seg[idx]
	}
	return out
}
