// Package track defines the generic shape of the things trackreduce reduces:
// a Track is an ordered list of Segments, and a Segment is an ordered list of points.
//
// Points are deliberately opaque. Anything that can say where it is (a Locator)
// can be a point, so a GeoJSON feature and a GPX trkpt travel through the same
// reducer without either losing its non-geometric attributes.
package track

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Locator is a point that knows its position, in [lon, lat] order.
type Locator interface {
	Point() orb.Point
}

// Segment is an ordered run of points. Order defines the polyline.
type Segment[P Locator] []P

// Len returns the number of points in the segment.
func (s Segment[P]) Len() int {
	return len(s)
}

// First returns the first point. It panics on an empty segment.
func (s Segment[P]) First() P {
	return s[0]
}

// Last returns the last point. It panics on an empty segment.
func (s Segment[P]) Last() P {
	return s[len(s)-1]
}

// Track is an ordered collection of segments plus track-level metadata
// (name, description, ...). The reducer never touches Properties.
type Track[P Locator] struct {
	Properties geojson.Properties
	Segments   []Segment[P]
}

// New returns a Track with initialized properties.
func New[P Locator](segments ...Segment[P]) *Track[P] {
	return &Track[P]{
		Properties: make(geojson.Properties),
		Segments:   segments,
	}
}

// PointCount is the total number of points across all segments.
func (t *Track[P]) PointCount() int {
	n := 0
	for _, seg := range t.Segments {
		n += len(seg)
	}
	return n
}

// Name returns the Name property, or the empty string.
func (t *Track[P]) Name() string {
	if t.Properties == nil {
		return ""
	}
	return t.Properties.MustString("Name", "")
}
