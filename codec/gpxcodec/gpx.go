// Package gpxcodec exposes the tracks of a GPX document as generic tracks,
// and writes reduced tracks back into the document.
// Waypoints, routes and metadata pass through untouched.
package gpxcodec

import (
	"errors"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/rotblauer/trackreduce/types/track"
	"github.com/tkrajina/gpxgo/gpx"
)

var ErrShapeMismatch = errors.New("tracks do not match document")

// Trackpoint is a GPX trkpt. Elevation, time, name, extensions and the rest
// ride along with the position.
type Trackpoint struct {
	gpx.GPXPoint
}

// Point returns the trkpt position in [lon, lat] order.
func (tp Trackpoint) Point() orb.Point {
	return orb.Point{tp.Longitude, tp.Latitude}
}

type Track = track.Track[Trackpoint]

// Document is a parsed GPX file.
type Document struct {
	GPX *gpx.GPX
}

// Decode parses a GPX document from r.
func Decode(r io.Reader) (*Document, error) {
	g, err := gpx.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse gpx: %w", err)
	}
	return &Document{GPX: g}, nil
}

// Tracks returns one generic track per <trk>, in document order.
func (d *Document) Tracks() []*Track {
	out := make([]*Track, 0, len(d.GPX.Tracks))
	for _, trk := range d.GPX.Tracks {
		t := track.New[Trackpoint]()
		t.Properties["Name"] = trk.Name
		t.Properties["Description"] = trk.Description
		t.Properties["Comment"] = trk.Comment
		t.Properties["Source"] = trk.Source
		t.Properties["Type"] = trk.Type
		for _, seg := range trk.Segments {
			s := make(track.Segment[Trackpoint], len(seg.Points))
			for i, p := range seg.Points {
				s[i] = Trackpoint{GPXPoint: p}
			}
			t.Segments = append(t.Segments, s)
		}
		out = append(out, t)
	}
	return out
}

// SetTracks replaces the points of each <trkseg> with those of the matching
// segment of tracks. Track-level elements are kept as parsed.
func (d *Document) SetTracks(tracks []*Track) error {
	if len(tracks) != len(d.GPX.Tracks) {
		return fmt.Errorf("%w: %d tracks, document has %d", ErrShapeMismatch, len(tracks), len(d.GPX.Tracks))
	}
	for i, t := range tracks {
		trk := &d.GPX.Tracks[i]
		if len(t.Segments) != len(trk.Segments) {
			return fmt.Errorf("%w: track %d has %d segments, document has %d",
				ErrShapeMismatch, i, len(t.Segments), len(trk.Segments))
		}
		for j, seg := range t.Segments {
			points := make([]gpx.GPXPoint, len(seg))
			for k, p := range seg {
				points[k] = p.GPXPoint
			}
			trk.Segments[j].Points = points
		}
	}
	return nil
}

// Encode writes the document as indented GPX 1.1.
func (d *Document) Encode(w io.Writer) error {
	b, err := d.GPX.ToXml(gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Counts returns the number of waypoints and routes, for summaries.
func (d *Document) Counts() (waypoints, routes int) {
	return len(d.GPX.Waypoints), len(d.GPX.Routes)
}
