// Package info summarizes the tracks in a file: how many, how long, how dense.
package info

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb/geo"
	"github.com/rotblauer/trackreduce/common"
	"github.com/rotblauer/trackreduce/types/track"
)

type TrackInfo struct {
	Name        string
	Description string
	Segments    int
	Points      int

	// DistanceKm sums haversine distances within each segment.
	// Gaps between segments are not counted.
	DistanceKm float64

	// Points per segment.
	MeanSegmentPoints   float64
	MedianSegmentPoints float64
	MaxSegmentPoints    float64
}

type FileInfo struct {
	Name      string
	Size      int64
	Waypoints int
	Routes    int
	Tracks    []TrackInfo
}

// Points is the total over all tracks.
func (fi FileInfo) Points() int {
	n := 0
	for _, t := range fi.Tracks {
		n += t.Points
	}
	return n
}

// Summarize measures one track.
func Summarize[P track.Locator](t *track.Track[P]) TrackInfo {
	ti := TrackInfo{
		Name:     t.Name(),
		Segments: len(t.Segments),
		Points:   t.PointCount(),
	}
	if t.Properties != nil {
		ti.Description = t.Properties.MustString("Description", "")
	}

	meters := 0.0
	lengths := make([]float64, 0, len(t.Segments))
	for _, seg := range t.Segments {
		lengths = append(lengths, float64(len(seg)))
		for i := 1; i < len(seg); i++ {
			meters += geo.DistanceHaversine(seg[i-1].Point(), seg[i].Point())
		}
	}
	ti.DistanceKm = common.DecimalToFixed(meters/1000, 2)

	statsMustFloat := func(fn func() (float64, error)) float64 {
		out, err := fn()
		if err != nil {
			return 0
		}
		return out
	}
	data := stats.Float64Data(lengths)
	ti.MeanSegmentPoints = common.DecimalToFixed(statsMustFloat(data.Mean), 1)
	ti.MedianSegmentPoints = statsMustFloat(data.Median)
	ti.MaxSegmentPoints = statsMustFloat(data.Max)
	return ti
}

// SummarizeAll measures each track, in order.
func SummarizeAll[P track.Locator](tracks []*track.Track[P]) []TrackInfo {
	out := make([]TrackInfo, len(tracks))
	for i, t := range tracks {
		out[i] = Summarize(t)
	}
	return out
}

// Fprint writes a human readable report of fi to w.
func Fprint(w io.Writer, fi FileInfo, verbose bool) error {
	b := new(strings.Builder)
	fmt.Fprintf(b, "File: %s\n", fi.Name)
	if verbose {
		fmt.Fprintf(b, "Size: %s\n", humanize.Bytes(uint64(fi.Size)))
	}
	fmt.Fprintln(b)

	if fi.Waypoints > 0 {
		fmt.Fprintf(b, "Waypoints: %d\n", fi.Waypoints)
	}
	if fi.Routes > 0 {
		fmt.Fprintf(b, "Routes: %d\n", fi.Routes)
	}

	fmt.Fprintf(b, "Tracks: %d\n", len(fi.Tracks))
	for _, t := range fi.Tracks {
		fmt.Fprintf(b, "  Track: '%s'\n", t.Name)
		if verbose && t.Description != "" {
			fmt.Fprintln(b, "  Description:")
			for _, line := range strings.Split(t.Description, "\n") {
				fmt.Fprintf(b, "    %s\n", line)
			}
		}
		fmt.Fprintf(b, "    Segments: %d\n", t.Segments)
		fmt.Fprintf(b, "    Points: %s\n", humanize.Comma(int64(t.Points)))
		fmt.Fprintf(b, "    Distance: %.2f km\n", t.DistanceKm)
		if verbose && t.Segments > 0 {
			fmt.Fprintf(b, "    Points/segment: mean %.1f, median %.1f, max %.0f\n",
				t.MeanSegmentPoints, t.MedianSegmentPoints, t.MaxSegmentPoints)
		}
		fmt.Fprintln(b)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
