// Package geojsoncodec reads and writes newline-delimited GeoJSON point features
// as tracks of CatTracks.
//
// Features are grouped into tracks by a property (Name, by default) in the order
// each group first appears. Within a track, a time gap wider than the configured
// SegmentGap starts a new segment.
package geojsoncodec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotblauer/trackreduce/params"
	"github.com/rotblauer/trackreduce/types/cattrack"
	"github.com/rotblauer/trackreduce/types/track"
	"github.com/tidwall/gjson"
)

var ErrNotPoint = errors.New("feature geometry is not a point")

// Track is a track of GeoJSON point features.
type Track = track.Track[*cattrack.CatTrack]

// Decode reads every feature from r and groups them into tracks.
// A nil config uses params.DefaultGeoJSONCodecConfig.
func Decode(r io.Reader, config *params.GeoJSONCodecConfig) ([]*Track, error) {
	if config == nil {
		config = params.DefaultGeoJSONCodecConfig
	}
	keyPath := "properties." + escapePath(config.TrackKey)

	var tracks []*Track
	byKey := map[string]*Track{}
	lastTime := map[string]time.Time{}

	dec := json.NewDecoder(r)
	for n := 0; ; n++ {
		msg := json.RawMessage{}
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("feature %d: %w", n, err)
		}

		ct := &cattrack.CatTrack{}
		if err := ct.UnmarshalJSON(msg); err != nil {
			return nil, fmt.Errorf("feature %d: %w", n, err)
		}
		if _, ok := ct.Geometry.(orb.Point); !ok {
			return nil, fmt.Errorf("feature %d: %w", n, ErrNotPoint)
		}

		// Features missing the key group together under the empty name.
		key := gjson.GetBytes(msg, keyPath).String()
		t, ok := byKey[key]
		if !ok {
			t = track.New[*cattrack.CatTrack]()
			t.Properties["Name"] = key
			if config.TrackKey != "Name" {
				t.Properties[config.TrackKey] = key
			}
			byKey[key] = t
			tracks = append(tracks, t)
		}

		ts, terr := ct.Time()
		if len(t.Segments) == 0 || splits(config.SegmentGap, lastTime[key], ts, terr) {
			t.Segments = append(t.Segments, track.Segment[*cattrack.CatTrack]{})
		}
		if terr == nil {
			lastTime[key] = ts
		}
		last := len(t.Segments) - 1
		t.Segments[last] = append(t.Segments[last], ct)
	}

	slog.Debug("Decoded GeoJSON tracks", "tracks", len(tracks), "key", config.TrackKey)
	return tracks, nil
}

// splits reports whether cur opens a new segment after prev.
// Points without a time never split.
func splits(gap time.Duration, prev, cur time.Time, curErr error) bool {
	if gap <= 0 || curErr != nil || prev.IsZero() {
		return false
	}
	return cur.Sub(prev) > gap
}

// escapePath escapes gjson path syntax in a property key.
func escapePath(key string) string {
	out := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			out = append(out, '\\')
		}
		out = append(out, key[i])
	}
	return string(out)
}

// Encode writes every point of every track to w, one feature per line,
// in track then segment order.
func Encode(w io.Writer, tracks []*Track) error {
	enc := json.NewEncoder(w)
	for _, t := range tracks {
		for _, seg := range t.Segments {
			for _, ct := range seg {
				if err := enc.Encode(ct); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
