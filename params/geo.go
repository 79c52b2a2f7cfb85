package params

import "time"

type GeoJSONCodecConfig struct {
	// TrackKey is the feature property that groups points into tracks.
	TrackKey string

	// SegmentGap starts a new segment when consecutive points of a track
	// are further apart in time than this. Zero disables splitting.
	SegmentGap time.Duration
}

var DefaultGeoJSONCodecConfig = &GeoJSONCodecConfig{
	TrackKey:   "Name",
	SegmentGap: 2 * time.Minute,
}
