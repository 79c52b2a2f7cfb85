package cattrack

import (
	"errors"
	"fmt"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var errMissingTime = errors.New("missing Time property")

// CatTrack is a single GeoJSON point feature; one line of a newline-delimited track file.
// It's an alias of geojson.Feature so that properties ride along untouched
// through decode, reduction and encode.
// Time comes from `properties.UnixTime` if present, else `properties.Time` (RFC3339).
type CatTrack geojson.Feature

// NewCatTrack creates and initializes a GeoJSON feature given the required attributes.
func NewCatTrack(geometry orb.Geometry) *CatTrack {
	return &CatTrack{
		Type:       "Feature",
		Geometry:   geometry,
		Properties: make(map[string]interface{}),
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (ct CatTrack) MarshalJSON() ([]byte, error) {
	f := geojson.Feature(ct)
	return f.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (ct *CatTrack) UnmarshalJSON(data []byte) error {
	f, err := geojson.UnmarshalFeature(data)
	if err != nil {
		return err
	}
	*ct = *(*CatTrack)(f)
	return nil
}

// IsEmpty is useful for dealing with zero-value tracks.
func (ct *CatTrack) IsEmpty() bool {
	return ct == nil || ct.Geometry == nil
}

// Point returns the Point a cat is or was at.
func (ct *CatTrack) Point() orb.Point {
	if p, ok := ct.Geometry.(orb.Point); ok {
		return p
	}
	return ct.Geometry.Bound().Center()
}

// Time prefers the UnixTime property, falling back to an RFC3339 Time string.
func (ct *CatTrack) Time() (time.Time, error) {
	unix, ok := ct.Properties["UnixTime"]
	if ok {
		if v, ok := unix.(int64); ok {
			return time.Unix(v, 0), nil
		} else if v, ok := unix.(float64); ok {
			return time.Unix(int64(v), 0), nil
		}
	}
	rfc3339, ok := ct.Properties["Time"]
	if !ok {
		return time.Time{}, errMissingTime
	}
	if v, ok := rfc3339.(time.Time); ok {
		return v, nil
	}
	ts, ok := rfc3339.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("property Time is not a string: %T", rfc3339)
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, err
	}
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("zero time")
	}
	return t, nil
}
