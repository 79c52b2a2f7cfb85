package simplifier

import (
	"fmt"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// Validate checks that every point of ls is a real WGS84 coordinate.
// NaN, infinities and out-of-range lon/lat are rejected.
func Validate(ls orb.LineString) error {
	for i, p := range ls {
		if !s2.LatLngFromDegrees(p.Lat(), p.Lon()).IsValid() {
			return fmt.Errorf("%w: point %d: %v", ErrInvalidCoordinate, i, p)
		}
	}
	return nil
}
