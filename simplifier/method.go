package simplifier

import (
	"fmt"
	"strings"
)

// Method selects the single-pass simplification algorithm.
type Method int

const (
	// RamerDouglasPeucker keeps points by maximum perpendicular distance.
	RamerDouglasPeucker Method = iota
	// VisvalingamWhyatt drops points by minimum effective triangle area.
	VisvalingamWhyatt
)

var methodNames = map[Method]string{
	RamerDouglasPeucker: "rdp",
	VisvalingamWhyatt:   "vw",
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Valid reports whether m names a known algorithm.
func (m Method) Valid() bool {
	_, ok := methodNames[m]
	return ok
}

// ParseMethod parses "rdp" or "vw" (case-insensitive).
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want rdp or vw)", ErrUnknownMethod, s)
}

// Set implements pflag.Value.
func (m *Method) Set(s string) error {
	parsed, err := ParseMethod(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *Method) Type() string {
	return "algorithm"
}
