package stats

import "errors"

var (
	// ErrDataShape reports malformed tables: overlapping or unordered bins,
	// missing columns, unparsable cells.
	ErrDataShape = errors.New("malformed table")

	// ErrRange reports inverted age ranges, out-of-range values and
	// zero-weight aggregations.
	ErrRange = errors.New("value out of range")

	// ErrLookup reports an age that no bin of the reference table covers.
	ErrLookup = errors.New("age not covered")

	// ErrValue reports an unknown enumerated value such as a study index.
	ErrValue = errors.New("invalid value")
)
