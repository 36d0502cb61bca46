package aggregation

import (
	"time"
)

// Aggregation functions applied inside a downsampling window.
// Mean for point-in-time meter readings, sum for already-delta consumption
// values, last for "current state" lookups done by the query layer.
const (
	FnMean = "mean"
	FnSum  = "sum"
	FnLast = "last"
)

// DataType selects which policy table applies to a query and which
// aggregation function is semantically correct for the series.
type DataType string

const (
	// DataTypeRaw is unprocessed meter readings as the collector wrote them.
	DataTypeRaw DataType = "raw"

	// DataTypeConsumption is per-interval deltas derived from readings.
	// Summing deltas is the only meaningful combination; averaging them
	// would under-report usage.
	DataTypeConsumption DataType = "consumption"

	// DataTypeInterpolatedDaily is readings resampled upstream to one
	// point per day.
	DataTypeInterpolatedDaily DataType = "interpolated_daily"

	// DataTypeInterpolatedMonthly is readings resampled upstream to one
	// point per month.
	DataTypeInterpolatedMonthly DataType = "interpolated_monthly"
)

// InterpolationSource distinguishes which upstream series a monthly
// interpolation was derived from. It selects the measurement the query
// layer reads, never the aggregation policy: monthly granularity is
// already coarse regardless of source.
type InterpolationSource string

const (
	SourceDaily   InterpolationSource = "daily"
	SourceMonthly InterpolationSource = "monthly"
)

// Valid reports whether dt is one of the recognized data types.
func (dt DataType) Valid() bool {
	switch dt {
	case DataTypeRaw, DataTypeConsumption, DataTypeInterpolatedDaily, DataTypeInterpolatedMonthly:
		return true
	}
	return false
}

// TimeInterval is an absolute query window. Callers are expected to pass
// Start <= End; see SelectAggregation for how reversed intervals behave.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start. Negative when the interval is reversed.
func (iv TimeInterval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Days returns the interval length in fractional days at millisecond
// precision.
func (iv TimeInterval) Days() float64 {
	return float64(iv.Duration().Milliseconds()) / float64(millisPerDay)
}

// Config is the downsampling decision for one query: which window to
// group by, which function to apply inside it, and a human-readable
// description surfaced in response metadata.
//
// Invariant: ShouldAggregate == false implies Window == "" and
// WindowDuration == 0.
type Config struct {
	Window          string        `json:"window"`
	WindowDuration  time.Duration `json:"-"`
	Fn              string        `json:"function"`
	Description     string        `json:"description"`
	ShouldAggregate bool          `json:"aggregated"`
}

const millisPerDay = 24 * 60 * 60 * 1000
