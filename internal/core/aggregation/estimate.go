package aggregation

import (
	"time"
)

// rawSampleInterval is the typical collector cadence assumed when a query
// runs without downsampling. Only used for the UI point estimate.
const rawSampleInterval = 10 * time.Minute

// EstimatePoints predicts how many points a query will return under the
// given config. The number is a UI hint shown next to the actual row count,
// not a correctness-bearing value: unaggregated queries assume one raw
// sample per 10 minutes, aggregated queries divide by the window size.
//
// Returns 0 for zero or reversed intervals and never returns a negative
// count.
func EstimatePoints(interval TimeInterval, cfg Config) int {
	durationMs := interval.Duration().Milliseconds()
	if durationMs <= 0 {
		return 0
	}

	windowMs := rawSampleInterval.Milliseconds()
	if cfg.ShouldAggregate {
		windowMs = cfg.WindowDuration.Milliseconds()
		if windowMs <= 0 {
			// The selector never emits an aggregating config without a
			// positive window; a hand-built config might.
			return 0
		}
	}

	return int((durationMs + windowMs - 1) / windowMs)
}
