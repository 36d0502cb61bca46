package aggregation

import (
	"log/slog"
	"math"
	"strings"
	"time"
)

// Window durations used for config and point estimation. The month entry is
// a fixed 30-day approximation; it only feeds the point estimate, actual
// bucket boundaries are drawn by the time-series store.
const (
	window15m = 15 * time.Minute
	window1h  = time.Hour
	window6h  = 6 * time.Hour
	window12h = 12 * time.Hour
	window1d  = 24 * time.Hour
	window1w  = 7 * 24 * time.Hour
	window1mo = 30 * 24 * time.Hour
)

// policyBand is one row of a threshold table: intervals shorter than
// upperDays (strict) get this window. Bands are evaluated in order; the
// first match wins, so tables must be sorted by upperDays ascending with a
// +Inf catch-all last.
type policyBand struct {
	upperDays   float64
	window      string
	duration    time.Duration
	description string
}

// rawBands covers unprocessed meter readings. Thresholds are tuned so a
// typical 10-minute collector cadence never returns more than a few
// thousand points per query.
var rawBands = []policyBand{
	{upperDays: 2, window: "", duration: 0, description: "Raw data (no aggregation)"},
	{upperDays: 7, window: "15m", duration: window15m, description: "15-minute averages"},
	{upperDays: 30, window: "1h", duration: window1h, description: "Hourly averages"},
	{upperDays: 90, window: "6h", duration: window6h, description: "6-hour averages"},
	{upperDays: 180, window: "12h", duration: window12h, description: "12-hour averages"},
	{upperDays: 365, window: "1d", duration: window1d, description: "Daily averages"},
	{upperDays: math.Inf(1), window: "1w", duration: window1w, description: "Weekly averages"},
}

// interpolatedDailyBands covers series already resampled to one point per
// day upstream; only multi-year ranges need further reduction.
var interpolatedDailyBands = []policyBand{
	{upperDays: 180, window: "", duration: 0, description: "Daily interpolated data"},
	{upperDays: 730, window: "1w", duration: window1w, description: "Weekly averages"},
	{upperDays: math.Inf(1), window: "1mo", duration: window1mo, description: "Monthly averages"},
}

// SelectAggregation decides the downsampling window and function for a
// query over the given interval. It is total: every interval and data type
// maps to a defined Config, including reversed intervals, which land in the
// shortest band and come back unaggregated.
func SelectAggregation(interval TimeInterval, dt DataType) Config {
	days := interval.Days()

	if days < 0 {
		// Usually a swapped start/end in the caller. Policy-wise this is
		// just a very short interval, but worth surfacing.
		slog.Warn("Negative query interval, treating as very short range",
			"start", interval.Start,
			"end", interval.End,
		)
	}

	switch dt {
	case DataTypeConsumption:
		cfg := matchBand(rawBands, days, FnSum)
		cfg.Description = strings.ReplaceAll(cfg.Description, "averages", "totals")
		return cfg
	case DataTypeInterpolatedDaily:
		return matchBand(interpolatedDailyBands, days, FnMean)
	case DataTypeInterpolatedMonthly:
		// One point per month is already coarser than any window we would
		// pick; never downsample further.
		return Config{
			Fn:              FnMean,
			Description:     "Monthly interpolated data",
			ShouldAggregate: false,
		}
	default:
		return matchBand(rawBands, days, FnMean)
	}
}

// matchBand returns the config for the first band whose strict upper bound
// exceeds days. Tables end with an infinite band, so a match always exists.
func matchBand(bands []policyBand, days float64, fn string) Config {
	band := bands[len(bands)-1]
	for _, b := range bands {
		if days < b.upperDays {
			band = b
			break
		}
	}

	return Config{
		Window:          band.window,
		WindowDuration:  band.duration,
		Fn:              fn,
		Description:     band.description,
		ShouldAggregate: band.window != "",
	}
}
