package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEstimatePoints(t *testing.T) {
	tests := []struct {
		name string
		days float64
		dt   DataType
		want int
	}{
		// Unaggregated queries assume one raw sample per 10 minutes.
		{name: "one day raw", days: 1, dt: DataTypeRaw, want: 144},
		{name: "half day raw", days: 0.5, dt: DataTypeRaw, want: 72},
		// 5 days / 15m windows
		{name: "five days fifteen minute", days: 5, dt: DataTypeRaw, want: 480},
		// 45 days / 6h windows
		{name: "forty five days six hour", days: 45, dt: DataTypeRaw, want: 180},
		// 400 days / 1w windows, rounded up
		{name: "four hundred days weekly", days: 400, dt: DataTypeRaw, want: 58},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			interval := intervalOfDays(tc.days)
			cfg := SelectAggregation(interval, tc.dt)
			require.Equal(t, tc.want, EstimatePoints(interval, cfg))
		})
	}
}

func TestEstimatePointsRoundsUp(t *testing.T) {
	// 90 minutes of hourly buckets is two points, not one.
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	interval := TimeInterval{Start: end.Add(-90 * time.Minute), End: end}
	cfg := Config{Window: "1h", WindowDuration: time.Hour, Fn: FnMean, ShouldAggregate: true}

	require.Equal(t, 2, EstimatePoints(interval, cfg))
}

func TestEstimatePointsDegenerateIntervals(t *testing.T) {
	at := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	empty := TimeInterval{Start: at, End: at}
	require.Equal(t, 0, EstimatePoints(empty, SelectAggregation(empty, DataTypeRaw)))

	reversed := TimeInterval{Start: at, End: at.Add(-24 * time.Hour)}
	require.Equal(t, 0, EstimatePoints(reversed, SelectAggregation(reversed, DataTypeRaw)))
}

func TestEstimatePointsGuardsZeroWindow(t *testing.T) {
	interval := intervalOfDays(30)
	cfg := Config{ShouldAggregate: true} // malformed: no window set

	require.Equal(t, 0, EstimatePoints(interval, cfg))
}

func TestEstimatePointsNeverNegative(t *testing.T) {
	for days := -10.0; days <= 10; days += 0.25 {
		interval := intervalOfDays(days)
		for _, dt := range []DataType{DataTypeRaw, DataTypeConsumption, DataTypeInterpolatedDaily, DataTypeInterpolatedMonthly} {
			cfg := SelectAggregation(interval, dt)
			require.GreaterOrEqual(t, EstimatePoints(interval, cfg), 0, "days=%v type=%s", days, dt)
		}
	}
}
