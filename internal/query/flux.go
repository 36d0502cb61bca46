package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/overlandla/nebenkosten-sub000/internal/core/aggregation"
)

// Measurements written by the external collectors and the interpolation
// pipeline. The query layer only ever reads them.
const (
	measurementReadings           = "readings"
	measurementConsumption        = "consumption"
	measurementInterpolatedDaily  = "interpolated_daily"
	measurementInterpolatedMonth  = "interpolated_monthly"
	measurementInterpolatedMoDay  = "interpolated_monthly_from_daily"
)

// measurementFor maps a data type (and, for monthly interpolation, its
// source series) to the measurement to read.
func measurementFor(dt aggregation.DataType, source aggregation.InterpolationSource) string {
	switch dt {
	case aggregation.DataTypeConsumption:
		return measurementConsumption
	case aggregation.DataTypeInterpolatedDaily:
		return measurementInterpolatedDaily
	case aggregation.DataTypeInterpolatedMonthly:
		if source == aggregation.SourceDaily {
			return measurementInterpolatedMoDay
		}
		return measurementInterpolatedMonth
	default:
		return measurementReadings
	}
}

// buildFlux assembles the Flux pipeline for one meter. The aggregateWindow
// stage is only emitted when the policy asks for downsampling; its window
// and function come straight from the aggregation config.
func buildFlux(bucket, meterID string, measurement string, interval aggregation.TimeInterval, cfg aggregation.Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "from(bucket: %q)\n", bucket)
	fmt.Fprintf(&b, "  |> range(start: %s, stop: %s)\n",
		interval.Start.UTC().Format(time.RFC3339),
		interval.End.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r._measurement == %q)\n", measurement)
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r.meter_id == %q)\n", meterID)
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r._field == \"value\")\n")

	if cfg.ShouldAggregate {
		fmt.Fprintf(&b, "  |> aggregateWindow(every: %s, fn: %s, createEmpty: false)\n", cfg.Window, cfg.Fn)
	}

	b.WriteString("  |> sort(columns: [\"_time\"])")

	return b.String()
}
