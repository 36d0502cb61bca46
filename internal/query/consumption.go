package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/overlandla/nebenkosten-sub000/internal/core/aggregation"
)

// TotalConsumption sums a meter's consumption over the interval into one
// number, used by the cost report. Returns 0 when the store has no rows for
// the window.
func (s *Service) TotalConsumption(ctx context.Context, meterID string, interval aggregation.TimeInterval) (float64, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "from(bucket: %q)\n", s.bucket)
	fmt.Fprintf(&b, "  |> range(start: %s, stop: %s)\n",
		interval.Start.UTC().Format(time.RFC3339),
		interval.End.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r._measurement == %q)\n", measurementConsumption)
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r.meter_id == %q)\n", meterID)
	fmt.Fprintf(&b, "  |> filter(fn: (r) => r._field == \"value\")\n")
	b.WriteString("  |> sum()")

	points, err := s.backend.QueryPoints(ctx, b.String())
	if err != nil {
		return 0, fmt.Errorf("total consumption for meter %s: %w", meterID, err)
	}

	total := 0.0
	for _, p := range points {
		if p.Value != nil {
			total += *p.Value
		}
	}
	return total, nil
}
