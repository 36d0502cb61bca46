package query

import (
	"context"

	v1 "github.com/overlandla/nebenkosten-sub000/internal/api/v1"
)

// Backend runs a Flux query against the time-series store and streams the
// result rows back as chart points. Implemented by storage/influx; tests
// substitute a fake.
type Backend interface {
	QueryPoints(ctx context.Context, flux string) ([]v1.DataPoint, error)
}

// ReadingsRequest carries the raw query parameters for a readings lookup.
// Start and End stay unparsed here: they may be relative expressions
// ("-90d", "now()") or absolute timestamps, resolved by the service against
// a single reference instant so both ends agree on what "now" means.
type ReadingsRequest struct {
	MeterID  string
	Start    string `form:"start"`
	End      string `form:"end"`
	DataType string `form:"type"`
	Source   string `form:"source"` // interpolation source for monthly data: daily | monthly
}

// MultiReadingsRequest queries the same window across several meters.
type MultiReadingsRequest struct {
	MeterIDs []string `form:"meter" binding:"required"`
	Start    string   `form:"start"`
	End      string   `form:"end"`
	DataType string   `form:"type"`
	Source   string   `form:"source"`
}
