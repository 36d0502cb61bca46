package v1

import (
	"time"

	"github.com/shopspring/decimal"
)

// DataPoint is one chart point. Value is a pointer so gaps in the series
// (empty aggregation windows) serialize as JSON null instead of zero, which
// charting libraries render as a break in the line.
type DataPoint struct {
	Time  time.Time `json:"time"`
	Value *float64  `json:"value"`
}

// QueryMetadata describes how a readings query was downsampled. It is
// returned alongside the points so the UI can label the chart and show the
// estimated-vs-actual point count.
type QueryMetadata struct {
	Description     string `json:"description"`
	Window          string `json:"window,omitempty"`
	Function        string `json:"function"`
	Aggregated      bool   `json:"aggregated"`
	EstimatedPoints int    `json:"estimated_points"`
	ActualPoints    int    `json:"actual_points"`
}

// ReadingSeries is the readings for a single meter over the queried window.
type ReadingSeries struct {
	MeterID string      `json:"meter_id"`
	Points  []DataPoint `json:"points"`
}

// ReadingsResponse is the body of a readings query for one meter.
type ReadingsResponse struct {
	MeterID  string        `json:"meter_id"`
	DataType string        `json:"data_type"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	Points   []DataPoint   `json:"points"`
	Metadata QueryMetadata `json:"metadata"`
}

// MultiReadingsResponse is the body of a readings query spanning several
// meters. All series share one time window and one aggregation config.
type MultiReadingsResponse struct {
	DataType string          `json:"data_type"`
	Start    time.Time       `json:"start"`
	End      time.Time       `json:"end"`
	Series   []ReadingSeries `json:"series"`
	Metadata QueryMetadata   `json:"metadata"`
}

// CostReport is the computed cost of a meter's consumption over a window:
// the metered total multiplied by the unit price in force.
type CostReport struct {
	MeterID     string          `json:"meter_id"`
	Start       time.Time       `json:"start"`
	End         time.Time       `json:"end"`
	Consumption decimal.Decimal `json:"consumption"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	BaseFee     decimal.Decimal `json:"base_fee"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
}
