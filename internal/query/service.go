package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/overlandla/nebenkosten-sub000/internal/api/v1"
	"github.com/overlandla/nebenkosten-sub000/internal/core/aggregation"
	"golang.org/x/sync/errgroup"
)

const (
	defaultStart = "-30d"
	defaultEnd   = "now()"

	// Cap on concurrent backend queries for a multi-meter request.
	maxQueryConcurrency = 4
)

// ErrInvalidQuery marks request validation errors that should return HTTP 400.
var ErrInvalidQuery = errors.New("invalid readings query")

// Service resolves readings queries: it parses the requested time window,
// picks a downsampling policy for it, and runs the resulting Flux query
// against the time-series backend.
type Service struct {
	backend Backend
	bucket  string
	nowFn   func() time.Time
}

// NewService creates a readings query service reading from the given
// InfluxDB bucket.
func NewService(backend Backend, bucket string) *Service {
	return &Service{
		backend: backend,
		bucket:  bucket,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// QueryReadings fetches one meter's series for the requested window.
func (s *Service) QueryReadings(ctx context.Context, req ReadingsRequest) (*v1.ReadingsResponse, error) {
	if req.MeterID == "" {
		return nil, invalidQueryf("meter id is required")
	}

	interval, dt, source, err := s.resolveRequest(req.Start, req.End, req.DataType, req.Source)
	if err != nil {
		return nil, err
	}

	cfg := aggregation.SelectAggregation(interval, dt)

	flux := buildFlux(s.bucket, req.MeterID, measurementFor(dt, source), interval, cfg)
	points, err := s.backend.QueryPoints(ctx, flux)
	if err != nil {
		return nil, fmt.Errorf("query readings for meter %s: %w", req.MeterID, err)
	}

	slog.Info("Readings query served",
		"meter_id", req.MeterID,
		"data_type", string(dt),
		"window", cfg.Window,
		"description", cfg.Description,
		"actual_points", len(points),
	)

	return &v1.ReadingsResponse{
		MeterID:  req.MeterID,
		DataType: string(dt),
		Start:    interval.Start,
		End:      interval.End,
		Points:   points,
		Metadata: s.metadata(interval, cfg, len(points)),
	}, nil
}

// QueryMultiReadings fetches the same window for several meters, one
// backend query per meter, fanned out concurrently. All series share one
// aggregation config since it depends only on the interval and data type.
func (s *Service) QueryMultiReadings(ctx context.Context, req MultiReadingsRequest) (*v1.MultiReadingsResponse, error) {
	if len(req.MeterIDs) == 0 {
		return nil, invalidQueryf("at least one meter id is required")
	}

	interval, dt, source, err := s.resolveRequest(req.Start, req.End, req.DataType, req.Source)
	if err != nil {
		return nil, err
	}

	cfg := aggregation.SelectAggregation(interval, dt)
	measurement := measurementFor(dt, source)

	series := make([]v1.ReadingSeries, len(req.MeterIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxQueryConcurrency)
	for i, meterID := range req.MeterIDs {
		g.Go(func() error {
			flux := buildFlux(s.bucket, meterID, measurement, interval, cfg)
			points, err := s.backend.QueryPoints(gctx, flux)
			if err != nil {
				return fmt.Errorf("query readings for meter %s: %w", meterID, err)
			}
			series[i] = v1.ReadingSeries{MeterID: meterID, Points: points}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	actual := 0
	for _, sr := range series {
		actual += len(sr.Points)
	}

	return &v1.MultiReadingsResponse{
		DataType: string(dt),
		Start:    interval.Start,
		End:      interval.End,
		Series:   series,
		Metadata: s.metadata(interval, cfg, actual),
	}, nil
}

// resolveRequest turns raw query parameters into an absolute interval and a
// validated data type. Both time expressions resolve against the same
// reference instant.
func (s *Service) resolveRequest(start, end, dataType, source string) (aggregation.TimeInterval, aggregation.DataType, aggregation.InterpolationSource, error) {
	if start == "" {
		start = defaultStart
	}
	if end == "" {
		end = defaultEnd
	}
	if dataType == "" {
		dataType = string(aggregation.DataTypeRaw)
	}

	dt := aggregation.DataType(dataType)
	if !dt.Valid() {
		return aggregation.TimeInterval{}, "", "", invalidQueryf("unknown data type: %s", dataType)
	}

	src := aggregation.SourceMonthly
	if source == string(aggregation.SourceDaily) {
		src = aggregation.SourceDaily
	}

	now := s.nowFn()
	interval := aggregation.TimeInterval{
		Start: aggregation.ParseRelativeTime(start, now),
		End:   aggregation.ParseRelativeTime(end, now),
	}

	return interval, dt, src, nil
}

func (s *Service) metadata(interval aggregation.TimeInterval, cfg aggregation.Config, actual int) v1.QueryMetadata {
	return v1.QueryMetadata{
		Description:     cfg.Description,
		Window:          cfg.Window,
		Function:        cfg.Fn,
		Aggregated:      cfg.ShouldAggregate,
		EstimatedPoints: aggregation.EstimatePoints(interval, cfg),
		ActualPoints:    actual,
	}
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
