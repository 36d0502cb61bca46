package household

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	v1 "github.com/overlandla/nebenkosten-sub000/internal/api/v1"
	"github.com/overlandla/nebenkosten-sub000/internal/core/aggregation"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound marks lookups of unknown households, meters, or tariffs.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput marks validation failures that should return HTTP 400.
	ErrInvalidInput = errors.New("invalid input")
)

// ConsumptionSource reports a meter's total consumption over a window.
// Implemented by the readings query service.
type ConsumptionSource interface {
	TotalConsumption(ctx context.Context, meterID string, interval aggregation.TimeInterval) (float64, error)
}

// Service implements the household/meter/price config operations and the
// cost report that joins Postgres tariffs with InfluxDB consumption.
type Service struct {
	store       Store
	consumption ConsumptionSource
	nowFn       func() time.Time
}

// NewService creates the config service.
func NewService(store Store, consumption ConsumptionSource) *Service {
	return &Service{
		store:       store,
		consumption: consumption,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// ListHouseholds returns all configured households.
func (s *Service) ListHouseholds(ctx context.Context) ([]Household, error) {
	return s.store.ListHouseholds(ctx)
}

// CreateHousehold stores a new household and returns it with its id set.
func (s *Service) CreateHousehold(ctx context.Context, h Household) (*Household, error) {
	if h.Name == "" {
		return nil, fmt.Errorf("%w: household name is required", ErrInvalidInput)
	}

	h.ID = uuid.NewString()
	h.CreatedAt = s.nowFn()

	if err := s.store.SaveHousehold(ctx, &h); err != nil {
		return nil, err
	}

	slog.Info("Household created", "household_id", h.ID, "name", h.Name)
	return &h, nil
}

// ListMeters returns the meters of one household.
func (s *Service) ListMeters(ctx context.Context, householdID string) ([]Meter, error) {
	h, err := s.store.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("%w: household %s", ErrNotFound, householdID)
	}
	return s.store.ListMeters(ctx, householdID)
}

// CreateMeter attaches a new meter to a household.
func (s *Service) CreateMeter(ctx context.Context, householdID string, m Meter) (*Meter, error) {
	if !validMedium(m.Medium) {
		return nil, fmt.Errorf("%w: unknown medium %q", ErrInvalidInput, m.Medium)
	}
	if m.SerialNumber == "" {
		return nil, fmt.Errorf("%w: serial number is required", ErrInvalidInput)
	}

	h, err := s.store.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("%w: household %s", ErrNotFound, householdID)
	}

	m.ID = uuid.NewString()
	m.HouseholdID = householdID
	m.CreatedAt = s.nowFn()

	if err := s.store.SaveMeter(ctx, &m); err != nil {
		return nil, err
	}

	slog.Info("Meter created",
		"meter_id", m.ID,
		"household_id", householdID,
		"medium", m.Medium,
		"serial_number", m.SerialNumber,
	)
	return &m, nil
}

// DeleteMeter removes a meter and its tariffs.
func (s *Service) DeleteMeter(ctx context.Context, meterID string) error {
	m, err := s.store.GetMeter(ctx, meterID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: meter %s", ErrNotFound, meterID)
	}
	return s.store.DeleteMeter(ctx, meterID)
}

// ListPrices returns a meter's tariffs, newest first.
func (s *Service) ListPrices(ctx context.Context, meterID string) ([]Price, error) {
	m, err := s.store.GetMeter(ctx, meterID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: meter %s", ErrNotFound, meterID)
	}
	return s.store.ListPrices(ctx, meterID)
}

// SetPrice records a tariff for a meter. A tariff with the same valid_from
// date replaces the previous entry.
func (s *Service) SetPrice(ctx context.Context, meterID string, p Price) (*Price, error) {
	if p.UnitPrice.IsNegative() || p.BaseFee.IsNegative() {
		return nil, fmt.Errorf("%w: prices must not be negative", ErrInvalidInput)
	}

	m, err := s.store.GetMeter(ctx, meterID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: meter %s", ErrNotFound, meterID)
	}

	p.ID = uuid.NewString()
	p.MeterID = meterID
	p.CreatedAt = s.nowFn()
	if p.Currency == "" {
		p.Currency = "EUR"
	}
	if p.ValidFrom.IsZero() {
		p.ValidFrom = s.nowFn()
	}

	if err := s.store.SavePrice(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CostReport computes a meter's cost over a window: metered consumption
// times the unit price in force at the window's end, plus the monthly base
// fee for every calendar month the window touches.
func (s *Service) CostReport(ctx context.Context, meterID, startExpr, endExpr string) (*v1.CostReport, error) {
	m, err := s.store.GetMeter(ctx, meterID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: meter %s", ErrNotFound, meterID)
	}

	now := s.nowFn()
	interval := aggregation.TimeInterval{
		Start: aggregation.ParseRelativeTime(startExpr, now),
		End:   aggregation.ParseRelativeTime(endExpr, now),
	}
	if !interval.End.After(interval.Start) {
		return nil, fmt.Errorf("%w: cost window must end after it starts", ErrInvalidInput)
	}

	price, err := s.store.PriceAt(ctx, meterID, interval.End)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, fmt.Errorf("%w: meter %s has no tariff", ErrNotFound, meterID)
	}

	// Readings are tagged with the collector serial, not the config row id.
	total, err := s.consumption.TotalConsumption(ctx, m.SerialNumber, interval)
	if err != nil {
		return nil, err
	}

	consumed := decimal.NewFromFloat(total)
	months := decimal.NewFromInt(int64(monthsTouched(interval.Start, interval.End)))
	cost := consumed.Mul(price.UnitPrice).Add(price.BaseFee.Mul(months)).Round(2)

	return &v1.CostReport{
		MeterID:     meterID,
		Start:       interval.Start,
		End:         interval.End,
		Consumption: consumed,
		UnitPrice:   price.UnitPrice,
		BaseFee:     price.BaseFee,
		Total:       cost,
		Currency:    price.Currency,
	}, nil
}

func validMedium(medium string) bool {
	switch medium {
	case MediumElectricity, MediumGas, MediumWater, MediumHeating:
		return true
	}
	return false
}

// monthsTouched counts the distinct calendar months the half-open window
// [start, end) intersects. A window inside one month counts as one.
func monthsTouched(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	sy, sm, _ := start.Date()
	// The instant "end" itself is exclusive.
	ey, em, _ := end.Add(-time.Nanosecond).Date()
	return (ey-sy)*12 + int(em) - int(sm) + 1
}
