package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/overlandla/nebenkosten-sub000/internal/household"
	"github.com/shopspring/decimal"
)

// Compile-time check that the adapter satisfies the config store contract.
var _ household.Store = (*Adapter)(nil)

// ListHouseholds returns all households ordered by name.
func (a *Adapter) ListHouseholds(ctx context.Context) ([]household.Household, error) {
	rows, err := a.db.QueryContext(ctx, queryListHouseholds)
	if err != nil {
		return nil, fmt.Errorf("list households: %w", err)
	}
	defer rows.Close()

	var households []household.Household
	for rows.Next() {
		var h household.Household
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan household row: %w", err)
		}
		households = append(households, h)
	}
	return households, rows.Err()
}

// GetHousehold returns one household or nil when the id is unknown.
func (a *Adapter) GetHousehold(ctx context.Context, id string) (*household.Household, error) {
	var h household.Household
	err := a.db.QueryRowContext(ctx, queryGetHousehold, id).
		Scan(&h.ID, &h.Name, &h.Address, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get household %s: %w", id, err)
	}
	return &h, nil
}

// SaveHousehold inserts or updates a household.
func (a *Adapter) SaveHousehold(ctx context.Context, h *household.Household) error {
	_, err := a.db.ExecContext(ctx, querySaveHousehold, h.ID, h.Name, h.Address, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("save household %s: %w", h.ID, err)
	}
	return nil
}

// ListMeters returns a household's meters ordered by medium and serial.
func (a *Adapter) ListMeters(ctx context.Context, householdID string) ([]household.Meter, error) {
	rows, err := a.db.QueryContext(ctx, queryListMeters, householdID)
	if err != nil {
		return nil, fmt.Errorf("list meters for household %s: %w", householdID, err)
	}
	defer rows.Close()

	var meters []household.Meter
	for rows.Next() {
		var m household.Meter
		if err := rows.Scan(&m.ID, &m.HouseholdID, &m.Medium, &m.SerialNumber, &m.Unit, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan meter row: %w", err)
		}
		meters = append(meters, m)
	}
	return meters, rows.Err()
}

// GetMeter returns one meter or nil when the id is unknown.
func (a *Adapter) GetMeter(ctx context.Context, id string) (*household.Meter, error) {
	var m household.Meter
	err := a.db.QueryRowContext(ctx, queryGetMeter, id).
		Scan(&m.ID, &m.HouseholdID, &m.Medium, &m.SerialNumber, &m.Unit, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meter %s: %w", id, err)
	}
	return &m, nil
}

// SaveMeter inserts or updates a meter.
func (a *Adapter) SaveMeter(ctx context.Context, m *household.Meter) error {
	_, err := a.db.ExecContext(ctx, querySaveMeter,
		m.ID, m.HouseholdID, m.Medium, m.SerialNumber, m.Unit, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("save meter %s: %w", m.ID, err)
	}
	return nil
}

// DeleteMeter removes a meter; prices cascade via the schema.
func (a *Adapter) DeleteMeter(ctx context.Context, id string) error {
	_, err := a.db.ExecContext(ctx, queryDeleteMeter, id)
	if err != nil {
		return fmt.Errorf("delete meter %s: %w", id, err)
	}
	return nil
}

// ListPrices returns a meter's tariffs, newest first.
func (a *Adapter) ListPrices(ctx context.Context, meterID string) ([]household.Price, error) {
	rows, err := a.db.QueryContext(ctx, queryListPrices, meterID)
	if err != nil {
		return nil, fmt.Errorf("list prices for meter %s: %w", meterID, err)
	}
	defer rows.Close()

	var prices []household.Price
	for rows.Next() {
		p, err := scanPriceRow(rows)
		if err != nil {
			return nil, err
		}
		prices = append(prices, *p)
	}
	return prices, rows.Err()
}

// SavePrice inserts a tariff, replacing an existing one with the same
// valid_from date.
func (a *Adapter) SavePrice(ctx context.Context, p *household.Price) error {
	_, err := a.db.ExecContext(ctx, querySavePrice,
		p.ID, p.MeterID, p.UnitPrice.String(), p.BaseFee.String(), p.Currency, p.ValidFrom, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("save price %s: %w", p.ID, err)
	}
	return nil
}

// PriceAt returns the tariff in force at the given instant, or nil when the
// meter has no tariff yet.
func (a *Adapter) PriceAt(ctx context.Context, meterID string, at time.Time) (*household.Price, error) {
	row := a.db.QueryRowContext(ctx, queryPriceAt, meterID, at)
	p, err := scanPriceRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("price for meter %s at %s: %w", meterID, at, err)
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanPriceRow scans a price row, converting the numeric columns into exact
// decimals. Compatible with both sql.Row and sql.Rows.
func scanPriceRow(row scanner) (*household.Price, error) {
	var p household.Price
	var unitPrice, baseFee string

	if err := row.Scan(&p.ID, &p.MeterID, &unitPrice, &baseFee, &p.Currency, &p.ValidFrom, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan price row: %w", err)
	}

	var err error
	if p.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
		return nil, fmt.Errorf("parse unit_price %q: %w", unitPrice, err)
	}
	if p.BaseFee, err = decimal.NewFromString(baseFee); err != nil {
		return nil, fmt.Errorf("parse base_fee %q: %w", baseFee, err)
	}

	return &p, nil
}
