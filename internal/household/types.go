package household

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Media a meter can measure. Stored as plain text in Postgres; validated on
// create so the dashboard's medium filter stays a closed set.
const (
	MediumElectricity = "electricity"
	MediumGas         = "gas"
	MediumWater       = "water"
	MediumHeating     = "heating"
)

// Household groups the meters of one building or apartment.
type Household struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" binding:"required"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// Meter is one physical meter. SerialNumber is what the collector tags its
// InfluxDB points with, so it doubles as the meter_id in readings queries.
type Meter struct {
	ID           string    `json:"id"`
	HouseholdID  string    `json:"household_id"`
	Medium       string    `json:"medium" binding:"required"`
	SerialNumber string    `json:"serial_number" binding:"required"`
	Unit         string    `json:"unit"`
	CreatedAt    time.Time `json:"created_at"`
}

// Price is a tariff for one meter from ValidFrom onward. The price in
// force at a given instant is the row with the latest ValidFrom not after
// it. Monetary fields are exact decimals, never floats.
type Price struct {
	ID        string          `json:"id"`
	MeterID   string          `json:"meter_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	BaseFee   decimal.Decimal `json:"base_fee"` // per calendar month
	Currency  string          `json:"currency"`
	ValidFrom time.Time       `json:"valid_from"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store is the persistence contract for the config subsystem, implemented
// by the Postgres adapter.
type Store interface {
	ListHouseholds(ctx context.Context) ([]Household, error)
	GetHousehold(ctx context.Context, id string) (*Household, error)
	SaveHousehold(ctx context.Context, h *Household) error

	ListMeters(ctx context.Context, householdID string) ([]Meter, error)
	GetMeter(ctx context.Context, id string) (*Meter, error)
	SaveMeter(ctx context.Context, m *Meter) error
	DeleteMeter(ctx context.Context, id string) error

	ListPrices(ctx context.Context, meterID string) ([]Price, error)
	SavePrice(ctx context.Context, p *Price) error
	PriceAt(ctx context.Context, meterID string, at time.Time) (*Price, error)
}
