package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/overlandla/nebenkosten-sub000/internal/household"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Adapter{db: db}, mock
}

func TestListHouseholds(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(queryListHouseholds)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address", "created_at"}).
			AddRow("hh-1", "Hauptstrasse 12", "Hauptstrasse 12, Berlin", createdAt).
			AddRow("hh-2", "Nebenweg 3", "Nebenweg 3, Hamburg", createdAt))

	households, err := adapter.ListHouseholds(context.Background())
	require.NoError(t, err)
	require.Len(t, households, 2)
	require.Equal(t, "Hauptstrasse 12", households[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHouseholdNotFound(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectQuery(regexp.QuoteMeta(queryGetHousehold)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address", "created_at"}))

	h, err := adapter.GetHousehold(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, h)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveMeterUpserts(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	meter := &household.Meter{
		ID:           "meter-1",
		HouseholdID:  "hh-1",
		Medium:       household.MediumElectricity,
		SerialNumber: "E-12345",
		Unit:         "kWh",
		CreatedAt:    createdAt,
	}

	mock.ExpectExec(regexp.QuoteMeta(querySaveMeter)).
		WithArgs("meter-1", "hh-1", "electricity", "E-12345", "kWh", createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.SaveMeter(context.Background(), meter))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPriceAtPicksNewestValidTariff(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	validFrom := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	createdAt := validFrom

	mock.ExpectQuery(regexp.QuoteMeta(queryPriceAt)).
		WithArgs("meter-1", at).
		WillReturnRows(sqlmock.NewRows([]string{"id", "meter_id", "unit_price", "base_fee", "currency", "valid_from", "created_at"}).
			AddRow("price-1", "meter-1", "0.3472", "11.90", "EUR", validFrom, createdAt))

	price, err := adapter.PriceAt(context.Background(), "meter-1", at)
	require.NoError(t, err)
	require.NotNil(t, price)
	require.True(t, price.UnitPrice.Equal(decimal.RequireFromString("0.3472")))
	require.True(t, price.BaseFee.Equal(decimal.RequireFromString("11.90")))
	require.Equal(t, "EUR", price.Currency)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPriceAtNoTariff(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(queryPriceAt)).
		WithArgs("meter-1", at).
		WillReturnRows(sqlmock.NewRows([]string{"id", "meter_id", "unit_price", "base_fee", "currency", "valid_from", "created_at"}))

	price, err := adapter.PriceAt(context.Background(), "meter-1", at)
	require.NoError(t, err)
	require.Nil(t, price)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSavePriceSendsDecimalStrings(t *testing.T) {
	adapter, mock := newMockAdapter(t)
	validFrom := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	price := &household.Price{
		ID:        "price-1",
		MeterID:   "meter-1",
		UnitPrice: decimal.RequireFromString("0.3472"),
		BaseFee:   decimal.RequireFromString("11.90"),
		Currency:  "EUR",
		ValidFrom: validFrom,
		CreatedAt: validFrom,
	}

	mock.ExpectExec(regexp.QuoteMeta(querySavePrice)).
		WithArgs("price-1", "meter-1", "0.3472", "11.9", "EUR", validFrom, validFrom).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, adapter.SavePrice(context.Background(), price))
	require.NoError(t, mock.ExpectationsWereMet())
}
