package postgres

// SQL statements for the household/meter/price config tables.

const (
	queryListHouseholds = `
		SELECT id, name, address, created_at
		FROM households
		ORDER BY name ASC
	`

	queryGetHousehold = `
		SELECT id, name, address, created_at
		FROM households
		WHERE id = $1
	`

	// querySaveHousehold upserts by primary key so renaming a household is
	// the same call as creating one.
	querySaveHousehold = `
		INSERT INTO households (id, name, address, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name    = EXCLUDED.name,
			address = EXCLUDED.address
	`

	queryListMeters = `
		SELECT id, household_id, medium, serial_number, unit, created_at
		FROM meters
		WHERE household_id = $1
		ORDER BY medium ASC, serial_number ASC
	`

	queryGetMeter = `
		SELECT id, household_id, medium, serial_number, unit, created_at
		FROM meters
		WHERE id = $1
	`

	querySaveMeter = `
		INSERT INTO meters (id, household_id, medium, serial_number, unit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			medium        = EXCLUDED.medium,
			serial_number = EXCLUDED.serial_number,
			unit          = EXCLUDED.unit
	`

	queryDeleteMeter = `
		DELETE FROM meters
		WHERE id = $1
	`

	queryListPrices = `
		SELECT id, meter_id, unit_price, base_fee, currency, valid_from, created_at
		FROM prices
		WHERE meter_id = $1
		ORDER BY valid_from DESC
	`

	querySavePrice = `
		INSERT INTO prices (id, meter_id, unit_price, base_fee, currency, valid_from, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (meter_id, valid_from) DO UPDATE SET
			unit_price = EXCLUDED.unit_price,
			base_fee   = EXCLUDED.base_fee,
			currency   = EXCLUDED.currency
	`

	// queryPriceAt picks the tariff in force at an instant: the newest
	// valid_from that is not in the future of it.
	queryPriceAt = `
		SELECT id, meter_id, unit_price, base_fee, currency, valid_from, created_at
		FROM prices
		WHERE meter_id = $1
		  AND valid_from <= $2
		ORDER BY valid_from DESC
		LIMIT 1
	`
)
