package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL defines the yahoo_data table. The symbol column is the natural
// key; NULL target/difference columns mean the value was unavailable when
// the row was last collected.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS yahoo_data (
	symbol              TEXT PRIMARY KEY,
	name                TEXT NOT NULL DEFAULT '',
	last_price          DOUBLE PRECISION,
	target_price_low    DOUBLE PRECISION,
	difference_low      DOUBLE PRECISION,
	target_price_median DOUBLE PRECISION,
	difference_median   DOUBLE PRECISION,
	target_price_high   DOUBLE PRECISION,
	difference_high     DOUBLE PRECISION,
	volume_numeric      BIGINT,
	volume_str          TEXT NOT NULL DEFAULT ''
)`

// EnsureSchema creates the yahoo_data table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create yahoo_data table: %w", err)
	}
	return nil
}
