package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stocktargets/internal/model"
)

// PGStore persists stock records in PostgreSQL.
type PGStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPGStore creates a store backed by the given pool.
func NewPGStore(db *pgxpool.Pool, logger *slog.Logger) *PGStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PGStore{db: db, logger: logger}
}

// Upsert inserts or fully replaces the row for rec.Symbol. All non-key
// columns take the new values; a collector run never merges with a previous
// row.
func (s *PGStore) Upsert(ctx context.Context, rec model.StockRecord) error {
	_, err := s.db.Exec(ctx, upsertSQL,
		rec.Symbol, rec.Name, rec.LastPrice,
		rec.TargetPriceLow, rec.DifferenceLow,
		rec.TargetPriceMedian, rec.DifferenceMedian,
		rec.TargetPriceHigh, rec.DifferenceHigh,
		rec.VolumeNumeric, rec.VolumeStr,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", rec.Symbol, err)
	}
	return nil
}

// List returns a page of records.
func (s *PGStore) List(ctx context.Context, f ListFilter) ([]model.StockRecord, error) {
	query, args := listQuery(f)
	return s.queryRecords(ctx, query, args)
}

// GetBySymbol returns the record for a symbol, or ErrNotFound.
func (s *PGStore) GetBySymbol(ctx context.Context, symbol string) (*model.StockRecord, error) {
	row := s.db.QueryRow(ctx, selectColumns+" WHERE symbol = $1", symbol)

	var rec model.StockRecord
	if err := scanRecord(row, &rec); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", symbol, err)
	}
	return &rec, nil
}

// Stats recomputes table-wide aggregates.
func (s *PGStore) Stats(ctx context.Context) (*model.Stats, error) {
	var (
		stats     model.Stats
		avgVolume float64
	)
	err := s.db.QueryRow(ctx, statsSQL).Scan(
		&stats.TotalStocks,
		&avgVolume,
		&stats.AvgDifferenceLow,
		&stats.AvgDifferenceMedian,
		&stats.AvgDifferenceHigh,
	)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	stats.AverageVolume = int64(avgVolume)
	return &stats, nil
}

// Undervalued returns the filtered, sorted, limited undervalued view.
func (s *PGStore) Undervalued(ctx context.Context, f UndervaluedFilter) ([]model.StockRecord, error) {
	query, args, err := undervaluedQuery(f)
	if err != nil {
		return nil, err
	}
	return s.queryRecords(ctx, query, args)
}

func (s *PGStore) queryRecords(ctx context.Context, query string, args []any) ([]model.StockRecord, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := []model.StockRecord{}
	for rows.Next() {
		var rec model.StockRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

func scanRecord(row pgx.Row, rec *model.StockRecord) error {
	return row.Scan(
		&rec.Symbol, &rec.Name, &rec.LastPrice,
		&rec.TargetPriceLow, &rec.DifferenceLow,
		&rec.TargetPriceMedian, &rec.DifferenceMedian,
		&rec.TargetPriceHigh, &rec.DifferenceHigh,
		&rec.VolumeNumeric, &rec.VolumeStr,
	)
}
