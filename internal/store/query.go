package store

import (
	"fmt"
	"strings"
)

// selectColumns is the column list shared by every read query, in scan order.
const selectColumns = `SELECT symbol, name, last_price,
	target_price_low, difference_low,
	target_price_median, difference_median,
	target_price_high, difference_high,
	volume_numeric, volume_str
FROM yahoo_data`

const upsertSQL = `
INSERT INTO yahoo_data (
	symbol, name, last_price,
	target_price_low, difference_low,
	target_price_median, difference_median,
	target_price_high, difference_high,
	volume_numeric, volume_str
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (symbol) DO UPDATE SET
	name = EXCLUDED.name,
	last_price = EXCLUDED.last_price,
	target_price_low = EXCLUDED.target_price_low,
	difference_low = EXCLUDED.difference_low,
	target_price_median = EXCLUDED.target_price_median,
	difference_median = EXCLUDED.difference_median,
	target_price_high = EXCLUDED.target_price_high,
	difference_high = EXCLUDED.difference_high,
	volume_numeric = EXCLUDED.volume_numeric,
	volume_str = EXCLUDED.volume_str`

const statsSQL = `SELECT COUNT(*),
	COALESCE(AVG(volume_numeric), 0),
	AVG(difference_low), AVG(difference_median), AVG(difference_high)
FROM yahoo_data`

// listQuery builds the paginated list query.
func listQuery(f ListFilter) (string, []any) {
	var b strings.Builder
	b.WriteString(selectColumns)

	var args []any
	if f.MinVolume != nil {
		args = append(args, *f.MinVolume)
		fmt.Fprintf(&b, " WHERE volume_numeric IS NOT NULL AND volume_numeric >= $%d", len(args))
	}

	args = append(args, f.Skip)
	fmt.Fprintf(&b, " ORDER BY symbol OFFSET $%d", len(args))
	args = append(args, f.Limit)
	fmt.Fprintf(&b, " LIMIT $%d", len(args))

	return b.String(), args
}

// undervaluedQuery builds the filtered, sorted, limited undervalued query.
// The sort column must already be whitelist-validated; unknown names error
// here as a second line of defense.
func undervaluedQuery(f UndervaluedFilter) (string, []any, error) {
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = DefaultSortColumn
	}
	col, ok := sortColumns[sortBy]
	if !ok {
		return "", nil, fmt.Errorf("invalid sort column %q", sortBy)
	}

	var b strings.Builder
	b.WriteString(selectColumns)

	// A row without a low target difference is never part of the
	// undervalued view.
	b.WriteString(" WHERE difference_low IS NOT NULL")

	var args []any
	if f.MinVolume != nil {
		args = append(args, *f.MinVolume)
		fmt.Fprintf(&b, " AND volume_numeric IS NOT NULL AND volume_numeric >= $%d", len(args))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		fmt.Fprintf(&b, " AND last_price IS NOT NULL AND last_price >= $%d", len(args))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		fmt.Fprintf(&b, " AND last_price IS NOT NULL AND last_price <= $%d", len(args))
	}
	if f.MinTargetDiff != nil {
		args = append(args, *f.MinTargetDiff)
		fmt.Fprintf(&b, " AND difference_low >= $%d", len(args))
	}
	if f.ExcludeAboveMedian {
		// last_price <= target_price_median, expressed through the
		// precomputed difference so both operands are known present.
		b.WriteString(" AND difference_median IS NOT NULL AND difference_median >= 0")
	}

	// NULLs in the sort column would otherwise sort first on DESC.
	if col != "difference_low" {
		fmt.Fprintf(&b, " AND %s IS NOT NULL", col)
	}

	dir := "DESC"
	if f.Ascending {
		dir = "ASC"
	}
	fmt.Fprintf(&b, " ORDER BY %s %s", col, dir)

	args = append(args, f.Limit)
	fmt.Fprintf(&b, " LIMIT $%d", len(args))

	return b.String(), args, nil
}
