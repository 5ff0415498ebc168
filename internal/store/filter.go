package store

import "errors"

// ErrNotFound is returned when a symbol lookup misses.
var ErrNotFound = errors.New("stock not found")

// DefaultSortColumn is used when an undervalued query names no sort field.
const DefaultSortColumn = "difference_low"

// sortColumns whitelists the numeric fields the undervalued view may sort
// by. The map value is the SQL column name; keeping the mapping explicit
// means request input never reaches SQL unescaped.
var sortColumns = map[string]string{
	"difference_low":    "difference_low",
	"difference_median": "difference_median",
	"difference_high":   "difference_high",
	"volume_numeric":    "volume_numeric",
	"last_price":        "last_price",
}

// ValidSortColumn reports whether name is an allowed sort field.
func ValidSortColumn(name string) bool {
	_, ok := sortColumns[name]
	return ok
}

// SortColumns returns the allowed sort field names.
func SortColumns() []string {
	names := make([]string, 0, len(sortColumns))
	for name := range sortColumns {
		names = append(names, name)
	}
	return names
}

// ListFilter selects a page of records in default table order.
type ListFilter struct {
	Skip      int
	Limit     int
	MinVolume *int64 // inclusive lower bound on volume_numeric
}

// UndervaluedFilter selects, orders and limits the undervalued view.
// All bounds are inclusive and combine as a conjunction; rows with a NULL
// in any filtered or sorted column are excluded from that predicate.
type UndervaluedFilter struct {
	Limit              int
	MinVolume          *int64
	MinPrice           *float64
	MaxPrice           *float64
	MinTargetDiff      *float64 // applies to difference_low
	ExcludeAboveMedian bool     // drop rows trading above the median target
	SortBy             string   // one of sortColumns, DefaultSortColumn if empty
	Ascending          bool     // default ordering is descending
}
