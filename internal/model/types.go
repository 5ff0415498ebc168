package model

// StockRecord is one row of the yahoo_data table, keyed by symbol.
//
// Target prices come from analyst estimates and may be absent per symbol.
// A difference field is non-nil only when both its target price and a
// non-zero last price were available when the row was collected.
type StockRecord struct {
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	LastPrice         *float64 `json:"last_price"`
	TargetPriceLow    *float64 `json:"target_price_low"`
	DifferenceLow     *float64 `json:"difference_low"`
	TargetPriceMedian *float64 `json:"target_price_median"`
	DifferenceMedian  *float64 `json:"difference_median"`
	TargetPriceHigh   *float64 `json:"target_price_high"`
	DifferenceHigh    *float64 `json:"difference_high"`

	// VolumeNumeric is the trading volume normalized for sorting and
	// filtering; VolumeStr keeps the display text as scraped ("259.529M").
	VolumeNumeric *int64 `json:"volume_numeric"`
	VolumeStr     string `json:"volume_str"`
}

// Stats holds table-wide aggregates, recomputed on every request.
type Stats struct {
	TotalStocks         int64    `json:"total_stocks"`
	AverageVolume       int64    `json:"average_volume"`
	AvgDifferenceLow    *float64 `json:"avg_difference_low"`
	AvgDifferenceMedian *float64 `json:"avg_difference_median"`
	AvgDifferenceHigh   *float64 `json:"avg_difference_high"`
}
