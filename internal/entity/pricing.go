package entity

import "time"

// PriceObservation is one historical purchase row, tagged with the
// business unit it came from. Fetched per analysis request, not persisted.
type PriceObservation struct {
	BusinessUnit string    `json:"business_unit"`
	Price        float64   `json:"price"`
	PurchaseDate time.Time `json:"purchase_date"`
}

// IndexObservation is a monthly economic index reading. ObservationDate is
// always the first of a month.
type IndexObservation struct {
	ObservationDate time.Time `json:"observation_date"`
	IndexValue      float64   `json:"index_value"`
}

// PriceStatistics summarizes a price series. All fields are nil when the
// series is empty; RecentTrend is nil unless both trend windows have data.
// Recomputed on every analysis call, never cached.
type PriceStatistics struct {
	MinPrice        *float64 `json:"min_price"`
	MaxPrice        *float64 `json:"max_price"`
	AvgPrice        *float64 `json:"avg_price"`
	PriceVolatility *float64 `json:"price_volatility"`
	RecentTrend     *float64 `json:"recent_trend"`
}
