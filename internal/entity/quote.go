package entity

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a supplier row for data transfer between layers.
type Supplier struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Quote is a persisted supplier quote (header only; items are separate rows).
type Quote struct {
	ID           uuid.UUID `json:"id"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	QuoteNumber  string    `json:"quote_number"`
	QuoteDate    time.Time `json:"quote_date"`
	SourcePath   string    `json:"source_path"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// QuoteItem is a persisted line item belonging to a quote.
type QuoteItem struct {
	ID            uuid.UUID `json:"id"`
	QuoteID       uuid.UUID `json:"quote_id"`
	ItemNumber    *string   `json:"item_number,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Quantity      *float64  `json:"quantity,omitempty"`
	UnitPrice     *float64  `json:"unit_price,omitempty"`
	UnitOfMeasure string    `json:"unit_of_measure"`
	CreatedAt     time.Time `json:"created_at"`
}
