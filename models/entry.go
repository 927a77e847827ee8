package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one day's activity against one item. A (date, item) pair is logged at most once.
type Entry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Date       Date      `gorm:"type:date;not null;uniqueIndex:idx_entries_date_item,priority:1" json:"date"`
	ItemID     uint      `gorm:"not null;index;uniqueIndex:idx_entries_date_item,priority:2" json:"item_id"`
	Books      int       `gorm:"not null" json:"books"`
	Signatures int       `gorm:"not null" json:"signatures"`
	IsDraft    bool      `gorm:"not null;index" json:"is_draft"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// EntryView is an entry joined with its item. Earnings are derived from the
// item's current price at read time and never persisted.
type EntryView struct {
	ID          uint            `json:"id"`
	Date        Date            `json:"date"`
	ItemID      uint            `json:"item_id"`
	ItemName    string          `json:"item_name"`
	Books       int             `json:"books"`
	Signatures  int             `json:"signatures"`
	IsDraft     bool            `json:"is_draft"`
	PricePerSig decimal.Decimal `json:"price_per_sig"`
	Earnings    decimal.Decimal `json:"earnings"`
}

// Totals aggregates every non-draft entry.
type Totals struct {
	TotalEntries  int64           `json:"total_entries"`
	TotalSigs     int64           `json:"total_sigs"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
}

// ItemStats aggregates the non-draft entries of one item.
type ItemStats struct {
	Name          string          `json:"name"`
	EntryCount    int64           `json:"entry_count"`
	TotalSigs     int64           `json:"total_sigs"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
}

// Earnings is signatures times the per-signature rate.
func Earnings(pricePerSig decimal.Decimal, signatures int64) decimal.Decimal {
	return pricePerSig.Mul(decimal.NewFromInt(signatures))
}
