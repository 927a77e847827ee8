package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is a petition type with its per-signature rate.
// Items are seeded out-of-band and only ever toggled active/inactive; inactive
// items stay referenced by historical entries.
type Item struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:64;not null;uniqueIndex" json:"name"`
	PricePerSig decimal.Decimal `gorm:"type:decimal(10,2);not null;index" json:"price_per_sig"`
	// SigsPerBook only pre-fills the suggested signature count.
	SigsPerBook int       `gorm:"not null" json:"sigs_per_book"`
	Active      bool      `gorm:"not null;index" json:"active"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// ExpectedSignatures suggests a signature count for the given number of books.
func (i Item) ExpectedSignatures(books int) int {
	return books * i.SigsPerBook
}
