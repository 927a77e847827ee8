package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/homelab/models"
)

// Cache keys for the item lists. Every item write drops all keys under
// ItemsCachePrefix.
const (
	ItemsCachePrefix    = "cache:items:"
	ActiveItemsCacheKey = ItemsCachePrefix + "active"
	AllItemsCacheKey    = ItemsCachePrefix + "all"
)

// Invalidator drops cached keys by prefix.
type Invalidator interface {
	InvalidateByPrefix(ctx context.Context, prefix string)
}

// Petitions is the data-access handle over the petitions schema:
// the item registry, the entries ledger and the reports derived from it.
type Petitions struct {
	db        *gorm.DB
	itemCache Invalidator
}

// NewPetitions wraps an open petitions database handle.
func NewPetitions(db *gorm.DB) *Petitions {
	return &Petitions{db: db}
}

// WithItemCache makes item writes invalidate the cached item lists, whichever
// entry point (HTTP or CLI) made them.
func (p *Petitions) WithItemCache(c Invalidator) *Petitions {
	p.itemCache = c
	return p
}

func (p *Petitions) itemsChanged(ctx context.Context) {
	if p.itemCache != nil {
		p.itemCache.InvalidateByPrefix(ctx, ItemsCachePrefix)
	}
}

// ListActiveItems returns active items, highest rate first.
func (p *Petitions) ListActiveItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := p.db.WithContext(ctx).
		Where("active = ?", true).
		Order("price_per_sig DESC").Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	return items, nil
}

// ListAllItems returns every item regardless of status, highest rate first.
func (p *Petitions) ListAllItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := p.db.WithContext(ctx).
		Order("price_per_sig DESC").Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// GetItem loads a single item.
func (p *Petitions) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := p.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return &item, nil
}

// ToggleItemActive flips the active flag and returns the new value.
func (p *Petitions) ToggleItemActive(ctx context.Context, id uint) (bool, error) {
	var active bool
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.First(&item, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&item).Update("active", gorm.Expr("NOT active")).Error; err != nil {
			return err
		}
		var updated models.Item
		if err := tx.Select("active").First(&updated, id).Error; err != nil {
			return err
		}
		active = updated.Active
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("toggle item %d: %w", id, err)
	}
	p.itemsChanged(ctx)
	return active, nil
}

// UpsertItem inserts the item or, when an item with the same name exists,
// overwrites its rate, signatures-per-book and active flag.
func (p *Petitions) UpsertItem(ctx context.Context, item *models.Item) error {
	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"price_per_sig", "sigs_per_book", "active", "updated_at"}),
	}).Create(item).Error
	if err != nil {
		return fmt.Errorf("upsert item %q: %w", item.Name, err)
	}
	p.itemsChanged(ctx)
	return nil
}
