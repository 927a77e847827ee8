package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/homelab/models"
)

const entryViewColumns = `e.id, e.date, e.item_id, i.name AS item_name, e.books, e.signatures, e.is_draft,
	i.price_per_sig`

func (p *Petitions) entryViews(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx).
		Table("entries AS e").
		Select(entryViewColumns).
		Joins("JOIN items i ON e.item_id = i.id")
}

// scanEntryViews runs q and fills in earnings from the joined price.
func scanEntryViews(q *gorm.DB) ([]models.EntryView, error) {
	rows := []models.EntryView{}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Earnings = models.Earnings(rows[i].PricePerSig, int64(rows[i].Signatures))
	}
	return rows, nil
}

// ListEntriesOn returns the entries logged on date in catalog order:
// highest rate first, then item id.
func (p *Petitions) ListEntriesOn(ctx context.Context, date models.Date) ([]models.EntryView, error) {
	rows, err := scanEntryViews(p.entryViews(ctx).
		Where("e.date = ?", date).
		Order("i.price_per_sig DESC").Order("e.item_id"))
	if err != nil {
		return nil, fmt.Errorf("list entries for %s: %w", date, err)
	}
	return rows, nil
}

// ListEntriesForDate returns the entries logged on date keyed by item id.
func (p *Petitions) ListEntriesForDate(ctx context.Context, date models.Date) (map[uint]models.EntryView, error) {
	rows, err := p.ListEntriesOn(ctx, date)
	if err != nil {
		return nil, err
	}
	byItem := make(map[uint]models.EntryView, len(rows))
	for _, row := range rows {
		byItem[row.ItemID] = row
	}
	return byItem, nil
}

// ListEntries returns the full history, newest date first, then newest id.
func (p *Petitions) ListEntries(ctx context.Context) ([]models.EntryView, error) {
	rows, err := scanEntryViews(p.entryViews(ctx).Order("e.date DESC").Order("e.id DESC"))
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return rows, nil
}

// CreateEntry inserts a new entry and returns its id. The referenced item must
// exist and the (date, item) pair must not be logged yet.
func (p *Petitions) CreateEntry(ctx context.Context, entry *models.Entry) (uint, error) {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.Select("id").First(&item, entry.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Entry{}).
			Where("date = ? AND item_id = ?", entry.Date, entry.ItemID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateEntry
		}

		return tx.Create(entry).Error
	})
	switch {
	case err == nil:
		return entry.ID, nil
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrDuplicateEntry):
		return 0, err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// Lost a race with a concurrent insert of the same pair.
		return 0, ErrDuplicateEntry
	default:
		return 0, fmt.Errorf("create entry: %w", err)
	}
}

// UpdateEntry overwrites the counts and draft flag of an entry.
func (p *Petitions) UpdateEntry(ctx context.Context, id uint, books, signatures int, isDraft bool) error {
	return p.updateEntry(ctx, id, map[string]interface{}{
		"books":      books,
		"signatures": signatures,
		"is_draft":   isDraft,
	})
}

// UpdateEntryCounts overwrites the counts of an entry and keeps its draft flag.
func (p *Petitions) UpdateEntryCounts(ctx context.Context, id uint, books, signatures int) error {
	return p.updateEntry(ctx, id, map[string]interface{}{
		"books":      books,
		"signatures": signatures,
	})
}

func (p *Petitions) updateEntry(ctx context.Context, id uint, fields map[string]interface{}) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.Entry
		if err := tx.Select("id").First(&entry, id).Error; err != nil {
			return err
		}
		return tx.Model(&entry).Updates(fields).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update entry %d: %w", id, err)
	}
	return nil
}

// ToggleEntryDraft flips the draft flag and returns the new value.
func (p *Petitions) ToggleEntryDraft(ctx context.Context, id uint) (bool, error) {
	var isDraft bool
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.Entry
		if err := tx.Select("id", "is_draft").First(&entry, id).Error; err != nil {
			return err
		}
		isDraft = !entry.IsDraft
		return tx.Model(&entry).Update("is_draft", isDraft).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("toggle draft %d: %w", id, err)
	}
	return isDraft, nil
}

// DeleteEntry removes an entry.
func (p *Petitions) DeleteEntry(ctx context.Context, id uint) error {
	res := p.db.WithContext(ctx).Delete(&models.Entry{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete entry %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
