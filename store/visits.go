package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/homelab/models"
)

// Visits is the data-access handle over the page_visits table.
type Visits struct {
	db  *gorm.DB
	now func() time.Time
}

// NewVisits wraps an open homelab database handle.
func NewVisits(db *gorm.DB) *Visits {
	return &Visits{db: db, now: time.Now}
}

// EnsurePages inserts a zero counter for each page that has no row yet.
func (v *Visits) EnsurePages(ctx context.Context, pages ...string) error {
	for _, page := range pages {
		err := v.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.PageVisit{PageName: page}).Error
		if err != nil {
			return fmt.Errorf("ensure page %q: %w", page, err)
		}
	}
	return nil
}

// Track increments the counter of a known page. Unknown pages are not
// inserted; ErrNotFound reports that nothing was counted.
func (v *Visits) Track(ctx context.Context, page string) error {
	res := v.db.WithContext(ctx).
		Model(&models.PageVisit{}).
		Where("page_name = ?", page).
		Updates(map[string]interface{}{
			"visit_count": gorm.Expr("visit_count + 1"),
			"last_visit":  v.now(),
		})
	if res.Error != nil {
		return fmt.Errorf("track %q: %w", page, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every tracked page.
func (v *Visits) ListAll(ctx context.Context) ([]models.PageVisit, error) {
	pages := []models.PageVisit{}
	if err := v.db.WithContext(ctx).Order("page_name").Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("list page visits: %w", err)
	}
	return pages, nil
}
