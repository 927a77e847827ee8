package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cppla/homelab/models"
)

// itemRollup is the per-item aggregate as read from SQL. Earnings are not
// summed by the database; price is constant per item, so price * total_sigs is
// exact in decimal arithmetic on every engine.
type itemRollup struct {
	Name        string
	PricePerSig decimal.Decimal
	EntryCount  int64
	TotalSigs   int64
}

func (p *Petitions) rollup(ctx context.Context) ([]models.ItemStats, error) {
	var rows []itemRollup
	err := p.db.WithContext(ctx).
		Table("entries AS e").
		Select(`i.name AS name,
			i.price_per_sig AS price_per_sig,
			COUNT(*) AS entry_count,
			COALESCE(SUM(e.signatures), 0) AS total_sigs`).
		Joins("JOIN items i ON e.item_id = i.id").
		Where("e.is_draft = ?", false).
		Group("i.id, i.name, i.price_per_sig").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]models.ItemStats, 0, len(rows))
	for _, r := range rows {
		stats = append(stats, models.ItemStats{
			Name:          r.Name,
			EntryCount:    r.EntryCount,
			TotalSigs:     r.TotalSigs,
			TotalEarnings: models.Earnings(r.PricePerSig, r.TotalSigs),
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		if c := stats[i].TotalEarnings.Cmp(stats[j].TotalEarnings); c != 0 {
			return c > 0
		}
		return stats[i].Name < stats[j].Name
	})
	return stats, nil
}

// Totals aggregates every non-draft entry. Earnings use the current item prices.
func (p *Petitions) Totals(ctx context.Context) (models.Totals, error) {
	totals := models.Totals{TotalEarnings: decimal.Zero}
	byItem, err := p.rollup(ctx)
	if err != nil {
		return totals, fmt.Errorf("entry totals: %w", err)
	}
	for _, s := range byItem {
		totals.TotalEntries += s.EntryCount
		totals.TotalSigs += s.TotalSigs
		totals.TotalEarnings = totals.TotalEarnings.Add(s.TotalEarnings)
	}
	return totals, nil
}

// StatsByItem rolls up non-draft entries per item, highest earnings first.
// Items without any non-draft entry are omitted.
func (p *Petitions) StatsByItem(ctx context.Context) ([]models.ItemStats, error) {
	stats, err := p.rollup(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats by item: %w", err)
	}
	return stats, nil
}
