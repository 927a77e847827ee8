package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/homelab/utils"
)

// StatsController serves the reporting views of the about page.
type StatsController struct {
	ledger   EntryLedger
	reporter Reporter
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(ledger EntryLedger, reporter Reporter) *StatsController {
	return &StatsController{ledger: ledger, reporter: reporter}
}

// Tracked acknowledges a visit counted by the tracking middleware.
func (s *StatsController) Tracked(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"status": "tracked"})
}

// GetEntries returns the full entry history including each item's rate.
func (s *StatsController) GetEntries(ctx *gin.Context) {
	entries, err := s.ledger.ListEntries(ctx.Request.Context())
	if err != nil {
		storeError(ctx, err, "", 50010, "failed to list entries")
		return
	}
	utils.Success(ctx, gin.H{"entries": entries})
}

// GetStats returns overall totals and the per-petition rollup. Both are
// recomputed on every call and ignore draft entries.
func (s *StatsController) GetStats(ctx *gin.Context) {
	totals, err := s.reporter.Totals(ctx.Request.Context())
	if err != nil {
		storeError(ctx, err, "", 50011, "failed to compute totals")
		return
	}

	byPetition, err := s.reporter.StatsByItem(ctx.Request.Context())
	if err != nil {
		storeError(ctx, err, "", 50012, "failed to compute petition stats")
		return
	}

	utils.Success(ctx, gin.H{
		"totals":      totals,
		"by_petition": byPetition,
	})
}
