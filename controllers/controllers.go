package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/homelab/models"
	"github.com/cppla/homelab/store"
	"github.com/cppla/homelab/utils"
)

// ItemRegistry is the catalog of petition types.
type ItemRegistry interface {
	ListActiveItems(ctx context.Context) ([]models.Item, error)
	ListAllItems(ctx context.Context) ([]models.Item, error)
	ToggleItemActive(ctx context.Context, id uint) (bool, error)
}

// EntryLedger records daily activity per item.
type EntryLedger interface {
	ListEntriesOn(ctx context.Context, date models.Date) ([]models.EntryView, error)
	ListEntries(ctx context.Context) ([]models.EntryView, error)
	CreateEntry(ctx context.Context, entry *models.Entry) (uint, error)
	UpdateEntry(ctx context.Context, id uint, books, signatures int, isDraft bool) error
	ToggleEntryDraft(ctx context.Context, id uint) (bool, error)
	DeleteEntry(ctx context.Context, id uint) error
}

// Reporter computes aggregates over non-draft entries.
type Reporter interface {
	Totals(ctx context.Context) (models.Totals, error)
	StatsByItem(ctx context.Context) ([]models.ItemStats, error)
}

// PageLister lists visit counters.
type PageLister interface {
	ListAll(ctx context.Context) ([]models.PageVisit, error)
}

// parseID reads a positive numeric path parameter.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// storeError maps a data-access error onto the response envelope.
func storeError(ctx *gin.Context, err error, notFoundMsg string, failCode int, failMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, notFoundMsg)
	case errors.Is(err, store.ErrItemNotFound):
		utils.Error(ctx, http.StatusNotFound, 40402, "item not found")
	case errors.Is(err, store.ErrDuplicateEntry):
		utils.Error(ctx, http.StatusConflict, 40901, err.Error())
	default:
		utils.Sugar.Errorw(failMsg, "error", err, "path", ctx.FullPath(), "request_id", ctx.GetString(utils.RequestIDKey))
		utils.Error(ctx, http.StatusInternalServerError, failCode, failMsg)
	}
}
