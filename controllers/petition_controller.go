package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/homelab/models"
	"github.com/cppla/homelab/store"
	"github.com/cppla/homelab/utils"
)

// PetitionController serves the item catalog and the entries ledger.
type PetitionController struct {
	items  ItemRegistry
	ledger EntryLedger
	cache  *utils.Cache
}

// NewPetitionController creates a new PetitionController instance.
func NewPetitionController(items ItemRegistry, ledger EntryLedger, cache *utils.Cache) *PetitionController {
	return &PetitionController{items: items, ledger: ledger, cache: cache}
}

type entryCreateRequest struct {
	Date       *models.Date `json:"date" binding:"required"`
	ItemID     uint         `json:"item_id" binding:"required"`
	Books      int          `json:"books" binding:"min=0"`
	Signatures int          `json:"signatures" binding:"min=0"`
	IsDraft    bool         `json:"is_draft"`
}

// An entry never changes day or item; date and item_id in the body are ignored.
type entryUpdateRequest struct {
	Books      int  `json:"books" binding:"min=0"`
	Signatures int  `json:"signatures" binding:"min=0"`
	IsDraft    bool `json:"is_draft"`
}

// Tracked acknowledges a visit counted by the tracking middleware.
func (p *PetitionController) Tracked(ctx *gin.Context) {
	utils.Success(ctx, gin.H{"status": "tracked"})
}

// ListActiveItems returns the active petition types, highest rate first.
func (p *PetitionController) ListActiveItems(ctx *gin.Context) {
	p.listItems(ctx, store.ActiveItemsCacheKey, p.items.ListActiveItems)
}

// ListAllItems returns every petition type including inactive ones.
func (p *PetitionController) ListAllItems(ctx *gin.Context) {
	p.listItems(ctx, store.AllItemsCacheKey, p.items.ListAllItems)
}

func (p *PetitionController) listItems(ctx *gin.Context, cacheKey string, list func(context.Context) ([]models.Item, error)) {
	if b, ok := p.cache.GetBytes(ctx.Request.Context(), cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json; charset=utf-8", b)
		return
	}

	items, err := list(ctx.Request.Context())
	if err != nil {
		storeError(ctx, err, "", 50001, "failed to list items")
		return
	}

	payload := gin.H{"items": items}
	p.cache.SetJSON(ctx.Request.Context(), cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload})
	utils.Success(ctx, payload)
}

// ToggleItem flips the active flag of an item.
func (p *PetitionController) ToggleItem(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	active, err := p.items.ToggleItemActive(ctx.Request.Context(), id)
	if err != nil {
		storeError(ctx, err, "item not found", 50002, "failed to toggle item")
		return
	}

	utils.Success(ctx, gin.H{"id": id, "active": active})
}

// ListEntries returns the entry history with computed earnings. With a
// ?date=YYYY-MM-DD query only that day's entries are returned.
func (p *PetitionController) ListEntries(ctx *gin.Context) {
	if raw := ctx.Query("date"); raw != "" {
		date, err := models.ParseDate(raw)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40002, err.Error())
			return
		}
		entries, err := p.ledger.ListEntriesOn(ctx.Request.Context(), date)
		if err != nil {
			storeError(ctx, err, "", 50003, "failed to list entries")
			return
		}
		utils.Success(ctx, gin.H{"date": date, "entries": entries})
		return
	}

	entries, err := p.ledger.ListEntries(ctx.Request.Context())
	if err != nil {
		storeError(ctx, err, "", 50003, "failed to list entries")
		return
	}
	utils.Success(ctx, gin.H{"entries": entries})
}

// CreateEntry logs a new entry; a second entry for the same day and item is rejected.
func (p *PetitionController) CreateEntry(ctx *gin.Context) {
	var req entryCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	entry := models.Entry{
		Date:       *req.Date,
		ItemID:     req.ItemID,
		Books:      req.Books,
		Signatures: req.Signatures,
		IsDraft:    req.IsDraft,
	}
	id, err := p.ledger.CreateEntry(ctx.Request.Context(), &entry)
	if err != nil {
		storeError(ctx, err, "", 50004, "failed to create entry")
		return
	}

	utils.Sugar.Infow("entry created", "id", id, "date", entry.Date.String(), "item_id", entry.ItemID, "draft", entry.IsDraft)
	utils.SuccessMessage(ctx, "entry created", gin.H{"id": id})
}

// UpdateEntry overwrites books, signatures and the draft flag of an entry.
func (p *PetitionController) UpdateEntry(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req entryUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	if err := p.ledger.UpdateEntry(ctx.Request.Context(), id, req.Books, req.Signatures, req.IsDraft); err != nil {
		storeError(ctx, err, "entry not found", 50005, "failed to update entry")
		return
	}
	utils.SuccessMessage(ctx, "entry updated", gin.H{"id": id})
}

// ToggleDraft flips the draft flag of an entry.
func (p *PetitionController) ToggleDraft(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	isDraft, err := p.ledger.ToggleEntryDraft(ctx.Request.Context(), id)
	if err != nil {
		storeError(ctx, err, "entry not found", 50006, "failed to toggle draft")
		return
	}
	utils.Success(ctx, gin.H{"id": id, "is_draft": isDraft})
}

// DeleteEntry removes an entry.
func (p *PetitionController) DeleteEntry(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	if err := p.ledger.DeleteEntry(ctx.Request.Context(), id); err != nil {
		storeError(ctx, err, "entry not found", 50007, "failed to delete entry")
		return
	}
	utils.SuccessMessage(ctx, "entry deleted", gin.H{"id": id})
}
