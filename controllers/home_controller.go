package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/homelab/utils"
)

// HomeController reports the page visit counters.
type HomeController struct {
	pages PageLister
}

// NewHomeController creates a new HomeController instance.
func NewHomeController(pages PageLister) *HomeController {
	return &HomeController{pages: pages}
}

// GetHomeStats returns every page with its visit count.
func (h *HomeController) GetHomeStats(ctx *gin.Context) {
	pages, err := h.pages.ListAll(ctx.Request.Context())
	if err != nil {
		storeError(ctx, err, "", 50020, "failed to list page visits")
		return
	}
	utils.Success(ctx, gin.H{"pages": pages})
}
