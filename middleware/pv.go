package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cppla/homelab/store"
	"github.com/cppla/homelab/utils"
)

// VisitCounter increments per-page visit counters.
type VisitCounter interface {
	Track(ctx context.Context, page string) error
}

// TrackVisit counts a visit to page before the handler runs, so handlers that
// report counters already see this request. Counting never fails the request.
func TrackVisit(counter VisitCounter, page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" {
			err := counter.Track(c.Request.Context(), page)
			switch {
			case errors.Is(err, store.ErrNotFound):
				utils.Sugar.Debugf("visit not counted, unknown page=%s", page)
			case err != nil:
				utils.Sugar.Warnf("visit tracking failed page=%s err=%v", page, err)
			}
		}
		c.Next()
	}
}
