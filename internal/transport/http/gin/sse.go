package httpgin

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/hemolink/internal/domain"
	"github.com/kirinyoku/hemolink/internal/service"
)

// handleInventoryStream streams inventory updates for a venue over SSE.
// The subscription is torn down when the client disconnects; Cancel is
// idempotent, so the deferred call is safe on every exit path.
//
// @Summary  Stream inventory updates (SSE)
// @Param    id  path  string  true  "Venue ID (uuid)"
// @Produce  text/event-stream
// @Success  200 {object} InventoryResponse
// @Failure  404 {object} ErrorResponse
// @Router   /venues/{id}/inventory/stream [get]
func handleInventoryStream(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}

		snapshot, sub, err := svcs.Inventory.Subscribe(c.Request.Context(), venueID)
		if err != nil {
			respondErr(c, err)
			return
		}
		defer sub.Cancel()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Writer.WriteHeader(http.StatusOK)

		c.SSEvent("inventory", inventoryDTO(snapshot))
		c.Writer.Flush()

		clientGone := c.Request.Context().Done()

		c.Stream(func(w io.Writer) bool {
			select {
			case <-clientGone:
				return false
			case rec, open := <-sub.Updates():
				if !open {
					return false
				}
				c.SSEvent("inventory", inventoryDTO(rec))
				return true
			}
		})
	}
}

func inventoryDTO(rec *domain.InventoryRecord) InventoryResponse {
	levels := make(map[domain.BloodType]domain.StockLevel, len(rec.Stock))
	for bt, count := range rec.Stock {
		levels[bt] = domain.LevelForCount(count)
	}

	return InventoryResponse{
		VenueID:     rec.VenueID.String(),
		Stock:       rec.Stock,
		Levels:      levels,
		LastUpdated: rec.LastUpdated.Format("2006-01-02T15:04:05Z07:00"),
	}
}
