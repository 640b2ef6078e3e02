package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const statusUpdated = "updated"

// @Summary      Get sensor snapshot
// @Description  Current dwell-time value in hours plus the resolved window attributes
// @Tags         sensor
// @Produce      json
// @Success      200  {object}  models.SensorSnapshot
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/sensor [get]
// @Security     BearerAuth
func (h *Handler) getSensor(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.HistoryStats.Snapshot())
}

// @Summary      Force an update cycle
// @Description  Resolves the window and recomputes the value outside the poll schedule
// @Tags         sensor
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, sensor"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/sensor/update [post]
// @Security     BearerAuth
func (h *Handler) triggerUpdate(c *gin.Context) {
	h.services.HistoryStats.Update(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status": statusUpdated,
		"sensor": h.services.HistoryStats.Snapshot(),
	})
}
