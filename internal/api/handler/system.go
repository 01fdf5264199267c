package handler

import (
	"net/http"

	"github.com/trafficwarden/trafficwarden/internal/api/models"
	"github.com/trafficwarden/trafficwarden/internal/api/response"
	"github.com/trafficwarden/trafficwarden/internal/controller"
)

// SystemHandler handles the destructive system endpoints.
type SystemHandler struct {
	engine *controller.Engine
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(engine *controller.Engine) *SystemHandler {
	return &SystemHandler{engine: engine}
}

// Clear handles DELETE /v1/system - remove every endpoint, rule, and alert.
// The route sits behind operator authentication when it is enabled.
func (h *SystemHandler) Clear(w http.ResponseWriter, r *http.Request) {
	result := h.engine.ClearAll()

	response.JSON(w, r, http.StatusOK, models.ClearResponse{
		Message:               "All configurations cleared and system reset",
		EndpointsRemoved:      result.EndpointsRemoved,
		TrafficRulesRemoved:   result.TrafficRulesRemoved,
		AutoScaleRulesRemoved: result.AutoScaleRulesRemoved,
		AlertsRemoved:         result.AlertsRemoved,
	})
}
