package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/trafficwarden/trafficwarden/internal/alert"
	"github.com/trafficwarden/trafficwarden/internal/api/models"
	"github.com/trafficwarden/trafficwarden/internal/api/response"
	"github.com/trafficwarden/trafficwarden/internal/controller"
)

// AlertHandler handles alert endpoints.
type AlertHandler struct {
	engine *controller.Engine
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(engine *controller.Engine) *AlertHandler {
	return &AlertHandler{engine: engine}
}

// ListAlerts handles GET /v1/alerts - the most recent alerts, oldest first.
// The optional limit query parameter caps the count; it defaults to 10.
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, r, "limit must be an integer", nil)
			return
		}
		limit = n
	}

	alerts := h.engine.GetAlerts(limit)
	resp := models.AlertsResponse{
		Alerts:      alertModels(alerts),
		Total:       len(alerts),
		GeneratedAt: models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, resp)
}

func alertModels(alerts []alert.Alert) []models.Alert {
	out := make([]models.Alert, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, models.Alert{
			ID:                  a.ID,
			Timestamp:           models.Timestamp(a.Timestamp),
			Endpoint:            a.Endpoint,
			State:               string(a.State),
			ConsecutiveFailures: a.ConsecutiveFailures,
			LastError:           a.LastError,
			FailoverSucceeded:   a.FailoverSucceeded,
		})
	}
	return out
}
