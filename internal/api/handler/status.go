package handler

import (
	"net/http"
	"time"

	"github.com/trafficwarden/trafficwarden/internal/api/models"
	"github.com/trafficwarden/trafficwarden/internal/api/response"
	"github.com/trafficwarden/trafficwarden/internal/controller"
)

// StatusHandler handles status and recommendation endpoints.
type StatusHandler struct {
	engine *controller.Engine
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(engine *controller.Engine) *StatusHandler {
	return &StatusHandler{engine: engine}
}

// GetStatus handles GET /v1/status - system or per-endpoint status. The
// optional target query parameter selects endpoints by case-insensitive
// substring match; without it the system summary is returned.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("target")
	report := h.engine.GetStatus(target)
	response.JSON(w, r, http.StatusOK, statusModel(report))
}

// GetRecommendations handles GET /v1/recommendations - advisory findings
// derived from the current system state.
func (h *StatusHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	resp := models.RecommendationsResponse{
		Recommendations: h.engine.GetRecommendations(),
		GeneratedAt:     models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, resp)
}

func statusModel(report controller.StatusReport) models.StatusResponse {
	resp := models.StatusResponse{
		GeneratedAt: models.Timestamp(report.GeneratedAt),
		Target:      report.Target,
	}
	if report.Target != "" {
		found := report.Found
		resp.Found = &found
		resp.Matches = endpointDetailModels(report.Matches)
	}
	if report.System != nil {
		resp.System = systemStatusModel(report.System)
	}
	return resp
}

func systemStatusModel(s *controller.SystemStatus) *models.SystemStatus {
	return &models.SystemStatus{
		OverallStatus:      string(s.OverallStatus),
		TotalEndpoints:     s.TotalEndpoints,
		HealthyEndpoints:   s.HealthyEndpoints,
		UnhealthyEndpoints: s.UnhealthyEndpoints,
		MonitoringActive:   s.MonitoringActive,
		AvgResponseTimeMS:  s.AvgResponseTimeMS,
		TrafficRules:       s.TrafficRules,
		AutoScaleRules:     s.AutoScaleRules,
		RecentAlerts:       s.RecentAlerts,
		Metrics: models.EngineMetrics{
			TotalRequests:       s.Metrics.TotalRequests,
			SuccessfulProbes:    s.Metrics.SuccessfulProbes,
			FailedProbes:        s.Metrics.FailedProbes,
			TrafficRulesCreated: s.Metrics.TrafficRulesCreated,
			AutoScaleTriggers:   s.Metrics.AutoScaleTriggers,
		},
		Endpoints: endpointSummaryModels(s.Endpoints),
	}
}

func endpointSummaryModels(endpoints []controller.EndpointSummary) []models.EndpointSummary {
	out := make([]models.EndpointSummary, 0, len(endpoints))
	for _, ep := range endpoints {
		out = append(out, models.EndpointSummary{
			URL:            ep.URL,
			State:          string(ep.State),
			Uptime:         ep.Uptime,
			ResponseTimeMS: ep.ResponseTimeMS,
		})
	}
	return out
}

func endpointDetailModels(details []controller.EndpointDetail) []models.EndpointDetail {
	out := make([]models.EndpointDetail, 0, len(details))
	for _, d := range details {
		out = append(out, models.EndpointDetail{
			URL:                 d.URL,
			State:               string(d.State),
			Uptime:              d.Uptime,
			ConsecutiveFailures: d.ConsecutiveFailures,
			SuccessCount:        d.SuccessCount,
			FailureCount:        d.FailureCount,
			LastCheckAt:         models.TimestampPtr(d.LastProbeAt),
			ResponseTimeMS:      d.LastResponseTimeMS,
			LastError:           d.LastError,
		})
	}
	return out
}
