// Package handler provides HTTP handlers for the TrafficWarden API.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/trafficwarden/trafficwarden/internal/api/models"
	"github.com/trafficwarden/trafficwarden/internal/api/response"
	"github.com/trafficwarden/trafficwarden/internal/controller"
	"github.com/trafficwarden/trafficwarden/internal/monitor"
)

// EndpointHandler handles endpoint monitoring endpoints.
type EndpointHandler struct {
	engine *controller.Engine
}

// NewEndpointHandler creates a new EndpointHandler.
func NewEndpointHandler(engine *controller.Engine) *EndpointHandler {
	return &EndpointHandler{engine: engine}
}

// Create handles POST /v1/endpoints - register an endpoint for monitoring.
func (h *EndpointHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.EndpointCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation failed", errs)
		return
	}

	cfg := monitor.CheckConfig{}
	if input.IntervalSeconds != nil {
		cfg.PollInterval = time.Duration(*input.IntervalSeconds) * time.Second
	}
	if input.ExpectedStatus != nil {
		cfg.ExpectedStatus = *input.ExpectedStatus
	}
	if input.TimeoutSeconds != nil {
		cfg.Timeout = time.Duration(*input.TimeoutSeconds) * time.Second
	}
	if input.FailureThreshold != nil {
		cfg.FailureThreshold = *input.FailureThreshold
	}

	reg, err := h.engine.RegisterEndpoint(input.URL, cfg)
	if err != nil {
		if errors.Is(err, monitor.ErrInvalidEndpoint) {
			response.BadRequest(w, r, "invalid endpoint URL", []models.FieldError{
				{Field: "url", Message: "is not a valid endpoint", Code: "OUT_OF_RANGE"},
			})
			return
		}
		response.InternalError(w, r, "failed to register endpoint")
		return
	}

	location := "/v1/endpoints/" + url.PathEscape(reg.Endpoint)
	response.Created(w, r, location, registrationModel(reg))
}

// List handles GET /v1/endpoints - list every monitored endpoint.
func (h *EndpointHandler) List(w http.ResponseWriter, r *http.Request) {
	report := h.engine.GetStatus("")

	summaries := endpointSummaryModels(report.System.Endpoints)
	resp := models.EndpointsResponse{
		Endpoints:   summaries,
		Total:       len(summaries),
		GeneratedAt: models.Timestamp(report.GeneratedAt),
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// Delete handles DELETE /v1/endpoints/{endpoint} - stop monitoring an endpoint.
// The path parameter is the URL-escaped endpoint identity.
func (h *EndpointHandler) Delete(w http.ResponseWriter, r *http.Request) {
	endpoint, err := url.PathUnescape(chi.URLParam(r, "endpoint"))
	if err != nil || endpoint == "" {
		response.BadRequest(w, r, "endpoint is required", nil)
		return
	}

	if err := h.engine.RemoveEndpoint(endpoint); err != nil {
		switch {
		case errors.Is(err, monitor.ErrEndpointNotFound):
			response.NotFound(w, r, fmt.Sprintf("no monitor registered for %q", endpoint))
		case errors.Is(err, monitor.ErrInvalidEndpoint):
			response.BadRequest(w, r, "invalid endpoint URL", nil)
		default:
			response.InternalError(w, r, "failed to remove endpoint")
		}
		return
	}

	response.NoContent(w, r)
}

func registrationModel(reg controller.Registration) models.Registration {
	return models.Registration{
		Endpoint:         reg.Endpoint,
		IntervalSeconds:  int(reg.Config.PollInterval / time.Second),
		ExpectedStatus:   reg.Config.ExpectedStatus,
		TimeoutSeconds:   int(reg.Config.Timeout / time.Second),
		FailureThreshold: reg.Config.FailureThreshold,
		MonitoringActive: reg.MonitoringActive,
	}
}
