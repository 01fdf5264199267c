package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/trafficwarden/trafficwarden/internal/api/models"
	"github.com/trafficwarden/trafficwarden/internal/api/response"
	"github.com/trafficwarden/trafficwarden/internal/controller"
	"github.com/trafficwarden/trafficwarden/internal/traffic"
)

// TrafficHandler handles traffic routing and auto-scaling endpoints.
type TrafficHandler struct {
	engine *controller.Engine
}

// NewTrafficHandler creates a new TrafficHandler.
func NewTrafficHandler(engine *controller.Engine) *TrafficHandler {
	return &TrafficHandler{engine: engine}
}

// CreateTrafficRule handles POST /v1/traffic-rules - create a weighted
// routing rule.
func (h *TrafficHandler) CreateTrafficRule(w http.ResponseWriter, r *http.Request) {
	var input models.TrafficRuleCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation failed", errs)
		return
	}

	weight := traffic.DefaultWeight
	if input.Weight != nil {
		weight = *input.Weight
	}

	rule := h.engine.AddTrafficRule(input.Source, input.Target, weight, input.Condition)

	location := fmt.Sprintf("/v1/traffic-rules/%d", rule.ID)
	response.Created(w, r, location, models.TrafficRule{
		RuleID:    rule.ID,
		Source:    rule.SourcePattern,
		Target:    rule.Target,
		Weight:    rule.Weight,
		Condition: rule.Condition,
		CreatedAt: models.Timestamp(rule.CreatedAt),
	})
}

// CreateAutoScaleRule handles POST /v1/autoscale-rules - create a scaling
// trigger.
func (h *TrafficHandler) CreateAutoScaleRule(w http.ResponseWriter, r *http.Request) {
	var input models.AutoScaleRuleCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "validation failed", errs)
		return
	}

	var cooldown time.Duration
	if input.CooldownSeconds != nil {
		cooldown = time.Duration(*input.CooldownSeconds) * time.Second
	}

	rule, err := h.engine.AddAutoScaleRule(input.Metric, input.Threshold, input.Action, cooldown)
	if err != nil {
		switch {
		case errors.Is(err, traffic.ErrUnknownMetric):
			response.BadRequest(w, r, err.Error(), []models.FieldError{
				{Field: "metric", Message: "must be one of cpu, memory, disk, network", Code: "OUT_OF_RANGE"},
			})
		case errors.Is(err, traffic.ErrUnknownAction):
			response.BadRequest(w, r, err.Error(), []models.FieldError{
				{Field: "action", Message: "must be scale_up or scale_down", Code: "OUT_OF_RANGE"},
			})
		default:
			response.InternalError(w, r, "failed to create auto-scale rule")
		}
		return
	}

	location := fmt.Sprintf("/v1/autoscale-rules/%d", rule.ID)
	response.Created(w, r, location, models.AutoScaleRule{
		RuleID:          rule.ID,
		Metric:          string(rule.Metric),
		Threshold:       rule.Threshold,
		Action:          string(rule.Action),
		CooldownSeconds: int(rule.Cooldown / time.Second),
		CreatedAt:       models.Timestamp(rule.CreatedAt),
	})
}
