package models

import "strings"

// TrafficRuleCreateRequest creates a weighted routing rule. A nil weight
// defaults to 100. Weights outside [0,100] are clamped, never rejected.
type TrafficRuleCreateRequest struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Weight    *int   `json:"weight,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// Validate checks the request and returns one FieldError per violation.
func (r TrafficRuleCreateRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Source) == "" {
		errs = append(errs, FieldError{Field: "source", Message: "is required", Code: "REQUIRED"})
	}
	if strings.TrimSpace(r.Target) == "" {
		errs = append(errs, FieldError{Field: "target", Message: "is required", Code: "REQUIRED"})
	}
	return errs
}

// TrafficRule is the API view of a stored routing rule.
type TrafficRule struct {
	RuleID    int       `json:"rule_id"`
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	Weight    int       `json:"weight"`
	Condition string    `json:"condition,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

// AutoScaleRuleCreateRequest creates a scaling trigger. A nil cooldown
// defaults to 300 seconds.
type AutoScaleRuleCreateRequest struct {
	Metric          string  `json:"metric"`
	Threshold       float64 `json:"threshold"`
	Action          string  `json:"action"`
	CooldownSeconds *int    `json:"cooldown_seconds,omitempty"`
}

// Validate checks the request and returns one FieldError per violation.
func (r AutoScaleRuleCreateRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Metric) == "" {
		errs = append(errs, FieldError{Field: "metric", Message: "is required", Code: "REQUIRED"})
	}
	if strings.TrimSpace(r.Action) == "" {
		errs = append(errs, FieldError{Field: "action", Message: "is required", Code: "REQUIRED"})
	}
	if r.CooldownSeconds != nil && *r.CooldownSeconds < 0 {
		errs = append(errs, FieldError{Field: "cooldown_seconds", Message: "must not be negative", Code: "OUT_OF_RANGE"})
	}
	return errs
}

// AutoScaleRule is the API view of a stored scaling trigger.
type AutoScaleRule struct {
	RuleID          int       `json:"rule_id"`
	Metric          string    `json:"metric"`
	Threshold       float64   `json:"threshold"`
	Action          string    `json:"action"`
	CooldownSeconds int       `json:"cooldown_seconds"`
	CreatedAt       Timestamp `json:"created_at"`
}
