package models

import "strings"

// EndpointCreateRequest registers an endpoint for health monitoring.
// Omitted tuning fields fall back to the monitor defaults.
type EndpointCreateRequest struct {
	URL              string `json:"url"`
	IntervalSeconds  *int   `json:"interval_seconds,omitempty"`
	ExpectedStatus   *int   `json:"expected_status,omitempty"`
	TimeoutSeconds   *int   `json:"timeout_seconds,omitempty"`
	FailureThreshold *int   `json:"failure_threshold,omitempty"`
}

// Validate checks the request and returns one FieldError per violation.
func (r EndpointCreateRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.URL) == "" {
		errs = append(errs, FieldError{Field: "url", Message: "is required", Code: "REQUIRED"})
	}
	if r.IntervalSeconds != nil && *r.IntervalSeconds <= 0 {
		errs = append(errs, FieldError{Field: "interval_seconds", Message: "must be positive", Code: "OUT_OF_RANGE"})
	}
	if r.ExpectedStatus != nil && (*r.ExpectedStatus < 100 || *r.ExpectedStatus > 599) {
		errs = append(errs, FieldError{Field: "expected_status", Message: "must be a valid HTTP status code", Code: "OUT_OF_RANGE"})
	}
	if r.TimeoutSeconds != nil && *r.TimeoutSeconds <= 0 {
		errs = append(errs, FieldError{Field: "timeout_seconds", Message: "must be positive", Code: "OUT_OF_RANGE"})
	}
	if r.FailureThreshold != nil && *r.FailureThreshold <= 0 {
		errs = append(errs, FieldError{Field: "failure_threshold", Message: "must be positive", Code: "OUT_OF_RANGE"})
	}
	return errs
}

// Registration echoes a successful endpoint registration with the effective
// check configuration after defaults have been applied.
type Registration struct {
	Endpoint         string `json:"endpoint"`
	IntervalSeconds  int    `json:"interval_seconds"`
	ExpectedStatus   int    `json:"expected_status"`
	TimeoutSeconds   int    `json:"timeout_seconds"`
	FailureThreshold int    `json:"failure_threshold"`
	MonitoringActive bool   `json:"monitoring_active"`
}

// EndpointSummary is the compact per-endpoint view used by list and
// system-status responses.
type EndpointSummary struct {
	URL            string   `json:"url"`
	State          string   `json:"state"`
	Uptime         string   `json:"uptime"`
	ResponseTimeMS *float64 `json:"response_time_ms,omitempty"`
}

// EndpointsResponse lists every monitored endpoint.
type EndpointsResponse struct {
	Endpoints   []EndpointSummary `json:"endpoints"`
	Total       int               `json:"total"`
	GeneratedAt Timestamp         `json:"generated_at"`
}

// EndpointDetail is the full per-endpoint view returned by targeted status
// queries.
type EndpointDetail struct {
	URL                 string     `json:"url"`
	State               string     `json:"state"`
	Uptime              string     `json:"uptime"`
	ConsecutiveFailures int        `json:"failures"`
	SuccessCount        uint64     `json:"success_count"`
	FailureCount        uint64     `json:"failure_count"`
	LastCheckAt         *Timestamp `json:"last_check,omitempty"`
	ResponseTimeMS      *float64   `json:"response_time_ms,omitempty"`
	LastError           string     `json:"last_error,omitempty"`
}
