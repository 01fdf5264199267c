package models

// StatusResponse is the status report for a target query or, when no target
// is given, the whole system. Found is set only on target queries.
type StatusResponse struct {
	GeneratedAt Timestamp        `json:"generated_at"`
	Target      string           `json:"target,omitempty"`
	Found       *bool            `json:"found,omitempty"`
	System      *SystemStatus    `json:"system,omitempty"`
	Matches     []EndpointDetail `json:"matches,omitempty"`
}

// SystemStatus summarizes the whole installation.
type SystemStatus struct {
	OverallStatus      string            `json:"overall_status"`
	TotalEndpoints     int               `json:"total_endpoints"`
	HealthyEndpoints   int               `json:"healthy_endpoints"`
	UnhealthyEndpoints int               `json:"unhealthy_endpoints"`
	MonitoringActive   bool              `json:"monitoring_active"`
	AvgResponseTimeMS  float64           `json:"avg_response_time_ms"`
	TrafficRules       int               `json:"traffic_rules"`
	AutoScaleRules     int               `json:"auto_scale_rules"`
	RecentAlerts       int               `json:"recent_alerts"`
	Metrics            EngineMetrics     `json:"metrics"`
	Endpoints          []EndpointSummary `json:"endpoints"`
}

// EngineMetrics are the lifetime counters kept by the engine.
type EngineMetrics struct {
	TotalRequests       uint64 `json:"total_requests"`
	SuccessfulProbes    uint64 `json:"successful_health_checks"`
	FailedProbes        uint64 `json:"failed_health_checks"`
	TrafficRulesCreated uint64 `json:"traffic_routes_created"`
	AutoScaleTriggers   uint64 `json:"auto_scale_triggers"`
}
