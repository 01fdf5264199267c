package models

// Health is the liveness and readiness payload.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// VersionInfo reports build information for the running binary.
type VersionInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
}

// ProviderStatus is the API view of one delivery adapter's health.
type ProviderStatus struct {
	Provider      string     `json:"provider"`
	CircuitState  string     `json:"circuit_state,omitempty"`
	Deliveries    uint64     `json:"deliveries"`
	Failures      uint64     `json:"failures"`
	LastSuccessAt *Timestamp `json:"last_success_at,omitempty"`
	LastFailureAt *Timestamp `json:"last_failure_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}

// ProvidersResponse lists every registered delivery adapter.
type ProvidersResponse struct {
	Providers []ProviderStatus `json:"providers"`
}

// ClearResponse reports what a full system reset removed.
type ClearResponse struct {
	Message               string `json:"message"`
	EndpointsRemoved      int    `json:"endpoints_removed"`
	TrafficRulesRemoved   int    `json:"traffic_rules_removed"`
	AutoScaleRulesRemoved int    `json:"autoscale_rules_removed"`
	AlertsRemoved         int    `json:"alerts_removed"`
}
