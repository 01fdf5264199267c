package models

// Alert is one recorded threshold crossing.
type Alert struct {
	ID                  int       `json:"id"`
	Timestamp           Timestamp `json:"timestamp"`
	Endpoint            string    `json:"endpoint"`
	State               string    `json:"state"`
	ConsecutiveFailures int       `json:"failures"`
	LastError           string    `json:"last_error,omitempty"`
	FailoverSucceeded   bool      `json:"failover_success"`
}

// AlertsResponse lists the most recent alerts, oldest first.
type AlertsResponse struct {
	Alerts      []Alert   `json:"alerts"`
	Total       int       `json:"total_alerts"`
	GeneratedAt Timestamp `json:"generated_at"`
}

// RecommendationsResponse carries the advisory findings derived from the
// current system state.
type RecommendationsResponse struct {
	Recommendations []string  `json:"recommendations"`
	GeneratedAt     Timestamp `json:"generated_at"`
}
