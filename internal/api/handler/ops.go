package handler

import (
	"net/http"
	"time"

	"github.com/trafficwarden/trafficwarden/internal/api/models"
	"github.com/trafficwarden/trafficwarden/internal/api/response"
	"github.com/trafficwarden/trafficwarden/internal/controller"
	"github.com/trafficwarden/trafficwarden/internal/provider"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	service   string
	version   string
	buildTime string
	engine    *controller.Engine
	registry  *provider.Registry
}

// NewOpsHandler creates a new OpsHandler. The registry may be nil when no
// provider adapter reports health.
func NewOpsHandler(service, version, buildTime string, engine *controller.Engine, registry *provider.Registry) *OpsHandler {
	return &OpsHandler{
		service:   service,
		version:   version,
		buildTime: buildTime,
		engine:    engine,
		registry:  registry,
	}
}

// HealthCheck handles GET /healthz - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":    h.version,
			"build_time": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /readyz - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.engine == nil {
		response.ServiceUnavailable(w, r, "engine not initialized")
		return
	}

	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"monitoring_active": h.engine.MonitoringActive(),
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// Version handles GET /version - build information.
func (h *OpsHandler) Version(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.VersionInfo{
		Service:   h.service,
		Version:   h.version,
		BuildTime: h.buildTime,
	})
}

// Providers handles GET /v1/ops/providers - delivery health per adapter.
func (h *OpsHandler) Providers(w http.ResponseWriter, r *http.Request) {
	healths := h.registry.Health()

	providers := make([]models.ProviderStatus, 0, len(healths))
	for _, ah := range healths {
		providers = append(providers, models.ProviderStatus{
			Provider:      ah.Name,
			CircuitState:  ah.CircuitState,
			Deliveries:    ah.Deliveries,
			Failures:      ah.Failures,
			LastSuccessAt: models.TimestampPtr(ah.LastSuccessAt),
			LastFailureAt: models.TimestampPtr(ah.LastFailureAt),
			LastError:     ah.LastError,
		})
	}

	response.JSON(w, r, http.StatusOK, models.ProvidersResponse{Providers: providers})
}
