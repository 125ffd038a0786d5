package handlers

import (
	"github.com/gofiber/fiber/v3"

	"toxshield/internal/models"
)

// EndpointStatus reports classifier endpoint health.
type EndpointStatus interface {
	Status() []models.EndpointHealthResponse
	Ready() bool
}

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	endpoints EndpointStatus
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(endpoints EndpointStatus) *ProbeHandler {
	return &ProbeHandler{endpoints: endpoints}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK while at least one classifier endpoint is healthy or not yet
// probed.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if !h.endpoints.Ready() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":    "error",
			"error":     "classifier unavailable",
			"endpoints": h.endpoints.Status(),
		})
	}

	return c.JSON(fiber.Map{
		"status":    "ok",
		"endpoints": h.endpoints.Status(),
	})
}
