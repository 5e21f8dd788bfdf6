package middleware

import (
	"infera-console/internal/pkg/metrics"
	"infera-console/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RequireCapability returns a handler that checks the session role's capability set.
// Missing role context or unknown capability -> 500; capability not granted -> 403 "User is Forbidden from performing this action".
func RequireCapability(capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rc, err := GetRoleContext(c)
		if err != nil {
			log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("Capability check without role context")
			return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
		}
		allowed, known := rc.Capabilities().Has(capability)
		if !known {
			return response.Error(c, "Permission configuration error", fiber.StatusInternalServerError, nil)
		}
		metrics.CapabilityChecksTotal.WithLabelValues(capability, metrics.Outcome(allowed)).Inc()
		if !allowed {
			return response.Error(c, "User is Forbidden from performing this action", fiber.StatusForbidden, nil)
		}
		return c.Next()
	}
}
