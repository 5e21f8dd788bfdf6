package middleware

import (
	"infera-console/internal/application/rolecontext"
	"infera-console/internal/pkg/constants"
	"infera-console/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const (
	roleContextLocal = "role_context"
	sessionRoleKey   = "role"
)

// ChangeHook observes role changes made during a request.
type ChangeHook func(c *fiber.Ctx, change rolecontext.Change)

// RoleContext builds the session's RoleContext, exposes it to handlers and writes role changes
// back to the session. Hooks run synchronously inside SetRole, in the order given.
func RoleContext(hooks ...ChangeHook) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := constants.DefaultRole
		if v, ok := GetSessionValue(c, sessionRoleKey); ok {
			s, _ := v.(string)
			if r, ok := constants.ParseRole(s); ok {
				role = r
			} else {
				log.Warn().Str("trace_id", GetTraceID(c)).Str("session_id", GetSessionID(c)).Str("role", s).Msg("Discarding invalid session role")
			}
		}

		rc := rolecontext.New(role)
		rc.Subscribe(func(change rolecontext.Change) {
			SetSessionValue(c, sessionRoleKey, string(change.To))
			metrics.RoleSwitchesTotal.WithLabelValues(string(change.From), string(change.To)).Inc()
			log.Info().
				Str("trace_id", GetTraceID(c)).
				Str("session_id", GetSessionID(c)).
				Str("from", string(change.From)).
				Str("to", string(change.To)).
				Msg("Role switched")
			for _, h := range hooks {
				h(c, change)
			}
		})

		c.Locals(roleContextLocal, rc)
		c.SetUserContext(rolecontext.WithRoleContext(c.UserContext(), rc))
		return c.Next()
	}
}

// GetRoleContext returns the request's RoleContext, or rolecontext.ErrMissingProvider when the
// RoleContext middleware is not mounted.
func GetRoleContext(c *fiber.Ctx) (*rolecontext.RoleContext, error) {
	if rc, ok := c.Locals(roleContextLocal).(*rolecontext.RoleContext); ok && rc != nil {
		return rc, nil
	}
	return rolecontext.FromContext(c.UserContext())
}
