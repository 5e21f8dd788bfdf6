package role

import (
	"encoding/json"
	"errors"
	"strconv"

	"infera-console/internal/application/affordances"
	"infera-console/internal/application/rolecontext"
	"infera-console/internal/application/roleswitch"
	"infera-console/internal/constants"
	"infera-console/internal/middleware"
	roles "infera-console/internal/pkg/constants"
	"infera-console/internal/pkg/metrics"
	"infera-console/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"
)

// Handlers bundles role context handlers with dependencies. History may be nil.
type Handlers struct {
	History *roleswitch.Service
}

// CatalogEntry is one row of GET /api/v1/roles.
type CatalogEntry struct {
	Role         roles.Role             `json:"role"`
	Label        string                 `json:"label"`
	Capabilities constants.Capabilities `json:"capabilities"`
}

// ListRoles GET /api/v1/roles
func (h *Handlers) ListRoles(c *fiber.Ctx) error {
	out := make([]CatalogEntry, 0, len(roles.AllRoles))
	for _, r := range roles.AllRoles {
		out = append(out, CatalogEntry{Role: r, Label: roles.Label(r), Capabilities: constants.Resolve(r)})
	}
	return response.Success(c, "Roles fetched successfully", out, fiber.Map{"default": roles.DefaultRole})
}

// GetRole GET /api/v1/role
func (h *Handlers) GetRole(c *fiber.Ctx) error {
	rc, err := roleContext(c)
	if err != nil {
		return err
	}
	return response.Success(c, "Role fetched successfully", rc.Snapshot(), nil)
}

// SetRole PUT /api/v1/role
func (h *Handlers) SetRole(c *fiber.Ctx) error {
	var body struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return response.BadRequest(c, rolecontext.ErrInvalidRole.Error())
	}
	r, ok := roles.ParseRole(body.Role)
	if !ok {
		return response.BadRequest(c, rolecontext.ErrInvalidRole.Error())
	}
	rc, err := roleContext(c)
	if err != nil {
		return err
	}
	if err := rc.SetRole(r); err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, "Role updated successfully", rc.Snapshot(), nil)
}

// ResetRole DELETE /api/v1/role
func (h *Handlers) ResetRole(c *fiber.Ctx) error {
	rc, err := roleContext(c)
	if err != nil {
		return err
	}
	if err := rc.SetRole(roles.DefaultRole); err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, "Role reset successfully", rc.Snapshot(), nil)
}

// GetCapabilities GET /api/v1/role/capabilities
func (h *Handlers) GetCapabilities(c *fiber.Ctx) error {
	rc, err := roleContext(c)
	if err != nil {
		return err
	}
	return response.Success(c, "Capabilities fetched successfully", rc.Capabilities(), fiber.Map{"role": rc.Role()})
}

// CheckCapability GET /api/v1/role/capabilities/:capability
func (h *Handlers) CheckCapability(c *fiber.Ctx) error {
	name := utils.CopyString(c.Params("capability"))
	rc, err := roleContext(c)
	if err != nil {
		return err
	}
	allowed, known := rc.Capabilities().Has(name)
	if !known {
		return response.NotFound(c, constants.ErrUnknownCapability.Error())
	}
	metrics.CapabilityChecksTotal.WithLabelValues(name, metrics.Outcome(allowed)).Inc()
	return response.Success(c, "Capability checked successfully", fiber.Map{
		"capability": name,
		"allowed":    allowed,
		"roles":      constants.RolesWith(name),
	}, nil)
}

// GetAffordances GET /api/v1/role/affordances[?visible=true]
func (h *Handlers) GetAffordances(c *fiber.Ctx) error {
	rc, err := roleContext(c)
	if err != nil {
		return err
	}
	caps := rc.Capabilities()
	if c.QueryBool("visible") {
		visible := affordances.Visible(caps)
		if visible == nil {
			visible = []affordances.Affordance{}
		}
		return response.Success(c, "Affordances fetched successfully", visible, fiber.Map{"role": rc.Role()})
	}
	return response.Success(c, "Affordances fetched successfully", affordances.Evaluate(caps), fiber.Map{"role": rc.Role()})
}

// GetAffordance GET /api/v1/role/affordances/:key
func (h *Handlers) GetAffordance(c *fiber.Ctx) error {
	key := c.Params("key")
	rc, err := roleContext(c)
	if err != nil {
		return err
	}
	allowed, err := affordances.Allowed(rc.Capabilities(), key)
	if errors.Is(err, affordances.ErrUnknownAffordance) {
		return response.NotFound(c, err.Error())
	}
	return response.Success(c, "Affordance checked successfully", fiber.Map{"key": key, "visible": allowed}, nil)
}

// GetHistory GET /api/v1/role/history[?limit=n]
func (h *Handlers) GetHistory(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.History.ListBySession(c.UserContext(), middleware.GetSessionID(c), limit)
	if err != nil {
		switch {
		case errors.Is(err, roleswitch.ErrHistoryUnavailable):
			return response.Error(c, err.Error(), fiber.StatusServiceUnavailable, nil)
		case errors.Is(err, roleswitch.ErrSessionIDRequired):
			return response.BadRequest(c, err.Error())
		}
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("Role history query failed")
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Role history fetched successfully", items, fiber.Map{"count": len(items)})
}

// RecordSwitch is a middleware.ChangeHook that stores each switch when history is configured.
// Storage failures are logged; they never fail the role switch.
func (h *Handlers) RecordSwitch(c *fiber.Ctx, change rolecontext.Change) {
	if h.History == nil || h.History.DB == nil {
		return
	}
	_, err := h.History.Record(c.UserContext(), roleswitch.RecordParams{
		SessionID:    middleware.GetSessionID(c),
		From:         change.From,
		To:           change.To,
		Capabilities: change.Capabilities,
		TraceID:      middleware.GetTraceID(c),
	})
	if err != nil {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("session_id", middleware.GetSessionID(c)).Msg("Role switch not recorded")
	}
}

func roleContext(c *fiber.Ctx) (*rolecontext.RoleContext, error) {
	rc, err := middleware.GetRoleContext(c)
	if err != nil {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("path", c.Path()).Msg("Role context missing; check route wiring")
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return rc, nil
}
