package roleswitch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"infera-console/internal/constants"
	"infera-console/internal/domain"
	roles "infera-console/internal/pkg/constants"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrHistoryUnavailable = errors.New("Role switch history is not configured")
	ErrSessionIDRequired  = errors.New("session_id is required")
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Service stores and lists role switch records.
type Service struct {
	DB *gorm.DB
}

// RecordParams describes one role switch.
type RecordParams struct {
	SessionID    string
	From         roles.Role
	To           roles.Role
	Capabilities constants.Capabilities
	TraceID      string
}

// Record persists a role switch.
func (s *Service) Record(ctx context.Context, p RecordParams) (*domain.RoleSwitch, error) {
	if s == nil || s.DB == nil {
		return nil, ErrHistoryUnavailable
	}
	if strings.TrimSpace(p.SessionID) == "" {
		return nil, ErrSessionIDRequired
	}
	caps, err := json.Marshal(p.Capabilities)
	if err != nil {
		return nil, err
	}
	rec := &domain.RoleSwitch{
		SessionID:    p.SessionID,
		FromRole:     string(p.From),
		ToRole:       string(p.To),
		Capabilities: datatypes.JSON(caps),
	}
	if p.TraceID != "" {
		tid := p.TraceID
		rec.TraceID = &tid
	}
	if err := s.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// ListBySession returns the newest switches of a session first. limit is clamped to [1,100]; 0 means 20.
func (s *Service) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.RoleSwitch, error) {
	if s == nil || s.DB == nil {
		return nil, ErrHistoryUnavailable
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionIDRequired
	}
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}
	var out []domain.RoleSwitch
	if err := s.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
