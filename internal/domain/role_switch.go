package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoleSwitch records one effective role change of a console session.
type RoleSwitch struct {
	RoleSwitchID uuid.UUID      `gorm:"column:role_switch_id;type:uuid;primaryKey" json:"role_switch_id"`
	SessionID    string         `gorm:"column:session_id;not null;index" json:"session_id"`
	FromRole     string         `gorm:"column:from_role;not null" json:"from_role"`
	ToRole       string         `gorm:"column:to_role;not null" json:"to_role"`
	Capabilities datatypes.JSON `gorm:"column:capabilities;type:jsonb;not null" json:"capabilities"`
	TraceID      *string        `gorm:"column:trace_id" json:"trace_id"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
}

func (RoleSwitch) TableName() string {
	return "RoleSwitches"
}

// BeforeCreate ensures role_switch_id is set for DBs without default uuid.
func (r *RoleSwitch) BeforeCreate(tx *gorm.DB) error {
	if r.RoleSwitchID == uuid.Nil {
		r.RoleSwitchID = uuid.New()
	}
	return nil
}
