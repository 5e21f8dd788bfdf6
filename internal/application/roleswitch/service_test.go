package roleswitch

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"infera-console/internal/constants"
	"infera-console/internal/domain"
	roles "infera-console/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRoleSwitchDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.RoleSwitch{}))
	return db
}

func TestRecord_PersistsCapabilitySnapshot(t *testing.T) {
	db := setupRoleSwitchDB(t)
	svc := &Service{DB: db}
	ctx := context.Background()

	rec, err := svc.Record(ctx, RecordParams{
		SessionID:    "sid-1",
		From:         roles.TenantAdmin,
		To:           roles.ProjectDeveloper,
		Capabilities: constants.Resolve(roles.ProjectDeveloper),
		TraceID:      "trace-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.RoleSwitchID.String())

	var stored domain.RoleSwitch
	require.NoError(t, db.Where("role_switch_id = ?", rec.RoleSwitchID).First(&stored).Error)
	assert.Equal(t, "tenant_admin", stored.FromRole)
	assert.Equal(t, "project_developer", stored.ToRole)
	require.NotNil(t, stored.TraceID)
	assert.Equal(t, "trace-1", *stored.TraceID)

	var caps constants.Capabilities
	require.NoError(t, json.Unmarshal(stored.Capabilities, &caps))
	assert.Equal(t, constants.Resolve(roles.ProjectDeveloper), caps)
}

func TestRecord_RequiresSessionID(t *testing.T) {
	svc := &Service{DB: setupRoleSwitchDB(t)}
	_, err := svc.Record(context.Background(), RecordParams{From: roles.TenantAdmin, To: roles.TenantMember})
	assert.Equal(t, ErrSessionIDRequired, err)
}

func TestService_NilDBUnavailable(t *testing.T) {
	svc := &Service{}
	_, err := svc.Record(context.Background(), RecordParams{SessionID: "x"})
	assert.Equal(t, ErrHistoryUnavailable, err)
	_, err = svc.ListBySession(context.Background(), "x", 0)
	assert.Equal(t, ErrHistoryUnavailable, err)
}

func TestListBySession_NewestFirstAndScoped(t *testing.T) {
	db := setupRoleSwitchDB(t)
	svc := &Service{DB: db}
	base := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	for i, to := range []string{"tenant_finance", "tenant_member", "project_owner"} {
		require.NoError(t, db.Create(&domain.RoleSwitch{
			SessionID: "sid-a", FromRole: "tenant_admin", ToRole: to,
			Capabilities: []byte(`{}`), CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}
	require.NoError(t, db.Create(&domain.RoleSwitch{
		SessionID: "sid-b", FromRole: "tenant_admin", ToRole: "project_viewer", Capabilities: []byte(`{}`), CreatedAt: base,
	}).Error)

	out, err := svc.ListBySession(context.Background(), "sid-a", 0)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "project_owner", out[0].ToRole)
	assert.Equal(t, "tenant_finance", out[2].ToRole)

	out, err = svc.ListBySession(context.Background(), "sid-a", 2)
	require.NoError(t, err)
	assert.Len(t, out, 2)

	_, err = svc.ListBySession(context.Background(), " ", 5)
	assert.Equal(t, ErrSessionIDRequired, err)
}
