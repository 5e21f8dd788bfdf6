package constants

import (
	"testing"

	"infera-console/internal/pkg/constants"

	"github.com/stretchr/testify/assert"
)

func TestResolve_LiteralScenarios(t *testing.T) {
	assert.Equal(t, Capabilities{CanEdit: true, CanManage: true, CanViewFinance: true, CanViewModels: true, IsAdmin: true}, Resolve(constants.TenantAdmin))
	assert.Equal(t, Capabilities{CanEdit: false, CanManage: false, CanViewFinance: true, CanViewModels: false, IsAdmin: false}, Resolve(constants.TenantFinance))
	assert.Equal(t, Capabilities{CanEdit: false, CanManage: false, CanViewFinance: false, CanViewModels: true, IsAdmin: false}, Resolve(constants.ProjectViewer))
	assert.Equal(t, Capabilities{CanEdit: true, CanManage: false, CanViewFinance: false, CanViewModels: true, IsAdmin: false}, Resolve(constants.ProjectDeveloper))
}

func TestResolve_TotalAndDeterministic(t *testing.T) {
	for _, r := range constants.AllRoles {
		var first Capabilities
		assert.NotPanics(t, func() { first = Resolve(r) }, r)
		assert.Equal(t, first, Resolve(r), r)
	}
}

func TestResolve_OnlyTenantAdminIsAdmin(t *testing.T) {
	assert.Equal(t, []constants.Role{constants.TenantAdmin}, RolesWith(IsAdmin))
}

func TestResolve_PanicsOnUnknownRole(t *testing.T) {
	assert.Panics(t, func() { Resolve(constants.Role("viewer")) })
}

func TestCapabilities_Has(t *testing.T) {
	caps := Resolve(constants.TenantFinance)
	allowed, known := caps.Has(CanViewFinance)
	assert.True(t, known)
	assert.True(t, allowed)
	allowed, known = caps.Has(CanEdit)
	assert.True(t, known)
	assert.False(t, allowed)
	_, known = caps.Has("can_fly")
	assert.False(t, known)
	for _, name := range CapabilityNames {
		assert.True(t, IsValidCapability(name), name)
	}
}

func TestAllowedRole(t *testing.T) {
	assert.True(t, AllowedRole(CanManage, constants.ProjectOwner))
	assert.False(t, AllowedRole(CanManage, constants.ProjectDeveloper))
	assert.False(t, AllowedRole("unknown", constants.TenantAdmin))
	assert.False(t, AllowedRole(CanEdit, constants.Role("bogus")))
	assert.Equal(t, []constants.Role{constants.TenantAdmin, constants.TenantFinance, constants.ProjectOwner}, RolesWith(CanViewFinance))
}
