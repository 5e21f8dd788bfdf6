package constants

import (
	"fmt"

	"infera-console/internal/pkg/constants"
)

// Resolve maps a role to its capability set. Roles outside the catalog panic.
func Resolve(role constants.Role) Capabilities {
	switch role {
	case constants.TenantAdmin:
		return Capabilities{CanEdit: true, CanManage: true, CanViewFinance: true, CanViewModels: true, IsAdmin: true}
	case constants.TenantFinance:
		return Capabilities{CanViewFinance: true}
	case constants.TenantMember:
		return Capabilities{CanViewModels: true}
	case constants.ProjectOwner:
		return Capabilities{CanEdit: true, CanManage: true, CanViewFinance: true, CanViewModels: true}
	case constants.ProjectDeveloper:
		return Capabilities{CanEdit: true, CanViewModels: true}
	case constants.ProjectViewer:
		return Capabilities{CanViewModels: true}
	}
	panic(fmt.Sprintf("constants: no capabilities for role %q", string(role)))
}

// AllowedRole returns true if role is granted the named capability. Unknown capabilities are never granted.
func AllowedRole(capability string, role constants.Role) bool {
	if !constants.IsValidRole(role) {
		return false
	}
	allowed, _ := Resolve(role).Has(capability)
	return allowed
}

// RolesWith returns the catalog roles that hold the named capability, in catalog order.
func RolesWith(capability string) []constants.Role {
	var out []constants.Role
	for _, r := range constants.AllRoles {
		if AllowedRole(capability, r) {
			out = append(out, r)
		}
	}
	return out
}
