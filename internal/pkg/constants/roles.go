package constants

import "fmt"

// Role is a console role identifier. The set is closed; values outside it are programming errors.
type Role string

const (
	TenantAdmin      Role = "tenant_admin"
	TenantFinance    Role = "tenant_finance"
	TenantMember     Role = "tenant_member"
	ProjectOwner     Role = "project_owner"
	ProjectDeveloper Role = "project_developer"
	ProjectViewer    Role = "project_viewer"
)

// DefaultRole is the role every new session starts with.
const DefaultRole = TenantAdmin

// AllRoles lists the roles in the order the role switcher shows them.
var AllRoles = []Role{TenantAdmin, TenantFinance, TenantMember, ProjectOwner, ProjectDeveloper, ProjectViewer}

// IsValidRole returns true if role is one of the catalog values.
func IsValidRole(role Role) bool {
	switch role {
	case TenantAdmin, TenantFinance, TenantMember, ProjectOwner, ProjectDeveloper, ProjectViewer:
		return true
	}
	return false
}

// ParseRole converts a wire value to the matching catalog constant. ok is false for anything outside the catalog.
func ParseRole(s string) (Role, bool) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Label returns the display string shown in the role switcher.
func Label(role Role) string {
	switch role {
	case TenantAdmin:
		return "租户管理员"
	case TenantFinance:
		return "财务角色"
	case TenantMember:
		return "租户成员"
	case ProjectOwner:
		return "项目 Owner"
	case ProjectDeveloper:
		return "项目 Developer"
	case ProjectViewer:
		return "项目 Viewer"
	}
	panic(fmt.Sprintf("constants: unknown role %q", string(role)))
}

func (r Role) String() string {
	return string(r)
}
