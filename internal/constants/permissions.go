package constants

// Capability names, used for per-capability lookups and route gating.
const (
	CanEdit        = "can_edit"
	CanManage      = "can_manage"
	CanViewFinance = "can_view_finance"
	CanViewModels  = "can_view_models"
	IsAdmin        = "is_admin"
)

// CapabilityNames lists every capability name in a fixed order.
var CapabilityNames = []string{CanEdit, CanManage, CanViewFinance, CanViewModels, IsAdmin}

// Capabilities is the set of UI capabilities derived from a role. It is a value type; copies never alias.
type Capabilities struct {
	CanEdit        bool `json:"canEdit"`
	CanManage      bool `json:"canManage"`
	CanViewFinance bool `json:"canViewFinance"`
	CanViewModels  bool `json:"canViewModels"`
	IsAdmin        bool `json:"isAdmin"`
}

// Has reports whether the named capability is granted. known is false for names outside CapabilityNames.
func (c Capabilities) Has(name string) (allowed, known bool) {
	switch name {
	case CanEdit:
		return c.CanEdit, true
	case CanManage:
		return c.CanManage, true
	case CanViewFinance:
		return c.CanViewFinance, true
	case CanViewModels:
		return c.CanViewModels, true
	case IsAdmin:
		return c.IsAdmin, true
	}
	return false, false
}

// IsValidCapability returns true if name is one of CapabilityNames.
func IsValidCapability(name string) bool {
	_, known := Capabilities{}.Has(name)
	return known
}
