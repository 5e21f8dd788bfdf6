package affordances

import (
	"errors"

	"infera-console/internal/constants"
)

var ErrUnknownAffordance = errors.New("Affordance not found")

// Affordance is a console control that pages show only when a capability is granted.
type Affordance struct {
	Key         string `json:"key"`
	Page        string `json:"page"`
	Description string `json:"description"`
	Requires    string `json:"requires"`
}

// Decision is an affordance evaluated against a capability set.
type Decision struct {
	Affordance
	Visible bool `json:"visible"`
}

var manifest = []Affordance{
	{Key: "dashboard.services_kpi", Page: "/", Description: "Online services KPI card", Requires: constants.CanViewModels},
	{Key: "dashboard.cost_kpi", Page: "/", Description: "Monthly cost KPI card", Requires: constants.CanViewFinance},
	{Key: "dashboard.cost_chart", Page: "/", Description: "Cost trend chart", Requires: constants.CanViewFinance},
	{Key: "projects.create", Page: "/projects", Description: "Create project", Requires: constants.CanEdit},
	{Key: "projects.edit", Page: "/projects", Description: "Edit project settings", Requires: constants.CanEdit},
	{Key: "projects.delete", Page: "/projects", Description: "Delete project", Requires: constants.CanManage},
	{Key: "models.view", Page: "/models", Description: "Model catalog", Requires: constants.CanViewModels},
	{Key: "models.upload", Page: "/models", Description: "Upload model", Requires: constants.CanEdit},
	{Key: "models.promote_tag", Page: "/models/:id", Description: "Promote model tag", Requires: constants.CanEdit},
	{Key: "datasets.upload", Page: "/datasets", Description: "Upload dataset version", Requires: constants.CanEdit},
	{Key: "services.create", Page: "/services", Description: "Create inference service", Requires: constants.CanEdit},
	{Key: "services.update", Page: "/services/:id", Description: "Deploy new revision", Requires: constants.CanEdit},
	{Key: "services.traffic", Page: "/services/:id", Description: "Shift revision traffic", Requires: constants.CanEdit},
	{Key: "finetune.create", Page: "/finetune", Description: "Create fine-tune job", Requires: constants.CanEdit},
	{Key: "finetune.register_model", Page: "/finetune", Description: "Register output model", Requires: constants.CanEdit},
	{Key: "evaluation.run", Page: "/evaluation", Description: "Run evaluation", Requires: constants.CanEdit},
	{Key: "evaluation.add_prompt", Page: "/evaluation", Description: "Add prompt", Requires: constants.CanEdit},
	{Key: "apikeys.create", Page: "/api-keys", Description: "Create API key", Requires: constants.CanEdit},
	{Key: "apikeys.revoke", Page: "/api-keys", Description: "Revoke API key", Requires: constants.CanEdit},
	{Key: "usage.view", Page: "/usage", Description: "Usage and cost statistics", Requires: constants.CanViewFinance},
	{Key: "quota.edit", Page: "/quota", Description: "Edit budget policy", Requires: constants.CanManage},
	{Key: "alerts.create_rule", Page: "/alerts", Description: "Create alert rule", Requires: constants.CanManage},
	{Key: "members.invite", Page: "/members", Description: "Invite member", Requires: constants.CanManage},
	{Key: "members.manage", Page: "/members", Description: "Disable or change member role", Requires: constants.CanManage},
}

// All returns a copy of the manifest in declaration order.
func All() []Affordance {
	out := make([]Affordance, len(manifest))
	copy(out, manifest)
	return out
}

// Evaluate decides every affordance against caps.
func Evaluate(caps constants.Capabilities) []Decision {
	out := make([]Decision, 0, len(manifest))
	for _, a := range manifest {
		ok, _ := caps.Has(a.Requires)
		out = append(out, Decision{Affordance: a, Visible: ok})
	}
	return out
}

// Visible returns only the affordances caps grants.
func Visible(caps constants.Capabilities) []Affordance {
	var out []Affordance
	for _, d := range Evaluate(caps) {
		if d.Visible {
			out = append(out, d.Affordance)
		}
	}
	return out
}

// Allowed reports whether caps grants the affordance named key.
func Allowed(caps constants.Capabilities, key string) (bool, error) {
	for _, a := range manifest {
		if a.Key == key {
			ok, _ := caps.Has(a.Requires)
			return ok, nil
		}
	}
	return false, ErrUnknownAffordance
}
