package domain

// PlanReport is the live project plan drafted during the initiation chat.
// Every field accumulates non-duplicate contributions separated by blank lines.
type PlanReport struct {
	Reason       string `json:"reason"`
	Goal         string `json:"goal"`
	DetailedPlan string `json:"detailedPlan"`
	Resources    string `json:"resources"`
}

// PlanFragment is a partial PlanReport extracted from a model reply.
// A blank field means the model did not contribute to it.
type PlanFragment struct {
	Reason       string `json:"reason,omitempty"`
	Goal         string `json:"goal,omitempty"`
	DetailedPlan string `json:"detailedPlan,omitempty"`
	Resources    string `json:"resources,omitempty"`
}

// IsEmpty reports whether the plan has no content at all.
func (p PlanReport) IsEmpty() bool {
	return p == PlanReport{}
}
