package contracts

// JudgementPlan controls which checks run and under which thresholds.
// Produced by the judgement planner.
type JudgementPlan struct {
	IntentType     string             `json:"intent_type"`
	RequiredChecks []string           `json:"required_checks"`
	Thresholds     map[string]float64 `json:"thresholds"`
	OrgMode        string             `json:"org_mode"`
}

// ClarifyingQuestion is one question that blocks action until answered.
type ClarifyingQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Reason        string   `json:"reason"`
	BlockingField string   `json:"blocking_field"`
}

// NeedMoreInfo is the sufficiency check outcome.
type NeedMoreInfo struct {
	Value     bool                 `json:"value"`
	Questions []ClarifyingQuestion `json:"questions"`
}

// PolicyVerdict is the policy evaluation outcome.
type PolicyVerdict struct {
	Status            string   `json:"status"` // allow | deny | needs_approval
	Reasons           []string `json:"reasons"`
	Violations        []string `json:"violations"`
	ApprovalsRequired []string `json:"approvals_required"`
	Constraints       []string `json:"constraints"`
}

// RiskReport is the risk assessment outcome.
type RiskReport struct {
	Score             float64  `json:"score"`
	Level             string   `json:"level"` // low | medium | high
	Reasons           []string `json:"reasons"`
	SensitiveEntities []string `json:"sensitive_entities"`
	Reversibility     string   `json:"reversibility"`
}

// PriorityReport is the priority scoring outcome.
type PriorityReport struct {
	Score           float64  `json:"score"`
	Reasons         []string `json:"reasons"`
	OrgMode         string   `json:"org_mode"`
	DistractionFlag bool     `json:"distraction_flag"`
}

// RankedFactor is one weighted decision factor.
type RankedFactor struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"` // actor | org | situation | agent | tool
	Weight    float64 `json:"weight"`
	Value     string  `json:"value"`
	SourceRef string  `json:"source_ref"`
}

// MultiFactorReport holds the ranked factors and compiled constraints.
type MultiFactorReport struct {
	RankedFactors []RankedFactor `json:"ranked_factors"`
	Constraints   []string       `json:"constraints"`
	Confidence    float64        `json:"confidence"`
}

// JudgementMetrics summarizes the judgement run.
type JudgementMetrics struct {
	JudgingTimeMS     float64 `json:"judging_time_ms"`
	ChecksRun         int     `json:"checks_run"`
	PoliciesEvaluated int     `json:"policies_evaluated"`
	FactorsExtracted  int     `json:"factors_extracted"`
}

// JudgementReport is the complete judgement stage output.
//
// OkToAct means "ok to proceed through whatever route judgement selected",
// not "ok to auto-execute": when approval is required but the action is
// neither blocked on missing info nor denied, OkToAct is forced true and the
// mode gate routes the action through approval.
type JudgementReport struct {
	NeedMoreInfo  NeedMoreInfo      `json:"need_more_info"`
	Policy        PolicyVerdict     `json:"policy"`
	Risk          RiskReport        `json:"risk"`
	Priority      PriorityReport    `json:"priority"`
	MultiFactor   MultiFactorReport `json:"multi_factor"`
	OkToAct       bool              `json:"ok_to_act"`
	NeedsApproval bool              `json:"needs_approval"`
	Metrics       JudgementMetrics  `json:"metrics"`
	Version       string            `json:"judgement_version"`
}
