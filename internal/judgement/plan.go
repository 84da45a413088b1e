package judgement

import (
	"brainstem/internal/config"
	"brainstem/internal/contracts"
)

// Check names used in JudgementPlan.RequiredChecks.
const (
	CheckSufficiency = "sufficiency"
	CheckPolicy      = "policy_compliance"
	CheckRisk        = "risk"
	CheckPriority    = "priority"
	CheckMultiFactor = "multi_factor"
)

// lightCheckIntents skip multi-factor weighing: their action space is
// narrow enough that sufficiency, policy, risk and priority decide alone.
var lightCheckIntents = map[string]bool{
	contracts.IntentScheduleMeeting: true,
	contracts.IntentGeneral:         true,
}

// buildPlan selects the checks and thresholds for one intent type.
func buildPlan(cfg config.JudgementConfig, intentType string) contracts.JudgementPlan {
	checks := []string{CheckSufficiency, CheckPolicy, CheckRisk, CheckPriority}
	if !lightCheckIntents[intentType] {
		checks = append(checks, CheckMultiFactor)
	}
	return contracts.JudgementPlan{
		IntentType:     intentType,
		RequiredChecks: checks,
		Thresholds: map[string]float64{
			"risk_auto_execute_max":  cfg.RiskAutoExecuteMax,
			"risk_high_threshold":    cfg.RiskHighThreshold,
			"risk_medium_threshold":  cfg.RiskMediumThreshold,
			"priority_min_score":     cfg.PriorityMinScore,
			"approval_required_risk": cfg.ApprovalRequiredRisk,
		},
		OrgMode: cfg.OrgMode,
	}
}
