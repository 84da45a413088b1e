// Package judgement implements the second pipeline stage: it evaluates a
// context bundle for sufficiency, policy compliance, risk and priority,
// extracts weighted decision factors, and derives whether the action may
// proceed. The stage is pure: it reads the bundle, touches no storage, and
// the same bundle always yields the same report.
package judgement

import (
	"context"
	"time"

	"go.uber.org/zap"

	"brainstem/internal/config"
	"brainstem/internal/contracts"
)

// JudgementVersion tags the report schema emitted by this engine.
const JudgementVersion = "v1"

// Engine is the judgement stage.
type Engine struct {
	cfg config.JudgementConfig
	log *zap.Logger
	now func() time.Time
}

// NewEngine wires a judgement engine. A nil logger falls back to no-op.
func NewEngine(cfg config.JudgementConfig, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{cfg: cfg, log: log, now: time.Now}
}

// Run evaluates one context bundle and returns the judgement report.
func (e *Engine) Run(ctx context.Context, bundle contracts.ContextBundle) (contracts.JudgementReport, error) {
	if err := ctx.Err(); err != nil {
		return contracts.JudgementReport{}, err
	}
	started := e.now()
	plan := buildPlan(e.cfg, bundle.QueryPlanRef.IntentType)

	report := contracts.JudgementReport{
		NeedMoreInfo: contracts.NeedMoreInfo{Questions: []contracts.ClarifyingQuestion{}},
		Policy: contracts.PolicyVerdict{
			Status:            contracts.PolicyAllow,
			Reasons:           []string{},
			Violations:        []string{},
			ApprovalsRequired: []string{},
			Constraints:       []string{},
		},
		Risk: contracts.RiskReport{
			Level:             contracts.RiskLow,
			Reasons:           []string{},
			SensitiveEntities: []string{},
			Reversibility:     contracts.Reversible,
		},
		Priority: contracts.PriorityReport{
			Reasons: []string{},
			OrgMode: e.cfg.OrgMode,
		},
		MultiFactor: contracts.MultiFactorReport{
			RankedFactors: []contracts.RankedFactor{},
			Constraints:   []string{},
		},
		Version: JudgementVersion,
	}

	checksRun := 0
	for _, check := range plan.RequiredChecks {
		switch check {
		case CheckSufficiency:
			report.NeedMoreInfo = checkSufficiency(bundle)
		case CheckPolicy:
			report.Policy = checkPolicy(bundle)
		case CheckRisk:
			report.Risk = checkRisk(e.cfg, bundle)
		case CheckPriority:
			report.Priority = checkPriority(e.cfg, bundle)
		case CheckMultiFactor:
			report.MultiFactor = buildMultiFactor(bundle, report.Policy, report.Risk)
		default:
			continue
		}
		checksRun++
	}

	report.NeedsApproval = report.Policy.Status == contracts.PolicyNeedsApproval ||
		report.Risk.Score >= e.cfg.ApprovalRequiredRisk
	report.OkToAct = !report.NeedMoreInfo.Value &&
		report.Policy.Status != contracts.PolicyDeny &&
		report.Risk.Score <= e.cfg.RiskAutoExecuteMax
	// An approval-gated action that is neither blocked on missing info nor
	// denied is still actionable: it proceeds through the approval route.
	if report.NeedsApproval && !report.NeedMoreInfo.Value &&
		report.Policy.Status != contracts.PolicyDeny {
		report.OkToAct = true
	}

	report.Metrics = contracts.JudgementMetrics{
		JudgingTimeMS:     float64(e.now().Sub(started).Microseconds()) / 1000,
		ChecksRun:         checksRun,
		PoliciesEvaluated: len(bundle.Policy.Trace),
		FactorsExtracted:  len(report.MultiFactor.RankedFactors),
	}

	e.log.Debug("judgement complete",
		zap.String("intent_type", bundle.QueryPlanRef.IntentType),
		zap.String("policy_status", report.Policy.Status),
		zap.Float64("risk_score", report.Risk.Score),
		zap.Bool("ok_to_act", report.OkToAct),
		zap.Bool("needs_approval", report.NeedsApproval))
	return report, nil
}
