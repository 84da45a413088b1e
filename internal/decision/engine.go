// Package decision implements the third pipeline stage: it turns a context
// bundle and a judgement report into a decision packet holding the action
// plan, the resolved execution mode, the audit trace and the packaged user
// response. The stage plans and routes but never executes: tool calls leave
// here as drafts.
package decision

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"brainstem/internal/contracts"
)

// DecisionVersion tags the packet schema emitted by this engine.
const DecisionVersion = "v1"

// Engine is the decision stage. Like judgement it is pure and stateless.
type Engine struct {
	log *zap.Logger
	now func() time.Time
}

// NewEngine wires a decision engine. A nil logger falls back to no-op.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log, now: time.Now}
}

// Run produces the decision packet for one judged bundle.
func (e *Engine) Run(ctx context.Context, bundle contracts.ContextBundle, report contracts.JudgementReport) (contracts.DecisionPacket, error) {
	if err := ctx.Err(); err != nil {
		return contracts.DecisionPacket{}, err
	}
	started := e.now()
	intent := bundle.QueryPlanRef.IntentType

	slots := buildSlots(bundle, report)
	plan := buildActionPlan(intent, slots)
	plan, applied := applyConstraints(plan, report.MultiFactor.Constraints)
	execution := decideMode(report)
	trace := buildTrace(bundle, report, execution)
	response := buildResponse(intent, execution.Mode, plan, slots, trace, execution)

	reasons := []string{
		fmt.Sprintf("Risk level: %s", report.Risk.Level),
		fmt.Sprintf("Policy status: %s", report.Policy.Status),
	}
	reasons = append(reasons, execution.Rationale...)

	packet := contracts.DecisionPacket{
		IntentType:    intent,
		ExecutionMode: execution.Mode,
		ActionPlan:    plan,
		Reasons:       reasons,
		IntentSlots:   slots,
		Execution:     execution,
		Trace:         trace,
		Response:      response,
		Metrics: contracts.DecisionMetrics{
			DecisionTimeMS:     float64(e.now().Sub(started).Microseconds()) / 1000,
			StepsPlanned:       len(plan.Steps),
			ToolCallsDrafted:   len(plan.ToolCalls),
			ConstraintsApplied: applied,
		},
		Version: DecisionVersion,
	}

	e.log.Debug("decision packet built",
		zap.String("intent_type", intent),
		zap.String("execution_mode", execution.Mode),
		zap.Int("steps_planned", len(plan.Steps)),
		zap.Int("constraints_applied", applied))
	return packet, nil
}
