// Package orchestrator sequences the four pipeline stages for one request:
// retrieve, judge, decide, learn. Each stage hands a typed record to the
// next; the orchestrator owns request identity, logging and persisting the
// decided action as a precedent for future retrievals.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"brainstem/internal/contracts"
	"brainstem/internal/decision"
	"brainstem/internal/judgement"
	"brainstem/internal/learning"
	"brainstem/internal/retrieval"
	"brainstem/internal/store"
)

// Recorder persists decided actions so later requests can retrieve them as
// precedents.
type Recorder interface {
	PutDecisionLog(d store.DecisionLog) error
}

// PipelineResult is the complete output of one request.
type PipelineResult struct {
	RequestID string
	Bundle    contracts.ContextBundle
	Judgement contracts.JudgementReport
	Decision  contracts.DecisionPacket
	Learning  contracts.LearningReport
}

// Orchestrator wires the four stage engines.
type Orchestrator struct {
	retrieval *retrieval.Engine
	judgement *judgement.Engine
	decision  *decision.Engine
	learning  *learning.Engine
	recorder  Recorder
	log       *zap.Logger
	now       func() time.Time
}

// New builds an orchestrator. The recorder may be nil; decisions then stay
// unrecorded. A nil logger falls back to no-op.
func New(r *retrieval.Engine, j *judgement.Engine, d *decision.Engine, l *learning.Engine, recorder Recorder, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		retrieval: r,
		judgement: j,
		decision:  d,
		learning:  l,
		recorder:  recorder,
		log:       log,
		now:       time.Now,
	}
}

// Run processes one raw intent end to end with a simulated execution
// outcome: approval-gated decisions count as approved, everything else as
// auto-executed. Use RunWithSignal when the real outcome is known.
func (o *Orchestrator) Run(ctx context.Context, rawIntent, workspaceID, actorID string) (PipelineResult, error) {
	return o.run(ctx, rawIntent, workspaceID, actorID, nil)
}

// RunWithSignal processes one raw intent end to end, feeding the provided
// execution signal into the learning stage.
func (o *Orchestrator) RunWithSignal(ctx context.Context, rawIntent, workspaceID, actorID string, signal learning.ExecutionSignal) (PipelineResult, error) {
	return o.run(ctx, rawIntent, workspaceID, actorID, &signal)
}

func (o *Orchestrator) run(ctx context.Context, rawIntent, workspaceID, actorID string, signal *learning.ExecutionSignal) (PipelineResult, error) {
	requestID := uuid.NewString()
	log := o.log.With(zap.String("request_id", requestID))
	log.Info("pipeline start",
		zap.String("workspace_id", workspaceID),
		zap.String("actor_id", actorID))

	result := PipelineResult{RequestID: requestID}

	bundle, err := o.retrieval.Run(ctx, rawIntent, workspaceID, actorID)
	if err != nil {
		return result, fmt.Errorf("retrieval: %w", err)
	}
	result.Bundle = bundle

	report, err := o.judgement.Run(ctx, bundle)
	if err != nil {
		return result, fmt.Errorf("judgement: %w", err)
	}
	result.Judgement = report

	packet, err := o.decision.Run(ctx, bundle, report)
	if err != nil {
		return result, fmt.Errorf("decision: %w", err)
	}
	result.Decision = packet

	if signal == nil {
		signal = &learning.ExecutionSignal{Result: simulatedResult(packet.ExecutionMode)}
	}
	learned, err := o.learning.Run(ctx, packet, *signal)
	if err != nil {
		return result, fmt.Errorf("learning: %w", err)
	}
	result.Learning = learned

	if o.recorder != nil {
		if err := o.record(workspaceID, actorID, requestID, packet, learned); err != nil {
			log.Warn("failed to record decision", zap.Error(err))
		}
	}

	log.Info("pipeline complete",
		zap.String("intent_type", packet.IntentType),
		zap.String("execution_mode", packet.ExecutionMode),
		zap.String("outcome", learned.Outcome),
		zap.Float64("quality_score", learned.EvalMetrics.QualityScore))
	return result, nil
}

// simulatedResult stands in for a real execution harness: approval-gated
// actions are treated as approved, the rest as auto-executed.
func simulatedResult(mode string) string {
	if mode == contracts.ModeNeedsApproval {
		return contracts.ResultApproved
	}
	return contracts.ResultAutoExecuted
}

// record persists the decision as a precedent for future retrievals.
func (o *Orchestrator) record(workspaceID, actorID, requestID string, packet contracts.DecisionPacket, learned contracts.LearningReport) error {
	outcome := "failure"
	score := learned.EvalMetrics.QualityScore
	if learned.EvalMetrics.SuccessRate >= 1.0 {
		outcome = "success"
	}
	summary := fmt.Sprintf("%s via %s", packet.IntentSlots["what"], packet.ExecutionMode)
	if who := packet.IntentSlots["who"]; who != "" {
		summary = fmt.Sprintf("%s for %s", summary, who)
	}
	return o.recorder.PutDecisionLog(store.DecisionLog{
		ID:              requestID,
		WorkspaceID:     workspaceID,
		ActorID:         actorID,
		IntentType:      packet.IntentType,
		DecisionSummary: summary,
		Outcome:         outcome,
		OutcomeScore:    score,
		CreatedAt:       o.now().UTC().Format(time.RFC3339),
	})
}
