// Package learning implements the fourth pipeline stage: it folds what
// happened after a decision back into proposals. Memory writes pass a
// fail-closed gate, policy changes are only ever suggested, and every run
// gets a quality evaluation. The stage proposes; applying is the caller's
// job.
package learning

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"brainstem/internal/contracts"
)

// LearningVersion tags the report schema emitted by this engine.
const LearningVersion = "v1"

// Engine is the learning stage.
type Engine struct {
	log *zap.Logger
	now func() time.Time
}

// NewEngine wires a learning engine. A nil logger falls back to no-op.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log, now: time.Now}
}

// riskLevelFromReasons recovers the judged risk level from the decision's
// reason lines. The learning stage only sees the packet, not the judgement
// report, so the level rides along in prose.
func riskLevelFromReasons(reasons []string) string {
	for _, r := range reasons {
		lower := strings.ToLower(r)
		if !strings.Contains(lower, "risk") {
			continue
		}
		if strings.Contains(lower, "high") {
			return contracts.RiskHigh
		}
		if strings.Contains(lower, "medium") {
			return contracts.RiskMedium
		}
	}
	return contracts.RiskLow
}

// Run folds one execution signal back into memory updates, policy
// suggestions and eval metrics.
func (e *Engine) Run(ctx context.Context, packet contracts.DecisionPacket, signal ExecutionSignal) (contracts.LearningReport, error) {
	if err := ctx.Err(); err != nil {
		return contracts.LearningReport{}, err
	}
	started := e.now()
	riskLevel := riskLevelFromReasons(packet.Reasons)

	record := buildOutcomeRecord(packet, signal)

	// Memory writeback only runs for executed outcomes; a failed or rejected
	// action leaves no memory behind.
	updates := []contracts.MemoryUpdate{}
	if executed(signal.Result) {
		updates = proposeMemoryUpdates(packet, signal)
		updates = resolveWritePolicy(updates, signal.Result, riskLevel)
	}

	suggestions := []contracts.PolicySuggestion{}
	if signal.Feedback == contracts.FeedbackReject || signal.Result == contracts.ResultApproved {
		suggestions = proposePolicySuggestions(packet, signal)
	}

	eval := evaluate(packet, signal, record, updates)

	autoApproved, queued := 0, 0
	for _, u := range updates {
		if u.AutoApproved {
			autoApproved++
		}
		if u.ReviewRequired {
			queued++
		}
	}

	report := contracts.LearningReport{
		Outcome:           signal.Result,
		MemoryUpdates:     updates,
		OutcomeRecord:     record,
		PolicySuggestions: suggestions,
		EvalMetrics:       eval,
		Metrics: contracts.LearningMetrics{
			LearningTimeMS:       float64(e.now().Sub(started).Microseconds()) / 1000,
			UpdatesProposed:      len(updates),
			UpdatesAutoApproved:  autoApproved,
			UpdatesQueuedReview:  queued,
			SuggestionsGenerated: len(suggestions),
		},
		Version: LearningVersion,
	}

	e.log.Debug("learning complete",
		zap.String("result", signal.Result),
		zap.String("risk_level", riskLevel),
		zap.Int("updates_proposed", len(updates)),
		zap.Int("updates_auto_approved", autoApproved),
		zap.Float64("quality_score", eval.QualityScore))
	return report, nil
}
