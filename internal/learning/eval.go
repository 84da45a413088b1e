package learning

import (
	"fmt"
	"math"
	"strings"

	"brainstem/internal/contracts"
)

// evaluate scores the run's quality, raises red flags, and checks for
// behavioral drift.
func evaluate(packet contracts.DecisionPacket, signal ExecutionSignal, record contracts.OutcomeRecord, updates []contracts.MemoryUpdate) contracts.EvalMetrics {
	quality := 0.5
	switch {
	case executed(signal.Result):
		quality += 0.3
	case signal.Result == contracts.ResultRejected:
		quality -= 0.3
	case signal.Result == contracts.ResultFailed:
		quality -= 0.4
	}
	if signal.Feedback == contracts.FeedbackEdit {
		quality -= 0.1
	}
	quality -= math.Min(0.3, 0.1*float64(len(signal.ToolErrors)))
	quality = math.Round(contracts.Clamp01(quality)*100) / 100

	redFlags := []string{}
	for _, opt := range packet.Trace.RejectedOptions {
		if strings.Contains(strings.ToLower(opt.RejectionReason), "violation") {
			redFlags = append(redFlags, fmt.Sprintf("Rejected option cites a violation: %s", opt.Option))
		}
	}
	if signal.Result == contracts.ResultFailed && len(signal.ToolErrors) > 0 {
		redFlags = append(redFlags, "Execution failed with tool errors")
	}
	if signal.LatencyMS > 5000 {
		redFlags = append(redFlags, fmt.Sprintf("Latency %.0fms exceeds 5000ms", signal.LatencyMS))
	}
	if record.Retries > 2 {
		redFlags = append(redFlags, fmt.Sprintf("%d retries exceed the retry budget", record.Retries))
	}

	reviewCount := 0
	for _, u := range updates {
		if u.ReviewRequired {
			reviewCount++
		}
	}
	driftDetails := []string{}
	drift := reviewCount > 3
	if drift {
		driftDetails = append(driftDetails, fmt.Sprintf(
			"%d memory updates queued for review, potential behavior shift", reviewCount))
	}

	successRate := 0.0
	if executed(signal.Result) {
		successRate = 1.0
	}

	return contracts.EvalMetrics{
		QualityScore:  quality,
		DriftDetected: drift,
		DriftDetails:  driftDetails,
		RedFlagCount:  len(redFlags),
		RedFlags:      redFlags,
		SuccessRate:   successRate,
		AvgLatencyMS:  signal.LatencyMS,
	}
}
