package retrieval

import (
	"math"
	"sort"

	"brainstem/internal/contracts"
	"brainstem/internal/store"
)

// rankPrecedents scores past decisions by outcome quality: the base outcome
// score gets a bump for success and a penalty for failure, clamped to [0,1].
func rankPrecedents(logs []store.DecisionLog) (contracts.PrecedentContext, []contracts.SourceRef) {
	ranked := make([]contracts.Precedent, 0, len(logs))
	for _, d := range logs {
		score := d.OutcomeScore
		switch d.Outcome {
		case "success":
			score += 0.1
		case "failure":
			score -= 0.3
		}
		ranked = append(ranked, contracts.Precedent{
			ID:              d.ID,
			IntentType:      d.IntentType,
			DecisionSummary: d.DecisionSummary,
			Outcome:         d.Outcome,
			OutcomeScore:    d.OutcomeScore,
			RankScore:       round3(contracts.Clamp01(score)),
			CreatedAt:       d.CreatedAt,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RankScore > ranked[j].RankScore
	})

	sources := []contracts.SourceRef{}
	for _, p := range ranked {
		sources = append(sources, contracts.SourceRef{
			SourceType: "precedent",
			SourceID:   p.ID,
			Confidence: math.Min(1.0, p.RankScore),
		})
	}
	return contracts.PrecedentContext{PastDecisions: ranked}, sources
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
