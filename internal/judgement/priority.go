package judgement

import (
	"fmt"
	"math"

	"brainstem/internal/config"
	"brainstem/internal/contracts"
)

// baseUrgency is the intrinsic time pressure of each intent type.
var baseUrgency = map[string]float64{
	contracts.IntentFollowUp:        0.7,
	contracts.IntentReplyEmail:      0.8,
	contracts.IntentColdOutreach:    0.4,
	contracts.IntentSendEmail:       0.5,
	contracts.IntentScheduleMeeting: 0.6,
	contracts.IntentGeneral:         0.2,
}

// orgAlignment boosts intents aligned with the workspace's current focus.
var orgAlignment = map[string]map[string]float64{
	"fundraising": {
		contracts.IntentFollowUp:        0.3,
		contracts.IntentColdOutreach:    0.2,
		contracts.IntentReplyEmail:      0.2,
		contracts.IntentScheduleMeeting: 0.1,
		contracts.IntentSendEmail:       0.1,
		contracts.IntentGeneral:         -0.1,
	},
	"hiring": {
		contracts.IntentFollowUp:        0.1,
		contracts.IntentColdOutreach:    0.1,
		contracts.IntentReplyEmail:      0.2,
		contracts.IntentScheduleMeeting: 0.2,
		contracts.IntentSendEmail:       0.1,
		contracts.IntentGeneral:         -0.1,
	},
}

// checkPriority combines urgency (time pressure) and importance
// (relationship value plus org alignment) into one priority score. A score
// under the distraction threshold flags the request as a distraction.
func checkPriority(cfg config.JudgementConfig, bundle contracts.ContextBundle) contracts.PriorityReport {
	intent := bundle.QueryPlanRef.IntentType

	urgency, ok := baseUrgency[intent]
	if !ok {
		urgency = 0.3
	}
	reasons := []string{fmt.Sprintf("Base urgency for %s", intent)}

	if mail, ok := bundle.Tools.Snapshots["mail"]; ok {
		if days, ok := toInt(mail["last_reply_days_ago"]); ok {
			switch {
			case days > 7:
				urgency += 0.2
				reasons = append(reasons,
					fmt.Sprintf("No reply in %d days, follow-up overdue", days))
			case days > 3:
				urgency += 0.1
				reasons = append(reasons,
					fmt.Sprintf("No reply in %d days", days))
			}
		}
	}
	urgency = contracts.Clamp01(urgency)

	importance := 0.5
	tierBoost := 0.0
	for _, attrs := range bundle.Memory.EntityData {
		switch attrs["tier"] {
		case "VIP":
			tierBoost = math.Max(tierBoost, 0.3)
		case "key":
			tierBoost = math.Max(tierBoost, 0.2)
		}
	}
	if tierBoost > 0 {
		importance += tierBoost
		reasons = append(reasons, "High-value relationship involved")
	}
	if boost, ok := orgAlignment[cfg.OrgMode][intent]; ok && boost != 0 {
		importance += boost
		reasons = append(reasons,
			fmt.Sprintf("Org focus is %s", cfg.OrgMode))
	}

	score := math.Round((0.5*urgency+0.5*math.Min(1, importance))*100) / 100

	return contracts.PriorityReport{
		Score:           score,
		Reasons:         reasons,
		OrgMode:         cfg.OrgMode,
		DistractionFlag: score < cfg.PriorityMinScore,
	}
}

// toInt coerces JSON-ish numeric values.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
