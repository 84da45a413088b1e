package judgement

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"brainstem/internal/config"
	"brainstem/internal/contracts"
)

// reversibilityByIntent labels how hard each action is to undo. Email
// leaving the building cannot be recalled; calendar entries can.
var reversibilityByIntent = map[string]string{
	contracts.IntentFollowUp:        contracts.Irreversible,
	contracts.IntentReplyEmail:      contracts.Irreversible,
	contracts.IntentSendEmail:       contracts.Irreversible,
	contracts.IntentColdOutreach:    contracts.Irreversible,
	contracts.IntentScheduleMeeting: contracts.Reversible,
	contracts.IntentGeneral:         contracts.Reversible,
}

// sensitiveKeywords groups topic keywords scanned over entity names.
var sensitiveKeywords = []struct {
	category string
	words    []string
}{
	{"legal", []string{"legal", "lawsuit", "compliance", "regulation", "contract", "nda"}},
	{"finance", []string{"revenue", "valuation", "funding", "investment", "equity", "shares"}},
	{"hr", []string{"termination", "fired", "harassment", "compensation", "salary"}},
	{"security", []string{"password", "credentials", "breach", "vulnerability", "access"}},
}

// detectSensitiveEntities flags VIP recipients, sensitive topics named in
// the known entity data, and external communication intents.
func detectSensitiveEntities(bundle contracts.ContextBundle) []string {
	found := []string{}

	names := make([]string, 0, len(bundle.Memory.EntityData))
	for name := range bundle.Memory.EntityData {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if bundle.Memory.EntityData[name]["tier"] == "VIP" {
			found = append(found, fmt.Sprintf("VIP: %s", name))
		}
	}

	haystack := strings.ToLower(strings.Join(names, " "))
	for _, group := range sensitiveKeywords {
		for _, word := range group.words {
			if strings.Contains(haystack, word) {
				found = append(found, fmt.Sprintf("%s: %s", group.category, word))
			}
		}
	}

	intent := bundle.QueryPlanRef.IntentType
	if intent == contracts.IntentColdOutreach || intent == contracts.IntentSendEmail {
		found = append(found, "external_communication")
	}
	return found
}

// checkRisk scores the action's blast radius on additive weighted signals
// and buckets the clamped score into a level.
func checkRisk(cfg config.JudgementConfig, bundle contracts.ContextBundle) contracts.RiskReport {
	sensitive := detectSensitiveEntities(bundle)
	reversibility, ok := reversibilityByIntent[bundle.QueryPlanRef.IntentType]
	if !ok {
		reversibility = contracts.Partial
	}

	score := 0.0
	reasons := []string{}

	hasVIP := false
	hasTopic := false
	hasExternal := false
	for _, s := range sensitive {
		switch {
		case strings.HasPrefix(s, "VIP:"):
			hasVIP = true
		case s == "external_communication":
			hasExternal = true
		case strings.HasPrefix(s, "legal:"),
			strings.HasPrefix(s, "finance:"),
			strings.HasPrefix(s, "security:"):
			hasTopic = true
		}
	}
	if hasVIP {
		score += 0.3
		reasons = append(reasons, "VIP recipient detected")
	}
	if hasExternal {
		score += 0.2
		reasons = append(reasons, "External communication")
	}
	if hasTopic {
		score += 0.15
		reasons = append(reasons, "Sensitive topic detected")
	}
	switch reversibility {
	case contracts.Irreversible:
		score += 0.25
		reasons = append(reasons, "Action is irreversible (email)")
	case contracts.Partial:
		score += 0.10
	}
	if mail, ok := bundle.Tools.Snapshots["mail"]; ok {
		if exists, _ := mail["thread_exists"].(bool); exists {
			score -= 0.1
			reasons = append(reasons, "Existing thread context (risk reduced)")
		}
	}

	score = round3(contracts.Clamp01(score))
	level := contracts.RiskLow
	switch {
	case score >= cfg.RiskHighThreshold:
		level = contracts.RiskHigh
	case score >= cfg.RiskMediumThreshold:
		level = contracts.RiskMedium
	}

	return contracts.RiskReport{
		Score:             score,
		Level:             level,
		Reasons:           reasons,
		SensitiveEntities: sensitive,
		Reversibility:     reversibility,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
