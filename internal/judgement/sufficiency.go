package judgement

import (
	"fmt"
	"sort"

	"brainstem/internal/contracts"
)

// requiredField names one bundle section an intent cannot act without.
type requiredField struct {
	path  string
	label string
}

// requiredFields lists what each intent type must have in the bundle
// before the pipeline may act on it.
var requiredFields = map[string][]requiredField{
	contracts.IntentFollowUp: {
		{"memory.entity_data", "Entity data for recipient"},
		{"memory.preferences", "User communication preferences"},
		{"tools.snapshots", "Email thread state"},
	},
	contracts.IntentReplyEmail: {
		{"tools.snapshots", "Email thread state"},
		{"memory.preferences", "User communication preferences"},
	},
	contracts.IntentSendEmail: {
		{"memory.preferences", "User communication preferences"},
	},
	contracts.IntentColdOutreach: {
		{"memory.preferences", "User communication preferences"},
		{"policy.rules", "Outreach policies"},
	},
	contracts.IntentScheduleMeeting: {
		{"tools.snapshots", "Calendar availability"},
	},
	contracts.IntentGeneral: {},
}

// checkSufficiency verifies the bundle carries every field the intent
// requires and that no required tool snapshot is stale. Each gap becomes a
// clarifying question; any question blocks action.
func checkSufficiency(bundle contracts.ContextBundle) contracts.NeedMoreInfo {
	questions := []contracts.ClarifyingQuestion{}

	for _, field := range requiredFields[bundle.QueryPlanRef.IntentType] {
		if !fieldPresent(bundle, field.path) {
			questions = append(questions, contracts.ClarifyingQuestion{
				Question:      fmt.Sprintf("Missing required data: %s", field.label),
				Options:       []string{},
				Reason:        fmt.Sprintf("Field '%s' is empty or missing", field.path),
				BlockingField: field.path,
			})
		}
	}

	tools := make([]string, 0, len(bundle.Tools.StaleFlags))
	for tool := range bundle.Tools.StaleFlags {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	for _, tool := range tools {
		if !bundle.Tools.StaleFlags[tool] {
			continue
		}
		questions = append(questions, contracts.ClarifyingQuestion{
			Question:      fmt.Sprintf("Data from %s may be outdated. Refresh?", tool),
			Options:       []string{"Refresh data", "Proceed anyway"},
			Reason:        fmt.Sprintf("%s data has expired (TTL exceeded)", tool),
			BlockingField: fmt.Sprintf("tools.%s", tool),
		})
	}

	return contracts.NeedMoreInfo{
		Value:     len(questions) > 0,
		Questions: questions,
	}
}

func fieldPresent(bundle contracts.ContextBundle, path string) bool {
	switch path {
	case "memory.entity_data":
		return len(bundle.Memory.EntityData) > 0
	case "memory.preferences":
		return len(bundle.Memory.Preferences) > 0
	case "tools.snapshots":
		return len(bundle.Tools.Snapshots) > 0
	case "policy.rules":
		return len(bundle.Policy.Rules) > 0
	}
	return false
}
