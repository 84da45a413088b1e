package decision

import (
	"fmt"
	"sort"

	"brainstem/internal/contracts"
)

// whatByIntent is the one-line action description per intent type.
var whatByIntent = map[string]string{
	contracts.IntentFollowUp:        "Send follow-up message",
	contracts.IntentReplyEmail:      "Reply to email thread",
	contracts.IntentSendEmail:       "Compose and send email",
	contracts.IntentColdOutreach:    "Send cold outreach",
	contracts.IntentScheduleMeeting: "Schedule meeting",
	contracts.IntentGeneral:         "Process request",
}

// buildSlots fills the who/what/when/channel/template slots from the bundle
// and annotates any field a blocking question named as missing.
func buildSlots(bundle contracts.ContextBundle, report contracts.JudgementReport) map[string]string {
	intent := bundle.QueryPlanRef.IntentType
	slots := map[string]string{}

	names := make([]string, 0, len(bundle.Memory.EntityData))
	for name := range bundle.Memory.EntityData {
		names = append(names, name)
	}
	sort.Strings(names)
	who := ""
	if len(names) > 0 {
		who = names[0]
	}
	slots["who"] = who

	what, ok := whatByIntent[intent]
	if !ok {
		what = whatByIntent[contracts.IntentGeneral]
	}
	slots["what"] = what

	when := "asap"
	if calendar, ok := bundle.Tools.Snapshots["calendar"]; ok {
		if slot, ok := calendar["next_available"].(string); ok && slot != "" {
			when = slot
		}
	}
	slots["when"] = when

	switch intent {
	case contracts.IntentScheduleMeeting:
		slots["channel"] = "calendar"
	case contracts.IntentGeneral:
		slots["channel"] = "internal"
	default:
		slots["channel"] = "email"
	}

	hasVIP := false
	for _, name := range names {
		if bundle.Memory.EntityData[name]["tier"] == "VIP" {
			hasVIP = true
			break
		}
	}
	if hasVIP {
		slots["template"] = fmt.Sprintf("vip_%s_template", intent)
	} else {
		tone := "professional"
		if t, ok := bundle.Memory.Preferences["tone"].(string); ok && t != "" {
			tone = t
		}
		slots["template"] = fmt.Sprintf("%s_%s_template", tone, intent)
	}

	for _, q := range report.NeedMoreInfo.Questions {
		if q.BlockingField != "" {
			slots["missing_"+q.BlockingField] = q.Question
		}
	}
	return slots
}
