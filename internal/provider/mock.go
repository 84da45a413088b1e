package provider

import (
	"context"
	"time"
)

// MailProvider is the mock mail tool. It reports a thread with an overdue
// reply, which exercises the urgency boost downstream.
type MailProvider struct {
	// Now supplies fetch timestamps; defaults to time.Now.
	Now func() time.Time
}

func (p *MailProvider) Name() string { return "mail" }

func (p *MailProvider) Supports(intentType string) bool {
	switch intentType {
	case "follow_up", "reply_email", "send_email", "cold_outreach":
		return true
	}
	return false
}

func (p *MailProvider) Fetch(_ context.Context, _ string, _ []string) (Snapshot, error) {
	return Snapshot{
		ResultSummary: map[string]any{
			"last_reply_days_ago": 10,
			"thread_exists":       true,
			"unread_count":        0,
		},
		FetchedAt:  p.now().Format(time.RFC3339),
		TTLSeconds: 60,
	}, nil
}

func (p *MailProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now().UTC()
}

// CalendarProvider is the mock calendar tool.
type CalendarProvider struct {
	Now func() time.Time
}

func (p *CalendarProvider) Name() string { return "calendar" }

func (p *CalendarProvider) Supports(intentType string) bool {
	return intentType == "schedule_meeting"
}

func (p *CalendarProvider) Fetch(_ context.Context, _ string, _ []string) (Snapshot, error) {
	now := p.now()
	return Snapshot{
		ResultSummary: map[string]any{
			"next_free_slot":   now.Add(24 * time.Hour).Format(time.RFC3339),
			"busy_slots_today": 3,
		},
		FetchedAt:  now.Format(time.RFC3339),
		TTLSeconds: 120,
	}, nil
}

func (p *CalendarProvider) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now().UTC()
}

// DefaultRegistry returns the registry of mock providers used by the CLI.
func DefaultRegistry() *Registry {
	return NewRegistry(&MailProvider{}, &CalendarProvider{})
}
