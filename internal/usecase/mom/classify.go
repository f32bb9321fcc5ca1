package mom

import (
	"regexp"
	"time"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
)

var (
	ticketPattern   = regexp.MustCompile(`(?i)\b(jira|ticket|create ticket)\b`)
	schedulePattern = regexp.MustCompile(`(?i)\b(schedule a call|set up a meeting|gmeet invite|calendar invite|meeting|schedule|invite|call)\b`)
)

// ClassifyAction determines how an action item should be handled downstream
// based on keywords in its text. Ticket wins when both patterns match.
func ClassifyAction(action string) entities.ActionItemKind {
	if ticketPattern.MatchString(action) {
		return entities.ActionItemKindTicket
	}
	if schedulePattern.MatchString(action) {
		return entities.ActionItemKindSchedule
	}
	return entities.ActionItemKindTask
}

// dueDateLayouts are the formats the LLM is seen emitting for due dates
var dueDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDueDate attempts to parse a free-text due date. Returns nil when the
// text does not match any known layout.
func ParseDueDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
