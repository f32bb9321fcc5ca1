package slack

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
)

// FormatMinutes renders a minutes document as a Slack mrkdwn message
func FormatMinutes(doc entities.MinutesDocument) string {
	title := doc.Title
	if title == "" {
		title = "Meeting Minutes"
	}
	summary := doc.Summary
	if summary == "" {
		summary = "No summary provided."
	}

	var decisions strings.Builder
	for _, d := range doc.Decisions {
		fmt.Fprintf(&decisions, "- • %s\n", d)
	}

	var actionItems strings.Builder
	for _, a := range doc.ActionItems {
		owner := a.Owner
		if owner == "" {
			owner = "N/A"
		}
		due := a.DueDate
		if due == "" {
			due = "N/A"
		}
		fmt.Fprintf(&actionItems, "- *Action:* %s\n  - *Owner:* %s\n  - *Due Date:* %s\n", a.Action, owner, due)
	}

	return fmt.Sprintf(
		"📌 *Minutes of Meeting: %s*\n\n*Summary*\n%s\n\n*Decisions*\n%s\n*Action Items*\n%s",
		title, summary, decisions.String(), actionItems.String(),
	)
}
