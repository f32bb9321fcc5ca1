package email

import (
	"fmt"
	"html"
	"mime"
	"strings"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
)

// BuildMinutesHTML renders a minutes document as the HTML email body:
// summary paragraph, decisions list and an action-item table.
func BuildMinutesHTML(doc entities.MinutesDocument) string {
	summary := doc.Summary
	if summary == "" {
		summary = "No summary provided."
	}

	var decisions strings.Builder
	for _, d := range doc.Decisions {
		fmt.Fprintf(&decisions, "<li>&#x2022; %s</li>", html.EscapeString(d))
	}

	var rows strings.Builder
	for _, a := range doc.ActionItems {
		due := a.DueDate
		if due == "" {
			due = "TBD"
		}
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>",
			html.EscapeString(a.Action), html.EscapeString(a.Owner), html.EscapeString(due))
	}

	return fmt.Sprintf(`
<html>
    <head>
        <style>
            body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
            .container { max-width: 700px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; }
            h2, h3 { color: #0056b3; }
            ul { list-style-type: none; padding: 0; }
            li { margin-bottom: 10px; }
            table { width: 100%%; border-collapse: collapse; margin-top: 15px; }
            th, td { padding: 12px; border: 1px solid #ccc; text-align: left; }
            th { background-color: #f2f2f2; }
        </style>
    </head>
    <body>
        <div class="container">
            <h3>Summary</h3>
            <p>%s</p>
            <h3>Decisions</h3>
            <ul>%s</ul>
            <h3>Action Items</h3>
            <table>
                <thead>
                    <tr>
                        <th>Action</th>
                        <th>Owner</th>
                        <th>Due Date</th>
                    </tr>
                </thead>
                <tbody>%s</tbody>
            </table>
        </div>
    </body>
</html>`, html.EscapeString(summary), decisions.String(), rows.String())
}

// buildMessage assembles a single-part HTML email as an RFC 5322 message
func buildMessage(senderName, from string, to []string, subject, htmlBody string) []byte {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", senderName), from))
	b.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	return []byte(b.String())
}
