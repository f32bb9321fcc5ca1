package llm

import "fmt"

// summaryPrompt asks for a concise prose summary of the transcript
func summaryPrompt(transcript string) string {
	return fmt.Sprintf(`Please provide a concise summary of the following meeting transcript.

Transcript:
%s
`, transcript)
}

// minutesPrompt asks for the structured Minutes of Meeting document. The key
// set is a wire contract with the parser; do not rename fields here without
// updating mom.ParseMinutesJSON.
func minutesPrompt(transcript string) string {
	return fmt.Sprintf(`You are an expert at creating professional Minutes of Meeting (MOM).
From the following transcript, create a concise MOM in a JSON format.
The JSON object must have the following keys:
- "title": A brief title for the meeting.
- "summary": A brief overview of the discussion.
- "decisions": An array of strings, where each string is a decision made.
- "action_items": An array of objects, where each object has keys "action", "owner", and "due_date".
- "attendees": An array of strings with the names of attendees.

Return only the JSON object, no other text.

---
Text:
%s
`, transcript)
}
