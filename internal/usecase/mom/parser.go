package mom

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
)

// Parser handles parsing and validation of LLM minutes responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseMinutesJSON parses the JSON response from the LLM into a MinutesDocument
func (p *Parser) ParseMinutesJSON(jsonString string) (*entities.MinutesDocument, error) {
	// Extract JSON from response (the model might wrap it in markdown code blocks)
	jsonString = extractJSON(jsonString)

	var doc entities.MinutesDocument
	if err := json.Unmarshal([]byte(jsonString), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	// Validate required fields
	if doc.Summary == "" {
		return nil, fmt.Errorf("missing summary in response")
	}

	if err := p.ValidateMinutesDocument(&doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// ValidateMinutesDocument validates the document and initializes nil slices
func (p *Parser) ValidateMinutesDocument(doc *entities.MinutesDocument) error {
	if doc == nil {
		return fmt.Errorf("minutes document is nil")
	}

	if doc.Summary == "" {
		return fmt.Errorf("missing summary")
	}

	// Decisions, action items and attendees can be empty for short meetings.
	// Just ensure they're initialized.
	if doc.Decisions == nil {
		doc.Decisions = make([]string, 0)
	}
	if doc.ActionItems == nil {
		doc.ActionItems = make([]entities.MinutesActionItem, 0)
	}
	if doc.Attendees == nil {
		doc.Attendees = make([]string, 0)
	}

	return nil
}

// ValidateTranscriptLength checks if a transcript meets minimum requirements
// for a full LLM analysis
func (p *Parser) ValidateTranscriptLength(transcript string) error {
	const (
		minChars = 100
		minWords = 20
	)

	if len(transcript) < minChars {
		return fmt.Errorf("transcript too short: %d characters (minimum: %d)", len(transcript), minChars)
	}

	words := strings.Fields(transcript)
	if len(words) < minWords {
		return fmt.Errorf("transcript too short: %d words (minimum: %d)", len(words), minWords)
	}

	return nil
}

// BuildMinimalDocument creates a fallback document for transcripts too short
// to analyze
func (p *Parser) BuildMinimalDocument(title, transcript string) *entities.MinutesDocument {
	summary := strings.TrimSpace(transcript)
	const maxLen = 500
	if len(summary) > maxLen {
		summary = summary[:maxLen] + "..."
	}
	if summary == "" {
		summary = "No transcript content available."
	}
	if title == "" {
		title = "Untitled Meeting"
	}

	return &entities.MinutesDocument{
		Title:       title,
		Summary:     summary,
		Decisions:   make([]string, 0),
		ActionItems: make([]entities.MinutesActionItem, 0),
		Attendees:   make([]string, 0),
	}
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
