package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/johnquangdev/meeting-automation/pkg/config"
)

// Client is a minimal Jira Cloud REST v3 client for creating issues
type Client struct {
	baseURL     string
	username    string
	apiToken    string
	projectKey  string
	issueTypeID string
	http        *http.Client
}

// NewClient creates a new Jira client
func NewClient(cfg *config.JiraConfig) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.URL, "/"),
		username:    cfg.Username,
		apiToken:    cfg.APIToken,
		projectKey:  cfg.ProjectKey,
		issueTypeID: cfg.IssueTypeID,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

// adfDocument is the Atlassian Document Format wrapper Jira Cloud expects
// for issue descriptions
type adfDocument struct {
	Type    string     `json:"type"`
	Version int        `json:"version"`
	Content []adfBlock `json:"content"`
}

type adfBlock struct {
	Type    string    `json:"type"`
	Content []adfText `json:"content"`
}

type adfText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type createIssueRequest struct {
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Project     projectRef  `json:"project"`
	Summary     string      `json:"summary"`
	Description adfDocument `json:"description"`
	IssueType   issueType   `json:"issuetype"`
}

type projectRef struct {
	Key string `json:"key"`
}

type issueType struct {
	ID string `json:"id"`
}

type createIssueResponse struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

// Issue is the result of a successful issue creation
type Issue struct {
	Key string
	URL string
}

// CreateIssue creates a Jira issue with the given summary and description.
// Transient failures are retried with exponential backoff.
func (c *Client) CreateIssue(ctx context.Context, summary, description string) (*Issue, error) {
	if c.baseURL == "" || c.username == "" || c.apiToken == "" {
		return nil, fmt.Errorf("jira credentials not configured")
	}

	payload := createIssueRequest{
		Fields: issueFields{
			Project: projectRef{Key: c.projectKey},
			Summary: summary,
			Description: adfDocument{
				Type:    "doc",
				Version: 1,
				Content: []adfBlock{
					{
						Type: "paragraph",
						Content: []adfText{
							{Type: "text", Text: description},
						},
					},
				},
			},
			IssueType: issueType{ID: c.issueTypeID},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal jira payload: %w", err)
	}

	var issue *Issue
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/api/3/issue", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.SetBasicAuth(c.username, c.apiToken)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("jira returned status %d", resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("jira returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
		}

		var out createIssueResponse
		if err := json.Unmarshal(raw, &out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode jira response: %w", err))
		}
		if out.Key == "" {
			return backoff.Permanent(fmt.Errorf("jira response missing issue key"))
		}

		issue = &Issue{
			Key: out.Key,
			URL: fmt.Sprintf("%s/browse/%s", c.baseURL, out.Key),
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return issue, nil
}
