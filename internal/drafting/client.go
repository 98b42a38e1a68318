package drafting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/thabo/boardwise/pkg/config"
)

// StrategyPlan is the collaborator's pre-meeting output: a suggested agenda
// plus an audit of outstanding action items.
type StrategyPlan struct {
	SuggestedAgenda []string `json:"suggested_agenda"`
	ActionAudit     string   `json:"action_audit"`
}

// MinutesDraft is the collaborator's post-meeting output.
type MinutesDraft struct {
	Summary     string   `json:"summary"`
	Resolutions []string `json:"resolutions"`
	Actions     []string `json:"actions"`
}

// ComplianceReview scores a proposed agenda against governance practice.
type ComplianceReview struct {
	Score int      `json:"score"`
	Notes []string `json:"notes"`
}

// Client talks to the external drafting collaborator. Every call degrades to
// a canned payload on error, because drafting output is advisory and no
// governance transition may hinge on its availability.
type Client struct {
	http   *http.Client
	url    string
	apiKey string
	logger *slog.Logger
}

func NewClient(cfg config.DraftingConfig, logger *slog.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: cfg.Timeout()},
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		logger: logger,
	}
}

// PlanStrategy asks for a suggested agenda and an audit of open actions ahead
// of a meeting.
func (c *Client) PlanStrategy(ctx context.Context, meetingTitle string, openActions []string) *StrategyPlan {
	var plan StrategyPlan
	req := map[string]interface{}{
		"meeting_title": meetingTitle,
		"open_actions":  openActions,
	}
	if err := c.post(ctx, "/v1/strategy", req, &plan); err != nil {
		c.logger.Warn("strategy drafting unavailable, using fallback", "error", err)
		return cannedStrategy()
	}
	if len(plan.SuggestedAgenda) == 0 {
		return cannedStrategy()
	}
	return &plan
}

// GenerateMinutes drafts minutes from the closed meeting's record.
func (c *Client) GenerateMinutes(ctx context.Context, meetingTitle, resolution string, tallySummary string) *MinutesDraft {
	var draft MinutesDraft
	req := map[string]interface{}{
		"meeting_title": meetingTitle,
		"resolution":    resolution,
		"tally":         tallySummary,
	}
	if err := c.post(ctx, "/v1/minutes", req, &draft); err != nil {
		c.logger.Warn("minutes drafting unavailable, using fallback", "error", err)
		return cannedMinutes(meetingTitle)
	}
	if draft.Summary == "" {
		return cannedMinutes(meetingTitle)
	}
	return &draft
}

// CheckCompliance reviews an agenda for governance coverage.
func (c *Client) CheckCompliance(ctx context.Context, agenda []string) *ComplianceReview {
	var review ComplianceReview
	req := map[string]interface{}{"agenda": agenda}
	if err := c.post(ctx, "/v1/compliance", req, &review); err != nil {
		c.logger.Warn("compliance review unavailable, using fallback", "error", err)
		return cannedCompliance()
	}
	if review.Score == 0 {
		return cannedCompliance()
	}
	return &review
}

// AnalyzeMattersArising summarizes outstanding items carried between meetings.
func (c *Client) AnalyzeMattersArising(ctx context.Context, openActions []string) string {
	var out struct {
		Analysis string `json:"analysis"`
	}
	req := map[string]interface{}{"open_actions": openActions}
	if err := c.post(ctx, "/v1/matters-arising", req, &out); err != nil || out.Analysis == "" {
		if err != nil {
			c.logger.Warn("matters-arising analysis unavailable, using fallback", "error", err)
		}
		return cannedMattersArising()
	}
	return out.Analysis
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	if c.url == "" {
		return fmt.Errorf("drafting collaborator not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling drafting collaborator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("drafting collaborator returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
