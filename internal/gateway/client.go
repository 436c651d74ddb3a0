// Package gateway is the HTTP client for the external approval and
// notification authority. It is the single source of truth for awards
// and modification approvals; this service's state machine is an
// optimistic cache reconciled against it.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sourcing/internal/award"
	"sourcing/internal/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// PauseEvent suspends bidding on an event. Used best-effort before
// entering a modification session.
func (c *Client) PauseEvent(ctx context.Context, eventId string) error {
	return c.post(ctx, fmt.Sprintf("/events/%s/pause", eventId), nil, nil)
}

// PauseEventWithReason is the operator-initiated variant; the authority
// requires a reason for explicit pauses.
func (c *Client) PauseEventWithReason(ctx context.Context, eventId, reasonId string) error {
	body := map[string]string{"reasonId": reasonId}
	return c.post(ctx, fmt.Sprintf("/events/%s/pause", eventId), body, nil)
}

func (c *Client) ResumeEvent(ctx context.Context, eventId string) error {
	return c.post(ctx, fmt.Sprintf("/events/%s/resume", eventId), nil, nil)
}

// FetchAwardRules retrieves the administrator-configured rule set. The
// authority answers with loosely-typed records; malformed entries are
// dropped by the parser. A null rule set is returned as nil, meaning
// "use implicit default", never an error.
func (c *Client) FetchAwardRules(ctx context.Context) ([]models.AwardRule, error) {
	var payload struct {
		Rules []map[string]any `json:"rules"`
	}
	err := c.get(ctx, "/award-rules", &payload)
	if err != nil {
		return nil, fmt.Errorf("gateway.Client.FetchAwardRules: %w", err)
	}
	if payload.Rules == nil {
		return nil, nil
	}
	return award.ParseRules(payload.Rules), nil
}

type ModificationDecision struct {
	Created bool `json:"created"`
	Resume  bool `json:"resume"`
}

func (c *Client) SubmitModificationRequest(ctx context.Context, eventId string, req models.ModificationRequest) (ModificationDecision, error) {
	var decision ModificationDecision
	err := c.post(ctx, fmt.Sprintf("/events/%s/modification-requests", eventId), req, &decision)
	if err != nil {
		return decision, fmt.Errorf("gateway.Client.SubmitModificationRequest: %w", err)
	}
	return decision, nil
}

// AwardSubmission carries a proposed award to the approval authority.
type AwardSubmission struct {
	EventId           string   `json:"eventId"`
	SelectedSuppliers []string `json:"selectedSuppliers"`
	Justification     string   `json:"justification"`
	EstimatedValue    float64  `json:"estimatedValue"`
	SplitAward        bool     `json:"splitAward"`
	CheckWarnings     []string `json:"checkWarnings"`
}

// AwardDecision is the authority's answer: either auto-approved with an
// award record, or a workflow was initiated and now owns the decision.
type AwardDecision struct {
	Approved bool                `json:"approved"`
	Award    *models.AwardRecord `json:"award,omitempty"`
	Message  string              `json:"message,omitempty"`
}

func (c *Client) InitiateAward(ctx context.Context, sub AwardSubmission) (AwardDecision, error) {
	var decision AwardDecision
	err := c.post(ctx, fmt.Sprintf("/events/%s/award", sub.EventId), sub, &decision)
	if err != nil {
		return decision, fmt.Errorf("gateway.Client.InitiateAward: %w", err)
	}
	return decision, nil
}

// SendNotification is fire-and-forget from the caller's perspective;
// failures are reported but never roll anything back.
func (c *Client) SendNotification(ctx context.Context, kind string, payload any) error {
	body := map[string]any{"kind": kind, "payload": payload}
	err := c.post(ctx, "/notifications", body, nil)
	if err != nil {
		return fmt.Errorf("gateway.Client.SendNotification: %w", err)
	}
	return nil
}

//// Service

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", models.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s answered %d: %s", models.ErrRemoteUnavailable, req.URL.Path, resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %s", models.ErrRemoteUnavailable, req.URL.Path, err)
	}
	return nil
}
