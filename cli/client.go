package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xiaot623/gogo/coach/internal/domain"
)

// Client talks to the interview coach HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Start opens a new interview.
func (c *Client) Start(ctx context.Context, role, tone string) (*domain.TurnResponse, error) {
	var resp domain.TurnResponse
	err := c.do(ctx, http.MethodPost, "/api/start_interview", domain.StartInterviewRequest{Role: role, Tone: tone}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Answer submits the answer to the question asked at step.
func (c *Client) Answer(ctx context.Context, req domain.SubmitAnswerRequest) (*domain.TurnResponse, error) {
	var resp domain.TurnResponse
	if err := c.do(ctx, http.MethodPost, "/api/process_answer", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Feedback fetches the final report of a session.
func (c *Client) Feedback(ctx context.Context, sessionID string) (*domain.FeedbackReport, error) {
	var report domain.FeedbackReport
	if err := c.do(ctx, http.MethodGet, "/api/get_feedback/"+sessionID, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Session fetches the progress of a session.
func (c *Client) Session(ctx context.Context, sessionID string) (*domain.SessionView, error) {
	var view domain.SessionView
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+sessionID, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
