// Package api is the typed HTTP client for the journal server. It maps the
// server's error taxonomy back onto AppError values so callers can branch on
// error codes instead of HTTP status numbers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quill/internal/models"
	"quill/internal/validation"
)

// Client talks to a journal server instance.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

// NewClient creates a Client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListFilter narrows ListEntries results. Zero values mean no constraint.
type ListFilter struct {
	UserEmail string
	Feeling   string
	Location  string
	Tag       string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
	Limit     int
	Offset    int
}

func (f ListFilter) query() string {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("user", f.UserEmail)
	set("feeling", f.Feeling)
	set("location", f.Location)
	set("tag", f.Tag)
	set("startDate", f.StartDate)
	set("endDate", f.EndDate)
	if f.Limit > 0 {
		q.Set("limit", fmt.Sprint(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", fmt.Sprint(f.Offset))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListEntries fetches entries, newest first.
func (c *Client) ListEntries(ctx context.Context, filter ListFilter) ([]models.Entry, error) {
	var entries []models.Entry
	err := c.do(ctx, http.MethodGet, "/api/entries"+filter.query(), nil, &entries)
	return entries, err
}

// GetEntry fetches one entry by ID.
func (c *Client) GetEntry(ctx context.Context, id uint) (*models.Entry, error) {
	var entry models.Entry
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/entries/%d", id), nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateEntry saves a new entry and returns the persisted record.
func (c *Client) CreateEntry(ctx context.Context, payload validation.EntryPayload) (*models.Entry, error) {
	var entry models.Entry
	if err := c.do(ctx, http.MethodPost, "/api/entries", payload, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateEntry replaces an entry's fields with the payload.
func (c *Client) UpdateEntry(ctx context.Context, id uint, payload validation.EntryPayload) (*models.Entry, error) {
	var entry models.Entry
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/entries/%d", id), payload, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SetSensitive toggles only the sensitive flag of an entry.
func (c *Client) SetSensitive(ctx context.Context, id uint, sensitive bool) (*models.Entry, error) {
	var entry models.Entry
	body := map[string]bool{"sensitive": sensitive}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/entries/%d/sensitive", id), body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry removes an entry and its comments.
func (c *Client) DeleteEntry(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/entries/%d", id), nil, nil)
}

// ListComments fetches the comments on an entry, oldest first.
func (c *Client) ListComments(ctx context.Context, entryID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/entries/%d/comments", entryID), nil, &comments)
	return comments, err
}

// CreateComment adds a comment to an entry.
func (c *Client) CreateComment(ctx context.Context, entryID uint, payload validation.CommentPayload) (*models.Comment, error) {
	var comment models.Comment
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/entries/%d/comments", entryID), payload, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a single comment.
func (c *Client) DeleteComment(ctx context.Context, entryID, commentID uint) error {
	return c.do(ctx, http.MethodDelete,
		fmt.Sprintf("/api/entries/%d/comments/%d", entryID, commentID), nil, nil)
}

// VerifyPassword checks the gate password and returns the unlock token.
func (c *Client) VerifyPassword(ctx context.Context, userEmail, password string) (string, error) {
	body := map[string]string{"userEmail": userEmail, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/verify-password", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// SetLockPassword sets or replaces the gate password for an owner.
func (c *Client) SetLockPassword(ctx context.Context, userEmail, password string) error {
	body := map[string]string{"userEmail": userEmail, "password": password}
	return c.do(ctx, http.MethodPut, "/api/lock-password", body, nil)
}

// BaseURL returns the server address this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorFromResponse turns an error status into the matching AppError.
func errorFromResponse(resp *http.Response) error {
	var body models.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)

	message := body.Error
	if message == "" {
		message = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return models.NewValidationError(message)
	case http.StatusNotFound:
		return &models.AppError{Code: "NOT_FOUND", Message: message}
	case http.StatusUnauthorized:
		return models.NewAuthChallengeError()
	default:
		return &models.AppError{Code: "INTERNAL_ERROR", Message: message}
	}
}
