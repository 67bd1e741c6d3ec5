// Package remote implements the HTTP client for the catalog service's REST
// JSON API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fixdesk/fixdesk/internal/catalog"
)

// StatusError is a non-2xx response from the catalog service.
type StatusError struct {
	Status int
	Path   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Path, e.Status)
}

// Client communicates with the catalog service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// New creates a Client targeting the given base URL. A non-positive timeout
// disables the per-request deadline.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// Devices fetches the device catalog.
func (c *Client) Devices(ctx context.Context) ([]catalog.Device, error) {
	var devices []catalog.Device
	if err := c.getJSON(ctx, "/resource/devices", &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Instructions fetches the instruction catalog.
func (c *Client) Instructions(ctx context.Context) ([]catalog.Guide, error) {
	var guides []catalog.Guide
	if err := c.getJSON(ctx, "/resource/instructions", &guides); err != nil {
		return nil, err
	}
	return guides, nil
}

// Recipes fetches the recipe catalog.
func (c *Client) Recipes(ctx context.Context) ([]catalog.Guide, error) {
	var guides []catalog.Guide
	if err := c.getJSON(ctx, "/resource/recipes", &guides); err != nil {
		return nil, err
	}
	return guides, nil
}

// Tickets fetches the support tickets owned by the given user.
func (c *Client) Tickets(ctx context.Context, userID int64) ([]catalog.Ticket, error) {
	path := "/resource/tickets?user_id=" + url.QueryEscape(strconv.FormatInt(userID, 10))
	var tickets []catalog.Ticket
	if err := c.getJSON(ctx, path, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// NewTicket is the creation request body for POST /resource/tickets.
type NewTicket struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

// CreateTicket files a new support ticket and returns the created ticket as
// reported by the server.
func (c *Client) CreateTicket(ctx context.Context, nt NewTicket) (catalog.Ticket, error) {
	body, err := json.Marshal(nt)
	if err != nil {
		return catalog.Ticket{}, fmt.Errorf("marshalling ticket: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/resource/tickets", bytes.NewReader(body))
	if err != nil {
		return catalog.Ticket{}, fmt.Errorf("creating ticket request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return catalog.Ticket{}, fmt.Errorf("creating ticket: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return catalog.Ticket{}, &StatusError{Status: resp.StatusCode, Path: "/resource/tickets"}
	}

	var created catalog.Ticket
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return catalog.Ticket{}, fmt.Errorf("decoding created ticket: %w", err)
	}
	slog.Debug("ticket created", "id", created.ID, "request_id", requestID)
	return created, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", path, err)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode, Path: path}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}
