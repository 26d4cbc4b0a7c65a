package pushclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const registerPath = "/api/notifications/register"

// RegisterRequest is the body of a registration call
type RegisterRequest struct {
	DeviceID string `json:"deviceId"`
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// Registration is the row the backend stored for the device
type Registration struct {
	ID        string    `json:"id"`
	DeviceID  string    `json:"deviceId"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type registerResponse struct {
	Success bool         `json:"success"`
	Data    Registration `json:"data"`
}

// StatusError is returned when the backend answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("registration rejected: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("registration rejected: HTTP %d: %s", e.StatusCode, e.Message)
}

// Client talks to the registration endpoint
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// ClientOption configures a Client
type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds each registration call. It is applied to a copy of the
// HTTP client, so a shared client passed through WithHTTPClient is left untouched.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		owned := *c.httpClient
		owned.Timeout = c.timeout
		c.httpClient = &owned
	}
	return c
}

// Register implements Registrar
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	_, err := c.RegisterToken(ctx, req)
	return err
}

// RegisterToken POSTs one registration and returns the stored row
func (c *Client) RegisterToken(ctx context.Context, req RegisterRequest) (*Registration, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode registration: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+registerPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build registration request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send registration: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read registration response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &errBody)
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	var out registerResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode registration response: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("registration not acknowledged")
	}
	return &out.Data, nil
}
