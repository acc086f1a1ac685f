package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vedic_counter/internal/models"
)

const defaultTimeout = 10 * time.Second

// HTTPClient abstracts HTTP calls for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Result is the body of every counter mutation.
type Result struct {
	Status string             `json:"status"`
	State  models.CounterView `json:"state"`
}

// Client talks to the counter HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPClient
}

// New creates a client for baseURL. token may be empty for auth-only calls.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SetHTTPClient replaces the transport (for testing).
func (c *Client) SetHTTPClient(hc HTTPClient) {
	c.httpClient = hc
}

// SetToken sets the bearer token used by /api/v1 calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) State(ctx context.Context) (models.CounterView, error) {
	var view models.CounterView
	err := c.do(ctx, http.MethodGet, "/api/v1/counter/state", nil, &view)
	return view, err
}

func (c *Client) Increment(ctx context.Context) (Result, error) {
	return c.mutate(ctx, "/api/v1/counter/increment", nil)
}

func (c *Client) Decrement(ctx context.Context) (Result, error) {
	return c.mutate(ctx, "/api/v1/counter/decrement", nil)
}

// SetStartingNumber sends raw as typed; the server applies the lenient parse.
func (c *Client) SetStartingNumber(ctx context.Context, raw string) (Result, error) {
	return c.mutate(ctx, "/api/v1/counter/start", map[string]string{"starting_number": raw})
}

// Reset only clears the session when confirm is true.
func (c *Client) Reset(ctx context.Context, confirm bool) (Result, error) {
	return c.mutate(ctx, "/api/v1/counter/reset", map[string]bool{"confirm": confirm})
}

func (c *Client) PauseTimer(ctx context.Context) (Result, error) {
	return c.mutate(ctx, "/api/v1/timer/pause", nil)
}

func (c *Client) ResumeTimer(ctx context.Context) (Result, error) {
	return c.mutate(ctx, "/api/v1/timer/resume", nil)
}

// SignIn exchanges credentials for a token and keeps it on the client.
func (c *Client) SignIn(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/sign-in", body, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("sign-in returned an empty token")
	}
	c.token = out.Token
	return out.Token, nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (models.Actor, error) {
	var a models.Actor
	err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, &a)
	return a, err
}

func (c *Client) mutate(ctx context.Context, path string, body any) (Result, error) {
	var res Result
	err := c.do(ctx, http.MethodPost, path, body, &res)
	return res, err
}

// do sends body as JSON and decodes a 2xx answer into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
