package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GrigstonJC/boardgame-app/internal/middleware"
	"github.com/GrigstonJC/boardgame-app/pkg/errors"
	"golang.org/x/oauth2"
)

// Client talks to the Boardgame App backend at a fixed base URL.
// Methods taking a token send it as an OAuth2 bearer credential.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// Request-id outermost: the logging layer below it must see the
	// header the id layer injects.
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: middleware.WithRequestID(middleware.WithLogging(nil)),
		},
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Status fetches the root welcome payload.
func (c *Client) Status(ctx context.Context) (*ServerStatus, error) {
	var out ServerStatus
	if err := c.get(ctx, c.httpClient, "/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Healthy fetches GET /health.
func (c *Client) Healthy(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.get(ctx, c.httpClient, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Info fetches GET /api/info.
func (c *Client) Info(ctx context.Context) (*AppInfo, error) {
	var out AppInfo
	if err := c.get(ctx, c.httpClient, "/api/info", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login asks the backend to start the Google OAuth flow. The backend
// responds with the provider redirect URL and a state token.
func (c *Client) Login(ctx context.Context) (*AuthChallenge, error) {
	var out AuthChallenge
	if err := c.get(ctx, c.httpClient, "/auth/login", &out); err != nil {
		return nil, err
	}
	if out.AuthURL == "" {
		return nil, fmt.Errorf("api: login response missing auth_url")
	}
	return &out, nil
}

// CurrentUser looks up the identity behind the bearer token. A 401 comes
// back as *errors.AuthenticationError; callers use that to drop local
// credentials.
func (c *Client) CurrentUser(ctx context.Context, token string) (*Identity, error) {
	var out Identity
	if err := c.get(ctx, c.bearerClient(ctx, token), "/auth/user", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Protected fetches the bearer-gated resource.
func (c *Client) Protected(ctx context.Context, token string) (*ProtectedPayload, error) {
	var out ProtectedPayload
	if err := c.get(ctx, c.bearerClient(ctx, token), "/api/protected", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the session server-side. Best-effort by contract:
// callers clear local state regardless of the result.
func (c *Client) Logout(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	return c.do(c.bearerClient(ctx, token), req, nil)
}

// bearerClient layers the token onto the base transport stack via an
// oauth2 static token source.
func (c *Client) bearerClient(ctx context.Context, token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	authed := oauth2.NewClient(ctx, src)
	authed.Timeout = c.httpClient.Timeout
	return authed
}

func (c *Client) get(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	return c.do(client, req, out)
}

func (c *Client) do(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return errors.NewTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return errors.NewAuthenticationError(errorDetail(body))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewAPIError(resp.StatusCode, errorDetail(body))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

// errorDetail pulls the message out of the backend's {"detail": ...}
// error body, falling back to the raw body.
func errorDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(body))
}
