package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// TeamAPI defines the team CRUD operations exposed by the backend.
// This interface is implemented by *Client and can be used for testing.
type TeamAPI interface {
	ListTeams(ctx context.Context) ([]Team, error)
	GetTeam(ctx context.Context, id int) (Team, error)
	CreateTeam(ctx context.Context, team TeamCreate) (Team, error)
	UpdateTeam(ctx context.Context, id int, team TeamCreate) (Team, error)
	DeleteTeam(ctx context.Context, id int) error
}

// Ensure Client implements TeamAPI at compile time.
var _ TeamAPI = (*Client)(nil)

// Client talks to the pokedeck backend HTTP API. The bearer credential is
// mutable and shared by every request; it must only change through
// SetCredential and ClearCredential so the stored token and the attached
// credential never drift apart.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string

	mu     sync.RWMutex
	bearer string
}

const (
	defaultBaseURL   = "http://localhost:8000"
	defaultUserAgent = "pokedeck/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given backend base URL.
func NewClient(baseURL string) (*Client, error) {
	base, err := parseBaseURL(baseURL, defaultBaseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// SetCredential attaches token as the default bearer credential for all
// subsequent requests.
func (c *Client) SetCredential(token string) {
	c.mu.Lock()
	c.bearer = token
	c.mu.Unlock()
}

// ClearCredential removes the default bearer credential.
func (c *Client) ClearCredential() {
	c.mu.Lock()
	c.bearer = ""
	c.mu.Unlock()
}

// HasCredential reports whether a bearer credential is currently attached.
func (c *Client) HasCredential() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bearer != ""
}

func (c *Client) credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bearer
}

// Login exchanges credentials for a bearer token. The backend expects a
// form-encoded body on this endpoint.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var payload tokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &payload)
	if err != nil {
		return "", err
	}
	return payload.AccessToken, nil
}

// Register creates a new account and returns its bearer token. Unlike Login
// this endpoint takes a JSON body.
func (c *Client) Register(ctx context.Context, username, email, password string) (string, error) {
	body, err := json.Marshal(registerRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return "", fmt.Errorf("encode register request: %w", err)
	}

	var payload tokenResponse
	err = c.do(ctx, http.MethodPost, "/auth/register",
		strings.NewReader(string(body)), "application/json", &payload)
	if err != nil {
		return "", err
	}
	return payload.AccessToken, nil
}

// CurrentUser fetches the profile of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	var payload User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, "", &payload); err != nil {
		return User{}, err
	}
	return payload, nil
}

// ListTeams retrieves every team owned by the authenticated user.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	var payload []Team
	if err := c.do(ctx, http.MethodGet, "/teams/", nil, "", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetTeam retrieves a single team by id.
func (c *Client) GetTeam(ctx context.Context, id int) (Team, error) {
	var payload Team
	if err := c.do(ctx, http.MethodGet, teamPath(id), nil, "", &payload); err != nil {
		return Team{}, err
	}
	return payload, nil
}

// CreateTeam stores a new team and returns the server-assigned record,
// including the generated id and owner id.
func (c *Client) CreateTeam(ctx context.Context, team TeamCreate) (Team, error) {
	body, err := json.Marshal(team)
	if err != nil {
		return Team{}, fmt.Errorf("encode team: %w", err)
	}
	var payload Team
	err = c.do(ctx, http.MethodPost, "/teams/",
		strings.NewReader(string(body)), "application/json", &payload)
	if err != nil {
		return Team{}, err
	}
	return payload, nil
}

// UpdateTeam replaces the team with the given id.
func (c *Client) UpdateTeam(ctx context.Context, id int, team TeamCreate) (Team, error) {
	body, err := json.Marshal(team)
	if err != nil {
		return Team{}, fmt.Errorf("encode team: %w", err)
	}
	var payload Team
	err = c.do(ctx, http.MethodPut, teamPath(id),
		strings.NewReader(string(body)), "application/json", &payload)
	if err != nil {
		return Team{}, err
	}
	return payload, nil
}

// DeleteTeam removes the team with the given id.
func (c *Client) DeleteTeam(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, teamPath(id), nil, "", nil)
}

func teamPath(id int) string {
	return "/teams/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.credential(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("api %s: %w", path, ErrUnauthorized)
	case resp.StatusCode >= 400:
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw, fallback string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = fallback
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
