// Package pokeapi is a minimal read-only client for the public PokeAPI
// species endpoint. Lookups are one-shot: no retries, no caching.
package pokeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Lookup defines the single species-resolution operation. Implemented by
// *Client; view-models depend on this interface so tests can fake it.
type Lookup interface {
	Lookup(ctx context.Context, name string) (Species, error)
}

var _ Lookup = (*Client)(nil)

// Species is the normalized result of a species lookup. Immutable once
// returned; recreated on every lookup.
type Species struct {
	ID       int
	Name     string
	ImageURL string
	Types    []string
}

// NotFoundError reports that a species name could not be resolved. Every
// lookup failure collapses into this error so callers have a single
// "unknown name" path, matching how the UI treats network trouble and a
// genuinely bad name identically.
type NotFoundError struct {
	Name string
	err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pokemon %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error { return e.err }

// Client talks to a PokeAPI-compatible species service.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "https://pokeapi.co/api/v2"
	defaultUserAgent = "pokedeck/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given species service base URL.
func NewClient(baseURL string) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse species url %q: %w", baseURL, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// speciesPayload mirrors the subset of the PokeAPI pokemon resource we use.
type speciesPayload struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
	} `json:"sprites"`
	Types []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
}

// Lookup resolves a species by name. The name is lowercased before the
// request. Any failure (transport, 404, malformed payload) is reported as a
// *NotFoundError carrying the queried name.
func (c *Client) Lookup(ctx context.Context, name string) (Species, error) {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return Species{}, &NotFoundError{Name: name}
	}

	reqURL := c.baseURL.String() + "/pokemon/" + url.PathEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Species{}, &NotFoundError{Name: name, err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Species{}, &NotFoundError{Name: name, err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return Species{}, &NotFoundError{Name: name, err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var payload speciesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Species{}, &NotFoundError{Name: name, err: err}
	}

	types := make([]string, 0, len(payload.Types))
	for _, t := range payload.Types {
		types = append(types, t.Type.Name)
	}
	return Species{
		ID:       payload.ID,
		Name:     payload.Name,
		ImageURL: payload.Sprites.FrontDefault,
		Types:    types,
	}, nil
}
