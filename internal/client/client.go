// Package client talks to the guest registry HTTP API and re-validates
// everything the server sends back.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wedding-registry/internal/models"
)

var (
	// ErrConnectivity means the server could not be reached at all
	ErrConnectivity = errors.New("failed to connect to server")
	// ErrBadResponse means the server answered with something unparseable
	ErrBadResponse = errors.New("bad response from server")
)

// RequestError carries the plain-text reason of a rejected request
type RequestError struct {
	Route   string
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Status == http.StatusBadRequest {
		return e.Message
	}
	return fmt.Sprintf("bad status code from %s: %d", e.Route, e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for malformed responses
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for the server at baseURL (e.g. http://localhost:8088)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save registers a new guest with no RSVP details yet
func (c *Client) Save(ctx context.Context, name string, side models.Side, family bool) (models.Guest, error) {
	body := map[string]any{"name": name, "side": side, "family": family}
	rec, err := c.do(ctx, http.MethodPost, "/api/save", body)
	if err != nil {
		return models.Guest{}, err
	}
	return c.guestFrom("/api/save", rec)
}

// Update replaces every detail of an existing guest
func (c *Client) Update(ctx context.Context, guest models.Guest) (models.Guest, error) {
	if err := guest.Validate(); err != nil {
		return models.Guest{}, err
	}
	rec, err := c.do(ctx, http.MethodPost, "/api/update", guest)
	if err != nil {
		return models.Guest{}, err
	}
	return c.guestFrom("/api/update", rec)
}

// Load fetches one guest by name
func (c *Client) Load(ctx context.Context, name string) (models.Guest, error) {
	rec, err := c.do(ctx, http.MethodGet, "/api/load?name="+url.QueryEscape(name), nil)
	if err != nil {
		return models.Guest{}, err
	}
	return c.guestFrom("/api/load", rec)
}

// List fetches all guests in alphabetical order
func (c *Client) List(ctx context.Context) ([]models.Guest, error) {
	rec, err := c.do(ctx, http.MethodGet, "/api/list", nil)
	if err != nil {
		return nil, err
	}
	raw, ok := rec["guests"].([]any)
	if !ok {
		c.log.Error().Interface("data", rec).Msg("bad data from /api/list: guests is not an array")
		return nil, fmt.Errorf("%w: /api/list: guests is not an array", ErrBadResponse)
	}
	guests, err := models.ParseGuestCollection(raw)
	if err != nil {
		c.log.Error().Err(err).Msg("bad data from /api/list: guests contains non-guest values")
		return nil, fmt.Errorf("%w: /api/list: %w", ErrBadResponse, err)
	}
	return guests, nil
}

// Stats fetches the per-side headcount
func (c *Client) Stats(ctx context.Context) (models.GuestStatistics, error) {
	var out struct {
		Stats models.GuestStatistics `json:"stats"`
	}
	data, err := c.roundTrip(ctx, http.MethodGet, "/api/stats", nil)
	if err != nil {
		return models.GuestStatistics{}, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return models.GuestStatistics{}, fmt.Errorf("%w: /api/stats: 200 response is not JSON", ErrBadResponse)
	}
	return out.Stats, nil
}

func (c *Client) guestFrom(route string, rec map[string]any) (models.Guest, error) {
	g, err := models.ParseGuest(rec["guest"])
	if err != nil {
		c.log.Error().Err(err).Str("route", route).Msg("guest from server did not parse")
		return models.Guest{}, fmt.Errorf("%w: %s: %w", ErrBadResponse, route, err)
	}
	return g, nil
}

// do sends the request and decodes a 200 body as a JSON record
func (c *Client) do(ctx context.Context, method, path string, body any) (map[string]any, error) {
	data, err := c.roundTrip(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil || rec == nil {
		return nil, fmt.Errorf("%w: %s: 200 response is not a JSON record", ErrBadResponse, routeOf(path))
	}
	return rec, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrConnectivity, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{Route: routeOf(path), Status: resp.StatusCode, Message: string(data)}
	}
	return data, nil
}

func routeOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
