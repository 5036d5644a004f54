// AngelaMos | 2026
// client.go

// Package store is the adapter for the external Supabase-style persistence
// service. Everything goes through its PostgREST filter interface; this
// process never speaks SQL. Failures are logged with the upstream status and
// body, then surfaced as core.ErrUpstream so handlers can answer with a
// generic 502.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/carterperez-dev/releasetrack/internal/config"
	"github.com/carterperez-dev/releasetrack/internal/core"
)

const defaultTimeout = 8 * time.Second

type Client struct {
	base       string
	serviceKey string
	http       *http.Client
}

func NewClient(cfg config.StoreConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		base:       strings.TrimRight(cfg.URL, "/") + "/rest/v1",
		serviceKey: cfg.ServiceKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Query builds a PostgREST filter string: eq filters plus optional select
// and order clauses. Values are URL-escaped by url.Values.
type Query struct {
	values url.Values
}

func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

func (q *Query) Eq(column, value string) *Query {
	q.values.Set(column, "eq."+value)
	return q
}

func (q *Query) Select(columns string) *Query {
	q.values.Set("select", columns)
	return q
}

func (q *Query) Order(expr string) *Query {
	q.values.Set("order", expr)
	return q
}

func (q *Query) Encode() string {
	if q == nil {
		return ""
	}
	return q.values.Encode()
}

// Select runs a filtered read and decodes the JSON array into dest.
func (c *Client) Select(
	ctx context.Context,
	table string,
	q *Query,
	dest any,
) error {
	return c.do(ctx, http.MethodGet, table, q, nil, dest, false)
}

// Insert creates a row. When dest is non-nil the request asks the store to
// return the created representation (a single-element array) and decodes it.
func (c *Client) Insert(
	ctx context.Context,
	table string,
	payload any,
	dest any,
) error {
	return c.do(ctx, http.MethodPost, table, nil, payload, dest, dest != nil)
}

// Update applies a partial change to every row matched by the filter. With a
// non-nil dest the affected rows come back as a JSON array; an empty array
// means the filter matched nothing, which scoped callers treat as an
// implicit not-found.
func (c *Client) Update(
	ctx context.Context,
	table string,
	q *Query,
	payload any,
	dest any,
) error {
	return c.do(ctx, http.MethodPatch, table, q, payload, dest, dest != nil)
}

func (c *Client) Delete(ctx context.Context, table string, q *Query) error {
	return c.do(ctx, http.MethodDelete, table, q, nil, nil, false)
}

// Ping verifies the store endpoint is reachable and accepting the service
// credential.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/", nil)
	if err != nil {
		return fmt.Errorf("store ping: %w", err)
	}
	c.setHeaders(req, false)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("store ping: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body drain

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("store ping: status %d: %w", resp.StatusCode, core.ErrUpstream)
	}

	return nil
}

func (c *Client) do(
	ctx context.Context,
	method, table string,
	q *Query,
	payload any,
	dest any,
	wantRepresentation bool,
) error {
	endpoint := c.base + "/" + table
	if query := q.Encode(); query != "" {
		endpoint += "?" + query
	}

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("store %s %s: encode payload: %w", method, table, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("store %s %s: %w", method, table, err)
	}
	c.setHeaders(req, wantRepresentation)

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("store request failed",
			"method", method,
			"table", table,
			"error", err,
		)
		return fmt.Errorf("store %s %s: %w", method, table, core.ErrUpstream)
	}
	defer resp.Body.Close() //nolint:errcheck // response body drain

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("store %s %s: read response: %w", method, table, core.ErrUpstream)
	}

	if resp.StatusCode < http.StatusOK ||
		resp.StatusCode >= http.StatusMultipleChoices {
		slog.Error("store request rejected",
			"method", method,
			"table", table,
			"status", resp.StatusCode,
			"body", string(respBody),
		)
		return fmt.Errorf(
			"store %s %s: status %d: %w",
			method,
			table,
			resp.StatusCode,
			core.ErrUpstream,
		)
	}

	if dest != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, dest); err != nil {
			slog.Error("store response decode failed",
				"method", method,
				"table", table,
				"error", err,
			)
			return fmt.Errorf("store %s %s: decode response: %w", method, table, core.ErrUpstream)
		}
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request, wantRepresentation bool) {
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	if wantRepresentation {
		req.Header.Set("Prefer", "return=representation")
	}
}
