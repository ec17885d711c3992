// Package gateway talks to the library microservices through the API gateway.
//
// Every call is a single round trip: no retries, no caching and no client side timeout
// beyond the caller's context. Failures come back as *HTTPError (the service answered
// non-2xx), ErrConnection (the request never completed) or ErrUnauthenticated.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Service is a named route prefix behind the gateway
type Service struct {
	Name   string
	Prefix string
}

var (
	Auth          = Service{Name: "auth", Prefix: "autenticacion"}
	Catalog       = Service{Name: "catalog", Prefix: "catalogo"}
	Loans         = Service{Name: "loans", Prefix: "prestamos"}
	Reservations  = Service{Name: "reservations", Prefix: "reservas"}
	Notifications = Service{Name: "notifications", Prefix: "reservas"}
	// Root addresses the gateway itself (/health)
	Root = Service{Name: "gateway"}
)

type Client struct {
	baseURL string
	hc      *http.Client
	log     *zap.Logger
	metrics *Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }
func WithLogger(l *zap.Logger) Option       { return func(c *Client) { c.log = l } }
func WithMetrics(m *Metrics) Option         { return func(c *Client) { c.metrics = m } }

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) url(svc Service, path string) string {
	if svc.Prefix == "" {
		return c.baseURL + path
	}
	return c.baseURL + "/" + svc.Prefix + path
}

// Request sends body as JSON to svc+path and decodes a 2xx answer into out.
// A nil out discards the response body.
func (c *Client) Request(ctx context.Context, token string, svc Service, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: encode %s request: %w", svc.Name, err)
		}
		rdr = bytes.NewReader(b)
	}

	target := c.url(svc, path)
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return fmt.Errorf("gateway: build request %s %s: %w", method, target, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.metrics.observe(svc.Name, method, outcomeCanceled, start)
			return ctxErr
		}
		c.metrics.observe(svc.Name, method, outcomeConnError, start)
		c.log.Warn("gateway unreachable",
			zap.String("service", svc.Name),
			zap.String("method", method),
			zap.String("url", target),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s %s: %w", ErrConnection, method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.observe(svc.Name, method, outcomeConnError, start)
		return fmt.Errorf("%w: read %s %s: %w", ErrConnection, method, target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.observe(svc.Name, method, outcomeHTTPError, start)
		herr := &HTTPError{Service: svc.Name, Status: resp.StatusCode, Detail: detailFrom(raw)}
		c.log.Debug("gateway returned error",
			zap.String("service", svc.Name),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", herr.Detail),
		)
		if resp.StatusCode == http.StatusUnauthorized && token != "" {
			return fmt.Errorf("%w: %w", ErrUnauthenticated, herr)
		}
		return herr
	}
	c.metrics.observe(svc.Name, method, outcomeOK, start)

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrDecode, method, path, err)
	}
	return nil
}
