// Package insights calls the external narrative provider.
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sangkips/gstbill-api/internal/config"
	"github.com/sangkips/gstbill-api/internal/domain/insight"
	"github.com/sony/gobreaker/v2"
)

var (
	ErrNotConfigured   = insight.ErrNotConfigured
	ErrInvalidResponse = errors.New("insights provider returned an incomplete response")
	ErrUnavailable     = insight.ErrUnavailable
)

const maxResponseBytes = 1 << 20

// StatusError is a non-2xx answer from the provider.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("insights provider returned %d: %s", e.Code, e.Body)
}

// Client posts insight requests through a circuit breaker.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*insight.Response]
}

// NewClient builds a client from cfg. An empty endpoint yields a client
// whose calls fail with ErrNotConfigured.
func NewClient(cfg config.InsightsConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker[*insight.Response](gobreaker.Settings{
			Name:        "insights",
			MaxRequests: 1,
			Timeout:     time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			IsSuccessful: func(err error) bool {
				// Answers the provider gave on purpose do not count against it.
				return err == nil || errors.Is(err, ErrInvalidResponse) || isClientError(err)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Printf("Warning: circuit breaker %s changed from %s to %s", name, from, to)
			},
		}),
	}
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c.endpoint != ""
}

// Generate sends req and returns the provider's narrative.
func (c *Client) Generate(ctx context.Context, req insight.Request) (*insight.Response, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}
	resp, err := c.breaker.Execute(func() (*insight.Response, error) {
		return c.post(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, err
}

func (c *Client) post(ctx context.Context, req insight.Request) (*insight.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal insight request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build insight request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call insights provider: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read insight response: %w", err)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &StatusError{Code: httpResp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}

	var out insight.Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if !out.Valid() {
		return nil, ErrInvalidResponse
	}
	if out.Tips == nil {
		out.Tips = []string{}
	}
	return &out, nil
}

func isClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code >= 400 && se.Code < 500 && se.Code != http.StatusTooManyRequests
}
