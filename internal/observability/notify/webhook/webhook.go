package webhook

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

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/parkease/parkeased/internal/observability/notify"
)

// Config captures the webhook endpoint behaviour we need.
type Config struct {
	// URL is the endpoint reservation events are POSTed to.
	URL string
	// BodySelector is an optional JMESPath expression applied to the event
	// document before posting. Empty means the full document is sent.
	BodySelector string
	// Headers are added to every request, e.g. an Authorization header.
	Headers    map[string]string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// Client delivers reservation events to an HTTP webhook.
type Client struct {
	url        string
	selector   string
	headers    map[string]string
	retryLimit int
	client     *http.Client
}

// NewClient builds a webhook client. The endpoint URL must be absolute
// http(s); the body selector, when present, must compile.
func NewClient(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.URL)
	if endpoint == "" {
		return nil, errors.New("webhook url is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid webhook url scheme: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return nil, errors.New("invalid webhook url: missing host")
	}

	selector := strings.TrimSpace(cfg.BodySelector)
	if selector != "" {
		if _, err := jmespath.Compile(selector); err != nil {
			return nil, fmt.Errorf("invalid body selector: %w", err)
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	retries := cfg.RetryLimit
	if retries < 0 {
		retries = 0
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		url:        endpoint,
		selector:   selector,
		headers:    cfg.Headers,
		retryLimit: retries,
		client:     hc,
	}, nil
}

// SendReservationEvent posts the event document, retrying transient
// failures with a linear backoff.
func (c *Client) SendReservationEvent(ctx context.Context, payload notify.ReservationEventPayload) error {
	if payload.OccurredAt.IsZero() {
		payload.OccurredAt = time.Now()
	}

	body, err := c.deriveBody(payload)
	if err != nil {
		return err
	}

	attempts := c.retryLimit + 1
	var lastErr error
	for attempt := range attempts {
		err = c.post(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt < attempts-1 {
			// Simple linear backoff to avoid thundering retries.
			delay := time.Duration(attempt+1) * 200 * time.Millisecond
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	return lastErr
}

// deriveBody marshals the payload, applying the body selector when one is
// configured. The selector sees the JSON form of the document.
func (c *Client) deriveBody(payload notify.ReservationEventPayload) ([]byte, error) {
	full, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode webhook payload: %w", err)
	}
	if c.selector == "" {
		return full, nil
	}

	var doc any
	if err := json.Unmarshal(full, &doc); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}
	selected, err := jmespath.Search(c.selector, doc)
	if err != nil {
		return nil, fmt.Errorf("apply body selector: %w", err)
	}
	b, err := json.Marshal(selected)
	if err != nil {
		return nil, fmt.Errorf("encode selected body: %w", err)
	}
	return b, nil
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return handleErrorResponse(resp)
	}
	return drainSuccess(resp)
}

func drainSuccess(resp *http.Response) error {
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return errors.Join(
				fmt.Errorf("drain webhook response body: %w", err),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("drain webhook response body: %w", err)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}
	return nil
}

func handleErrorResponse(resp *http.Response) error {
	respBody, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return errors.Join(
				fmt.Errorf("read webhook error response: %w", readErr),
				fmt.Errorf("close response body: %w", closeErr),
			)
		}
		return fmt.Errorf("read webhook error response: %w", readErr)
	}
	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return fmt.Errorf("webhook %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
}
