// Package invoicing is a client for the hosted invoicing service.
package invoicing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/catering-backend/internal/domain"
)

const retryDelay = 500 * time.Millisecond

// Config configures the client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// UserAgent identifies this deployment to the provider.
	UserAgent string
}

// Client talks to the invoicing REST API.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	log        *slog.Logger
	retryDelay time.Duration
}

// NewClient creates a Client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "invoicing"),
		retryDelay: retryDelay,
	}
}

// StatusError is a non-success response from the service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("invoicing: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("invoicing: status %d: %s", e.StatusCode, e.Message)
}

// CreateInvoice issues an invoice and returns the created voucher.
func (c *Client) CreateInvoice(ctx context.Context, d Draft) (*Voucher, error) {
	body, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("invoicing: encode draft: %w", err)
	}

	var v Voucher
	if err := c.do(ctx, http.MethodPost, "/invoices", body, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetVoucher fetches one voucher. A missing voucher yields domain.ErrNotFound.
func (c *Client) GetVoucher(ctx context.Context, id string) (*Voucher, error) {
	var v Voucher
	if err := c.do(ctx, http.MethodGet, "/vouchers/"+url.PathEscape(id), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVouchers returns vouchers with the given status.
func (c *Client) ListVouchers(ctx context.Context, status VoucherStatus) ([]Voucher, error) {
	path := "/vouchers"
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}

	var resp listResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Vouchers, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	c.log.DebugContext(ctx, "invoicing request", slog.String("method", method), slog.String("path", path))

	resp, err := c.doWithRetry(ctx, method, path, body)
	if err != nil {
		c.log.ErrorContext(ctx, "invoicing request failed", slog.String("path", path), slog.String("error", err.Error()))
		return fmt.Errorf("invoicing: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("invoicing: read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("invoicing %s: %w", path, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		_ = json.Unmarshal(data, &e)
		msg := e.Message
		if msg == "" {
			msg = e.Error
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invoicing: decode json: %w", err)
	}
	return nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	resp, err := c.send(ctx, method, path, body)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "invoicing retry", slog.String("path", path), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}

	return c.send(ctx, method, path, body)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return c.httpClient.Do(req)
}

// IsClientError reports whether err is a 4xx response other than 404.
func IsClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500
}
