package cipherstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config contains the settings required to reach the cipher engine.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client implements Store against the cipher engine's HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient constructs an HTTP-backed cipher engine client.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("cipher engine base url must be provided")
	}

	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid cipher engine base url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "cipherstore").Logger(),
	}, nil
}

type ingestRequest struct {
	Ciphertext string `json:"ciphertext"`
	Proof      string `json:"proof"`
}

type ingestResponse struct {
	Handle string `json:"handle"`
}

type grantRequest struct {
	Principal string `json:"principal"`
}

// Ingest submits the ciphertext and its validity proof to the engine and
// returns the handle the engine issued for it.
func (c *Client) Ingest(ctx context.Context, ciphertext, proof []byte) (Handle, error) {
	payload := ingestRequest{
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
		Proof:      base64.StdEncoding.EncodeToString(proof),
	}

	var result ingestResponse
	status, err := c.post(ctx, "/v1/values", payload, &result)
	if err != nil {
		return "", err
	}

	switch {
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return "", ErrInvalidProof
	case status >= http.StatusMultipleChoices:
		return "", fmt.Errorf("cipher engine ingest failed with status %d", status)
	}

	if result.Handle == "" {
		return "", fmt.Errorf("cipher engine returned an empty handle")
	}

	c.logger.Debug().Str("handle", result.Handle).Msg("ciphertext ingested")

	return Handle(result.Handle), nil
}

// GrantAccess asks the engine to give principal decryption rights over handle.
func (c *Client) GrantAccess(ctx context.Context, handle Handle, principal string) error {
	if handle == "" {
		return ErrUnknownHandle
	}

	path := fmt.Sprintf("/v1/values/%s/grants", url.PathEscape(string(handle)))
	status, err := c.post(ctx, path, grantRequest{Principal: principal}, nil)
	if err != nil {
		return err
	}

	switch {
	case status == http.StatusNotFound:
		return ErrUnknownHandle
	case status >= http.StatusMultipleChoices:
		return fmt.Errorf("cipher engine grant failed with status %d", status)
	}

	c.logger.Debug().Str("handle", string(handle)).Str("principal", principal).Msg("access granted")

	return nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode cipher engine request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build cipher engine request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("cipher engine request failed: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < http.StatusMultipleChoices {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode cipher engine response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
