// Copyright (C) 2026 Anosys AI (engineering@anosys.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logapi posts flattened telemetry records to the Anosys logging
// endpoint.
package logapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultAPIURL is the placeholder logging endpoint used when no URL is
// configured. Real deployments always set their tenant URL.
const DefaultAPIURL = "https://www.anosys.ai"

// DefaultTimeout bounds a single POST attempt. There is no retry: a record
// that misses its one attempt is logged locally and dropped.
const DefaultTimeout = 5 * time.Second

// ErrBadStatus reports a non-2xx response from the logging endpoint.
var ErrBadStatus = errors.New("log endpoint rejected record")

// maxErrorBody bounds how much of an error response body is carried in the
// returned error.
const maxErrorBody = 512

// Client posts JSON records to a single configured URL.
//
// Client is safe for concurrent use.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient returns a client for the given endpoint URL with the default
// timeout.
func NewClient(url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// WithTimeout sets the per-attempt timeout. A non-positive d keeps the
// current timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.httpClient.Timeout = d
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests and by
// hosts that need custom transports.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.httpClient = h
	}
	return c
}

// URL returns the configured endpoint URL.
func (c *Client) URL() string { return c.url }

// Post sends one record as a JSON body. Any transport failure or non-2xx
// status is returned as an error; the record is not retried.
func (c *Client) Post(ctx context.Context, record map[string]any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s: %s", ErrBadStatus, resp.Status, bytes.TrimSpace(excerpt))
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
