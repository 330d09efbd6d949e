package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError represents a non-2xx response from the exchange. The raw body is
// kept so callers can distinguish rate limiting, auth failures and
// validation rejections.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bpx api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// TransportError represents a network or connection-level failure, not
// attributable to request content.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a response body that did not conform to the expected
// schema. Path identifies the endpoint; the wrapped error carries the
// offending field (unknown enum variant, malformed decimal, type mismatch).
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// doRequest performs a single HTTP request. One request, one outcome; no
// internal retries.
func (c *Client) doRequest(ctx context.Context, method, path, query string, payload any) ([]byte, error) {
	fullURL := c.baseURL + path
	if query != "" {
		fullURL += "?" + query
	}

	var body []byte
	var reader io.Reader
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.signer != nil {
		headers, err := c.signer.Sign(method, path, query, body)
		if err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
		for k, vs := range headers {
			for _, v := range vs {
				req.Header.Set(k, v)
			}
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("api error response",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
		}
	}

	return respBody, nil
}

// get performs a GET request and decodes the body into result.
func (c *Client) get(ctx context.Context, path, query string, result any) error {
	body, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &DecodeError{Path: path, Err: err}
	}

	return nil
}

// patch performs a PATCH request with a JSON body, discarding the response.
func (c *Client) patch(ctx context.Context, path string, payload any) error {
	_, err := c.doRequest(ctx, http.MethodPatch, path, "", payload)
	return err
}

// post performs a POST request with a JSON body, discarding the response.
func (c *Client) post(ctx context.Context, path string, payload any) error {
	_, err := c.doRequest(ctx, http.MethodPost, path, "", payload)
	return err
}
