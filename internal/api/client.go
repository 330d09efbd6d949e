package api

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultBaseURL is the production REST endpoint.
const DefaultBaseURL = "https://api.backpack.exchange"

// RequestSigner injects authentication headers into a request. Signing is a
// transport concern implemented outside this package (see internal/auth);
// unauthenticated clients leave it nil.
type RequestSigner interface {
	Sign(method, path, query string, body []byte) (http.Header, error)
}

// Client provides access to the Backpack REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	signer     RequestSigner
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client. Retry and backoff policy, if
// any, lives in the client's transport.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSigner sets the request signer used for authenticated endpoints.
func WithSigner(s RequestSigner) ClientOption {
	return func(c *Client) {
		c.signer = s
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}
