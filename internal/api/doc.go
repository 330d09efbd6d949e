// Package api provides a typed client for the Backpack exchange REST API.
//
// The client is stateless: every call performs exactly one request through
// the configured http.Client and decodes the response into the endpoint's
// declared type. Retry, backoff and timeout policy belong to the injected
// http.Client, not to this package.
package api
