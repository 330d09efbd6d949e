// Package auth provides Backpack API authentication using ED25519
// instruction signatures.
package auth

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultWindow is how long a signed request stays valid, in milliseconds.
const DefaultWindow = 5000

// Credentials holds the ED25519 keypair used to sign requests. The API key
// presented to the exchange is the base64-encoded public key.
type Credentials struct {
	publicKey  ed25519.PublicKey
	privateKey ed25519.PrivateKey
	window     int64

	// now is swappable for tests.
	now func() time.Time
}

// LoadCredentials builds signing credentials from the base64-encoded API
// key (verifying key) and API secret (32-byte signing seed).
func LoadCredentials(apiKey, apiSecret string) (*Credentials, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if apiSecret == "" {
		return nil, fmt.Errorf("API secret is required")
	}

	publicKey, err := base64.StdEncoding.DecodeString(apiKey)
	if err != nil {
		return nil, fmt.Errorf("decode API key: %w", err)
	}
	if len(publicKey) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("API key is not a %d-byte ED25519 public key", ed25519.PublicKeySize)
	}

	seed, err := base64.StdEncoding.DecodeString(apiSecret)
	if err != nil {
		return nil, fmt.Errorf("decode API secret: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("API secret is not a %d-byte ED25519 seed", ed25519.SeedSize)
	}

	privateKey := ed25519.NewKeyFromSeed(seed)
	derived := privateKey.Public().(ed25519.PublicKey)
	if !bytes.Equal(derived, publicKey) {
		return nil, fmt.Errorf("API key does not match the secret's public key")
	}

	return &Credentials{
		publicKey:  publicKey,
		privateKey: privateKey,
		window:     DefaultWindow,
		now:        time.Now,
	}, nil
}

// instructions maps method+path to the instruction name the exchange
// expects in the signing string.
var instructions = map[string]string{
	"GET /api/v1/account":                   "accountQuery",
	"PATCH /api/v1/account":                 "accountUpdate",
	"POST /api/v1/account/convertDust":      "convertDust",
	"GET /api/v1/account/limits/borrow":     "maxBorrowQuantity",
	"GET /api/v1/account/limits/order":      "maxOrderQuantity",
	"GET /api/v1/account/limits/withdrawal": "maxWithdrawalQuantity",
	"GET /api/v1/position":                  "positionQuery",
	"GET /api/v1/borrowLend/positions":      "borrowLendPositionQuery",
	"GET /wapi/v1/history/fills":            "fillHistoryQueryAll",
	"GET /wapi/v1/history/orders":           "orderHistoryQueryAll",
	"GET /wapi/v1/history/strategies":       "strategyHistoryQueryAll",
}

// Sign produces the authentication headers for one request. The signing
// string is instruction=<name>, then the request parameters sorted by key,
// then timestamp and window. Query parameters and JSON body fields are
// treated uniformly as parameters.
func (c *Credentials) Sign(method, path, query string, body []byte) (http.Header, error) {
	instruction, ok := instructions[method+" "+path]
	if !ok {
		return nil, fmt.Errorf("no signing instruction for %s %s", method, path)
	}

	params, err := collectParams(query, body)
	if err != nil {
		return nil, err
	}
	sort.Strings(params)

	timestamp := c.now().UnixMilli()

	var sb strings.Builder
	sb.WriteString("instruction=")
	sb.WriteString(instruction)
	for _, p := range params {
		sb.WriteByte('&')
		sb.WriteString(p)
	}
	sb.WriteString("&timestamp=")
	sb.WriteString(strconv.FormatInt(timestamp, 10))
	sb.WriteString("&window=")
	sb.WriteString(strconv.FormatInt(c.window, 10))

	signature := ed25519.Sign(c.privateKey, []byte(sb.String()))

	headers := http.Header{}
	headers.Set("X-API-Key", base64.StdEncoding.EncodeToString(c.publicKey))
	headers.Set("X-Signature", base64.StdEncoding.EncodeToString(signature))
	headers.Set("X-Timestamp", strconv.FormatInt(timestamp, 10))
	headers.Set("X-Window", strconv.FormatInt(c.window, 10))
	return headers, nil
}

// collectParams merges query-string pairs and top-level JSON body fields
// into a single key=value slice.
func collectParams(query string, body []byte) ([]string, error) {
	var params []string

	if query != "" {
		params = append(params, strings.Split(query, "&")...)
	}

	if len(body) > 0 {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		var fields map[string]any
		if err := dec.Decode(&fields); err != nil {
			return nil, fmt.Errorf("decode request body: %w", err)
		}
		for key, value := range fields {
			s, err := paramString(value)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", key, err)
			}
			params = append(params, key+"="+s)
		}
	}

	return params, nil
}

func paramString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case json.Number:
		return v.String(), nil
	case nil:
		return "", fmt.Errorf("null values cannot be signed")
	default:
		return "", fmt.Errorf("unsupported parameter type %T", value)
	}
}
