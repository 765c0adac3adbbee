// Package suggest is the HTTP client for the title suggestion endpoint.
//
// The endpoint answers GET <endpoint>?q=<query> with a JSON array of
// strings. Anything else is reported as ErrMalformedResponse.
package suggest

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

	"github.com/hashicorp/go-cleanhttp"
)

// maxBodyBytes bounds how much of a response is read
const maxBodyBytes = 1 << 20

// ErrMalformedResponse is returned when the body is not a JSON array of strings
var ErrMalformedResponse = errors.New("suggest: response is not a JSON array of strings")

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("suggest: unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// Client queries the suggestion endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for endpoint (for example
// http://127.0.0.1:5000/api/suggest). A zero timeout leaves request
// lifetime entirely to the caller's context.
func NewClient(endpoint string, timeout time.Duration) *Client {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	return &Client{
		endpoint:   endpoint,
		httpClient: hc,
	}
}

// Endpoint returns the configured endpoint URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Suggest fetches suggestions for query. The query is sent as-is; callers
// decide on trimming and minimum length.
func (c *Client) Suggest(ctx context.Context, query string) ([]string, error) {
	reqURL, err := buildURL(c.endpoint, query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("suggest: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("suggest: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("suggest: read body: %w", err)
	}

	return decodeTitles(body)
}

// decodeTitles accepts only a JSON array whose elements are all strings
func decodeTitles(body []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrMalformedResponse
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, ErrMalformedResponse
	}

	titles := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			return nil, ErrMalformedResponse
		}
		titles = append(titles, s)
	}
	return titles, nil
}

// buildURL appends q=<query> using the same escaping as encodeURIComponent:
// spaces become %20, not +.
func buildURL(endpoint, query string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("suggest: invalid endpoint: %w", err)
	}
	param := "q=" + EscapeQuery(query)
	if u.RawQuery == "" {
		u.RawQuery = param
	} else {
		u.RawQuery += "&" + param
	}
	return u.String(), nil
}

// EscapeQuery percent-encodes s for use as a query parameter value
func EscapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
