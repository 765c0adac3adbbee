// Package search submits a chosen title to the recommendation endpoint.
package search

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

	"suggestbox/internal/domain"
	"suggestbox/internal/suggest"
)

const maxBodyBytes = 4 << 20

var (
	// ErrEmptyTitle is returned when the submitted title is blank
	ErrEmptyTitle = errors.New("please enter a movie name")
	// ErrMalformedResponse is returned when the body is not a JSON array
	ErrMalformedResponse = errors.New("recommend: response is not a JSON array")
)

// Recommender queries GET <endpoint>?movie=<title>
type Recommender struct {
	endpoint   string
	httpClient *http.Client
}

// NewRecommender creates a recommender for endpoint
func NewRecommender(endpoint string, timeout time.Duration) *Recommender {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	return &Recommender{
		endpoint:   endpoint,
		httpClient: hc,
	}
}

// Endpoint returns the configured endpoint URL
func (r *Recommender) Endpoint() string {
	return r.endpoint
}

// Recommend returns movies similar to title. An empty slice means the
// server knows no such title.
func (r *Recommender) Recommend(ctx context.Context, title string) ([]domain.Recommendation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	u, err := url.Parse(r.endpoint)
	if err != nil {
		return nil, fmt.Errorf("recommend: invalid endpoint: %w", err)
	}
	param := "movie=" + suggest.EscapeQuery(title)
	if u.RawQuery == "" {
		u.RawQuery = param
	} else {
		u.RawQuery += "&" + param
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("recommend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("recommend: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, fmt.Errorf("recommend: unexpected status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("recommend: read body: %w", err)
	}
	return decodeRecommendations(body)
}

// decodeRecommendations accepts an array of objects or of plain titles
func decodeRecommendations(body []byte) ([]domain.Recommendation, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrMalformedResponse
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, ErrMalformedResponse
	}

	recs := make([]domain.Recommendation, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 {
			continue
		}
		switch item[0] {
		case '"':
			var title string
			if err := json.Unmarshal(item, &title); err == nil && title != "" {
				recs = append(recs, domain.Recommendation{Title: title})
			}
		case '{':
			var rec domain.Recommendation
			if err := json.Unmarshal(item, &rec); err == nil && rec.Title != "" {
				recs = append(recs, rec)
			}
		}
	}
	return recs, nil
}
