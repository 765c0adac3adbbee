package suggest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestSuggestReturnsTitlesInOrder(t *testing.T) {
	var gotQuery string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/suggest", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["Batman", "Batman Returns"]`))
	})

	c := NewClient(srv.URL+"/api/suggest", 0)
	titles, err := c.Suggest(context.Background(), "bat")
	require.NoError(t, err)
	assert.Equal(t, []string{"Batman", "Batman Returns"}, titles)
	assert.Equal(t, "bat", gotQuery)
}

func TestSuggestEmptyArray(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	titles, err := NewClient(srv.URL, 0).Suggest(context.Background(), "zz")
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestSuggestMalformedBodies(t *testing.T) {
	bodies := map[string]string{
		"object":        `{"titles": ["Batman"]}`,
		"string":        `"Batman"`,
		"null":          `null`,
		"mixed array":   `["Batman", 42]`,
		"broken json":   `["Batman"`,
		"empty body":    ``,
		"html fallback": `<html>oops</html>`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			titles, err := NewClient(srv.URL, 0).Suggest(context.Background(), "bat")
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.Nil(t, titles)
		})
	}
}

func TestSuggestNon2xxStatus(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := NewClient(srv.URL, 0).Suggest(context.Background(), "bat")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestSuggestPercentEncodesQuery(t *testing.T) {
	var rawQuery string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := NewClient(srv.URL, 0).Suggest(context.Background(), "star wars & co/é")
	require.NoError(t, err)
	assert.Equal(t, "q=star%20wars%20%26%20co%2F%C3%A9", rawQuery)
}

func TestSuggestKeepsExistingEndpointQuery(t *testing.T) {
	var rawQuery string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := NewClient(srv.URL+"/api/suggest?lang=en", 0).Suggest(context.Background(), "up")
	require.NoError(t, err)
	assert.Equal(t, "lang=en&q=up", rawQuery)
}

func TestSuggestCancelledContext(t *testing.T) {
	started := make(chan struct{})
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := NewClient(srv.URL, 0).Suggest(ctx, "bat")
		errCh <- err
	}()

	<-started
	cancel()

	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("Suggest did not return after cancellation")
	}
}

func TestSuggestClientTimeout(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	_, err := NewClient(srv.URL, 50*time.Millisecond).Suggest(context.Background(), "bat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, "the%20matrix", EscapeQuery("the matrix"))
	assert.Equal(t, "a%2Bb", EscapeQuery("a+b"))
	assert.Equal(t, "100%25", EscapeQuery("100%"))
}

func TestClientEndpoint(t *testing.T) {
	c := NewClient("http://127.0.0.1:5000/api/suggest", time.Second)
	assert.Equal(t, "http://127.0.0.1:5000/api/suggest", c.Endpoint())
}
