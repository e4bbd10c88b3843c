package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rpc/v5/search/rust", r.URL.Path)
		assert.Equal(t, "apkg-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resultcount":2}`))
	}))
	defer server.Close()

	client := NewHTTPClient(5*time.Second, WithUserAgent("apkg-test"))

	var resp struct {
		ResultCount int `json:"resultcount"`
	}
	require.NoError(t, client.GetJSON(context.Background(), server.URL+"/rpc/v5/search/rust", &resp))
	assert.Equal(t, 2, resp.ResultCount)
}

func TestHTTPClient_GetJSONDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := NewHTTPClient(5 * time.Second)

	var v map[string]any
	err := client.GetJSON(context.Background(), server.URL, &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestHTTPClient_GetBodyStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, wantErr: ErrNotFound},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewHTTPClient(5*time.Second).GetBody(context.Background(), server.URL+"/Packages.gz")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.StatusCode)
		})
	}
}

func TestHTTPClient_GetBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Package: bash\n"))
	}))
	defer server.Close()

	body, err := NewHTTPClient(5*time.Second).GetBody(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Package: bash\n", string(body))
}

func TestHTTPClient_CircuitBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewHTTPClient(5 * time.Second)
	for i := 0; i < breakerTripThreshold; i++ {
		_, err := client.GetBody(context.Background(), server.URL)
		require.Error(t, err)
	}

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	assert.True(t, client.breakers.tripped(u.Host))

	_, err = client.GetBody(context.Background(), server.URL)
	require.ErrorIs(t, err, ErrUpstreamDown)
	assert.Equal(t, int32(breakerTripThreshold), hits.Load(), "open breaker must not reach the server")
}

func TestIntervalLimiter(t *testing.T) {
	limiter := NewIntervalLimiter(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, limiter.Wait(ctx))
	assert.Less(t, time.Since(start), 40*time.Millisecond, "first request should not wait")

	require.NoError(t, limiter.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestIntervalLimiter_Disabled(t *testing.T) {
	limiter := NewIntervalLimiter(0)
	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, limiter.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}
