package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"poe2/pickit/internal/config"
	"poe2/pickit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(t *testing.T) Fetcher {
	t.Helper()
	f := NewUpstreamClient(config.UpstreamConfig{Timeout: 5, UserAgent: "test"}, nil)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestFetchJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lines":[{"id":"exalted","primaryValue":2.5}],"items":[]}`))
	}))
	defer srv.Close()

	var out domain.NinjaResponse
	err := newTestFetcher(t).FetchJSON(context.Background(), srv.URL, &out)
	require.NoError(t, err)
	require.Len(t, out.Lines, 1)
	assert.Equal(t, "exalted", out.Lines[0].ID)
	assert.Equal(t, 2.5, out.Lines[0].PrimaryValue)
}

func TestFetchJSON_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var out domain.NinjaResponse
	err := newTestFetcher(t).FetchJSON(context.Background(), srv.URL, &out)
	require.Error(t, err)

	var fetchErr *domain.RemoteFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
	assert.Equal(t, "HTTP 503: Service Unavailable", err.Error())
}

func TestFetchJSON_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	var out domain.ScoutResponse
	err := newTestFetcher(t).FetchJSON(context.Background(), srv.URL, &out)

	var fetchErr *domain.RemoteFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "invalid JSON response", fetchErr.Reason)
}

func TestFetchJSON_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	var out domain.ScoutResponse
	err := newTestFetcher(t).FetchJSON(context.Background(), url, &out)

	var fetchErr *domain.RemoteFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
	assert.NotNil(t, fetchErr.Unwrap())
}

// rotatingProxies is a fixed round-robin proxy list.
type rotatingProxies struct {
	mutex   sync.Mutex
	proxies []string
	next    int
}

func (p *rotatingProxies) Get() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	proxyURL := p.proxies[p.next%len(p.proxies)]
	p.next++
	return proxyURL
}

func (p *rotatingProxies) Len() int { return len(p.proxies) }

func deadURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()
	return url
}

// forwardingProxy answers every proxied request itself with a fixed body.
func forwardingProxy(t *testing.T, body string) (*httptest.Server, *sync.Map) {
	t.Helper()
	seen := &sync.Map{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.Store(r.URL.Host, true)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, seen
}

func TestFetchJSON_RotatesToWorkingProxy(t *testing.T) {
	live, seen := forwardingProxy(t, `{"lines":[{"id":"exalted","primaryValue":3}]}`)
	proxies := &rotatingProxies{proxies: []string{deadURL(t), live.URL}}

	f := NewUpstreamClient(config.UpstreamConfig{Timeout: 5, UserAgent: "test"}, proxies)
	t.Cleanup(func() { _ = f.Close() })

	var out domain.NinjaResponse
	err := f.FetchJSON(context.Background(), "http://upstream.invalid/overview", &out)
	var fetchErr *domain.RemoteFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "failed to fetch URL", fetchErr.Reason)

	require.NoError(t, f.FetchJSON(context.Background(), "http://upstream.invalid/overview", &out))
	assert.Equal(t, 3.0, out.Lines[0].PrimaryValue)
	_, ok := seen.Load("upstream.invalid")
	assert.True(t, ok)
}

func TestFetchJSON_ConcurrentFailuresWithProxies(t *testing.T) {
	proxies := &rotatingProxies{proxies: []string{deadURL(t), deadURL(t)}}
	f := NewUpstreamClient(config.UpstreamConfig{Timeout: 5, UserAgent: "test"}, proxies)
	t.Cleanup(func() { _ = f.Close() })

	target := deadURL(t)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out domain.ScoutResponse
			errs[i] = f.FetchJSON(context.Background(), target, &out)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		var fetchErr *domain.RemoteFetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, "failed to fetch URL", fetchErr.Reason)
	}
}

func TestFetchJSON_ConcurrentRotationReachesLiveProxy(t *testing.T) {
	live, _ := forwardingProxy(t, `{"items":[]}`)
	proxies := &rotatingProxies{proxies: []string{deadURL(t), live.URL}}
	f := NewUpstreamClient(config.UpstreamConfig{Timeout: 5, UserAgent: "test"}, proxies)
	t.Cleanup(func() { _ = f.Close() })

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out domain.ScoutResponse
			_ = f.FetchJSON(context.Background(), "http://upstream.invalid/items", &out)
		}()
	}
	wg.Wait()

	var out domain.ScoutResponse
	assert.NoError(t, f.FetchJSON(context.Background(), "http://upstream.invalid/items", &out))
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Not Found", statusText("404 Not Found", 404))
	assert.Equal(t, "teapot", statusText("teapot", 418))
	assert.Equal(t, "request failed", statusText("", 500))
}
