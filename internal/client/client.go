package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"poe2/pickit/internal/config"
	"poe2/pickit/internal/domain"
	"poe2/pickit/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// Fetcher retrieves a JSON document from a category address.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string, v any) error
	Close() error
}

// upstreamClient keeps one resty client per proxy. A client is configured
// once before it is shared; rotation only swaps which one is current.
type upstreamClient struct {
	cfg           config.UpstreamConfig
	rl            ratelimit.Limiter
	proxySupplier proxy.ProxySupplier
	timeout       time.Duration

	mutex   sync.Mutex
	current *resty.Client
	clients map[string]*resty.Client // keyed by proxy URL, "" is direct
}

func NewUpstreamClient(cfg config.UpstreamConfig, proxySupplier proxy.ProxySupplier) Fetcher {
	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	c := &upstreamClient{
		cfg:           cfg,
		rl:            rl,
		proxySupplier: proxySupplier,
		timeout:       cfg.TimeoutDuration(),
		clients:       make(map[string]*resty.Client),
	}

	proxyURL := ""
	if proxySupplier != nil {
		proxyURL = proxySupplier.Get()
	}
	if proxyURL != "" {
		log.Infof("🔗 Using upstream proxy: %s", proxyURL)
	}
	c.current = c.clientFor(proxyURL)

	return c
}

// clientFor returns the client bound to proxyURL, creating it on first use.
// Callers must hold c.mutex or own c exclusively.
func (c *upstreamClient) clientFor(proxyURL string) *resty.Client {
	if client, ok := c.clients[proxyURL]; ok {
		return client
	}

	client := resty.New().
		SetRetryCount(c.cfg.RetryCount).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("User-Agent", c.cfg.UserAgent).
		SetHeader("Accept", "application/json")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}

	c.clients[proxyURL] = client
	return client
}

func (c *upstreamClient) httpClient() *resty.Client {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.current
}

func (c *upstreamClient) FetchJSON(ctx context.Context, url string, v any) error {
	c.rl.Take()

	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpClient := c.httpClient()
	resp, err := httpClient.R().
		SetContext(reqCtx).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return &domain.RemoteFetchError{URL: url, Reason: "request cancelled", Err: ctx.Err()}
		}
		c.rotateProxy(httpClient)
		return &domain.RemoteFetchError{URL: url, Reason: "failed to fetch URL", Err: err}
	}

	if resp.IsError() {
		return &domain.RemoteFetchError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Reason:     statusText(resp.Status(), resp.StatusCode()),
		}
	}

	body := resp.String()
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return &domain.RemoteFetchError{URL: url, Reason: "invalid JSON response", Err: err}
	}

	log.Debugf("Fetched %d bytes from %s", len(body), url)
	return nil
}

// rotateProxy moves to the next proxy after a transport failure on failed.
// Concurrent failures on the same client rotate only once.
func (c *upstreamClient) rotateProxy(failed *resty.Client) {
	if c.proxySupplier == nil {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.current != failed {
		return
	}
	if next := c.proxySupplier.Get(); next != "" {
		log.Infof("🔄 Switching to new proxy: %s", next)
		c.current = c.clientFor(next)
	}
}

func (c *upstreamClient) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var errs []error
	for _, client := range c.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// statusText strips the numeric code from "404 Not Found".
func statusText(status string, code int) string {
	prefix := fmt.Sprintf("%d ", code)
	if len(status) > len(prefix) && status[:len(prefix)] == prefix {
		return status[len(prefix):]
	}
	if status == "" {
		return "request failed"
	}
	return status
}
