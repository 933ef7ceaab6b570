// Package httpclient provides the shared HTTP client used for report
// downloads: pooled connections, optional proxy routing and retries on
// rate-limit answers.
package httpclient

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// Config holds HTTP client options.
type Config struct {
	// Timeout bounds one request end to end (default: 10s).
	Timeout time.Duration

	// UserAgent is applied to requests that carry none.
	UserAgent string

	// Proxy routes requests through an HTTP, HTTPS or SOCKS5 proxy.
	Proxy string

	// RetryCount retries transport errors and HTTP 429/503 answers
	// (default: 0, no retries).
	RetryCount int

	// RetryDelay is the pause between attempts (default: 2s when
	// retrying).
	RetryDelay time.Duration

	// MaxIdleConns is the idle connection pool size (default: 32).
	MaxIdleConns int

	// MaxConnsPerHost caps connections per host (default: 8).
	MaxConnsPerHost int

	// IdleConnTimeout is how long idle connections stay pooled
	// (default: 90s).
	IdleConnTimeout time.Duration

	// DialTimeout bounds connection establishment (default: 10s).
	DialTimeout time.Duration

	// TLSHandshakeTimeout bounds the TLS handshake (default: 10s).
	TLSHandshakeTimeout time.Duration
}

// DefaultConfig returns defaults tuned for bulk fetches against
// raw.githubusercontent.com: short per-request timeout, a couple of
// retries for throttling, modest pooling for a single host.
func DefaultConfig() Config {
	return Config{
		Timeout:             10 * time.Second,
		RetryCount:          2,
		RetryDelay:          2 * time.Second,
		MaxIdleConns:        32,
		MaxConnsPerHost:     8,
		IdleConnTimeout:     90 * time.Second,
		DialTimeout:         10 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}

var (
	defaultClient *http.Client
	defaultOnce   sync.Once
)

// Default returns the shared, pre-configured client. It is safe for
// concurrent use, pools connections, follows redirects (GitHub moves
// raw content between hosts) and verifies TLS.
func Default() *http.Client {
	defaultOnce.Do(func() {
		defaultClient = New(DefaultConfig())
	})
	return defaultClient
}

// New creates a client with the given configuration. Prefer Default()
// unless non-default settings are needed.
func New(cfg Config) *http.Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 32
	}
	if cfg.MaxConnsPerHost == 0 {
		cfg.MaxConnsPerHost = 8
	}
	if cfg.IdleConnTimeout == 0 {
		cfg.IdleConnTimeout = 90 * time.Second
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if cfg.TLSHandshakeTimeout == 0 {
		cfg.TLSHandshakeTimeout = 10 * time.Second
	}
	if cfg.RetryCount > 0 && cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		ForceAttemptHTTP2:     true,
		ExpectContinueTimeout: 1 * time.Second,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		DialContext:           dialer.DialContext,
	}

	if cfg.Proxy != "" {
		applyProxy(transport, cfg)
	}

	var rt http.RoundTripper = transport
	if cfg.RetryCount > 0 || cfg.UserAgent != "" {
		rt = &retryTransport{
			base:       transport,
			userAgent:  cfg.UserAgent,
			retryCount: cfg.RetryCount,
			retryDelay: cfg.RetryDelay,
		}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   cfg.Timeout,
	}
}

// applyProxy wires the parsed proxy into the transport. A proxy that
// does not parse leaves the transport direct; ValidateProxy surfaces
// such values at flag-parsing time.
func applyProxy(transport *http.Transport, cfg Config) {
	pc, err := ParseProxyURL(cfg.Proxy)
	if err != nil || pc == nil {
		return
	}
	if pc.IsSOCKS {
		if dialer, err := CreateSOCKSDialer(pc, cfg.DialTimeout); err == nil {
			transport.DialContext = dialer.DialContext
		}
		return
	}
	transport.Proxy = http.ProxyURL(pc.URL)
}
