// Proxy URL parsing and SOCKS dialer construction. Supported schemes:
//
//   - http://    HTTP CONNECT proxy
//   - https://   HTTPS CONNECT proxy
//   - socks5://  SOCKS5 with local DNS resolution
//   - socks5h:// SOCKS5 with DNS resolved on the proxy side

package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// ErrProxy is returned when a proxy URL cannot be parsed or its
// dialer cannot be built.
var ErrProxy = errors.New("httpclient: proxy setup failed")

var supportedProxySchemes = map[string]bool{
	"http":    true,
	"https":   true,
	"socks5":  true,
	"socks5h": true,
}

// ProxyConfig holds a parsed proxy URL.
type ProxyConfig struct {
	URL         *url.URL
	Scheme      string
	Host        string
	Port        string
	Username    string
	Password    string
	IsSOCKS     bool
	IsDNSRemote bool
}

// ParseProxyURL validates and parses a proxy URL string. An empty
// string returns nil, nil (no proxy configured). A URL without a
// scheme defaults to http.
func ParseProxyURL(proxyURL string) (*ProxyConfig, error) {
	if proxyURL == "" {
		return nil, nil
	}
	if !strings.Contains(proxyURL, "://") {
		proxyURL = "http://" + proxyURL
	}

	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProxy, err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if !supportedProxySchemes[scheme] {
		return nil, fmt.Errorf("%w: unsupported scheme %q, supported: http, https, socks5, socks5h",
			ErrProxy, scheme)
	}

	host := parsed.Hostname()
	port := parsed.Port()
	if host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrProxy)
	}
	if port == "" {
		switch scheme {
		case "http":
			port = "8080"
		case "https":
			port = "8443"
		default:
			port = "1080"
		}
	}

	cfg := &ProxyConfig{
		URL:         parsed,
		Scheme:      scheme,
		Host:        host,
		Port:        port,
		IsSOCKS:     strings.HasPrefix(scheme, "socks5"),
		IsDNSRemote: scheme == "socks5h",
	}
	if parsed.User != nil {
		cfg.Username = parsed.User.Username()
		cfg.Password, _ = parsed.User.Password()
	}
	return cfg, nil
}

// Address returns the proxy address in host:port form.
func (p *ProxyConfig) Address() string {
	if p == nil {
		return ""
	}
	return net.JoinHostPort(p.Host, p.Port)
}

// ContextDialer dials with context support.
type ContextDialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// timeoutDialer wraps a proxy.Dialer with timeout support; SOCKS
// dialers have no native deadline.
type timeoutDialer struct {
	dialer  proxy.Dialer
	timeout time.Duration
}

// DialContext implements ContextDialer.
func (t *timeoutDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	if ctxDialer, ok := t.dialer.(proxy.ContextDialer); ok {
		return ctxDialer.DialContext(ctx, network, address)
	}

	connCh := make(chan net.Conn, 1)
	errCh := make(chan error, 1)
	go func() {
		conn, err := t.dialer.Dial(network, address)
		if err != nil {
			errCh <- err
			return
		}
		select {
		case connCh <- conn:
		case <-ctx.Done():
			conn.Close()
		}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: dial timeout: %v", ErrProxy, ctx.Err())
	case conn := <-connCh:
		return conn, nil
	case err := <-errCh:
		return nil, err
	}
}

// CreateSOCKSDialer builds a SOCKS5 dialer from the parsed proxy.
// socks5h semantics hold because hostnames are passed through to the
// proxy unresolved.
func CreateSOCKSDialer(cfg *ProxyConfig, timeout time.Duration) (ContextDialer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil proxy config", ErrProxy)
	}

	proxyURL := &url.URL{
		Scheme: "socks5",
		Host:   cfg.Address(),
	}
	if cfg.Username != "" {
		proxyURL.User = url.UserPassword(cfg.Username, cfg.Password)
	}

	dialer, err := proxy.FromURL(proxyURL, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProxy, err)
	}
	return &timeoutDialer{dialer: dialer, timeout: timeout}, nil
}

// ValidateProxy checks a proxy URL for use in flag validation.
func ValidateProxy(proxyURL string) error {
	_, err := ParseProxyURL(proxyURL)
	return err
}
