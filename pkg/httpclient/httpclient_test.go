package httpclient

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsSingleton(t *testing.T) {
	t.Parallel()

	c1 := Default()
	c2 := Default()
	if c1 != c2 {
		t.Error("Default() must return the same client instance")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()

	c := New(Config{})
	assert.Equal(t, 10*time.Second, c.Timeout)
	require.NotNil(t, c.Transport)
}

func TestRetryOnThrottle(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(Config{RetryCount: 2, RetryDelay: time.Millisecond})
	resp, err := c.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), hits.Load())
}

func TestRetryExhausted(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(Config{RetryCount: 1, RetryDelay: time.Millisecond})
	resp, err := c.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	// The last throttled answer is returned once retries run out.
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(2), hits.Load())
}

func TestPermanentErrorClassification(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("Get \"https://x\": %w", &tls.CertificateVerificationError{})
	assert.True(t, permanent(wrapped))
	assert.False(t, permanent(errors.New("connection reset by peer")))
}

func TestDefaultUserAgentApplied(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(Config{UserAgent: "warden-bench-test"})
	resp, err := c.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "warden-bench-test", gotUA)
}

func TestExplicitUserAgentWins(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(Config{UserAgent: "fallback"})
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "explicit")

	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "explicit", gotUA)
}
