package httpclient

import (
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"github.com/wardenbench/wardenbench/pkg/iohelper"
	"github.com/wardenbench/wardenbench/pkg/retry"
)

// retryableStatus are answers that trigger a retry. GitHub throttles
// bulk raw fetches with 429 and occasionally answers 503.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:    true,
	http.StatusServiceUnavailable: true,
}

// errThrottled marks a retryable status inside the retry loop. Never
// escapes RoundTrip.
var errThrottled = errors.New("httpclient: throttled")

// retryTransport wraps a base RoundTripper with a default User-Agent
// and retries for transport errors and throttling answers.
type retryTransport struct {
	base       http.RoundTripper
	userAgent  string
	retryCount int
	retryDelay time.Duration
}

// RoundTrip implements http.RoundTripper.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone so retries and header changes never mutate the caller's
	// request.
	r := req.Clone(req.Context())
	if t.userAgent != "" && r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", t.userAgent)
	}

	cfg := retry.Config{
		MaxAttempts: max(t.retryCount+1, 1),
		InitDelay:   t.retryDelay,
		Strategy:    retry.Constant,
		Jitter:      true,
	}

	var resp *http.Response
	attempt := 0
	err := retry.Do(r.Context(), cfg, func() error {
		attempt++
		if attempt > 1 && r.GetBody != nil {
			r.Body, _ = r.GetBody()
		}
		res, err := t.base.RoundTrip(r)
		if err != nil {
			if permanent(err) {
				return retry.Stop(err)
			}
			return err
		}
		// A throttled answer on the final attempt goes back to the
		// caller as-is, status code intact.
		if retryableStatus[res.StatusCode] && attempt < cfg.MaxAttempts {
			iohelper.DrainAndClose(res.Body)
			return errThrottled
		}
		resp = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// permanent reports whether a transport error can never succeed on a
// retry. Certificate verification failures stay broken however often
// the request is repeated.
func permanent(err error) bool {
	var certErr *tls.CertificateVerificationError
	return errors.As(err, &certErr)
}
