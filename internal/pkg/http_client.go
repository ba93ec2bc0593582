package pkg

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewHTTPClient returns a client whose requests wait for a token from a shared limiter.
// A zero rps disables throttling.
func NewHTTPClient(timeout time.Duration, rps float64, burst int) *http.Client {
	var transport http.RoundTripper = http.DefaultTransport
	if rps > 0 {
		if burst < 1 {
			burst = 1
		}
		transport = &limitedTransport{
			base:    http.DefaultTransport,
			limiter: rate.NewLimiter(rate.Limit(rps), burst),
		}
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

type limitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
