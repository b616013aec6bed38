package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/farmsight/internal/weather"
)

// HTTPClientConfig bundles the HTTP client and the guards placed in front of it.
type HTTPClientConfig struct {
	Client *http.Client
	// Limiter throttles outbound calls; a denied call fails immediately
	// instead of waiting. Nil disables throttling.
	Limiter *rate.Limiter
}

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
	errThrottled    = errors.New("outbound request budget exhausted")
)

// doRequest executes a single HTTP request through the circuit breaker.
// Transport failures wrap weather.ErrNetwork and non-2xx responses wrap
// weather.ErrProtocol. No retries are attempted.
func doRequest(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrNetwork, errNoHTTPClient)
	}
	if cfg.Limiter != nil && !cfg.Limiter.Allow() {
		return nil, fmt.Errorf("%w: %v", weather.ErrNetwork, errThrottled)
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, fmt.Errorf("%w: %v", weather.ErrNetwork, execErr)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				return nil, fmt.Errorf("%w: %v", weather.ErrProtocol, errRateLimited)
			case resp.StatusCode >= 500:
				return nil, fmt.Errorf("%w: %v: %d", weather.ErrProtocol, errServerError, resp.StatusCode)
			default:
				return nil, fmt.Errorf("%w: %v: %d", weather.ErrProtocol, errUnexpected, resp.StatusCode)
			}
		}

		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v: %v", weather.ErrNetwork, errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
