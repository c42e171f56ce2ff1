// Package resilience wraps outbound HTTP calls to flight-search
// providers with circuit breaking, bounded retries and per-request
// timeouts, so a misbehaving provider degrades instead of hanging the
// scan pipeline.
package resilience

import (
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the circuit breaker refuses the call.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ClientConfig holds configuration for the resilient HTTP client.
type ClientConfig struct {
	// Name identifies this client for circuit breaker naming and the
	// health registry.
	Name string

	// Timeout bounds each individual HTTP attempt. Default: 12 seconds,
	// matching the scan pipeline's per-call guard.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the first try.
	// Default: 2. Retries happen on network errors and 5xx responses.
	MaxRetries uint64

	// InitialInterval is the first retry backoff delay. Default: 200ms.
	InitialInterval time.Duration

	// MaxInterval caps the backoff delay. Default: 3 seconds.
	MaxInterval time.Duration

	// BreakerTimeout is how long the circuit stays open before probing
	// again. Default: 60 seconds.
	BreakerTimeout time.Duration

	// ReadyToTrip decides when the breaker opens. Defaults to tripping
	// at 5+ requests with a 50% failure rate.
	ReadyToTrip func(counts gobreaker.Counts) bool

	// OnStateChange is called when the breaker state changes.
	OnStateChange func(name string, from, to gobreaker.State)

	// Registry receives health updates for this client (optional).
	Registry *Registry
}

// DefaultClientConfig returns defaults tuned for flight-search calls.
func DefaultClientConfig(name string) ClientConfig {
	return ClientConfig{
		Name:            name,
		Timeout:         12 * time.Second,
		MaxRetries:      2,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     3 * time.Second,
		BreakerTimeout:  60 * time.Second,
		ReadyToTrip:     defaultReadyToTrip,
	}
}

func defaultReadyToTrip(counts gobreaker.Counts) bool {
	failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
	return counts.Requests >= 5 && failureRatio >= 0.5
}

// Client is a resilient HTTP client for provider calls.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
	registry   *Registry
}

// NewClient creates a resilient HTTP client and registers it with the
// configured registry, if any.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 12 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 3 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = defaultReadyToTrip
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: cfg.ReadyToTrip,
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = cfg.OnStateChange
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker[*http.Response](settings),
		config:     cfg,
		registry:   cfg.Registry,
	}

	if cfg.Registry != nil {
		cfg.Registry.Register(cfg.Name, c)
	}

	return c
}

// Do executes an HTTP request with circuit breaker protection and
// retries. Network errors and 5xx responses are retried with
// exponential backoff; an open circuit fails fast with ErrCircuitOpen.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0 // retry count is the only limit

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response

	operation := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			attempt := req.Clone(ctx)
			r, doErr := c.httpClient.Do(attempt)
			if doErr != nil {
				return nil, doErr
			}
			// 5xx counts as a breaker failure so provider outages trip it.
			if r.StatusCode >= 500 {
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				c.recordFailure(ErrCircuitOpen)
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			c.recordFailure(err)
			return err
		}

		lastResp = resp
		c.recordSuccess()
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		// A 5xx that exhausted retries still carries a usable response.
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}

	return lastResp, nil
}

func (c *Client) recordSuccess() {
	if c.registry != nil {
		c.registry.RecordSuccess(c.config.Name)
	}
}

func (c *Client) recordFailure(err error) {
	if c.registry != nil {
		c.registry.RecordFailure(c.config.Name, err)
	}
}

// ServerError represents an HTTP 5xx server error.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// BreakerCounts returns the current circuit breaker counts.
func (c *Client) BreakerCounts() gobreaker.Counts {
	return c.breaker.Counts()
}
