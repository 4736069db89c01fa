// Copyright (c) 2025 HelixDB and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package remote provides a config source fetching its document over HTTP.
//
// Fetches are retried with backoff and guarded by a circuit breaker so
// a flapping config endpoint degrades into failed reloads instead of
// hammering the endpoint; the engine keeps serving the last good
// generation throughout.
package remote

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/helixdb/driverconf"
	"github.com/helixdb/driverconf/internal/try"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type options struct {
	name        string
	logger      *zap.Logger
	timeout     time.Duration
	maxRetries  int
	waitMin     time.Duration
	waitMax     time.Duration
	tripCount   uint32
	openTimeout time.Duration
}

// Option configures a [Source].
type Option func(*options)

// Name names the source. The name is used for the circuit breaker and
// its state change logging.
func Name(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// Logger sets the logger used for circuit breaker state changes.
func Logger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// FetchTimeout bounds a single fetch attempt, including connection
// setup and reading the body.
func FetchTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// MaxRetries sets how many times a failed fetch is retried before the
// resolution pass is failed.
func MaxRetries(n int) Option {
	return func(o *options) {
		o.maxRetries = n
	}
}

// MinWaitDuration sets the minimum backoff between retries.
func MinWaitDuration(d time.Duration) Option {
	return func(o *options) {
		o.waitMin = d
	}
}

// MaxWaitDuration sets the maximum backoff between retries.
func MaxWaitDuration(d time.Duration) Option {
	return func(o *options) {
		o.waitMax = d
	}
}

// TripCount sets the number of consecutive fetch failures required to
// trip the circuit.
func TripCount(n uint32) Option {
	return func(o *options) {
		o.tripCount = n
	}
}

// OpenTimeout sets the period of the open circuit state, after which
// fetches are attempted again.
func OpenTimeout(d time.Duration) Option {
	return func(o *options) {
		o.openTimeout = d
	}
}

// Source fetches a YAML or JSON config document from an HTTP endpoint.
// It implements the driverconf Source interface, so every resolution
// pass performs a fresh fetch.
type Source struct {
	url    string
	client *http.Client
	cb     *gobreaker.CircuitBreaker
}

// New returns a Source fetching the document at the given URL.
func New(url string, opts ...Option) *Source {
	o := &options{
		name:        "remote-config",
		logger:      zap.NewNop(),
		timeout:     10 * time.Second,
		maxRetries:  2,
		waitMin:     100 * time.Millisecond,
		waitMax:     5 * time.Second,
		tripCount:   5,
		openTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}

	log := o.logger.Named(o.name)
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    o.name,
		Timeout: o.openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= o.tripCount
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				log.Error("circuit has been opened")
			case gobreaker.StateHalfOpen:
				log.Warn("circuit is now half open and letting some requests through")
			case gobreaker.StateClosed:
				log.Info("circuit has been closed")
			}
		},
	})

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Timeout: o.timeout}
	rc.Logger = nil
	rc.RetryMax = o.maxRetries
	rc.RetryWaitMin = o.waitMin
	rc.RetryWaitMax = o.waitMax

	return &Source{
		url:    url,
		client: rc.StandardClient(),
		cb:     cb,
	}
}

// StatusCodeError occurs when the config endpoint responds with a non-200 status.
type StatusCodeError struct {
	StatusCode int
}

// Error implements the error interface.
func (e StatusCodeError) Error() string {
	return fmt.Sprintf("config endpoint responded with status code: %d", e.StatusCode)
}

// Apply implements the driverconf Source interface.
func (s *Source) Apply(store driverconf.Store) error {
	v, err := s.cb.Execute(func() (any, error) {
		return s.fetch()
	})
	if err != nil {
		return err
	}
	return driverconf.Map(v.(map[string]any)).Apply(store)
}

func (s *Source) fetch() (_ map[string]any, err error) {
	resp, err := s.client.Get(s.url)
	if err != nil {
		return nil, err
	}
	defer try.Close(&err, resp.Body)

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, StatusCodeError{StatusCode: resp.StatusCode}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	m := make(map[string]any)
	switch mediaType(resp.Header.Get("Content-Type")) {
	case "application/json":
		err = json.Unmarshal(b, &m)
	default:
		// Config endpoints conventionally serve YAML; JSON is valid
		// YAML anyway.
		err = yaml.Unmarshal(b, &m)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}
