package cache

import (
	"context"
	"errors"
	"movieapi/pkg/logger"
	"movieapi/pkg/metrics"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// ErrMiss is returned by a Backend when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Backend is a key-value store with per-entry expiration. Expired entries
// must read as ErrMiss.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const (
	DefaultTimeout          = 500 * time.Millisecond
	DefaultBreakerFailures  = 5
	DefaultBreakerCooldown  = 30 * time.Second
	DefaultBreakerHalfOpens = 1
)

type Options struct {
	// Timeout bounds a single backend call.
	Timeout time.Duration
	// BreakerFailures consecutive faults open the breaker.
	BreakerFailures uint32
	// BreakerCooldown is how long the breaker stays open.
	BreakerCooldown time.Duration
	Logger          *zap.SugaredLogger
}

// Store is a fail-open cache. Backend faults, timeouts and an open breaker
// all read as a miss and make writes report false; none is returned to the
// caller.
type Store struct {
	backend Backend
	breaker *gobreaker.CircuitBreaker[[]byte]
	timeout time.Duration
	log     *zap.SugaredLogger
}

func New(b Backend, opts Options) *Store {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = DefaultBreakerFailures
	}
	if opts.BreakerCooldown <= 0 {
		opts.BreakerCooldown = DefaultBreakerCooldown
	}
	if opts.Logger == nil {
		opts.Logger = logger.NOOPLogger
	}

	log := opts.Logger
	settings := gobreaker.Settings{
		Name:        "cache",
		MaxRequests: DefaultBreakerHalfOpens,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		// A miss is a healthy answer.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMiss)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("cache breaker state changed", "from", from.String(), "to", to.String())
		},
	}

	return &Store{
		backend: b,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		timeout: opts.Timeout,
		log:     log,
	}
}

// Get and Set run detached from the caller's cancellation and bounded by the
// store timeout, so a caller that went away is never recorded as a backend
// fault.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	value, err := s.breaker.Execute(func() ([]byte, error) {
		return s.backend.Get(ctx, key)
	})
	if errors.Is(err, ErrMiss) {
		return nil, false
	}
	if err != nil {
		metrics.CacheBackendErrors.WithLabelValues("get").Inc()
		s.log.Warnw("cache get failed, treating as miss", "key", key, "error", err)
		return nil, false
	}
	return value, true
}

func (s *Store) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) bool {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	_, err := s.breaker.Execute(func() ([]byte, error) {
		return nil, s.backend.Set(ctx, key, payload, ttl)
	})
	if err != nil {
		metrics.CacheBackendErrors.WithLabelValues("set").Inc()
		s.log.Warnw("cache set failed", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
}

// State is the breaker state, reported by the health check.
func (s *Store) State() string {
	return s.breaker.State().String()
}
