package source

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"vidcat/internal/logging"
	"vidcat/internal/services"
)

// Default breaker settings.
const (
	DefaultBreakerFailures = 3
	DefaultBreakerCooldown = 60 * time.Second
)

// Breaker stops hammering an unavailable CSV host. Only retryable failures
// (timeouts, transient network or HTTP errors) count toward tripping it.
type Breaker struct {
	cb *gobreaker.CircuitBreaker[string]
}

// NewBreaker constructs a breaker that opens after failures consecutive
// retryable failures and probes again after cooldown.
func NewBreaker(name string, failures int, cooldown time.Duration, logger *slog.Logger) *Breaker {
	if failures <= 0 {
		failures = DefaultBreakerFailures
	}
	if cooldown <= 0 {
		cooldown = DefaultBreakerCooldown
	}
	threshold := uint32(failures)
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !services.Retryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if logger == nil {
				return
			}
			logger.Warn("circuit breaker state changed",
				logging.String(logging.FieldEventType, "breaker_state_changed"),
				logging.String("breaker", name),
				logging.String("from", from.String()),
				logging.String("to", to.String()),
			)
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker[string](settings)}
}

// Execute runs fn through the breaker. Rejections while open are reported
// as transient failures.
func (b *Breaker) Execute(fn func() (string, error)) (string, error) {
	out, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", services.Wrap(services.ErrTransient, "source", "fetch", "circuit breaker "+b.State(), err)
	}
	return out, err
}

// State returns the breaker state name.
func (b *Breaker) State() string {
	return b.cb.State().String()
}
