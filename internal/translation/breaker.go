package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/geet/internal/logger"
	"codeberg.org/snonux/geet/internal/song"
)

// ErrUnavailable is returned while the breaker is open
var ErrUnavailable = errors.New("translation service temporarily unavailable")

// BreakerConfig controls when the breaker opens and how long it stays open
type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

// DefaultBreakerConfig returns the default breaker settings
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures: 3,
		OpenTimeout: 30 * time.Second,
	}
}

// BreakerTranslator stops calling a failing provider for a while after
// consecutive failures.
type BreakerTranslator struct {
	next Translator
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerTranslator wraps next with a circuit breaker
func NewBreakerTranslator(next Translator, cfg BreakerConfig) *BreakerTranslator {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultBreakerConfig().MaxFailures
	}

	settings := gobreaker.Settings{
		Name:    next.Name(),
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// Bad input is not a provider failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrEmptyLyrics)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("translation breaker state changed",
				logger.String("provider", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	}

	return &BreakerTranslator{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Name returns the wrapped provider name
func (t *BreakerTranslator) Name() string {
	return t.next.Name()
}

// State returns the current breaker state
func (t *BreakerTranslator) State() gobreaker.State {
	return t.cb.State()
}

// Translate calls the wrapped translator unless the breaker is open
func (t *BreakerTranslator) Translate(ctx context.Context, lyrics string) ([]song.Line, error) {
	result, err := t.cb.Execute(func() (interface{}, error) {
		lines, err := t.next.Translate(ctx, lyrics)
		if err != nil {
			return nil, err
		}
		return lines, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w (%s): %v", ErrUnavailable, t.next.Name(), err)
	}
	if err != nil {
		return nil, err
	}

	lines, _ := result.([]song.Line)
	return lines, nil
}
