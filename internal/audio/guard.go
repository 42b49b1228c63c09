package audio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// GuardConfig configures the protection around a network provider
type GuardConfig struct {
	RequestsPerSecond float64       // 0 disables rate limiting
	MaxFailures       uint32        // consecutive failures before the breaker opens
	OpenTimeout       time.Duration // how long the breaker stays open
}

// GuardedProvider rate limits a provider and stops calling it after repeated
// failures, so a dead network fails each word fast instead of timing out
type GuardedProvider struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
	limiter  *rate.Limiter
}

// Guard wraps provider with a rate limiter and a circuit breaker
func Guard(provider Provider, config GuardConfig) *GuardedProvider {
	if config.MaxFailures == 0 {
		config.MaxFailures = 5
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = 30 * time.Second
	}

	g := &GuardedProvider{provider: provider}

	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        provider.Name(),
		MaxRequests: 1,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// Cancelled playback says nothing about the provider's health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fmt.Printf("Speech provider %s: %s -> %s\n", name, from, to)
		},
	})

	if config.RequestsPerSecond > 0 {
		burst := int(config.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	return g
}

// GenerateAudio waits for the limiter and runs the request through the breaker
func (g *GuardedProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, g.provider.GenerateAudio(ctx, text, outputFile)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s paused after repeated failures: %w", g.provider.Name(), err)
	}
	return err
}

// Name returns the wrapped provider name
func (g *GuardedProvider) Name() string {
	return g.provider.Name()
}

// IsAvailable reports an open breaker as unavailable
func (g *GuardedProvider) IsAvailable() error {
	if g.breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("%s paused after repeated failures", g.provider.Name())
	}
	return g.provider.IsAvailable()
}

// State returns the breaker state name
func (g *GuardedProvider) State() string {
	return g.breaker.State().String()
}
