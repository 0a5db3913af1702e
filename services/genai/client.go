package genai

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Request struct {
	Prompt            string
	SystemInstruction string
}

// Backend performs a single generation call against one provider.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

// BackendFactory builds the backend on first use.
type BackendFactory func(ctx context.Context) (Backend, error)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: time.Second}
}

// Delay returns the wait after the given zero-based failed attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(1<<attempt)
}

type Client struct {
	factory BackendFactory
	policy  RetryPolicy
	logger  *zap.SugaredLogger
	sleep   SleepFunc

	once    sync.Once
	backend Backend
	initErr error
}

type Option func(*Client)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.policy = p }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.logger = l }
}

func WithSleepFunc(fn SleepFunc) Option {
	return func(c *Client) { c.sleep = fn }
}

func NewClient(factory BackendFactory, opts ...Option) *Client {
	c := &Client{
		factory: factory,
		policy:  DefaultRetryPolicy(),
		logger:  zap.NewNop().Sugar(),
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate sends prompt to the backend, retrying transient failures with
// exponential backoff. A configuration failure is returned as is.
func (c *Client) Generate(ctx context.Context, prompt, systemInstruction string) (string, error) {
	backend, err := c.handle(ctx)
	if err != nil {
		return "", err
	}

	req := Request{Prompt: prompt, SystemInstruction: systemInstruction}
	provider := backend.Name()

	var lastErr error
	for attempt := 0; attempt <= c.policy.MaxRetries; attempt++ {
		start := time.Now()
		text, err := backend.Generate(ctx, req)
		generationDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

		if err == nil {
			generationAttempts.WithLabelValues(provider, outcomeSuccess).Inc()
			c.logger.Debugf("Generation succeeded on attempt %d via %s", attempt+1, provider)
			return text, nil
		}

		if !IsRetriable(err) {
			generationAttempts.WithLabelValues(provider, outcomeError).Inc()
			c.logger.Errorf("Generation failed on attempt %d via %s: %v", attempt+1, provider, err)
			return "", err
		}

		generationAttempts.WithLabelValues(provider, outcomeRetriable).Inc()
		lastErr = err

		if attempt == c.policy.MaxRetries {
			break
		}

		delay := c.policy.Delay(attempt)
		c.logger.Warnf("Model overloaded on attempt %d via %s, retrying in %s: %v", attempt+1, provider, delay, err)
		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	c.logger.Errorf("Generation gave up after %d attempts via %s: %v", c.policy.MaxRetries+1, provider, lastErr)
	return "", &overloadedError{last: lastErr}
}

func (c *Client) handle(ctx context.Context) (Backend, error) {
	c.once.Do(func() {
		c.backend, c.initErr = c.factory(context.WithoutCancel(ctx))
		if c.initErr != nil {
			c.logger.Errorf("Failed to initialise generation backend: %v", c.initErr)
			return
		}
		c.logger.Infof("Generation backend %s initialised", c.backend.Name())
	})
	return c.backend, c.initErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
