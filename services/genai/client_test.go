package genai

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedBackend struct {
	mu      sync.Mutex
	replies []scriptedReply
	calls   int
	reqs    []Request
}

type scriptedReply struct {
	text string
	err  error
}

func (b *scriptedBackend) Name() string { return "scripted" }

func (b *scriptedBackend) Generate(_ context.Context, req Request) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reqs = append(b.reqs, req)
	idx := b.calls
	b.calls++
	if idx >= len(b.replies) {
		idx = len(b.replies) - 1
	}
	return b.replies[idx].text, b.replies[idx].err
}

type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return nil
}

func newTestClient(backend Backend, sleeper *recordingSleeper) *Client {
	return NewClient(
		func(context.Context) (Backend, error) { return backend, nil },
		WithRetryPolicy(RetryPolicy{MaxRetries: 3, BaseDelay: 10 * time.Millisecond}),
		WithSleepFunc(sleeper.sleep),
	)
}

func TestGenerate_RetriesOverloadThenSucceeds(t *testing.T) {
	overloaded := errors.New("The model is overloaded. Please retry.")
	backend := &scriptedBackend{replies: []scriptedReply{
		{err: overloaded},
		{err: overloaded},
		{text: `{"summary":["ok"]}`},
	}}
	sleeper := &recordingSleeper{}
	client := newTestClient(backend, sleeper)

	text, err := client.Generate(context.Background(), "prompt", "system")

	require.NoError(t, err)
	assert.Equal(t, `{"summary":["ok"]}`, text)
	assert.Equal(t, 3, backend.calls)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}, sleeper.delays)
	assert.Equal(t, "system", backend.reqs[0].SystemInstruction)
}

func TestGenerate_ExhaustsRetries(t *testing.T) {
	last := &BackendError{Provider: "scripted", StatusCode: 503, Message: "unavailable"}
	backend := &scriptedBackend{replies: []scriptedReply{{err: last}}}
	sleeper := &recordingSleeper{}
	client := newTestClient(backend, sleeper)

	_, err := client.Generate(context.Background(), "prompt", "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOverloaded))
	assert.Equal(t, ErrOverloaded.Error(), err.Error())
	assert.Equal(t, 4, backend.calls)
	assert.Equal(t, []time.Duration{
		10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond,
	}, sleeper.delays)

	var backendErr *BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Same(t, last, backendErr)
}

func TestGenerate_NonRetriableReturnsImmediately(t *testing.T) {
	invalid := &BackendError{Provider: "scripted", StatusCode: 400, Message: "bad request"}
	backend := &scriptedBackend{replies: []scriptedReply{{err: invalid}}}
	sleeper := &recordingSleeper{}
	client := newTestClient(backend, sleeper)

	_, err := client.Generate(context.Background(), "prompt", "")

	assert.Same(t, invalid, err)
	assert.Equal(t, 1, backend.calls)
	assert.Empty(t, sleeper.delays)
}

func TestGenerate_ConfigErrorIsFatalAndNotRetried(t *testing.T) {
	var factoryCalls int32
	client := NewClient(func(context.Context) (Backend, error) {
		atomic.AddInt32(&factoryCalls, 1)
		return nil, &ConfigError{Key: "GEMINI_API_KEY"}
	})

	for i := 0; i < 3; i++ {
		_, err := client.Generate(context.Background(), "prompt", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfiguration))
		assert.False(t, errors.Is(err, ErrOverloaded))
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&factoryCalls))
}

func TestGenerate_BackendBuiltOnceUnderConcurrency(t *testing.T) {
	var factoryCalls int32
	backend := &scriptedBackend{replies: []scriptedReply{{text: "ok"}}}
	client := NewClient(func(context.Context) (Backend, error) {
		atomic.AddInt32(&factoryCalls, 1)
		time.Sleep(5 * time.Millisecond)
		return backend, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := client.Generate(context.Background(), "prompt", "")
			assert.NoError(t, err)
			assert.Equal(t, "ok", text)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&factoryCalls))
	assert.Equal(t, 16, backend.calls)
}

func TestGenerate_ContextCancelledDuringBackoff(t *testing.T) {
	backend := &scriptedBackend{replies: []scriptedReply{{err: errors.New("model overloaded")}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(
		func(context.Context) (Backend, error) { return backend, nil },
		WithRetryPolicy(RetryPolicy{MaxRetries: 3, BaseDelay: time.Hour}),
	)

	_, err := client.Generate(ctx, "prompt", "")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, backend.calls)
}

func TestRetryPolicyDelay(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, BaseDelay: time.Second}
	assert.Equal(t, time.Second, p.Delay(0))
	assert.Equal(t, 2*time.Second, p.Delay(1))
	assert.Equal(t, 4*time.Second, p.Delay(2))
}

func TestIsRetriable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"rate limited", &BackendError{StatusCode: 429}, true},
		{"server error", &BackendError{StatusCode: 503}, true},
		{"anthropic overloaded", &BackendError{StatusCode: 529}, true},
		{"bad request", &BackendError{StatusCode: 400, Message: "invalid"}, false},
		{"overloaded message without status", &BackendError{Message: "Model is overloaded"}, true},
		{"untyped overloaded", errors.New("The model is OVERLOADED"), true},
		{"untyped other", errors.New("boom"), false},
		{"config", &ConfigError{Key: "X"}, false},
		{"cancelled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetriable(tt.err))
		})
	}
}

func TestStatusFromMessage(t *testing.T) {
	tests := []struct {
		msg      string
		expected int
	}{
		{"googleapi: Error 503: The model is overloaded.", 503},
		{"API returned unexpected status code: 429: rate limit", 429},
		{"status code 500", 500},
		{"connection reset by peer", 0},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusFromMessage(tt.msg))
		})
	}
}

func TestNewBackendFactory_MissingKey(t *testing.T) {
	for _, provider := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		t.Run(provider, func(t *testing.T) {
			_, err := NewBackendFactory(BackendConfig{Provider: provider})(context.Background())
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}
