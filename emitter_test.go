package beacond

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSink records every write with the time it happened.
type recordSink struct {
	mu     sync.Mutex
	writes []string
	times  []time.Time
	err    error
}

func (s *recordSink) WriteString(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.writes = append(s.writes, msg)
	s.times = append(s.times, time.Now())
	return nil
}

func (s *recordSink) snapshot() ([]string, []time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...), append([]time.Time(nil), s.times...)
}

func testConfig(interval time.Duration) *Config {
	cfg := DefaultConfig()
	cfg.Interval = TOMLDuration(interval)
	return cfg
}

func TestEmitterRun(t *testing.T) {
	const interval = 50 * time.Millisecond

	cfg := testConfig(interval)
	sink := &recordSink{}
	emitter := NewEmitter(cfg, sink, slog.Default())

	ctx, cancel := context.WithTimeout(context.Background(), 4*interval)
	defer cancel()

	err := emitter.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	writes, times := sink.snapshot()
	require.GreaterOrEqual(t, len(writes), 3, "expected greeting plus at least two loop messages")

	// The greeting goes out first and exactly once.
	assert.Equal(t, cfg.Greeting, writes[0])
	for _, w := range writes[1:] {
		assert.Equal(t, cfg.Loop, w)
	}

	// Consecutive loop emissions are never closer than the interval. The
	// timestamps are taken on the recording side, after the tick fired, so
	// allow a little jitter on each delta.
	const jitter = 5 * time.Millisecond
	for i := 2; i < len(times); i++ {
		assert.GreaterOrEqual(t, times[i].Sub(times[i-1]), interval-jitter)
	}

	// The tick count over the whole window bounds the rate regardless of
	// per-delta jitter.
	assert.LessOrEqual(t, len(writes)-1, 4)
}

func TestEmitterRunWriteError(t *testing.T) {
	cfg := testConfig(10 * time.Millisecond)
	sink := &recordSink{err: errors.New("device gone")}
	emitter := NewEmitter(cfg, sink, slog.Default())

	err := emitter.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write greeting")

	writes, _ := sink.snapshot()
	assert.Empty(t, writes)
}

func TestEmitterRunCanceled(t *testing.T) {
	cfg := testConfig(time.Hour)
	sink := &recordSink{}
	emitter := NewEmitter(cfg, sink, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := emitter.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// Only the greeting made it out before cancellation.
	writes, _ := sink.snapshot()
	require.Equal(t, []string{cfg.Greeting}, writes)
}
