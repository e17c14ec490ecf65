package beacond

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

// Sink is the interface the emitter writes through. *serialsink.Sink
// implements it; tests substitute their own.
type Sink interface {
	// WriteString writes the whole string synchronously.
	WriteString(msg string) error
}

// Emitter is the single periodic task. It announces itself once and then
// writes the loop message once per interval, forever. It holds the only
// reference to its sink for as long as it runs.
type Emitter struct {
	sink     Sink
	logger   *slog.Logger
	interval time.Duration
	greeting string
	loop     string
}

// NewEmitter creates an emitter for the given sink. The sink must already be
// initialized.
func NewEmitter(cfg *Config, sink Sink, logger *slog.Logger) *Emitter {
	return &Emitter{
		sink:     sink,
		logger:   logger,
		interval: time.Duration(cfg.Interval),
		greeting: cfg.Greeting,
		loop:     cfg.Loop,
	}
}

// Run writes the greeting, then loops until the context is canceled. In
// normal operation it never returns; cancellation comes from the host
// process, not from the emitter itself. It returns the first write error,
// otherwise ctx.Err().
func (e *Emitter) Run(ctx context.Context) error {
	e.logger.Debug("writing greeting", "len", len(e.greeting))
	if err := e.sink.WriteString(e.greeting); err != nil {
		return errors.Wrap(err, "failed to write greeting")
	}

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := e.sink.WriteString(e.loop); err != nil {
				return errors.Wrap(err, "failed to write loop message")
			}
		}
	}
}
