package beacond

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"libdb.so/beacond/serialsink"
)

// Daemon is the main beacond daemon. It configures the serial sink exactly
// once and hands it to the emitter for the rest of the process lifetime.
type Daemon struct {
	cfg    *Config
	logger *slog.Logger
}

// NewDaemon creates a new beacond daemon.
func NewDaemon(cfg *Config, logger *slog.Logger) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Daemon{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run starts the daemon. It blocks until the given context is canceled or a
// write fails. If the serial device cannot be configured, Run returns
// immediately and nothing is ever written.
func (d *Daemon) Run(ctx context.Context) error {
	sink, err := serialsink.Open(d.cfg.Device, d.cfg.Baud, d.cfg.Tuning)
	if err != nil {
		return errors.Wrap(err, "failed to initialize serial sink")
	}
	defer sink.Close()

	d.logger.Debug(
		"serial sink initialized",
		"device", d.cfg.Device,
		"baud", d.cfg.Baud,
		"sink", sink)

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		<-ctx.Done()
		d.logger.Debug("closing serial port")
		if err := sink.Close(); err != nil {
			return errors.Wrap(err, "failed to close serial port")
		}
		return ctx.Err()
	})
	errg.Go(func() error {
		return NewEmitter(d.cfg, sink, d.logger).Run(ctx)
	})

	return errg.Wait()
}
