package beacond

import (
	"encoding"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Config is the configuration for the beacond daemon.
type Config struct {
	// Device is the path to the serial device file.
	// This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud"`
	// Tuning is an opaque device tuning word. It is handed to the sink
	// unchanged and never interpreted.
	Tuning int `toml:"tuning"`
	// Interval is the delay between two loop emissions.
	Interval TOMLDuration `toml:"interval"`
	// Greeting is written once, right after the device is configured.
	Greeting string `toml:"greeting"`
	// Loop is written once per interval, forever. The default payload ends
	// in a NUL byte; the device on the other end expects the terminator on
	// the wire.
	Loop string `toml:"loop"`
}

// DefaultConfig returns the configuration that beacond runs with when a field
// (or the whole file) is absent.
func DefaultConfig() *Config {
	return &Config{
		Device:   "/dev/ttyUSB0",
		Baud:     115200,
		Tuning:   25,
		Interval: TOMLDuration(time.Second),
		Greeting: "hello world\n",
		Loop:     "carlos's hello world loop\n\x00",
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("no device configured")
	}
	if c.Baud <= 0 {
		return errors.Errorf("invalid baud rate %d", c.Baud)
	}
	if time.Duration(c.Interval) <= 0 {
		return errors.Errorf("invalid interval %v", time.Duration(c.Interval))
	}
	if c.Greeting == "" {
		return errors.New("no greeting configured")
	}
	if c.Loop == "" {
		return errors.New("no loop message configured")
	}
	return nil
}

// TOMLDuration is a duration that can be parsed from TOML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ParseConfig parses a configuration from a reader. Fields missing from the
// document keep their DefaultConfig values.
func ParseConfig(r io.Reader) (*Config, error) {
	config := DefaultConfig()
	if err := toml.NewDecoder(r).Decode(config); err != nil {
		return nil, err
	}
	return config, nil
}
