package gpm8212

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// DefaultBaudRate is the baud rate the meter ships with.
const DefaultBaudRate = 9600

// Config holds the serial port parameters. Timing values are in milliseconds.
type Config struct {
	Port     string `toml:"port"`
	BaudRate int    `toml:"baud_rate"`
	ByteSize int    `toml:"byte_size"`
	Parity   string `toml:"parity"`
	StopBits string `toml:"stop_bits"`

	ReadInterval         int `toml:"read_interval"`
	ReadTotalConstant    int `toml:"read_total_constant"`
	ReadTotalMultiplier  int `toml:"read_total_multiplier"`
	WriteTotalConstant   int `toml:"write_total_constant"`
	WriteTotalMultiplier int `toml:"write_total_multiplier"`
}

// DefaultConfig returns 9600 baud, 8 data bits, no parity and one stop bit.
// The port must still be set.
func DefaultConfig() Config {
	return Config{
		BaudRate: DefaultBaudRate,
		ByteSize: 8,
		Parity:   "none",
		StopBits: "1",
	}
}

// WithPort returns a copy of c using the given port.
func (c Config) WithPort(port string) Config {
	c.Port = port
	return c
}

// WithBaudRate returns a copy of c using the given baud rate.
func (c Config) WithBaudRate(baudRate int) Config {
	c.BaudRate = baudRate
	return c
}

// WithByteSize returns a copy of c using the given number of data bits.
func (c Config) WithByteSize(byteSize int) Config {
	c.ByteSize = byteSize
	return c
}

// WithParity returns a copy of c using the given parity.
func (c Config) WithParity(parity string) Config {
	c.Parity = parity
	return c
}

// WithStopBits returns a copy of c using the given stop bits.
func (c Config) WithStopBits(stopBits string) Config {
	c.StopBits = stopBits
	return c
}

// WithReadTimeout returns a copy of c using the given read interval, total
// constant and total multiplier.
func (c Config) WithReadTimeout(interval, constant, multiplier int) Config {
	c.ReadInterval = interval
	c.ReadTotalConstant = constant
	c.ReadTotalMultiplier = multiplier
	return c
}

// WithWriteTimeout returns a copy of c using the given write total constant
// and total multiplier.
func (c Config) WithWriteTimeout(constant, multiplier int) Config {
	c.WriteTotalConstant = constant
	c.WriteTotalMultiplier = multiplier
	return c
}

// Validate checks that the configuration can be used to open a port.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must be set")
	}

	if c.BaudRate <= 0 {
		return fmt.Errorf("baud rate must be greater than 0, got %d", c.BaudRate)
	}

	if c.ByteSize < 5 || c.ByteSize > 8 {
		return fmt.Errorf("byte size must be between 5 and 8, got %d", c.ByteSize)
	}

	if _, err := c.parity(); err != nil {
		return err
	}

	if _, err := c.stopBits(); err != nil {
		return err
	}

	if c.ReadInterval < 0 || c.ReadTotalConstant < 0 || c.ReadTotalMultiplier < 0 ||
		c.WriteTotalConstant < 0 || c.WriteTotalMultiplier < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}

	return nil
}

// Mode returns the serial mode described by c.
func (c Config) Mode() (*serial.Mode, error) {
	parity, err := c.parity()

	if err != nil {
		return nil, err
	}

	stopBits, err := c.stopBits()

	if err != nil {
		return nil, err
	}

	return &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: c.ByteSize,
		Parity:   parity,
		StopBits: stopBits,
	}, nil
}

// ReadTimeout returns the timeout for a single byte read. Zero means reads
// block until data arrives.
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTotalConstant+c.ReadTotalMultiplier) * time.Millisecond
}

func (c Config) parity() (serial.Parity, error) {
	switch strings.ToLower(c.Parity) {
	case "", "none", "n":
		return serial.NoParity, nil
	case "odd", "o":
		return serial.OddParity, nil
	case "even", "e":
		return serial.EvenParity, nil
	case "mark", "m":
		return serial.MarkParity, nil
	case "space", "s":
		return serial.SpaceParity, nil
	}

	return 0, fmt.Errorf("unknown parity %q", c.Parity)
}

func (c Config) stopBits() (serial.StopBits, error) {
	switch c.StopBits {
	case "", "1":
		return serial.OneStopBit, nil
	case "1.5":
		return serial.OnePointFiveStopBits, nil
	case "2":
		return serial.TwoStopBits, nil
	}

	return 0, fmt.Errorf("unknown stop bits %q", c.StopBits)
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	meta, err := toml.DecodeFile(path, &cfg)

	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	return cfg, nil
}

// Open opens the serial port described by cfg and returns a Meter on it.
func Open(cfg Config, options ...Option) (*Meter, error) {
	err := cfg.Validate()

	if err != nil {
		return nil, err
	}

	mode, err := cfg.Mode()

	if err != nil {
		return nil, err
	}

	port, err := serial.Open(cfg.Port, mode)

	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Port, err)
	}

	timeout := cfg.ReadTimeout()

	if timeout == 0 {
		timeout = serial.NoTimeout
	}

	err = port.SetReadTimeout(timeout)

	if err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", cfg.Port, err)
	}

	if cfg.WriteTotalConstant != 0 || cfg.WriteTotalMultiplier != 0 || cfg.ReadInterval != 0 {
		log.Debugf("Write timeouts and read interval are not supported on %s, ignoring.", cfg.Port)
	}

	log.Debugf("Opened %s at %d baud.", cfg.Port, cfg.BaudRate)

	return New(port, options...), nil
}
