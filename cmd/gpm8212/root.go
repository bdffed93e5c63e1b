package main

import (
	"context"
	"errors"
	"time"

	gpm8212 "github.com/basilfx/go-gpm8212"
	"github.com/basilfx/go-gpm8212/emulator"
	"github.com/basilfx/go-gpm8212/internal/logging"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// errTimeout is returned when the meter does not answer in time.
var errTimeout = errors.New("timeout while waiting for the meter")

// closeGracePeriod is the time a pending call gets to return after the meter
// is closed on timeout.
const closeGracePeriod = 500 * time.Millisecond

type options struct {
	configPath string
	port       string
	baudRate   int
	timeout    time.Duration
	simulate   bool
	logLevel   string
	logFormat  string

	device *emulator.Device
}

func newRootCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "gpm8212",
		Short: "GPM-8212 power meter interface",
		Long: `gpm8212 talks to a GWInstek GPM-8212 power meter over a serial port. It
can read the voltage, current, power, power factor and frequency, and change
the ranges, measurement status and data hold of the meter.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Configure(logging.Config{
				Level:  o.logLevel,
				Format: o.logFormat,
				Output: cmd.ErrOrStderr(),
			})
		},
	}

	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "", "TOML file with serial port settings")
	flags.StringVarP(&o.port, "port", "p", "", "Serial port device path, overrides the config file")
	flags.IntVarP(&o.baudRate, "baud", "b", 0, "Baud rate, overrides the config file")
	flags.DurationVarP(&o.timeout, "timeout", "t", 5*time.Second, "Time to wait for the meter, 0 waits forever")
	flags.BoolVar(&o.simulate, "simulate", false, "Talk to a simulated meter instead of a serial port")
	flags.StringVar(&o.logLevel, "log-level", "info", "Log level")
	flags.StringVar(&o.logFormat, "log-format", "text", "Log format, text or json")

	cmd.AddCommand(newReadCmd(o), newSetCmd(o))

	return cmd
}

// open returns a meter on the configured port, or on a simulated meter.
func (o *options) open() (*gpm8212.Meter, error) {
	if o.simulate {
		if o.device == nil {
			o.device = emulator.New()
		}

		log.Debugf("Using a simulated meter.")
		return gpm8212.New(o.device), nil
	}

	cfg := gpm8212.DefaultConfig()

	if o.configPath != "" {
		var err error

		cfg, err = gpm8212.LoadConfig(o.configPath)

		if err != nil {
			return nil, err
		}
	}

	if o.port != "" {
		cfg = cfg.WithPort(o.port)
	}

	if o.baudRate != 0 {
		cfg = cfg.WithBaudRate(o.baudRate)
	}

	return gpm8212.Open(cfg)
}

// run opens the meter, invokes fn and closes the meter.
func (o *options) run(fn func(m *gpm8212.Meter) error) error {
	m, err := o.open()

	if err != nil {
		return err
	}

	return runMeter(m, o.timeout, fn)
}

// runMeter invokes fn and closes the meter. If the timeout expires, the meter
// is closed to release the pending call, which is abandoned when the
// connection does not release it within closeGracePeriod.
func runMeter(m *gpm8212.Meter, timeout time.Duration, fn func(m *gpm8212.Meter) error) error {
	if timeout <= 0 {
		err := fn(m)

		if closeErr := m.Close(); err == nil {
			err = closeErr
		}

		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- fn(m)
	}()

	select {
	case err := <-done:
		if closeErr := m.Close(); err == nil {
			err = closeErr
		}

		return err
	case <-ctx.Done():
		log.Debugf("Meter did not answer within %s, closing.", timeout)

		if closeErr := m.Close(); closeErr != nil {
			log.Errorf("Error while closing: %v", closeErr)
		}

		select {
		case <-done:
		case <-time.After(closeGracePeriod):
			log.Warnf("Pending call not released by close, abandoning it.")
		}

		return errTimeout
	}
}
