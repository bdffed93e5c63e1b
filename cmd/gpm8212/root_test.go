package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	gpm8212 "github.com/basilfx/go-gpm8212"
	"github.com/basilfx/go-gpm8212/emulator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestReadSimulated(t *testing.T) {
	out, err := execute(t, "--simulate", "read", "voltage")

	require.NoError(t, err)
	assert.Equal(t, "120.5\n", out)
}

func TestReadAllSimulated(t *testing.T) {
	out, err := execute(t, "--simulate", "read", "all")

	require.NoError(t, err)
	assert.Equal(t, "voltage: 120.5\ncurrent: 0.250\nwatt: 30.12\npf: 0.998\nhz: 60.00\n", out)
}

func TestReadUnknownQuantity(t *testing.T) {
	_, err := execute(t, "--simulate", "read", "ohm")

	assert.Error(t, err)
}

func TestSetSimulated(t *testing.T) {
	for _, args := range [][]string{
		{"set", "hold", "on"},
		{"set", "hold", "off"},
		{"set", "mode", "max"},
		{"set", "volt-range", "320"},
		{"set", "amp-range", "auto"},
	} {
		_, err := execute(t, append([]string{"--simulate"}, args...)...)
		assert.NoError(t, err, args)
	}
}

func TestSetInvalidArgument(t *testing.T) {
	for _, args := range [][]string{
		{"set", "hold", "maybe"},
		{"set", "mode", "peak"},
		{"set", "volt-range", "12"},
		{"set", "amp-range", "3"},
	} {
		_, err := execute(t, append([]string{"--simulate"}, args...)...)
		assert.Error(t, err, args)
	}
}

func TestRunSendsCommands(t *testing.T) {
	d := emulator.New()
	o := &options{simulate: true, timeout: time.Second, device: d}

	err := o.run(func(m *gpm8212.Meter) error {
		if err := m.SetVoltRange(gpm8212.V40); err != nil {
			return err
		}

		_, err := m.Voltage()
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"R04", "V00"}, d.Commands())
}

func TestRunTimeout(t *testing.T) {
	d := emulator.New()
	d.DeleteReading("V01")

	o := &options{simulate: true, timeout: 50 * time.Millisecond, device: d}

	err := o.run(func(m *gpm8212.Meter) error {
		_, err := m.Current()
		return err
	})

	assert.Equal(t, errTimeout, err)
}

func TestOpenRequiresPort(t *testing.T) {
	_, err := execute(t, "read", "voltage")

	assert.Error(t, err)
}

func TestOpenConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpm8212.toml")
	require.NoError(t, os.WriteFile(path, []byte(`baud_rate = -1`), 0o644))

	o := &options{configPath: path, port: "COM1"}

	_, err := o.open()
	assert.Error(t, err)
}

// unreleasedReader blocks until the test ends, whatever happens to the meter.
type unreleasedReader struct {
	release chan struct{}
}

func (r *unreleasedReader) Read(p []byte) (int, error) {
	<-r.release
	return 0, io.EOF
}

func (r *unreleasedReader) Close() error {
	return nil
}

func TestRunMeterTimeoutCloseIgnored(t *testing.T) {
	r := &unreleasedReader{release: make(chan struct{})}
	defer close(r.release)

	m := gpm8212.NewSplit(r, &bytes.Buffer{})

	start := time.Now()

	err := runMeter(m, 50*time.Millisecond, func(m *gpm8212.Meter) error {
		_, err := m.Voltage()
		return err
	})

	assert.Equal(t, errTimeout, err)
	assert.True(t, time.Since(start) < 50*time.Millisecond+closeGracePeriod+time.Second)
}
