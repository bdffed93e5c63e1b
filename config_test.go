package gpm8212

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 9600, cfg.BaudRate)
	assert.Equal(t, 8, cfg.ByteSize)
	assert.Error(t, cfg.Validate())
	assert.NoError(t, cfg.WithPort("COM1").Validate())
}

func TestConfigFluent(t *testing.T) {
	base := DefaultConfig()

	cfg := base.
		WithPort("/dev/ttyUSB0").
		WithBaudRate(19200).
		WithByteSize(7).
		WithParity("even").
		WithStopBits("2").
		WithReadTimeout(10, 100, 5).
		WithWriteTimeout(50, 2)

	assert.Equal(t, "", base.Port)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Port)
	assert.Equal(t, 105*time.Millisecond, cfg.ReadTimeout())
	require.NoError(t, cfg.Validate())

	mode, err := cfg.Mode()

	require.NoError(t, err)
	assert.Equal(t, &serial.Mode{
		BaudRate: 19200,
		DataBits: 7,
		Parity:   serial.EvenParity,
		StopBits: serial.TwoStopBits,
	}, mode)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig().WithPort("COM1")

	assert.Error(t, cfg.WithBaudRate(0).Validate())
	assert.Error(t, cfg.WithByteSize(9).Validate())
	assert.Error(t, cfg.WithParity("sometimes").Validate())
	assert.Error(t, cfg.WithStopBits("3").Validate())
	assert.Error(t, cfg.WithReadTimeout(-1, 0, 0).Validate())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpm8212.toml")

	err := os.WriteFile(path, []byte(`
port = "COM3"
baud_rate = 2400
read_total_constant = 500
`), 0o644)
	require.NoError(t, err)

	cfg, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "COM3", cfg.Port)
	assert.Equal(t, 2400, cfg.BaudRate)
	assert.Equal(t, 8, cfg.ByteSize)
	assert.Equal(t, "none", cfg.Parity)
	assert.Equal(t, 500*time.Millisecond, cfg.ReadTimeout())
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpm8212.toml")

	err := os.WriteFile(path, []byte(`baud = 9600`), 0o644)
	require.NoError(t, err)

	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestOpenInvalidConfig(t *testing.T) {
	_, err := Open(DefaultConfig())
	assert.Error(t, err)
}
