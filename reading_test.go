package gpm8212

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadingDecimal(t *testing.T) {
	d, err := Reading("120.50").Decimal()

	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("120.5")))
	assert.Equal(t, "120.5", d.String())

	d, err = Reading(" -0.0001 ").Decimal()

	require.NoError(t, err)
	assert.Equal(t, "-0.0001", d.String())
}

func TestReadingPreservesPrecision(t *testing.T) {
	d, err := Reading("0.1").Decimal()
	require.NoError(t, err)

	sum := d.Add(decimal.RequireFromString("0.2"))

	assert.Equal(t, "0.3", sum.String())
}

func TestReadingMalformed(t *testing.T) {
	_, err := Reading("OL").Decimal()

	var target *MalformedReadingError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, "OL", target.Reading)

	_, err = Reading("").Float64()
	assert.Error(t, err)
}

func TestReadingFloat64(t *testing.T) {
	f, err := Reading("60.00").Float64()

	require.NoError(t, err)
	assert.Equal(t, 60.0, f)
}
