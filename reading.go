package gpm8212

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Reading is the payload of a query response, exactly as sent by the meter.
type Reading string

func (r Reading) String() string {
	return string(r)
}

// Decimal converts the reading to an arbitrary-precision decimal. Surrounding
// whitespace is ignored.
func (r Reading) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(r)))

	if err != nil {
		return decimal.Decimal{}, &MalformedReadingError{Reading: string(r), Err: err}
	}

	return d, nil
}

// Float64 converts the reading to a float64. Precision may be lost, use
// Decimal when the exact value matters.
func (r Reading) Float64() (float64, error) {
	d, err := r.Decimal()

	if err != nil {
		return 0, err
	}

	f, _ := d.Float64()

	return f, nil
}
