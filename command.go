package gpm8212

import (
	"fmt"
	"strings"
)

// Terminator delimits every outgoing command and every incoming response.
const Terminator byte = 0x0D

// Data hold mnemonics.
const (
	CommandHoldOn  = "F00"
	CommandHoldOff = "F01"
)

// MeasurementStatus selects which value the meter reports.
type MeasurementStatus int

// The different measurement statuses.
const (
	Maximum MeasurementStatus = iota
	Minimum
	Normal
)

var measurementStatusCommands = map[MeasurementStatus]string{
	Maximum: "F02",
	Minimum: "F03",
	Normal:  "F04",
}

var measurementStatusNames = map[MeasurementStatus]string{
	Maximum: "max",
	Minimum: "min",
	Normal:  "normal",
}

// Mnemonic returns the command that selects this measurement status.
func (s MeasurementStatus) Mnemonic() (string, error) {
	if c, ok := measurementStatusCommands[s]; ok {
		return c, nil
	}

	return "", &UnsupportedVariantError{Kind: "measurement status", Value: int(s)}
}

func (s MeasurementStatus) String() string {
	if n, ok := measurementStatusNames[s]; ok {
		return n
	}

	return fmt.Sprintf("MeasurementStatus(%d)", int(s))
}

// ParseMeasurementStatus parses "max", "min" or "normal".
func ParseMeasurementStatus(s string) (MeasurementStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max", "maximum":
		return Maximum, nil
	case "min", "minimum":
		return Minimum, nil
	case "normal":
		return Normal, nil
	}

	return 0, fmt.Errorf("unknown measurement status %q", s)
}

// VoltRange is a voltage measurement range.
type VoltRange int

// The different volt ranges.
const (
	V640 VoltRange = iota
	V320
	V160
	V80
	V40
	V20
	V10
	V5
	VAuto
)

// Volt ranges occupy R00..R07, auto is R16.
var voltRangeCommands = map[VoltRange]string{
	V640:  "R00",
	V320:  "R01",
	V160:  "R02",
	V80:   "R03",
	V40:   "R04",
	V20:   "R05",
	V10:   "R06",
	V5:    "R07",
	VAuto: "R16",
}

var voltRangeNames = map[VoltRange]string{
	V640:  "640",
	V320:  "320",
	V160:  "160",
	V80:   "80",
	V40:   "40",
	V20:   "20",
	V10:   "10",
	V5:    "5",
	VAuto: "auto",
}

// VoltRanges returns all volt ranges, largest first.
func VoltRanges() []VoltRange {
	return []VoltRange{V640, V320, V160, V80, V40, V20, V10, V5, VAuto}
}

// Mnemonic returns the command that selects this volt range.
func (r VoltRange) Mnemonic() (string, error) {
	if c, ok := voltRangeCommands[r]; ok {
		return c, nil
	}

	return "", &UnsupportedVariantError{Kind: "volt range", Value: int(r)}
}

func (r VoltRange) String() string {
	if n, ok := voltRangeNames[r]; ok {
		if r == VAuto {
			return n
		}

		return n + "V"
	}

	return fmt.Sprintf("VoltRange(%d)", int(r))
}

// ParseVoltRange parses a range such as "320", "320V" or "auto".
func ParseVoltRange(s string) (VoltRange, error) {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "v")

	for r, n := range voltRangeNames {
		if n == v {
			return r, nil
		}
	}

	return 0, fmt.Errorf("unknown volt range %q", s)
}

// AmpRange is a current measurement range.
type AmpRange int

// The different amp ranges.
const (
	A20_48 AmpRange = iota
	A10_24
	A5_12
	A2_56
	A1_28
	A0_64
	A0_32
	A0_16
	AAuto
)

// Amp ranges occupy R08..R15, auto is R17.
var ampRangeCommands = map[AmpRange]string{
	A20_48: "R08",
	A10_24: "R09",
	A5_12:  "R10",
	A2_56:  "R11",
	A1_28:  "R12",
	A0_64:  "R13",
	A0_32:  "R14",
	A0_16:  "R15",
	AAuto:  "R17",
}

var ampRangeNames = map[AmpRange]string{
	A20_48: "20.48",
	A10_24: "10.24",
	A5_12:  "5.12",
	A2_56:  "2.56",
	A1_28:  "1.28",
	A0_64:  "0.64",
	A0_32:  "0.32",
	A0_16:  "0.16",
	AAuto:  "auto",
}

// AmpRanges returns all amp ranges, largest first.
func AmpRanges() []AmpRange {
	return []AmpRange{A20_48, A10_24, A5_12, A2_56, A1_28, A0_64, A0_32, A0_16, AAuto}
}

// Mnemonic returns the command that selects this amp range.
func (r AmpRange) Mnemonic() (string, error) {
	if c, ok := ampRangeCommands[r]; ok {
		return c, nil
	}

	return "", &UnsupportedVariantError{Kind: "amp range", Value: int(r)}
}

func (r AmpRange) String() string {
	if n, ok := ampRangeNames[r]; ok {
		if r == AAuto {
			return n
		}

		return n + "A"
	}

	return fmt.Sprintf("AmpRange(%d)", int(r))
}

// ParseAmpRange parses a range such as "2.56", ".64", "0.64A" or "auto".
func ParseAmpRange(s string) (AmpRange, error) {
	v := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "a")

	if strings.HasPrefix(v, ".") {
		v = "0" + v
	}

	for r, n := range ampRangeNames {
		if n == v {
			return r, nil
		}
	}

	return 0, fmt.Errorf("unknown amp range %q", s)
}

// Quantity is a value that can be queried from the meter.
type Quantity int

// The different quantities.
const (
	Voltage Quantity = iota
	Current
	Watt
	PowerFactor
	Frequency
)

var quantityCommands = map[Quantity]string{
	Voltage:     "V00",
	Current:     "V01",
	Watt:        "V02",
	PowerFactor: "V03",
	Frequency:   "V04",
}

var quantityNames = map[Quantity]string{
	Voltage:     "voltage",
	Current:     "current",
	Watt:        "watt",
	PowerFactor: "pf",
	Frequency:   "hz",
}

// Quantities returns all quantities in query order.
func Quantities() []Quantity {
	return []Quantity{Voltage, Current, Watt, PowerFactor, Frequency}
}

// Mnemonic returns the command that queries this quantity.
func (q Quantity) Mnemonic() (string, error) {
	if c, ok := quantityCommands[q]; ok {
		return c, nil
	}

	return "", &UnsupportedVariantError{Kind: "quantity", Value: int(q)}
}

func (q Quantity) String() string {
	if n, ok := quantityNames[q]; ok {
		return n
	}

	return fmt.Sprintf("Quantity(%d)", int(q))
}

// ParseQuantity parses "voltage", "current", "watt", "pf" or "hz".
func ParseQuantity(s string) (Quantity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "voltage", "volt", "v":
		return Voltage, nil
	case "current", "amp", "a":
		return Current, nil
	case "watt", "power", "w":
		return Watt, nil
	case "pf", "powerfactor":
		return PowerFactor, nil
	case "hz", "frequency":
		return Frequency, nil
	}

	return 0, fmt.Errorf("unknown quantity %q", s)
}
