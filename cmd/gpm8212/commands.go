package main

import (
	"fmt"
	"strings"

	gpm8212 "github.com/basilfx/go-gpm8212"
	"github.com/spf13/cobra"
)

func newReadCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:       "read <voltage|current|watt|pf|hz|all>",
		Short:     "Read a value from the meter",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"voltage", "current", "watt", "pf", "hz", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			quantities := gpm8212.Quantities()

			if strings.ToLower(args[0]) != "all" {
				q, err := gpm8212.ParseQuantity(args[0])

				if err != nil {
					return err
				}

				quantities = []gpm8212.Quantity{q}
			}

			return o.run(func(m *gpm8212.Meter) error {
				for _, q := range quantities {
					r, err := m.Query(q)

					if err != nil {
						return err
					}

					if len(quantities) == 1 {
						fmt.Fprintln(cmd.OutOrStdout(), r)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", q, r)
					}
				}

				return nil
			})
		},
	}
}

func newSetCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change a setting of the meter",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:       "hold <on|off>",
			Short:     "Enable or disable data hold",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"on", "off"},
			RunE: func(cmd *cobra.Command, args []string) error {
				var enabled bool

				switch strings.ToLower(args[0]) {
				case "on":
					enabled = true
				case "off":
					enabled = false
				default:
					return fmt.Errorf("expected on or off, got %q", args[0])
				}

				return o.run(func(m *gpm8212.Meter) error {
					return m.SetDataHoldEnabled(enabled)
				})
			},
		},
		&cobra.Command{
			Use:       "mode <max|min|normal>",
			Short:     "Select the measurement status",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{"max", "min", "normal"},
			RunE: func(cmd *cobra.Command, args []string) error {
				status, err := gpm8212.ParseMeasurementStatus(args[0])

				if err != nil {
					return err
				}

				return o.run(func(m *gpm8212.Meter) error {
					return m.SetMeasurementStatus(status)
				})
			},
		},
		&cobra.Command{
			Use:   "volt-range <640|320|160|80|40|20|10|5|auto>",
			Short: "Select the volt range",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := gpm8212.ParseVoltRange(args[0])

				if err != nil {
					return err
				}

				return o.run(func(m *gpm8212.Meter) error {
					return m.SetVoltRange(r)
				})
			},
		},
		&cobra.Command{
			Use:   "amp-range <20.48|10.24|5.12|2.56|1.28|0.64|0.32|0.16|auto>",
			Short: "Select the amp range",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := gpm8212.ParseAmpRange(args[0])

				if err != nil {
					return err
				}

				return o.run(func(m *gpm8212.Meter) error {
					return m.SetAmpRange(r)
				})
			},
		},
	)

	return cmd
}
