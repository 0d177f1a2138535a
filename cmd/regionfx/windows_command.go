package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwbudde/regionfx/dsp/window"
)

func newWindowsCommand() *cobra.Command {
	var (
		size     int
		periodic bool
	)

	cmd := &cobra.Command{
		Use:         "windows [NAME...]",
		Short:       "Print spectral properties of the analysis windows",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if size <= 0 {
				return fmt.Errorf("window size must be > 0: %d", size)
			}
			types := window.Types
			if len(args) > 0 {
				types = nil
				for _, name := range args {
					t, err := window.ParseType(name)
					if err != nil {
						return err
					}
					types = append(types, t)
				}
			}

			var opts []window.Option
			if periodic {
				opts = append(opts, window.WithPeriodic())
			}

			rows := make([][]string, 0, len(types))
			for _, t := range types {
				coeffs := window.Generate(t, size, opts...)
				rows = append(rows, []string{
					t.String(),
					strconv.Itoa(size),
					strconv.FormatFloat(window.CoherentGain(coeffs), 'f', 6, 64),
					strconv.FormatFloat(window.ENBW(coeffs), 'f', 4, 64),
					strconv.FormatFloat(window.ScallopLossDB(coeffs), 'f', 4, 64),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Window", "Size", "Coherent gain", "ENBW [bins]", "Scallop [dB]"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "size", 2048, "Window length in samples")
	cmd.Flags().BoolVar(&periodic, "periodic", true, "Use the periodic form used for spectra")
	return cmd
}
