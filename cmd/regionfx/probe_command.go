package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwbudde/regionfx/internal/probe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe SOURCE",
		Short: "Show the duration and audio streams of a media file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			res, err := probe.FFprobe{Binary: cfg.Tools.FFprobe}.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, res)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Source:   %s\n", args[0])
			fmt.Fprintf(out, "Format:   %s\n", res.Format.FormatName)
			fmt.Fprintf(out, "Duration: %.3fs\n", res.DurationSeconds())
			fmt.Fprintf(out, "Audio:    %d stream(s)\n", res.AudioStreamCount())

			var rows [][]string
			for _, s := range res.Streams {
				if s.CodecType != "audio" {
					continue
				}
				rows = append(rows, []string{strconv.Itoa(s.Index), s.CodecName, s.SampleRate, strconv.Itoa(s.Channels), s.Duration})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"Index", "Codec", "Sample rate", "Channels", "Duration"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
				))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the ffprobe result as JSON")
	return cmd
}
