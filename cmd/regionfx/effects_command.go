package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/regionfx/dsp/effectchain"
)

type effectInfo struct {
	Code       int      `json:"code"`
	Name       string   `json:"name"`
	Label      string   `json:"label"`
	Defaults   string   `json:"defaults"`
	Parameters []string `json:"parameters"`
}

func newEffectsCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "effects",
		Short:       "List the available effects, their defaults and parameters",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := listEffects(effectchain.DefaultRegistry())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, infos)
			}

			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, []string{
					strconv.Itoa(info.Code),
					info.Name,
					info.Label,
					info.Defaults,
					strings.Join(info.Parameters, ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Code", "Name", "Label", "Defaults", "Parameters"},
				rows,
				[]columnAlignment{alignRight},
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the effect list as JSON")
	return cmd
}

func listEffects(reg *effectchain.Registry) ([]effectInfo, error) {
	infos := make([]effectInfo, 0, len(effectchain.Kinds))
	for _, k := range effectchain.Kinds {
		d, err := reg.Build(k, effectchain.Params{})
		if err != nil {
			return nil, err
		}
		infos = append(infos, effectInfo{
			Code:       int(k),
			Name:       k.String(),
			Label:      k.Label(),
			Defaults:   describeDescriptor(d),
			Parameters: reg.Keys(k),
		})
	}
	return infos, nil
}

func describeDescriptor(d effectchain.Descriptor) string {
	switch v := d.(type) {
	case effectchain.LowShelf:
		return fmt.Sprintf("%+g dB below %g Hz", v.GainDB, v.CutoffHz)
	case effectchain.MidPeak:
		return fmt.Sprintf("%+g dB at %g Hz, %g Hz wide", v.GainDB, v.CenterHz, v.BandwidthHz)
	case effectchain.HighShelf:
		s := fmt.Sprintf("%+g dB above %g Hz", v.GainDB, v.CutoffHz)
		if v.Compressor != nil {
			s += ", then " + describeDescriptor(*v.Compressor)
		}
		return s
	case effectchain.Compressor:
		return fmt.Sprintf("%g dB threshold, %g:1, %g/%g ms, %+g dB makeup",
			v.ThresholdDB, v.Ratio, v.AttackMs, v.ReleaseMs, v.MakeupDB)
	case effectchain.Reverb:
		return fmt.Sprintf("%d echoes every %g ms, decay %g", v.Echoes, v.DelayMs, v.Decay)
	case effectchain.Chorus:
		return fmt.Sprintf("%g ms depth at %g Hz, mix %g", v.DepthMs, v.RateHz, v.Mix)
	default:
		return fmt.Sprintf("%+v", d)
	}
}
