package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/cwbudde/regionfx/dsp/effectchain"
	"github.com/cwbudde/regionfx/dsp/region"
	"github.com/cwbudde/regionfx/internal/analysis"
	"github.com/cwbudde/regionfx/internal/codec"
	"github.com/cwbudde/regionfx/internal/config"
	"github.com/cwbudde/regionfx/internal/observe"
	"github.com/cwbudde/regionfx/internal/pipeline"
	"github.com/cwbudde/regionfx/internal/probe"
	"github.com/cwbudde/regionfx/internal/request"
)

type stepSummary struct {
	Index        int      `json:"index"`
	Effect       string   `json:"effect"`
	Label        string   `json:"label"`
	StartSample  int      `json:"start_sample"`
	EndSample    int      `json:"end_sample"`
	StartSeconds float64  `json:"start_seconds"`
	EndSeconds   float64  `json:"end_seconds"`
	Peak         float64  `json:"peak"`
	Silent       bool     `json:"silent"`
	Warnings     []string `json:"warnings,omitempty"`
	ElapsedMs    float64  `json:"elapsed_ms"`
}

type applySummary struct {
	Source     string        `json:"source"`
	Output     string        `json:"output,omitempty"`
	SampleRate int           `json:"sample_rate,omitempty"`
	Samples    int           `json:"samples,omitempty"`
	Applied    int           `json:"applied"`
	Requested  int           `json:"requested"`
	Analysis   string        `json:"analysis,omitempty"`
	Steps      []stepSummary `json:"steps"`
	Error      string        `json:"error,omitempty"`
}

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var (
		effectFlags  []string
		requestPath  string
		analysisPath string
		showMetrics  bool
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "apply SOURCE DEST",
		Short: "Apply effects to regions of an audio file",
		Long: `Apply effects to regions of SOURCE and write the result to DEST.

Effects come from --request files and --effect flags, in that order, and
run one after another. Each --effect has the form

  KIND[@START-[END]][:KEY=VALUE,...]

where KIND is a name (lowshelf, midpeak, highshelf, compressor, reverb,
chorus), an alias (bass, mids, highs) or a code 1-6, and times are seconds
or m:s. Without a range the effect covers the whole track; an empty END runs
to the track end.`,
		Example: `  regionfx apply in.wav out.wav --effect bass@0:10-0:20
  regionfx apply in.mp3 out.mp3 -e "highs@1:00-1:30:gain_db=6,compress=1" -e reverb@2:00-
  regionfx apply in.wav out.wav --request effects.json --analysis report.json --metrics`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			source, dest := args[0], args[1]

			req, err := buildRequest(source, requestPath, effectFlags)
			if err != nil {
				return err
			}
			steps, err := request.Resolve(cmd.Context(), req, effectchain.DefaultRegistry(), durationProbe(cfg, source))
			if err != nil {
				return err
			}

			q, err := cfg.Quantizer()
			if err != nil {
				return err
			}
			proc := region.New(region.WithProcessorOptions(cfg.ProcessorOptions()...), region.WithQuantizer(q))
			opts := []pipeline.Option{pipeline.WithLogger(logger), pipeline.WithProcessor(proc)}

			var reader *sdkmetric.ManualReader
			if showMetrics {
				mp, r := observe.NewManualProvider()
				defer func() { _ = mp.Shutdown(context.Background()) }()
				m, err := observe.NewMetrics(mp)
				if err != nil {
					return err
				}
				opts = append(opts, pipeline.WithMetrics(m))
				reader = r
			}

			capture := analysisPath != "" || cfg.Analysis.Enabled
			if capture {
				aopts, err := cfg.AnalysisOptions()
				if err != nil {
					return err
				}
				opts = append(opts, pipeline.WithAnalysis(aopts))
				if analysisPath == "" {
					analysisPath = dest + ".analysis.json"
				}
			}

			bridge := codec.NewFFmpeg(cfg.Tools.FFmpeg, cfg.Paths.WorkDir, logger)
			res, runErr := pipeline.New(bridge, opts...).Run(cmd.Context(), source, dest, steps)

			summary := summarize(source, len(steps), res, runErr)
			if capture && res != nil && res.Applied > 0 {
				if err := writeJSONFile(analysisPath, reports(res)); err != nil {
					return err
				}
				summary.Analysis = analysisPath
			}

			if jsonOutput {
				if err := writeJSON(cmd, summary); err != nil {
					return err
				}
			} else if summary.Applied > 0 {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderSteps(summary.Steps))
				fmt.Fprintf(out, "Wrote %s (%d of %d effects)\n", summary.Output, summary.Applied, summary.Requested)
				if summary.Analysis != "" {
					fmt.Fprintf(out, "Analysis written to %s\n", summary.Analysis)
				}
			}

			if reader != nil {
				points, err := observe.Collect(cmd.Context(), reader)
				if err != nil {
					return err
				}
				if !jsonOutput {
					fmt.Fprintln(cmd.OutOrStdout(), renderMetrics(points))
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringArrayVarP(&effectFlags, "effect", "e", nil, "Effect to apply (repeatable): KIND[@START-[END]][:KEY=VALUE,...]")
	cmd.Flags().StringVarP(&requestPath, "request", "r", "", "JSON request file with an effects list")
	cmd.Flags().StringVar(&analysisPath, "analysis", "", "Write before/after analysis reports to this JSON file")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print a metrics summary after the run")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}

func buildRequest(source, requestPath string, effectFlags []string) (*request.Request, error) {
	req := &request.Request{Source: source}
	if strings.TrimSpace(requestPath) != "" {
		loaded, err := request.Load(requestPath)
		if err != nil {
			return nil, err
		}
		req.Effects = append(req.Effects, loaded.Effects...)
	}
	for _, flag := range effectFlags {
		e, err := request.ParseEffectFlag(flag)
		if err != nil {
			return nil, err
		}
		req.Effects = append(req.Effects, e)
	}
	if len(req.Effects) == 0 {
		return nil, fmt.Errorf("no effects given; use --effect or --request")
	}
	return req, nil
}

// durationProbe returns nil for WAV sources, whose open ends resolve from
// the decoded length.
func durationProbe(cfg *config.Config, source string) probe.DurationProbe {
	if strings.EqualFold(filepath.Ext(source), ".wav") {
		return nil
	}
	return probe.FFprobe{Binary: cfg.Tools.FFprobe}
}

func summarize(source string, requested int, res *pipeline.Result, runErr error) applySummary {
	s := applySummary{Source: source, Requested: requested, Steps: []stepSummary{}}
	if runErr != nil {
		s.Error = runErr.Error()
	}
	if res == nil {
		return s
	}
	s.Output = res.Output
	s.SampleRate = res.SampleRate
	s.Samples = res.Samples
	s.Applied = res.Applied
	for _, st := range res.Steps {
		s.Steps = append(s.Steps, stepSummary{
			Index:        st.Index,
			Effect:       st.Kind.String(),
			Label:        st.Kind.Label(),
			StartSample:  st.Region.Start,
			EndSample:    st.Region.End,
			StartSeconds: seconds(st.Region.Start, res.SampleRate),
			EndSeconds:   seconds(st.Region.End, res.SampleRate),
			Peak:         st.Peak,
			Silent:       st.Silent,
			Warnings:     st.Warnings,
			ElapsedMs:    float64(st.Elapsed) / float64(time.Millisecond),
		})
	}
	return s
}

func seconds(sample, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(sample) / float64(sampleRate)
}

func reports(res *pipeline.Result) []*analysis.Report {
	out := make([]*analysis.Report, 0, len(res.Steps))
	for _, st := range res.Steps {
		if st.Analysis != nil {
			out = append(out, st.Analysis)
		}
	}
	return out
}

func renderSteps(steps []stepSummary) string {
	rows := make([][]string, 0, len(steps))
	for _, st := range steps {
		rows = append(rows, []string{
			strconv.Itoa(st.Index),
			st.Label,
			fmt.Sprintf("%.3fs - %.3fs", st.StartSeconds, st.EndSeconds),
			strconv.Itoa(st.EndSample - st.StartSample),
			strconv.FormatFloat(st.Peak, 'f', 4, 64),
			yesNo(st.Silent),
			fmt.Sprintf("%.1fms", st.ElapsedMs),
		})
	}
	return renderTable(
		[]string{"Step", "Effect", "Region", "Samples", "Peak", "Silent", "Elapsed"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignRight},
	)
}

func renderMetrics(points []observe.Point) string {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		sum := ""
		if p.Sum != 0 {
			sum = strconv.FormatFloat(p.Sum, 'f', 4, 64) + p.Unit
		}
		rows = append(rows, []string{p.Name, p.Attributes, strconv.FormatInt(p.Count, 10), sum})
	}
	return renderTable(
		[]string{"Metric", "Attributes", "Count", "Sum"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
	)
}
