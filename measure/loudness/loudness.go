// Package loudness measures ITU-R BS.1770 programme loudness of a mono
// signal.
package loudness

import (
	"fmt"
	"math"

	"github.com/cwbudde/regionfx/dsp/core"
	"github.com/cwbudde/regionfx/dsp/filter/biquad"
	"github.com/cwbudde/regionfx/dsp/filter/design"
)

const (
	// K-weighting stage parameters.
	shelfFreqHz = 1500.0
	shelfGainDB = 4.0
	hpfFreqHz   = 38.0

	blockSeconds = 0.4
	// Gating blocks overlap by 75%.
	stepSeconds = 0.1

	absoluteGateLUFS = -70.0
	relativeGateLU   = -10.0
)

// FloorLUFS is reported for silence and for input with no block above the
// absolute gate.
const FloorLUFS = -120.0

// Result holds the loudness figures of one signal.
type Result struct {
	IntegratedLUFS   float64 `json:"integrated_lufs"`
	MaxMomentaryLUFS float64 `json:"max_momentary_lufs"`
	Blocks           int     `json:"blocks"`
	GatedBlocks      int     `json:"gated_blocks"`
}

// KWeighting returns the two-stage K-weighting filter for sampleRate.
func KWeighting(sampleRate int) (*biquad.Chain, error) {
	shelfWn, err := design.NormalizeFrequency(shelfFreqHz, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("loudness: %w", err)
	}
	hpfWn, err := design.NormalizeFrequency(hpfFreqHz, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("loudness: %w", err)
	}
	return biquad.NewChain([]biquad.Coefficients{
		design.HighShelf(shelfWn, shelfGainDB, 1/math.Sqrt2),
		design.ButterworthHighpass2(hpfWn),
	}), nil
}

// Measure K-weights samples and computes gated integrated loudness over
// 400 ms blocks. Input shorter than one block is measured as a single block.
func Measure(samples []float64, sampleRate int) (Result, error) {
	kw, err := KWeighting(sampleRate)
	if err != nil {
		return Result{}, err
	}
	if len(samples) == 0 {
		return Result{IntegratedLUFS: FloorLUFS, MaxMomentaryLUFS: FloorLUFS}, nil
	}

	squared := make([]float64, len(samples))
	for i, v := range samples {
		y := kw.ProcessSample(v)
		squared[i] = y * y
	}
	blocks := blockPowers(squared, sampleRate)

	res := Result{Blocks: len(blocks), IntegratedLUFS: FloorLUFS, MaxMomentaryLUFS: FloorLUFS}
	var absSum float64
	var absCount int
	for _, p := range blocks {
		l := toLUFS(p)
		res.MaxMomentaryLUFS = math.Max(res.MaxMomentaryLUFS, l)
		if l > absoluteGateLUFS {
			absSum += p
			absCount++
		}
	}
	if absCount == 0 {
		return res, nil
	}

	gate := toLUFS(absSum/float64(absCount)) + relativeGateLU
	var relSum float64
	for _, p := range blocks {
		if l := toLUFS(p); l > absoluteGateLUFS && l > gate {
			relSum += p
			res.GatedBlocks++
		}
	}
	if res.GatedBlocks > 0 {
		res.IntegratedLUFS = toLUFS(relSum / float64(res.GatedBlocks))
	}
	return res, nil
}

// blockPowers returns the mean square of each gating block of squared.
func blockPowers(squared []float64, sampleRate int) []float64 {
	blockLen := int(math.Round(blockSeconds * float64(sampleRate)))
	step := max(int(math.Round(stepSeconds*float64(sampleRate))), 1)
	if blockLen <= 0 || len(squared) < blockLen {
		return []float64{mean(squared)}
	}

	blocks := make([]float64, 0, (len(squared)-blockLen)/step+1)
	for start := 0; start+blockLen <= len(squared); start += step {
		blocks = append(blocks, mean(squared[start:start+blockLen]))
	}
	return blocks
}

func mean(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range buf {
		sum += v
	}
	return sum / float64(len(buf))
}

func toLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 || !core.IsFinite(meanSquare) {
		return FloorLUFS
	}
	return math.Max(-0.691+10*math.Log10(meanSquare), FloorLUFS)
}
