package effectchain

import (
	"fmt"

	"github.com/cwbudde/regionfx/dsp/core"
)

var compressorKeys = []string{KeyThresholdDB, KeyRatio, KeyAttackMs, KeyReleaseMs, KeyMakeupDB}

// DefaultRegistry returns a Registry holding the six built-in effects with
// their default parameters.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(KindLowShelf, []string{KeyGainDB, KeyCutoffHz}, func(p Params) (Descriptor, error) {
		d := DefaultLowShelf
		d.GainDB = p.GetNum(KeyGainDB, d.GainDB)
		d.CutoffHz = p.GetNum(KeyCutoffHz, d.CutoffHz)
		return d, nil
	})

	r.MustRegister(KindMidPeak, []string{KeyGainDB, KeyCenterHz, KeyBandwidthHz}, func(p Params) (Descriptor, error) {
		d := DefaultMidPeak
		d.GainDB = p.GetNum(KeyGainDB, d.GainDB)
		d.CenterHz = p.GetNum(KeyCenterHz, d.CenterHz)
		d.BandwidthHz = p.GetNum(KeyBandwidthHz, d.BandwidthHz)
		return d, nil
	})

	highKeys := append([]string{KeyGainDB, KeyCutoffHz, KeyCompress}, compressorKeys...)
	r.MustRegister(KindHighShelf, highKeys, func(p Params) (Descriptor, error) {
		d := DefaultHighShelf
		d.GainDB = p.GetNum(KeyGainDB, d.GainDB)
		d.CutoffHz = p.GetNum(KeyCutoffHz, d.CutoffHz)
		if p.GetNum(KeyCompress, 0) > 0 {
			c := compressorFrom(p)
			d.Compressor = &c
			return d, nil
		}
		for _, k := range compressorKeys {
			if p.Has(k) {
				return nil, fmt.Errorf("effectchain: %s parameter %q needs %s > 0: %w", KindHighShelf, k, KeyCompress, core.ErrInvalidParameter)
			}
		}
		return d, nil
	})

	r.MustRegister(KindCompressor, compressorKeys, func(p Params) (Descriptor, error) {
		return compressorFrom(p), nil
	})

	r.MustRegister(KindReverb, []string{KeyDelayMs, KeyDecay, KeyEchoes}, func(p Params) (Descriptor, error) {
		d := DefaultReverb()
		d.DelayMs = p.GetNum(KeyDelayMs, d.DelayMs)
		d.Decay = p.GetNum(KeyDecay, d.Decay)
		echoes, err := p.GetInt(KeyEchoes, d.Echoes)
		if err != nil {
			return nil, err
		}
		d.Echoes = echoes
		return d, nil
	})

	r.MustRegister(KindChorus, []string{KeyDepthMs, KeyRateHz, KeyMix}, func(p Params) (Descriptor, error) {
		d := DefaultChorus()
		d.DepthMs = p.GetNum(KeyDepthMs, d.DepthMs)
		d.RateHz = p.GetNum(KeyRateHz, d.RateHz)
		d.Mix = p.GetNum(KeyMix, d.Mix)
		return d, nil
	})

	return r
}

func compressorFrom(p Params) Compressor {
	c := DefaultCompressor()
	c.ThresholdDB = p.GetNum(KeyThresholdDB, c.ThresholdDB)
	c.Ratio = p.GetNum(KeyRatio, c.Ratio)
	c.AttackMs = p.GetNum(KeyAttackMs, c.AttackMs)
	c.ReleaseMs = p.GetNum(KeyReleaseMs, c.ReleaseMs)
	c.MakeupDB = p.GetNum(KeyMakeupDB, c.MakeupDB)
	return c
}
