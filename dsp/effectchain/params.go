package effectchain

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/regionfx/dsp/core"
)

// Parameter keys accepted by the default registry.
const (
	KeyGainDB      = "gain_db"
	KeyCutoffHz    = "cutoff_hz"
	KeyCenterHz    = "center_hz"
	KeyBandwidthHz = "bandwidth_hz"
	KeyCompress    = "compress"
	KeyThresholdDB = "threshold_db"
	KeyRatio       = "ratio"
	KeyAttackMs    = "attack_ms"
	KeyReleaseMs   = "release_ms"
	KeyMakeupDB    = "makeup_db"
	KeyDelayMs     = "delay_ms"
	KeyDecay       = "decay"
	KeyEchoes      = "echoes"
	KeyDepthMs     = "depth_ms"
	KeyRateHz      = "rate_hz"
	KeyMix         = "mix"
)

// Params holds named numeric overrides for one effect.
type Params struct {
	Num map[string]float64
}

// GetNum returns the override for key, or def if it is absent.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}
	v, ok := p.Num[key]
	if !ok {
		return def
	}
	return v
}

// GetInt returns an integral override for key, or def if it is absent.
func (p Params) GetInt(key string, def int) (int, error) {
	v, ok := p.Num[key]
	if !ok {
		return def, nil
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("effectchain: parameter %s must be an integer: %v: %w", key, v, core.ErrInvalidParameter)
	}
	return int(v), nil
}

// Has reports whether key is set.
func (p Params) Has(key string) bool {
	_, ok := p.Num[key]
	return ok
}

// check rejects keys outside allowed and non-finite values.
func (p Params) check(kind Kind, allowed []string) error {
	keys := make([]string, 0, len(p.Num))
	for k := range p.Num {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !contains(allowed, k) {
			return fmt.Errorf("effectchain: %s does not accept parameter %q: %w", kind, k, core.ErrInvalidParameter)
		}
		if !core.IsFinite(p.Num[k]) {
			return fmt.Errorf("effectchain: parameter %s must be finite: %v: %w", k, p.Num[k], core.ErrInvalidParameter)
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
