package analysis

import "github.com/cwbudde/regionfx/dsp/effectchain"

// Band is the frequency range emphasized when displaying an effect.
type Band struct {
	Name  string  `json:"name"`
	MinHz float64 `json:"min_hz"`
	MaxHz float64 `json:"max_hz"`
}

var (
	BandBass  = Band{Name: "bass", MinHz: 20, MaxHz: 250}
	BandMids  = Band{Name: "mids", MinHz: 250, MaxHz: 4000}
	BandHighs = Band{Name: "highs", MinHz: 4000, MaxHz: 20000}
	BandFull  = Band{Name: "full", MinHz: 20, MaxHz: 20000}
)

// BandFor returns the display band of kind. Effects that are not frequency
// selective use the full audible range.
func BandFor(kind effectchain.Kind) Band {
	switch kind {
	case effectchain.KindLowShelf:
		return BandBass
	case effectchain.KindMidPeak:
		return BandMids
	case effectchain.KindHighShelf:
		return BandHighs
	default:
		return BandFull
	}
}
