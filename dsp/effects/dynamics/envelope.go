package dynamics

// envelope is the sequential state of the compressor gain smoother. Each
// step depends on the previous smoothed gain, so the fold cannot be
// reordered or split.
type envelope struct {
	gain    float64
	attack  float64
	release float64
}

func newEnvelope(attack, release float64) envelope {
	return envelope{gain: 1, attack: attack, release: release}
}

// step moves the gain toward target using the attack coefficient when the
// gain must fall and the release coefficient otherwise, and returns it.
func (e *envelope) step(target float64) float64 {
	alpha := e.release
	if target < e.gain {
		alpha = e.attack
	}
	e.gain = alpha*(e.gain-target) + target
	return e.gain
}
