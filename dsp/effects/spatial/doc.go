// Package spatial provides the echo reverb and delay-line chorus effects.
//
// Both effects read only fixed historical input positions, with no feedback
// path, so the output can be computed in independent chunks. Work is split
// across goroutines when the buffer is long enough; every output sample is
// accumulated in the same order as the serial path, so results do not depend
// on the worker count. Both effects finish with a guarded peak normalization.
package spatial
