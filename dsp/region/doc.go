// Package region applies one effect to a bounded sample range of a signal
// and reassembles the full-length track.
//
// Processing clamps the region, runs the effect on the sub-range, splices
// the result into a copy of the signal, peak-normalizes the whole copy and
// quantizes it to fixed point. Normalizing the whole track means samples
// outside the region are rescaled by the same factor whenever the edit
// changes the global peak; their relative shape is unchanged.
package region
