// Package effectchain defines the region effect descriptors, the registry
// that builds them from named parameter overrides, and the runtime that
// applies a descriptor to a block of samples.
//
// A descriptor is an immutable value: one of [LowShelf], [MidPeak],
// [HighShelf], [Compressor], [Reverb] or [Chorus]. Each carries its own
// parameter set and reports its [Kind].
package effectchain
