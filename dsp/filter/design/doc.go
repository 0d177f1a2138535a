// Package design provides the IIR coefficient designers used by the filter bank.
//
// Frequencies are given normalized to Nyquist (0 < wn < 1), the convention
// of [NormalizeFrequency]. The designers return a single second-order
// section consumable by dsp/filter/biquad, or the zero [biquad.Coefficients]
// for input they cannot realize.
package design
