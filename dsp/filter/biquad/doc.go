// Package biquad provides the second-order IIR runtime used by the filter bank.
//
// A [Section] implements Direct Form II Transposed processing for one
// second-order section defined by [Coefficients]. Sections can be cascaded
// via [Chain]. Coefficient design lives in dsp/filter/design.
package biquad
