// Package bank implements the region boost filters: low shelf, high shelf
// and mid peak.
//
// Each boost filters the input through a single second-order section and adds
// the filtered signal, scaled by the linear gain, back onto the dry signal:
//
//	y[n] = x[n] + g * h(x)[n],  g = 10^(gainDB/20)
//
// This parallel blend is intentionally not an analytic shelving transfer
// function: its magnitude and phase differ from a canonical shelf, and the
// in-band level is raised by 20*log10(1+g) dB rather than gainDB.
package bank
