// Package dynamics provides the region compressor.
//
// The compressor is a feed-forward peak design evaluated one sample at a
// time. Its smoothed gain is carried in an explicit envelope state that is
// created fresh for every Process call, so no level memory leaks between
// invocations.
package dynamics
