// Package resample provides the sample-axis primitives used by the
// recording pipeline: anti-aliased integer decimation and interpolation of
// a series to an arbitrary target length.
//
// Decimate low-passes with a Kaiser-windowed sinc FIR before selecting
// every factor-th sample, so downsampled streams stay alias-free. ToLength
// maps output positions onto the input grid and interpolates with a 4-point
// Hermite kernel; it reproduces linear sequences (such as sample counters)
// exactly and is used to warp unequal-length streams onto a shared
// reference length.
package resample
