// Package dataset aggregates one recording: a header, a monotonic sample
// counter and the named datastreams of the enabled sensors.
//
// A dataset is constructed from the arrays a recording parser produced;
// factory calibration of acc and gyro happens exactly once, synchronously,
// inside the constructor. Every transformation takes an explicit inplace
// flag: with inplace=false the operation works on a deep clone and the
// original keeps its buffers byte for byte.
//
// The invariant len(counter) == Size() == row count of every active stream
// holds after construction and after every transformation.
package dataset
