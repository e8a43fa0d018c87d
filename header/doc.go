// Package header holds the per-recording metadata record and a read-only
// aggregation view over the headers of several recordings.
//
// A Header is immutable after construction with one documented exception:
// downsampling the owning dataset scales SamplingRateHz in place. All other
// fields keep their acquisition-time values; in particular, fields that
// describe absolute sample counts are never rewritten by later
// transformations.
package header
