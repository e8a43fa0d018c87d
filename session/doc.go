// Package session groups the simultaneous recordings of multiple devices
// and coordinates the transformations that must run across all of them:
// synchronization onto a shared sample region, per-device measured
// calibration and rate reduction.
//
// The transformations compose in a fixed order. AlignToSyncRegion warps
// every recording onto the reference device's length and may run only
// once per session; Resample then reduces the common rate by an integer
// factor. AlignCalibResample runs the whole pipeline in one call.
package session
