// Package datastream represents one sensor channel of a recording: a
// column-major sample matrix (one series per axis) plus the calibration
// state attached to it.
//
// Calibration state is tracked per kind (factory, measured) as an explicit
// two-state machine. The only transition is Uncalibrated -> Calibrated and
// it is guarded by a single function that rejects a second application, so
// a scale or offset can never be applied twice by accident.
package datastream
