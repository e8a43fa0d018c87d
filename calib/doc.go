// Package calib defines the measured-calibration boundary of the pipeline:
// the Model interface a calibration implementation must satisfy, a Ferraris
// model loaded from the JSON files written by the calibration tooling, and
// a filename-based resolver that finds the calibration chronologically
// closest to a recording.
//
// Calibration files are named "<sensor-id>_<timestamp>.json" with the
// timestamp formatted as 2006-01-02_15-04-05; the resolver matches on the
// lowercased sensor id and parses the timestamp from the name only, so a
// stray file that follows the convention can produce a false positive.
package calib
