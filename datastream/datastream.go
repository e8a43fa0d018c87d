package datastream

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/hearlab/imusession/dsp/resample"
)

// CalibrationKind distinguishes the two calibrations a stream can receive.
type CalibrationKind int

const (
	// Factory is the fixed datasheet-derived conversion applied at load
	// time.
	Factory CalibrationKind = iota
	// Measured is the scale/offset correction derived from a dedicated
	// calibration recording.
	Measured
)

func (k CalibrationKind) String() string {
	switch k {
	case Factory:
		return "factory"
	case Measured:
		return "measured"
	default:
		return fmt.Sprintf("CalibrationKind(%d)", int(k))
	}
}

// State is the calibration state for one kind.
type State int

const (
	// Uncalibrated is the initial state of every kind.
	Uncalibrated State = iota
	// Calibrated is terminal; there is no transition out of it.
	Calibrated
)

// RepeatedCalibrationError reports an attempt to apply a calibration kind
// that has already been applied to the stream.
type RepeatedCalibrationError struct {
	Sensor string
	Kind   CalibrationKind
}

func (e *RepeatedCalibrationError) Error() string {
	return fmt.Sprintf("datastream: %s is already %s-calibrated", e.Sensor, e.Kind)
}

var (
	// ErrNoData indicates a stream constructed without samples.
	ErrNoData = errors.New("datastream: no data")
	// ErrRaggedData indicates axis series of unequal length.
	ErrRaggedData = errors.New("datastream: axis series differ in length")
	// ErrAxisMismatch indicates an axis-label count that does not match the
	// data, or replacement data with the wrong shape.
	ErrAxisMismatch = errors.New("datastream: axis count mismatch")
)

// Datastream is one sensor channel's time series plus calibration metadata.
// Data is stored column-major: one []float64 per axis, all equal length.
type Datastream struct {
	cols [][]float64
	axes []string

	sensorType     string
	samplingRateHz float64

	unit           string
	calibratedUnit string

	states [2]State
}

// New creates a stream from column-major data. Every column must have the
// same length and there must be one axis label per column.
func New(cols [][]float64, axes []string, samplingRateHz float64, sensorType, unit string) (*Datastream, error) {
	if len(cols) == 0 || len(cols[0]) == 0 {
		return nil, ErrNoData
	}

	for _, col := range cols[1:] {
		if len(col) != len(cols[0]) {
			return nil, ErrRaggedData
		}
	}

	if len(axes) != len(cols) {
		return nil, fmt.Errorf("%w: %d labels for %d columns", ErrAxisMismatch, len(axes), len(cols))
	}

	return &Datastream{
		cols:           cols,
		axes:           append([]string(nil), axes...),
		sensorType:     sensorType,
		samplingRateHz: samplingRateHz,
		unit:           unit,
	}, nil
}

// Len returns the number of samples (rows).
func (d *Datastream) Len() int {
	return len(d.cols[0])
}

// Channels returns the number of axes.
func (d *Datastream) Channels() int {
	return len(d.cols)
}

// Axes returns the axis labels.
func (d *Datastream) Axes() []string {
	return append([]string(nil), d.axes...)
}

// Col returns the series of one axis. The slice shares backing storage
// with the stream; callers that need an independent copy should Clone the
// stream first.
func (d *Datastream) Col(axis int) []float64 {
	return d.cols[axis]
}

// Data returns all axis series, column-major. Like Col, the slices share
// backing storage with the stream.
func (d *Datastream) Data() [][]float64 {
	return d.cols
}

// SensorType returns the channel tag ("acc", "gyro", ...).
func (d *Datastream) SensorType() string {
	return d.sensorType
}

// SamplingRateHz returns the current sampling rate of the stream.
func (d *Datastream) SamplingRateHz() float64 {
	return d.samplingRateHz
}

// Unit returns the current unit of the samples.
func (d *Datastream) Unit() string {
	return d.unit
}

// CalibratedUnit returns the unit recorded by measured calibration, or ""
// if none was applied.
func (d *Datastream) CalibratedUnit() string {
	return d.calibratedUnit
}

// CalibrationState returns the state of one calibration kind.
func (d *Datastream) CalibrationState(kind CalibrationKind) State {
	return d.states[kind]
}

// IsFactoryCalibrated reports whether factory calibration was applied.
func (d *Datastream) IsFactoryCalibrated() bool {
	return d.states[Factory] == Calibrated
}

// IsCalibrated reports whether measured calibration was applied.
func (d *Datastream) IsCalibrated() bool {
	return d.states[Measured] == Calibrated
}

// transition is the only writer of calibration state. It rejects leaving
// the Calibrated state, which makes both flags monotone.
func (d *Datastream) transition(kind CalibrationKind) error {
	if d.states[kind] == Calibrated {
		return &RepeatedCalibrationError{Sensor: d.sensorType, Kind: kind}
	}

	d.states[kind] = Calibrated

	return nil
}

// ApplyFactory applies the datasheet conversion: every sample is scaled by
// scale and the unit is set. A second call fails with
// RepeatedCalibrationError and leaves the stream untouched.
func (d *Datastream) ApplyFactory(scale float64, unit string) error {
	if err := d.transition(Factory); err != nil {
		return err
	}

	if scale != 1 {
		for _, col := range d.cols {
			vecmath.ScaleBlockInPlace(col, scale)
		}
	}

	d.unit = unit

	return nil
}

// ApplyMeasured installs the corrected samples produced by a calibration
// model and records the resulting unit. The replacement data must match the
// stream's shape. A second call fails with RepeatedCalibrationError; a
// shape mismatch fails before any state is touched.
func (d *Datastream) ApplyMeasured(cols [][]float64, unit string) error {
	if len(cols) != len(d.cols) {
		return fmt.Errorf("%w: got %d columns, want %d", ErrAxisMismatch, len(cols), len(d.cols))
	}

	for _, col := range cols {
		if len(col) != d.Len() {
			return fmt.Errorf("%w: got %d rows, want %d", ErrAxisMismatch, len(col), d.Len())
		}
	}

	if err := d.transition(Measured); err != nil {
		return err
	}

	d.cols = cols
	d.unit = unit
	d.calibratedUnit = unit

	return nil
}

// Downsample decimates every axis by an integer factor and divides the
// stream's sampling rate accordingly. The new length is Len()/factor.
func (d *Datastream) Downsample(factor int) error {
	cols := make([][]float64, len(d.cols))

	for i, col := range d.cols {
		out, err := resample.Decimate(col, factor)
		if err != nil {
			return err
		}

		cols[i] = out
	}

	d.cols = cols
	d.samplingRateHz /= float64(factor)

	return nil
}

// ResampleToLength interpolates every axis onto n samples. The sampling
// rate is left unchanged: this is a length warp used for cross-sensor
// alignment, not a rate conversion.
func (d *Datastream) ResampleToLength(n int) error {
	cols := make([][]float64, len(d.cols))

	for i, col := range d.cols {
		out, err := resample.ToLength(col, n)
		if err != nil {
			return err
		}

		cols[i] = out
	}

	d.cols = cols

	return nil
}

// ColumnNames returns one name per axis, "<sensor>_<axis>", optionally
// suffixed with the current unit.
func (d *Datastream) ColumnNames(includeUnits bool) []string {
	out := make([]string, len(d.axes))

	for i, axis := range d.axes {
		name := d.sensorType + "_" + axis
		if includeUnits {
			name += "_" + d.unit
		}

		out[i] = name
	}

	return out
}

// Clone returns a deep copy sharing no backing storage with the original.
func (d *Datastream) Clone() *Datastream {
	cols := make([][]float64, len(d.cols))
	for i, col := range d.cols {
		cols[i] = append([]float64(nil), col...)
	}

	out := *d
	out.cols = cols
	out.axes = append([]string(nil), d.axes...)

	return &out
}
