package dataset

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hearlab/imusession/calib"
	"github.com/hearlab/imusession/config"
	"github.com/hearlab/imusession/datastream"
	"github.com/hearlab/imusession/dsp/resample"
	"github.com/hearlab/imusession/header"
)

var (
	// ErrNoHeader indicates construction without a header.
	ErrNoHeader = errors.New("dataset: header is required")
	// ErrCounterMismatch indicates a stream whose row count differs from
	// the counter length.
	ErrCounterMismatch = errors.New("dataset: stream length does not match counter")
	// ErrSensorData indicates sensor data missing for an enabled sensor.
	ErrSensorData = errors.New("dataset: missing data for enabled sensor")
	// ErrInvalidFactor indicates a downsampling factor < 1 or larger than
	// the dataset.
	ErrInvalidFactor = errors.New("dataset: invalid downsample factor")
)

// MissingSensorError reports an operation that referenced a sensor the
// dataset does not carry. It is a diagnostic: most operations degrade
// gracefully and only surface it when they cannot proceed at all.
type MissingSensorError struct {
	Sensor    string
	Operation string
}

func (e *MissingSensorError) Error() string {
	return fmt.Sprintf("dataset: sensor %q not present, %s not applicable", e.Sensor, e.Operation)
}

// Dataset is one recorded session of a single device.
type Dataset struct {
	// Info is the metadata of the recording. It is owned by the dataset;
	// Downsample scales Info.SamplingRateHz in place.
	Info *header.Header

	// Path points at the recording's origin, when known.
	Path string

	counter []float64
	streams map[string]*datastream.Datastream
	order   []string

	cfg config.Config
}

type options struct {
	cfg  config.Config
	path string
}

// Option configures dataset construction.
type Option func(*options)

// WithConfig overrides the default constants table.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithPath records the origin of the recording.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// New builds a Dataset from the triple a recording parser produced.
//
// Every sensor enabled in the header must appear in sensorData with the
// same row count as the counter; extra keys are ignored with a warning.
// Factory calibration is applied to acc (scale to m/s^2 by the configured
// gravitational constant) and gyro (datasheet unit tag) before the dataset
// is returned. New never touches the filesystem.
func New(sensorData map[string][][]float64, counter []float64, info *header.Header, opts ...Option) (*Dataset, error) {
	if info == nil {
		return nil, ErrNoHeader
	}

	o := options{cfg: config.Default()}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	d := &Dataset{
		Info:    info,
		Path:    o.path,
		counter: counter,
		streams: make(map[string]*datastream.Datastream, len(info.EnabledSensors)),
		order:   append([]string(nil), info.EnabledSensors...),
		cfg:     o.cfg,
	}

	for _, name := range info.EnabledSensors {
		cols, ok := sensorData[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrSensorData, name)
		}

		ds, err := datastream.New(cols, o.cfg.Axes(name), info.SamplingRateHz, name, o.cfg.RawUnit)
		if err != nil {
			return nil, fmt.Errorf("dataset: sensor %q: %w", name, err)
		}

		if ds.Len() != len(counter) {
			return nil, fmt.Errorf("%w: %q has %d rows, counter has %d", ErrCounterMismatch, name, ds.Len(), len(counter))
		}

		d.streams[name] = ds
	}

	for name := range sensorData {
		if _, ok := d.streams[name]; !ok {
			logrus.Warnf("dataset: ignoring data for sensor %q not enabled in header", name)
		}
	}

	if err := d.factoryCalibrate(); err != nil {
		return nil, err
	}

	return d, nil
}

// factoryCalibrate applies the datasheet conversions to acc and gyro. Runs
// once, from the constructor.
func (d *Dataset) factoryCalibrate() error {
	if acc := d.streams["acc"]; acc != nil {
		if err := acc.ApplyFactory(d.cfg.GravityMS2, d.cfg.AccFactoryUnit); err != nil {
			return fmt.Errorf("dataset: factory calibration: %w", err)
		}
	}

	if gyro := d.streams["gyro"]; gyro != nil {
		// The datasheet conversion for the gyro is already baked into the
		// recorded values; only the unit tag and the state flag change.
		if err := gyro.ApplyFactory(1, d.cfg.GyroFactoryUnit); err != nil {
			return fmt.Errorf("dataset: factory calibration: %w", err)
		}
	}

	return nil
}

// Size returns the number of samples.
func (d *Dataset) Size() int {
	return len(d.counter)
}

// Counter returns the sample counter. The slice shares backing storage
// with the dataset.
func (d *Dataset) Counter() []float64 {
	return d.counter
}

// ActiveSensors returns the enabled sensor names in stream order.
func (d *Dataset) ActiveSensors() []string {
	return append([]string(nil), d.order...)
}

// Stream returns the datastream for a sensor name, or nil if the sensor is
// not part of the dataset.
func (d *Dataset) Stream(name string) *datastream.Datastream {
	return d.streams[name]
}

// Acc returns the accelerometer stream, or nil.
func (d *Dataset) Acc() *datastream.Datastream {
	return d.streams["acc"]
}

// Gyro returns the gyroscope stream, or nil.
func (d *Dataset) Gyro() *datastream.Datastream {
	return d.streams["gyro"]
}

// TimeCounter returns the counter in seconds since the first sample.
func (d *Dataset) TimeCounter() []float64 {
	out := make([]float64, len(d.counter))
	for i, c := range d.counter {
		out[i] = (c - d.counter[0]) / d.Info.SamplingRateHz
	}

	return out
}

// UTCCounter returns the counter as epoch seconds.
func (d *Dataset) UTCCounter() []float64 {
	out := d.TimeCounter()
	for i := range out {
		out[i] += float64(d.Info.UTCStart)
	}

	return out
}

// UTCDatetimeCounter returns the counter as UTC datetimes.
func (d *Dataset) UTCDatetimeCounter() []time.Time {
	utc := d.UTCCounter()

	out := make([]time.Time, len(utc))
	for i, s := range utc {
		sec := int64(s)
		nsec := int64((s - float64(sec)) * float64(time.Second))
		out[i] = time.Unix(sec, nsec).UTC()
	}

	return out
}

// LocalDatetimeCounter returns the counter as datetimes in the configured
// timezone.
func (d *Dataset) LocalDatetimeCounter() ([]time.Time, error) {
	loc, err := d.cfg.Location()
	if err != nil {
		return nil, err
	}

	out := d.UTCDatetimeCounter()
	for i := range out {
		out[i] = out[i].In(loc)
	}

	return out, nil
}

// CalibrateIMU applies a measured calibration to the acc/gyro pair.
//
// Both streams must exist and be uncalibrated (measured); a stream that is
// already measured-calibrated fails the whole call with
// RepeatedCalibrationError before anything is mutated. If one of the two
// streams is missing the calibration is skipped with a warning; if both
// are missing the call fails with MissingSensorError.
func (d *Dataset) CalibrateIMU(model calib.Model, inplace bool) (*Dataset, error) {
	s := d.cloneOrSelf(inplace)

	acc, gyro := s.streams["acc"], s.streams["gyro"]

	if acc == nil && gyro == nil {
		return nil, &MissingSensorError{Sensor: "acc/gyro", Operation: "calibration"}
	}

	for name, ds := range map[string]*datastream.Datastream{"acc": acc, "gyro": gyro} {
		if ds == nil {
			logrus.Warnf("dataset: sensor %q not present, calibration skipped", name)
			continue
		}

		if ds.IsCalibrated() {
			return nil, &datastream.RepeatedCalibrationError{Sensor: name, Kind: datastream.Measured}
		}
	}

	if acc == nil || gyro == nil {
		return s, nil
	}

	accOut, gyroOut, accUnit, gyroUnit, err := model.Calibrate(acc.Data(), gyro.Data(), acc.Unit(), gyro.Unit())
	if err != nil {
		return nil, fmt.Errorf("dataset: calibration model: %w", err)
	}

	// Validate both replacements before installing either, so a failing
	// call never leaves one stream calibrated and the other raw.
	if err := checkShape(accOut, acc.Channels(), acc.Len()); err != nil {
		return nil, fmt.Errorf("dataset: calibration model acc output: %w", err)
	}

	if err := checkShape(gyroOut, gyro.Channels(), gyro.Len()); err != nil {
		return nil, fmt.Errorf("dataset: calibration model gyro output: %w", err)
	}

	if err := acc.ApplyMeasured(accOut, accUnit); err != nil {
		return nil, err
	}

	if err := gyro.ApplyMeasured(gyroOut, gyroUnit); err != nil {
		return nil, err
	}

	return s, nil
}

// Downsample decimates every active stream and the counter by an integer
// factor and divides the header sampling rate accordingly.
//
// Header fields that describe acquisition-time sample counts are NOT
// rewritten; consumers that re-cut to a sync region after downsampling
// would read stale values. Downsample therefore belongs at the end of a
// pipeline (align, calibrate, then resample).
func (d *Dataset) Downsample(factor int, inplace bool) (*Dataset, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: must be >= 1, got %d", ErrInvalidFactor, factor)
	}

	// Validated before any stream is touched so a failing call never
	// leaves emptied streams behind a full-length counter.
	if factor > d.Size() {
		return nil, fmt.Errorf("%w: factor %d leaves no samples of %d", ErrInvalidFactor, factor, d.Size())
	}

	s := d.cloneOrSelf(inplace)

	for _, name := range s.order {
		if err := s.streams[name].Downsample(factor); err != nil {
			return nil, fmt.Errorf("dataset: downsample %q: %w", name, err)
		}
	}

	counter, err := resample.ToLength(s.counter, len(s.counter)/factor)
	if err != nil {
		return nil, fmt.Errorf("dataset: downsample counter: %w", err)
	}

	s.counter = counter
	s.Info.SamplingRateHz /= float64(factor)

	return s, nil
}

// ResampleToLength warps every active stream and the counter onto n
// samples. The sampling rate is untouched; this is the length-alignment
// primitive used by session synchronization.
func (d *Dataset) ResampleToLength(n int, inplace bool) (*Dataset, error) {
	s := d.cloneOrSelf(inplace)

	for _, name := range s.order {
		if err := s.streams[name].ResampleToLength(n); err != nil {
			return nil, fmt.Errorf("dataset: resample %q: %w", name, err)
		}
	}

	counter, err := resample.ToLength(s.counter, n)
	if err != nil {
		return nil, fmt.Errorf("dataset: resample counter: %w", err)
	}

	s.counter = counter

	return s, nil
}

// FindClosestCalibration looks up the calibration file for this dataset's
// sensor that is chronologically closest to the recording start.
func (d *Dataset) FindClosestCalibration(folder string, opts ...calib.FindOption) (string, error) {
	merged := append([]calib.FindOption{calib.WithWarnThreshold(d.cfg.CalibrationMaxAge)}, opts...)

	return calib.FindClosest(folder, strings.ToLower(d.Info.SensorID), d.Info.UTCDatetimeStart(), merged...)
}

// Clone returns a deep copy: header, counter and every stream buffer are
// independent of the original.
func (d *Dataset) Clone() *Dataset {
	streams := make(map[string]*datastream.Datastream, len(d.streams))
	for name, ds := range d.streams {
		streams[name] = ds.Clone()
	}

	return &Dataset{
		Info:    d.Info.Clone(),
		Path:    d.Path,
		counter: append([]float64(nil), d.counter...),
		streams: streams,
		order:   append([]string(nil), d.order...),
		cfg:     d.cfg,
	}
}

func checkShape(cols [][]float64, channels, rows int) error {
	if len(cols) != channels {
		return fmt.Errorf("got %d columns, want %d", len(cols), channels)
	}

	for _, col := range cols {
		if len(col) != rows {
			return fmt.Errorf("got %d rows, want %d", len(col), rows)
		}
	}

	return nil
}

func (d *Dataset) cloneOrSelf(inplace bool) *Dataset {
	if inplace {
		return d
	}

	return d.Clone()
}
