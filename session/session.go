package session

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hearlab/imusession/calib"
	"github.com/hearlab/imusession/config"
	"github.com/hearlab/imusession/dataset"
	"github.com/hearlab/imusession/datastream"
	"github.com/hearlab/imusession/header"
)

var (
	// ErrNoDatasets indicates construction without recordings.
	ErrNoDatasets = errors.New("session: at least one dataset is required")
	// ErrAlreadySynced indicates a second synchronization attempt.
	ErrAlreadySynced = errors.New("session: datasets are already synchronized")
	// ErrNoReference indicates that no dataset carries the reference
	// position required for synchronization.
	ErrNoReference = errors.New("session: no dataset at the reference position")
	// ErrUnknownSensor indicates a sensor ID lookup that matched nothing.
	ErrUnknownSensor = errors.New("session: unknown sensor id")
	// ErrUnknownPosition indicates a position lookup that matched nothing.
	ErrUnknownPosition = errors.New("session: unknown sensor position")
	// ErrUpsample indicates a target rate above the current rate.
	ErrUpsample = errors.New("session: upsampling is not supported")
	// ErrNonIntegerFactor indicates a target rate that does not divide the
	// current rate.
	ErrNonIntegerFactor = errors.New("session: sampling rate must be an integer multiple of the target rate")
	// ErrModelCount indicates a calibration model list whose length does
	// not match the dataset count.
	ErrModelCount = errors.New("session: one calibration model per dataset required")
)

// Session is the set of simultaneous recordings of one measurement.
type Session struct {
	datasets []*dataset.Dataset
	synced   bool

	cfg config.Config
}

// Option configures session construction.
type Option func(*Session)

// WithConfig overrides the default constants table.
func WithConfig(cfg config.Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// New groups datasets into a session. The datasets are referenced, not
// copied; callers that need isolation should Clone first.
func New(datasets []*dataset.Dataset, opts ...Option) (*Session, error) {
	if len(datasets) == 0 {
		return nil, ErrNoDatasets
	}

	s := &Session{
		datasets: append([]*dataset.Dataset(nil), datasets...),
		cfg:      config.Default(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// Len returns the number of datasets.
func (s *Session) Len() int {
	return len(s.datasets)
}

// Datasets returns the datasets in session order.
func (s *Session) Datasets() []*dataset.Dataset {
	return append([]*dataset.Dataset(nil), s.datasets...)
}

// Synced reports whether AlignToSyncRegion has run on this session.
func (s *Session) Synced() bool {
	return s.synced
}

// Info returns a read-only proxy over the headers of all datasets,
// exposing each field as a tuple.
func (s *Session) Info() *header.Proxy {
	headers := make([]*header.Header, len(s.datasets))
	for i, d := range s.datasets {
		headers[i] = d.Info
	}

	return header.NewProxy(headers)
}

// DatasetByID returns the dataset recorded by the given sensor. The match
// is case-insensitive.
func (s *Session) DatasetByID(id string) (*dataset.Dataset, error) {
	for _, d := range s.datasets {
		if strings.EqualFold(d.Info.SensorID, id) {
			return d, nil
		}
	}

	return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownSensor, id, s.Info().SensorIDs())
}

// DatasetByPosition returns the dataset recorded at the given body
// position.
func (s *Session) DatasetByPosition(position string) (*dataset.Dataset, error) {
	for _, d := range s.datasets {
		if d.Info.SensorPosition == position {
			return d, nil
		}
	}

	return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownPosition, position, s.Info().SensorPositions())
}

// CalibrateIMU applies one measured calibration model per dataset, in
// session order. Every dataset's acc/gyro pair is checked for an earlier
// measured calibration before any model is applied, so a failing call
// never leaves part of the session calibrated.
func (s *Session) CalibrateIMU(models []calib.Model, inplace bool) (*Session, error) {
	if len(models) != len(s.datasets) {
		return nil, fmt.Errorf("%w: got %d models for %d datasets", ErrModelCount, len(models), len(s.datasets))
	}

	for i, d := range s.datasets {
		for _, name := range []string{"acc", "gyro"} {
			ds := d.Stream(name)
			if ds != nil && ds.IsCalibrated() {
				return nil, fmt.Errorf("session: dataset %d: %w", i,
					&datastream.RepeatedCalibrationError{Sensor: name, Kind: datastream.Measured})
			}
		}
	}

	out := s.cloneOrSelf(inplace)

	for i, d := range out.datasets {
		calibrated, err := d.CalibrateIMU(models[i], true)
		if err != nil {
			return nil, fmt.Errorf("session: dataset %d: %w", i, err)
		}

		out.datasets[i] = calibrated
	}

	return out, nil
}

// AlignToSyncRegion warps every dataset onto the length of the reference
// dataset, identified by the configured reference position. Sampling
// rates are untouched. The operation is one-shot: a second call fails
// with ErrAlreadySynced.
func (s *Session) AlignToSyncRegion(inplace bool) (*Session, error) {
	if s.synced {
		return nil, ErrAlreadySynced
	}

	ref, err := s.DatasetByPosition(s.cfg.ReferencePosition)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNoReference, s.cfg.ReferencePosition)
	}

	target := ref.Size()

	out := s.cloneOrSelf(inplace)

	for i, d := range out.datasets {
		if d.Size() == target {
			continue
		}

		aligned, err := d.ResampleToLength(target, true)
		if err != nil {
			return nil, fmt.Errorf("session: align dataset %d: %w", i, err)
		}

		out.datasets[i] = aligned
	}

	out.synced = true

	return out, nil
}

// Resample reduces every dataset to the target rate. Each dataset's
// current rate must be an integer multiple of the target; upsampling is
// rejected.
func (s *Session) Resample(targetRateHz float64, inplace bool) (*Session, error) {
	factors := make([]int, len(s.datasets))

	for i, d := range s.datasets {
		rate := d.Info.SamplingRateHz

		if targetRateHz > rate {
			return nil, fmt.Errorf("%w: dataset %d runs at %g Hz, target %g Hz", ErrUpsample, i, rate, targetRateHz)
		}

		if math.Mod(rate, targetRateHz) != 0 {
			return nil, fmt.Errorf("%w: %g Hz / %g Hz", ErrNonIntegerFactor, rate, targetRateHz)
		}

		factors[i] = int(rate / targetRateHz)
	}

	out := s.cloneOrSelf(inplace)

	for i, d := range out.datasets {
		resampled, err := d.Downsample(factors[i], true)
		if err != nil {
			return nil, fmt.Errorf("session: resample dataset %d: %w", i, err)
		}

		out.datasets[i] = resampled
	}

	return out, nil
}

// DataAsTables exports the joined sensor table of every dataset, in
// session order. Arguments are passed through to Dataset.DataAsTable.
func (s *Session) DataAsTables(sensors []string, index dataset.IndexMode, includeUnits bool) ([]*dataset.Table, error) {
	out := make([]*dataset.Table, len(s.datasets))

	for i, d := range s.datasets {
		tbl, err := d.DataAsTable(sensors, index, includeUnits)
		if err != nil {
			return nil, fmt.Errorf("session: dataset %d: %w", i, err)
		}

		out[i] = tbl
	}

	return out, nil
}

// Clone returns a deep copy of the session and all its datasets.
func (s *Session) Clone() *Session {
	datasets := make([]*dataset.Dataset, len(s.datasets))
	for i, d := range s.datasets {
		datasets[i] = d.Clone()
	}

	return &Session{
		datasets: datasets,
		synced:   s.synced,
		cfg:      s.cfg,
	}
}

func (s *Session) cloneOrSelf(inplace bool) *Session {
	if inplace {
		return s
	}

	return s.Clone()
}
