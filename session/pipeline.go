package session

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hearlab/imusession/calib"
)

// ErrNoCalibrationFolder indicates a pipeline run that needs measured
// calibration but was not told where to find the calibration files.
var ErrNoCalibrationFolder = errors.New("session: calibration folder is required unless calibration is skipped")

type pipelineConfig struct {
	calibrationFolder string
	skipCalibration   bool
	targetRateHz      float64
	findOpts          []calib.FindOption
}

// PipelineOption configures AlignCalibResample.
type PipelineOption func(*pipelineConfig)

// WithCalibrationFolder points the pipeline at the calibration file tree.
func WithCalibrationFolder(folder string, opts ...calib.FindOption) PipelineOption {
	return func(c *pipelineConfig) {
		c.calibrationFolder = folder
		c.findOpts = opts
	}
}

// SkipCalibration disables the measured-calibration stage.
func SkipCalibration() PipelineOption {
	return func(c *pipelineConfig) {
		c.skipCalibration = true
	}
}

// WithTargetRate enables the final rate reduction.
func WithTargetRate(rateHz float64) PipelineOption {
	return func(c *pipelineConfig) {
		c.targetRateHz = rateHz
	}
}

// AlignCalibResample runs the standard preprocessing pipeline:
// synchronization, measured calibration, rate reduction.
//
// Synchronization runs only for the two-device case; any other device
// count is left unaligned with a warning. Calibration resolves the
// chronologically closest calibration file per device unless skipped.
// The rate reduction runs only when a target rate was given.
func (s *Session) AlignCalibResample(inplace bool, opts ...PipelineOption) (*Session, error) {
	cfg := pipelineConfig{}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !cfg.skipCalibration && cfg.calibrationFolder == "" {
		return nil, ErrNoCalibrationFolder
	}

	out := s.cloneOrSelf(inplace)

	if out.Len() == 2 {
		if _, err := out.AlignToSyncRegion(true); err != nil {
			return nil, err
		}
	} else {
		logrus.Warnf("session: %d datasets, synchronization needs exactly 2, skipping", out.Len())
	}

	if !cfg.skipCalibration {
		models := make([]calib.Model, len(out.datasets))

		for i, d := range out.datasets {
			path, err := d.FindClosestCalibration(cfg.calibrationFolder, cfg.findOpts...)
			if err != nil {
				return nil, fmt.Errorf("session: dataset %d: %w", i, err)
			}

			if path == "" {
				logrus.Warnf("session: no calibration for dataset %d, left uncalibrated", i)
				continue
			}

			model, err := calib.Load(path)
			if err != nil {
				return nil, fmt.Errorf("session: dataset %d: %w", i, err)
			}

			models[i] = model
		}

		for i, model := range models {
			if model == nil {
				continue
			}

			if _, err := out.datasets[i].CalibrateIMU(model, true); err != nil {
				return nil, fmt.Errorf("session: dataset %d: %w", i, err)
			}
		}
	}

	if cfg.targetRateHz > 0 {
		if _, err := out.Resample(cfg.targetRateHz, true); err != nil {
			return nil, err
		}
	}

	return out, nil
}
