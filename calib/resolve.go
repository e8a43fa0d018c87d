package calib

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNoCalibration indicates that no calibration file matched the query.
var ErrNoCalibration = errors.New("calib: no calibration file found")

// timestampLayout is the datetime portion of a calibration file name.
const timestampLayout = "2006-01-02_15-04-05"

// Restrict limits FindClosest to calibrations on one side of the target
// time.
type Restrict int

const (
	// Any considers calibrations before and after the target time.
	Any Restrict = iota
	// Before considers only calibrations at or before the target time.
	Before
	// After considers only calibrations at or after the target time.
	After
)

type findConfig struct {
	recursive      bool
	restrict       Restrict
	ignoreNotFound bool
	warnThreshold  time.Duration
}

// FindOption configures FindClosest.
type FindOption func(*findConfig)

// WithRecursive toggles recursive directory search (default true).
func WithRecursive(v bool) FindOption {
	return func(cfg *findConfig) {
		cfg.recursive = v
	}
}

// WithRestrict limits candidates to one side of the target time.
func WithRestrict(r Restrict) FindOption {
	return func(cfg *findConfig) {
		cfg.restrict = r
	}
}

// WithIgnoreNotFound makes FindClosest return an empty path instead of
// ErrNoCalibration when nothing matches.
func WithIgnoreNotFound(v bool) FindOption {
	return func(cfg *findConfig) {
		cfg.ignoreNotFound = v
	}
}

// WithWarnThreshold overrides the staleness threshold (default 60 days).
// Exceeding it logs a warning; it never fails the lookup.
func WithWarnThreshold(d time.Duration) FindOption {
	return func(cfg *findConfig) {
		if d > 0 {
			cfg.warnThreshold = d
		}
	}
}

// FindClosest returns the path of the calibration file for sensorID whose
// filename timestamp is chronologically closest to at.
func FindClosest(folder, sensorID string, at time.Time, opts ...FindOption) (string, error) {
	cfg := findConfig{
		recursive:     true,
		warnThreshold: 60 * 24 * time.Hour,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	candidates, err := listCandidates(folder, strings.ToLower(sensorID), cfg.recursive)
	if err != nil {
		return "", err
	}

	best := ""

	var bestDist time.Duration

	for path, ts := range candidates {
		if cfg.restrict == Before && ts.After(at) {
			continue
		}

		if cfg.restrict == After && ts.Before(at) {
			continue
		}

		dist := at.Sub(ts)
		if dist < 0 {
			dist = -dist
		}

		if best == "" || dist < bestDist {
			best = path
			bestDist = dist
		}
	}

	if best == "" {
		if cfg.ignoreNotFound {
			return "", nil
		}

		return "", fmt.Errorf("%w: sensor %q in %s", ErrNoCalibration, sensorID, folder)
	}

	if bestDist > cfg.warnThreshold {
		logrus.Warnf("calib: closest calibration for %q is %v away from the recording (threshold %v): %s",
			sensorID, bestDist, cfg.warnThreshold, best)
	}

	return best, nil
}

// listCandidates maps calibration file paths to their filename timestamps.
func listCandidates(folder, sensorID string, recursive bool) (map[string]time.Time, error) {
	out := make(map[string]time.Time)

	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if !recursive && path != folder {
				return fs.SkipDir
			}

			return nil
		}

		ts, ok := parseName(d.Name(), sensorID)
		if ok {
			out[path] = ts
		}

		return nil
	}

	if err := filepath.WalkDir(folder, walk); err != nil {
		return nil, fmt.Errorf("calib: scan %s: %w", folder, err)
	}

	return out, nil
}

// parseName extracts the timestamp from "<sensorid>_<timestamp>.json".
func parseName(name, sensorID string) (time.Time, bool) {
	if filepath.Ext(name) != ".json" {
		return time.Time{}, false
	}

	stem := strings.TrimSuffix(strings.ToLower(name), ".json")

	rest, ok := strings.CutPrefix(stem, sensorID+"_")
	if !ok {
		return time.Time{}, false
	}

	ts, err := time.Parse(timestampLayout, rest)
	if err != nil {
		return time.Time{}, false
	}

	return ts, true
}
