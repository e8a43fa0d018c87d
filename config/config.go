package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config collects the constants that govern recording interpretation:
// datasheet conversion factors, default sensor ranges, axis labels and the
// defaults used by session alignment and calibration lookup.
//
// All transformation entry points fall back to Default() when no config is
// supplied, so a zero-configuration workflow behaves like the reference
// firmware datasheet.
type Config struct {
	// GravityMS2 converts accelerometer samples from g to m/s^2 during
	// factory calibration.
	GravityMS2 float64 `yaml:"gravity_ms2"`

	// AccRangeG and GyroRangeDPS are the full-scale datasheet ranges used
	// when a recording header does not carry its own.
	AccRangeG    float64 `yaml:"acc_range_g"`
	GyroRangeDPS float64 `yaml:"gyro_range_dps"`

	// RawUnit is the unit of uncalibrated samples.
	// AccFactoryUnit and GyroFactoryUnit are the units after factory
	// calibration.
	RawUnit         string `yaml:"raw_unit"`
	AccFactoryUnit  string `yaml:"acc_factory_unit"`
	GyroFactoryUnit string `yaml:"gyro_factory_unit"`

	// ReferencePosition selects the dataset that acts as length authority
	// during session alignment.
	ReferencePosition string `yaml:"reference_position"`

	// CalibrationMaxAge is the staleness threshold for calibration file
	// lookup. Lookups succeeding beyond this age warn but do not fail.
	CalibrationMaxAge time.Duration `yaml:"calibration_max_age"`

	// Timezone names the location used for local-datetime counter views.
	Timezone string `yaml:"timezone"`

	// SensorAxes maps a sensor type to its ordered axis labels.
	SensorAxes map[string][]string `yaml:"sensor_axes"`
}

// Default returns the datasheet-derived configuration.
func Default() Config {
	return Config{
		GravityMS2:        9.81,
		AccRangeG:         2,
		GyroRangeDPS:      1000,
		RawUnit:           "a.u.",
		AccFactoryUnit:    "m/s^2",
		GyroFactoryUnit:   "deg/s",
		ReferencePosition: "ha_left",
		CalibrationMaxAge: 60 * 24 * time.Hour,
		Timezone:          "UTC",
		SensorAxes: map[string][]string{
			"acc":  {"x", "y", "z"},
			"gyro": {"x", "y", "z"},
		},
	}
}

// Load reads a YAML config file. Fields absent from the file keep their
// Default() values.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Axes returns the axis labels for a sensor type, defaulting to x/y/z for
// unknown types.
func (c Config) Axes(sensorType string) []string {
	if axes, ok := c.SensorAxes[sensorType]; ok {
		return axes
	}

	return []string{"x", "y", "z"}
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}
