package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.GravityMS2 != 9.81 {
		t.Fatalf("GravityMS2 = %g, want 9.81", cfg.GravityMS2)
	}

	if cfg.ReferencePosition != "ha_left" {
		t.Fatalf("ReferencePosition = %q, want ha_left", cfg.ReferencePosition)
	}

	if cfg.CalibrationMaxAge != 60*24*time.Hour {
		t.Fatalf("CalibrationMaxAge = %v, want 60 days", cfg.CalibrationMaxAge)
	}

	if cfg.AccFactoryUnit != "m/s^2" || cfg.GyroFactoryUnit != "deg/s" {
		t.Fatalf("factory units = %q/%q", cfg.AccFactoryUnit, cfg.GyroFactoryUnit)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	body := "gravity_ms2: 9.80665\nreference_position: ha_right\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.GravityMS2 != 9.80665 {
		t.Fatalf("GravityMS2 = %g, want 9.80665", cfg.GravityMS2)
	}

	if cfg.ReferencePosition != "ha_right" {
		t.Fatalf("ReferencePosition = %q, want ha_right", cfg.ReferencePosition)
	}

	// Untouched fields keep their defaults.
	if cfg.RawUnit != "a.u." {
		t.Fatalf("RawUnit = %q, want a.u.", cfg.RawUnit)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() succeeded on a missing file")
	}
}

func TestAxesFallback(t *testing.T) {
	cfg := Default()

	axes := cfg.Axes("mag")
	if len(axes) != 3 || axes[0] != "x" {
		t.Fatalf("Axes(mag) = %v, want x/y/z fallback", axes)
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}

	if loc != time.UTC {
		t.Fatalf("Location() = %v, want UTC", loc)
	}

	cfg.Timezone = "not/a-zone"
	if _, err := cfg.Location(); err == nil {
		t.Fatal("Location() accepted a bogus timezone")
	}
}
