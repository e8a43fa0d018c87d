package calib

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats"
)

func identityModel() *Ferraris {
	return &Ferraris{
		AccMatrix:  [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		GyroMatrix: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		AccUnit:    "m/s^2",
		GyroUnit:   "deg/s",
	}
}

func TestFerrarisBiasOnly(t *testing.T) {
	f := identityModel()
	f.AccBias = [3]float64{1, 2, 3}

	acc := [][]float64{{1, 2}, {2, 3}, {3, 4}}
	gyro := [][]float64{{0, 0}, {0, 0}, {0, 0}}

	accOut, gyroOut, accUnit, gyroUnit, err := f.Calibrate(acc, gyro, "a.u.", "a.u.")
	if err != nil {
		t.Fatalf("Calibrate() error = %v", err)
	}

	if accUnit != "m/s^2" || gyroUnit != "deg/s" {
		t.Fatalf("units = %q/%q", accUnit, gyroUnit)
	}

	for r := range 3 {
		want := []float64{0, 1}
		if !floats.EqualApprox(accOut[r], want, 1e-12) {
			t.Fatalf("acc axis %d = %v, want %v", r, accOut[r], want)
		}
	}

	for r := range 3 {
		if !floats.EqualApprox(gyroOut[r], []float64{0, 0}, 1e-12) {
			t.Fatalf("gyro axis %d = %v", r, gyroOut[r])
		}
	}

	// Inputs must be left untouched.
	if acc[0][0] != 1 {
		t.Fatal("Calibrate() mutated its input")
	}
}

func TestFerrarisScaleMatrix(t *testing.T) {
	f := identityModel()
	f.AccMatrix = [3][3]float64{{2, 0, 0}, {0, 3, 0}, {0, 0, 4}}

	acc := [][]float64{{1, 1}, {1, 1}, {1, 1}}
	gyro := [][]float64{{1, 1}, {1, 1}, {1, 1}}

	accOut, _, _, _, err := f.Calibrate(acc, gyro, "a.u.", "a.u.")
	if err != nil {
		t.Fatalf("Calibrate() error = %v", err)
	}

	for r, want := range []float64{2, 3, 4} {
		if math.Abs(accOut[r][0]-want) > 1e-12 {
			t.Fatalf("acc axis %d = %g, want %g", r, accOut[r][0], want)
		}
	}
}

func TestFerrarisRejectsWrongShape(t *testing.T) {
	f := identityModel()

	_, _, _, _, err := f.Calibrate([][]float64{{1}}, [][]float64{{1}, {1}, {1}}, "a.u.", "a.u.")
	if !errors.Is(err, ErrBadModel) {
		t.Fatalf("error = %v, want ErrBadModel", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cal.json")

	content := `{
		"acc_matrix": [[1,0,0],[0,1,0],[0,0,1]],
		"acc_bias": [0.1, 0.2, 0.3],
		"gyro_matrix": [[1,0,0],[0,1,0],[0,0,1]],
		"gyro_bias": [0, 0, 0],
		"acc_unit": "m/s^2",
		"gyro_unit": "deg/s"
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if f.AccBias[1] != 0.2 || f.GyroUnit != "deg/s" {
		t.Fatalf("loaded model = %+v", f)
	}
}

func TestLoadRejectsMissingUnits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cal.json")

	if err := os.WriteFile(path, []byte(`{"acc_unit": "m/s^2"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); !errors.Is(err, ErrBadModel) {
		t.Fatalf("error = %v, want ErrBadModel", err)
	}
}

func writeCalFile(t *testing.T, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestFindClosest(t *testing.T) {
	dir := t.TempDir()

	old := writeCalFile(t, dir, "a1b2_2020-01-01_10-00-00.json")
	near := writeCalFile(t, dir, "a1b2_2020-03-01_10-00-00.json")
	writeCalFile(t, dir, "zzzz_2020-03-02_10-00-00.json")

	at := time.Date(2020, 3, 5, 0, 0, 0, 0, time.UTC)

	got, err := FindClosest(dir, "a1b2", at)
	if err != nil {
		t.Fatalf("FindClosest() error = %v", err)
	}

	if got != near {
		t.Fatalf("FindClosest() = %s, want %s", got, near)
	}

	got, err = FindClosest(dir, "A1B2", at, WithRestrict(Before))
	if err != nil {
		t.Fatalf("FindClosest(Before) error = %v", err)
	}

	if got != near {
		t.Fatalf("FindClosest(Before) = %s, want %s", got, near)
	}

	got, err = FindClosest(dir, "a1b2", time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), WithRestrict(Before))
	if err != nil {
		t.Fatalf("FindClosest(Before, early) error = %v", err)
	}

	if got != old {
		t.Fatalf("FindClosest(Before, early) = %s, want %s", got, old)
	}
}

func TestFindClosestNotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := FindClosest(dir, "a1b2", time.Now())
	if !errors.Is(err, ErrNoCalibration) {
		t.Fatalf("error = %v, want ErrNoCalibration", err)
	}

	got, err := FindClosest(dir, "a1b2", time.Now(), WithIgnoreNotFound(true))
	if err != nil {
		t.Fatalf("FindClosest(ignore) error = %v", err)
	}

	if got != "" {
		t.Fatalf("FindClosest(ignore) = %q, want empty", got)
	}
}

func TestFindClosestRecursive(t *testing.T) {
	dir := t.TempDir()

	sub := filepath.Join(dir, "2020")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	nested := writeCalFile(t, sub, "a1b2_2020-06-01_08-30-00.json")

	got, err := FindClosest(dir, "a1b2", time.Date(2020, 6, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FindClosest() error = %v", err)
	}

	if got != nested {
		t.Fatalf("FindClosest() = %s, want %s", got, nested)
	}

	if _, err := FindClosest(dir, "a1b2", time.Now(), WithRecursive(false)); !errors.Is(err, ErrNoCalibration) {
		t.Fatalf("non-recursive error = %v, want ErrNoCalibration", err)
	}
}
