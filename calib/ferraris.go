package calib

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// ErrBadModel indicates a calibration file with missing or malformed
// coefficients.
var ErrBadModel = errors.New("calib: malformed calibration model")

// Ferraris is a measured calibration obtained from a Ferraris-style
// calibration recording: per sensor a combined scale/rotation matrix and a
// bias vector. Corrected samples are M * (raw - bias), per sample.
type Ferraris struct {
	AccMatrix  [3][3]float64 `json:"acc_matrix"`
	AccBias    [3]float64    `json:"acc_bias"`
	GyroMatrix [3][3]float64 `json:"gyro_matrix"`
	GyroBias   [3]float64    `json:"gyro_bias"`

	AccUnit  string `json:"acc_unit"`
	GyroUnit string `json:"gyro_unit"`
}

// Load reads a Ferraris calibration from a JSON file.
func Load(path string) (*Ferraris, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("calib: read %s: %w", path, err)
	}

	var f Ferraris
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("calib: parse %s: %w", path, err)
	}

	if f.AccUnit == "" || f.GyroUnit == "" {
		return nil, fmt.Errorf("%w: %s: missing units", ErrBadModel, path)
	}

	return &f, nil
}

// Calibrate applies the model to both streams. Implements Model.
func (f *Ferraris) Calibrate(acc, gyro [][]float64, accUnit, gyroUnit string) ([][]float64, [][]float64, string, string, error) {
	accOut, err := applyAffine(acc, f.AccMatrix, f.AccBias)
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("calib: acc (%s): %w", accUnit, err)
	}

	gyroOut, err := applyAffine(gyro, f.GyroMatrix, f.GyroBias)
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("calib: gyro (%s): %w", gyroUnit, err)
	}

	return accOut, gyroOut, f.AccUnit, f.GyroUnit, nil
}

// applyAffine computes M * (X - b) for column-major samples X.
func applyAffine(cols [][]float64, m [3][3]float64, bias [3]float64) ([][]float64, error) {
	if len(cols) != 3 {
		return nil, fmt.Errorf("%w: got %d axes, want 3", ErrBadModel, len(cols))
	}

	n := len(cols[0])
	for _, col := range cols {
		if len(col) != n {
			return nil, fmt.Errorf("%w: ragged axis data", ErrBadModel)
		}
	}

	shifted := mat.NewDense(3, n, nil)
	for r := range 3 {
		for i := range n {
			shifted.Set(r, i, cols[r][i]-bias[r])
		}
	}

	coeff := mat.NewDense(3, 3, []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	})

	var corrected mat.Dense
	corrected.Mul(coeff, shifted)

	out := make([][]float64, 3)
	for r := range 3 {
		out[r] = mat.Row(nil, r, &corrected)
	}

	return out, nil
}
