package calib

// Model corrects a pair of raw acc/gyro streams.
//
// Inputs and outputs are column-major (one []float64 per axis). The
// returned units describe the corrected data; callers record them on the
// streams. Implementations must not mutate the input columns.
type Model interface {
	Calibrate(acc, gyro [][]float64, accUnit, gyroUnit string) (accOut, gyroOut [][]float64, accUnitOut, gyroUnitOut string, err error)
}
