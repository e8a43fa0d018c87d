package header

import "time"

// Proxy is a read-only view over the headers of all datasets in a session.
//
// Each accessor returns one value per header, in dataset order. Only field
// and derived-value access is exposed; operations that would need
// per-dataset arguments have no meaningful cross-dataset semantics and are
// deliberately absent. The header slice is referenced, not copied, so a
// Proxy is cheap to construct on every access.
type Proxy struct {
	headers []*Header
}

// NewProxy creates a view over the given headers.
func NewProxy(headers []*Header) *Proxy {
	return &Proxy{headers: headers}
}

// Len returns the number of headers behind the view.
func (p *Proxy) Len() int {
	return len(p.headers)
}

// EnabledSensors returns the enabled-sensor list of every header.
func (p *Proxy) EnabledSensors() [][]string {
	out := make([][]string, len(p.headers))
	for i, h := range p.headers {
		out[i] = append([]string(nil), h.EnabledSensors...)
	}

	return out
}

// SensorPositions returns the position tag of every header.
func (p *Proxy) SensorPositions() []string {
	out := make([]string, len(p.headers))
	for i, h := range p.headers {
		out[i] = h.SensorPosition
	}

	return out
}

// SamplingRatesHz returns the sampling rate of every header.
func (p *Proxy) SamplingRatesHz() []float64 {
	out := make([]float64, len(p.headers))
	for i, h := range p.headers {
		out[i] = h.SamplingRateHz
	}

	return out
}

// AccRangesG returns the accelerometer full-scale range of every header.
func (p *Proxy) AccRangesG() []float64 {
	out := make([]float64, len(p.headers))
	for i, h := range p.headers {
		out[i] = h.AccRangeG
	}

	return out
}

// GyroRangesDPS returns the gyroscope full-scale range of every header.
func (p *Proxy) GyroRangesDPS() []float64 {
	out := make([]float64, len(p.headers))
	for i, h := range p.headers {
		out[i] = h.GyroRangeDPS
	}

	return out
}

// UTCStarts returns the epoch start second of every header.
func (p *Proxy) UTCStarts() []int64 {
	out := make([]int64, len(p.headers))
	for i, h := range p.headers {
		out[i] = h.UTCStart
	}

	return out
}

// UTCStops returns the epoch stop second of every header.
func (p *Proxy) UTCStops() []int64 {
	out := make([]int64, len(p.headers))
	for i, h := range p.headers {
		out[i] = h.UTCStop
	}

	return out
}

// VersionsFirmware returns the firmware version of every header.
func (p *Proxy) VersionsFirmware() []string {
	out := make([]string, len(p.headers))
	for i, h := range p.headers {
		out[i] = h.VersionFirmware
	}

	return out
}

// SensorIDs returns the device id of every header.
func (p *Proxy) SensorIDs() []string {
	out := make([]string, len(p.headers))
	for i, h := range p.headers {
		out[i] = h.SensorID
	}

	return out
}

// CustomMetaData returns the opaque payload of every header.
func (p *Proxy) CustomMetaData() []any {
	out := make([]any, len(p.headers))
	for i, h := range p.headers {
		out[i] = h.CustomMetaData
	}

	return out
}

// Durations returns the measurement length of every header.
func (p *Proxy) Durations() []time.Duration {
	out := make([]time.Duration, len(p.headers))
	for i, h := range p.headers {
		out[i] = h.Duration()
	}

	return out
}

// UTCDatetimeStarts returns the start datetime of every header.
func (p *Proxy) UTCDatetimeStarts() []time.Time {
	out := make([]time.Time, len(p.headers))
	for i, h := range p.headers {
		out[i] = h.UTCDatetimeStart()
	}

	return out
}

// UTCDatetimeStops returns the stop datetime of every header.
func (p *Proxy) UTCDatetimeStops() []time.Time {
	out := make([]time.Time, len(p.headers))
	for i, h := range p.headers {
		out[i] = h.UTCDatetimeStop()
	}

	return out
}

// HasPositionInfo reports per header whether a placement was recorded.
func (p *Proxy) HasPositionInfo() []bool {
	out := make([]bool, len(p.headers))
	for i, h := range p.headers {
		out[i] = h.HasPositionInfo()
	}

	return out
}
