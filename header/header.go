package header

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// UndefinedPosition is the sentinel value for an unknown sensor placement.
const UndefinedPosition = "undefined"

// Header carries the metadata of one recording.
//
// Fields are exported for construction and inspection but are not meant to
// be mutated after a Header is attached to a dataset; the dataset's
// Downsample is the only operation that writes to SamplingRateHz.
type Header struct {
	// EnabledSensors lists the sensor types present in the recording, in
	// stream order.
	EnabledSensors []string

	// SensorPosition tags the physical placement (e.g. "ha_left" for the
	// left hearing aid). UndefinedPosition means unknown.
	SensorPosition string

	SamplingRateHz float64
	AccRangeG      float64
	GyroRangeDPS   float64

	// UTCStart and UTCStop are epoch seconds as recorded by the sensor
	// clock. No timezone conversion is applied.
	UTCStart int64
	UTCStop  int64

	VersionFirmware string

	// SensorID is the unique identifier of the physical device.
	SensorID string

	// CustomMetaData is an opaque payload stored with the recording.
	CustomMetaData any
}

// ParseFields builds a Header from the key/value map produced by a
// recording parser. Unknown keys are ignored with a warning. Missing keys
// keep their zero value except SensorPosition, which defaults to
// UndefinedPosition.
func ParseFields(fields map[string]any) (*Header, error) {
	h := &Header{SensorPosition: UndefinedPosition}

	for key, val := range fields {
		var err error

		switch key {
		case "enabled_sensors":
			h.EnabledSensors, err = toStrings(val)
		case "sensor_position":
			h.SensorPosition, err = toString(val)
		case "sampling_rate_hz":
			h.SamplingRateHz, err = toFloat(val)
		case "acc_range_g":
			h.AccRangeG, err = toFloat(val)
		case "gyro_range_dps":
			h.GyroRangeDPS, err = toFloat(val)
		case "utc_start":
			h.UTCStart, err = toInt(val)
		case "utc_stop":
			h.UTCStop, err = toInt(val)
		case "version_firmware":
			h.VersionFirmware, err = toString(val)
		case "sensor_id":
			h.SensorID, err = toString(val)
		case "custom_meta_data":
			h.CustomMetaData = val
		default:
			logrus.Warnf("header: ignoring unexpected field %q", key)
		}

		if err != nil {
			return nil, fmt.Errorf("header: field %q: %w", key, err)
		}
	}

	if h.SamplingRateHz <= 0 {
		return nil, fmt.Errorf("header: sampling rate must be positive, got %g", h.SamplingRateHz)
	}

	if h.UTCStop < h.UTCStart {
		return nil, fmt.Errorf("header: utc_stop %d before utc_start %d", h.UTCStop, h.UTCStart)
	}

	return h, nil
}

// Duration returns the length of the measurement.
func (h *Header) Duration() time.Duration {
	return time.Duration(h.UTCStop-h.UTCStart) * time.Second
}

// UTCDatetimeStart returns the start time as a UTC datetime.
func (h *Header) UTCDatetimeStart() time.Time {
	return time.Unix(h.UTCStart, 0).UTC()
}

// UTCDatetimeStop returns the stop time as a UTC datetime.
func (h *Header) UTCDatetimeStop() time.Time {
	return time.Unix(h.UTCStop, 0).UTC()
}

// HasPositionInfo reports whether a sensor placement was recorded.
func (h *Header) HasPositionInfo() bool {
	return h.SensorPosition != UndefinedPosition
}

// Clone returns a deep copy.
func (h *Header) Clone() *Header {
	out := *h
	out.EnabledSensors = append([]string(nil), h.EnabledSensors...)

	return &out
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	}

	return 0, fmt.Errorf("cannot convert %T to float", v)
}

func toInt(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case float64:
		return int64(x), nil
	}

	return 0, fmt.Errorf("cannot convert %T to int", v)
}

func toString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}

	return "", fmt.Errorf("cannot convert %T to string", v)
}

func toStrings(v any) ([]string, error) {
	switch x := v.(type) {
	case []string:
		return append([]string(nil), x...), nil
	case []any:
		out := make([]string, 0, len(x))

		for _, e := range x {
			s, err := toString(e)
			if err != nil {
				return nil, err
			}

			out = append(out, s)
		}

		return out, nil
	}

	return nil, fmt.Errorf("cannot convert %T to string list", v)
}
