package session_test

import (
	"fmt"
	"log"

	"github.com/hearlab/imusession/dataset"
	"github.com/hearlab/imusession/header"
	"github.com/hearlab/imusession/session"
)

func recording(n int, position, id string) *dataset.Dataset {
	h, err := header.ParseFields(map[string]any{
		"enabled_sensors":  []string{"acc", "gyro"},
		"sensor_position":  position,
		"sampling_rate_hz": 200.0,
		"utc_start":        int64(1580000000),
		"utc_stop":         int64(1580000005),
		"sensor_id":        id,
	})
	if err != nil {
		log.Fatal(err)
	}

	cols := func() [][]float64 {
		x := make([]float64, n)
		y := make([]float64, n)
		z := make([]float64, n)

		for i := range n {
			x[i] = float64(i)
		}

		return [][]float64{x, y, z}
	}

	counter := make([]float64, n)
	for i := range n {
		counter[i] = float64(i)
	}

	d, err := dataset.New(map[string][][]float64{"acc": cols(), "gyro": cols()}, counter, h)
	if err != nil {
		log.Fatal(err)
	}

	return d
}

// Two hearing aids record the same interval with independently drifting
// clocks; alignment warps both onto the left device's length, then the
// common rate is reduced to 50 Hz.
func Example() {
	s, err := session.New([]*dataset.Dataset{
		recording(1000, "ha_left", "a1b2"),
		recording(1010, "ha_right", "c3d4"),
	})
	if err != nil {
		log.Fatal(err)
	}

	aligned, err := s.AlignToSyncRegion(false)
	if err != nil {
		log.Fatal(err)
	}

	reduced, err := aligned.Resample(50, true)
	if err != nil {
		log.Fatal(err)
	}

	for _, d := range reduced.Datasets() {
		fmt.Printf("%s: %d samples at %g Hz\n",
			d.Info.SensorPosition, d.Size(), d.Info.SamplingRateHz)
	}

	// Output:
	// ha_left: 250 samples at 50 Hz
	// ha_right: 250 samples at 50 Hz
}
