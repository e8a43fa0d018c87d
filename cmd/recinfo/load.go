package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hearlab/imusession/config"
	"github.com/hearlab/imusession/dataset"
	"github.com/hearlab/imusession/header"
)

// loadRecording parses the header.yaml/data.csv pair of a recording
// directory into a dataset.
func loadRecording(dir string, cfg config.Config) (*dataset.Dataset, error) {
	info, err := readHeader(filepath.Join(dir, "header.yaml"))
	if err != nil {
		return nil, err
	}

	counter, sensorData, err := readData(filepath.Join(dir, "data.csv"))
	if err != nil {
		return nil, err
	}

	return dataset.New(sensorData, counter, info,
		dataset.WithConfig(cfg), dataset.WithPath(dir))
}

func readHeader(path string) (*header.Header, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("recinfo: read %s: %w", path, err)
	}

	fields := map[string]any{}
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("recinfo: parse %s: %w", path, err)
	}

	return header.ParseFields(fields)
}

// readData parses a CSV whose first column is the sample counter and whose
// remaining columns are named "<sensor>_<axis>". Columns of one sensor must
// be adjacent; their order defines the axis order.
func readData(path string) ([]float64, map[string][][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("recinfo: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("recinfo: parse %s: %w", path, err)
	}

	if len(records) < 2 {
		return nil, nil, fmt.Errorf("recinfo: %s: no data rows", path)
	}

	names := records[0]
	rows := records[1:]

	cols := make([][]float64, len(names))
	for c := range cols {
		cols[c] = make([]float64, len(rows))
	}

	for i, row := range rows {
		if len(row) != len(names) {
			return nil, nil, fmt.Errorf("recinfo: %s: row %d has %d fields, want %d", path, i+1, len(row), len(names))
		}

		for c, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("recinfo: %s: row %d column %q: %w", path, i+1, names[c], err)
			}

			cols[c][i] = v
		}
	}

	sensorData := make(map[string][][]float64)

	for c := 1; c < len(names); c++ {
		sensor, _, ok := strings.Cut(names[c], "_")
		if !ok {
			return nil, nil, fmt.Errorf("recinfo: %s: column %q is not <sensor>_<axis>", path, names[c])
		}

		sensorData[sensor] = append(sensorData[sensor], cols[c])
	}

	return cols[0], sensorData, nil
}
