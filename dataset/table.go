package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// IndexMode selects the row index of an exported table.
type IndexMode string

const (
	// IndexDefault numbers rows 0..N-1.
	IndexDefault IndexMode = ""
	// IndexCounter uses the raw sample counter.
	IndexCounter IndexMode = "counter"
	// IndexTime uses seconds since the first sample.
	IndexTime IndexMode = "time"
	// IndexUTC uses absolute epoch seconds.
	IndexUTC IndexMode = "utc"
	// IndexUTCDatetime uses RFC 3339 datetimes in UTC.
	IndexUTCDatetime IndexMode = "utc_datetime"
	// IndexLocalDatetime uses RFC 3339 datetimes in the configured
	// timezone.
	IndexLocalDatetime IndexMode = "local_datetime"
)

var allowedIndexModes = []IndexMode{
	IndexDefault, IndexCounter, IndexTime, IndexUTC, IndexUTCDatetime, IndexLocalDatetime,
}

// ErrInvalidIndexMode indicates an index mode outside the allowed set.
var ErrInvalidIndexMode = errors.New("dataset: invalid index mode")

// Table is a row-aligned join of datastream columns with a formatted index
// column. Data is column-major and independent of the originating dataset.
type Table struct {
	IndexName string
	Index     []string
	Columns   []string
	Data      [][]float64
}

// Rows returns the number of rows.
func (t *Table) Rows() int {
	return len(t.Index)
}

// WriteCSV writes the table with a header line of index and column names.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(append([]string{t.IndexName}, t.Columns...)); err != nil {
		return fmt.Errorf("dataset: write csv header: %w", err)
	}

	record := make([]string, 1+len(t.Data))

	for row := range t.Index {
		record[0] = t.Index[row]
		for c, col := range t.Data {
			record[c+1] = strconv.FormatFloat(col[row], 'g', -1, 64)
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("dataset: write csv row %d: %w", row, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// DataAsTable joins the selected datastreams into a single table, aligned
// on row position. No resampling happens here: all selected streams
// already share the dataset's row count. Requested sensors that are not
// part of the dataset are skipped with a warning. An unknown index mode
// fails with ErrInvalidIndexMode naming the allowed set.
func (d *Dataset) DataAsTable(sensors []string, index IndexMode, includeUnits bool) (*Table, error) {
	idxName, idxValues, err := d.indexColumn(index)
	if err != nil {
		return nil, err
	}

	if sensors == nil {
		sensors = d.order
	}

	t := &Table{IndexName: idxName, Index: idxValues}

	for _, name := range sensors {
		ds := d.streams[name]
		if ds == nil {
			logrus.Warnf("dataset: sensor %q not present, excluded from table", name)
			continue
		}

		t.Columns = append(t.Columns, ds.ColumnNames(includeUnits)...)

		for axis := range ds.Channels() {
			t.Data = append(t.Data, append([]float64(nil), ds.Col(axis)...))
		}
	}

	return t, nil
}

// IMUDataAsTable joins only the acc and gyro streams.
func (d *Dataset) IMUDataAsTable(index IndexMode, includeUnits bool) (*Table, error) {
	return d.DataAsTable([]string{"acc", "gyro"}, index, includeUnits)
}

func (d *Dataset) indexColumn(index IndexMode) (string, []string, error) {
	switch index {
	case IndexDefault:
		out := make([]string, d.Size())
		for i := range out {
			out[i] = strconv.Itoa(i)
		}

		return "n_samples", out, nil

	case IndexCounter:
		return "n_samples", formatFloats(d.counter), nil

	case IndexTime:
		return "t", formatFloats(d.TimeCounter()), nil

	case IndexUTC:
		return "utc", formatFloats(d.UTCCounter()), nil

	case IndexUTCDatetime:
		return "date", formatTimes(d.UTCDatetimeCounter()), nil

	case IndexLocalDatetime:
		local, err := d.LocalDatetimeCounter()
		if err != nil {
			return "", nil, err
		}

		return "date", formatTimes(local), nil

	default:
		return "", nil, fmt.Errorf("%w: %q (allowed: %v)", ErrInvalidIndexMode, index, allowedIndexModes)
	}
}

func formatFloats(values []float64) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}

	return out
}

func formatTimes(values []time.Time) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.Format(time.RFC3339Nano)
	}

	return out
}
