package enviro

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// CSVWriter logs timestamped sensor rows, flushing after each row so a
// probe can be interrupted at any time.
type CSVWriter struct {
	writer *csv.Writer
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{
		writer: csv.NewWriter(w),
	}
}

// WriteHeader writes the column names after a leading "timestamp" column.
func (cw *CSVWriter) WriteHeader(columns ...string) error {
	if err := cw.writer.Write(append([]string{"timestamp"}, columns...)); err != nil {
		return fmt.Errorf("error writing CSV header: %v", err)
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

func (cw *CSVWriter) WriteRow(ts time.Time, values ...float64) error {
	record := make([]string, 0, len(values)+1)
	record = append(record, ts.Format(time.RFC3339))
	for _, v := range values {
		record = append(record, strconv.FormatFloat(v, 'f', 2, 64))
	}
	if err := cw.writer.Write(record); err != nil {
		return fmt.Errorf("error writing CSV: %v", err)
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

func (cw *CSVWriter) Close() {
	cw.writer.Flush()
}
