package timed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Row is one data row of a CSV output file.
type Row struct {
	Function   string  `json:"function" yaml:"function"`
	DurationMs float64 `json:"duration_ms" yaml:"duration_ms"`
}

// ReadCSV parses a CSV output file, checking the header, that every row
// has exactly two fields and that each duration is a non-negative number.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) != len(CSVHeader) || header[0] != CSVHeader[0] || header[1] != CSVHeader[1] {
		return nil, fmt.Errorf("unexpected header %q", header)
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(rec) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 fields, got %d", line, len(rec))
		}
		ms, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid duration %q: %w", line, rec[1], err)
		}
		if ms < 0 {
			return nil, fmt.Errorf("line %d: negative duration %q", line, rec[1])
		}
		rows = append(rows, Row{Function: rec[0], DurationMs: ms})
	}
	return rows, nil
}
