package timed

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// CSVHeader is the first row of every CSV output file.
var CSVHeader = []string{"function", "duration_ms"}

// csvSink owns the file for one CSV configuration epoch.
// Appends are serialized so concurrent rows never interleave.
type csvSink struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	w      *csv.Writer
	closed bool

	// inflight counts snapshots still writing. acquire is only called
	// under the store's read lock and close only under its write lock.
	inflight sync.WaitGroup
}

// openCSV creates or truncates path and writes the header row.
func openCSV(path string) (*csvSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(file)
	if err := w.Write(CSVHeader); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write header to %s: %w", path, err)
	}

	return &csvSink{path: path, file: file, w: w}, nil
}

// FormatMillis renders a sample's duration the way CSV rows and log
// lines carry it: fractional milliseconds with three decimals.
func FormatMillis(s Sample) string {
	return strconv.FormatFloat(s.Millis(), 'f', 3, 64)
}

// append writes one row and flushes it before returning.
func (c *csvSink) append(s Sample) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return &ReportError{Function: s.Function, Path: c.path, Err: ErrClosed}
	}

	if err := c.w.Write([]string{s.Function, FormatMillis(s)}); err != nil {
		return &ReportError{Function: s.Function, Path: c.path, Err: err}
	}
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return &ReportError{Function: s.Function, Path: c.path, Err: err}
	}
	return nil
}

func (c *csvSink) acquire() { c.inflight.Add(1) }

func (c *csvSink) release() { c.inflight.Done() }

// close waits for in-flight appends, then flushes and closes the file.
func (c *csvSink) close() error {
	c.inflight.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.w.Flush()
	flushErr := c.w.Error()
	if err := c.file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", c.path, err)
	}
	if flushErr != nil {
		return fmt.Errorf("failed to flush %s: %w", c.path, flushErr)
	}
	return nil
}
