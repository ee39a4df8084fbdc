// Package report builds the run outputs consumed outside the core: CSV row
// tables, the environment line chart, grid snapshot images, and run summary
// statistics.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/talgya/amoebasim/internal/sim"
)

// Output manages structured run output in a single directory.
type Output struct {
	dir string

	rowsFile          *os.File
	rowsHeaderWritten bool
}

// NewOutput creates an output manager rooted at dir. Returns nil if dir is
// empty (output disabled).
func NewOutput(dir string) (*Output, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "rows.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating rows.csv: %w", err)
	}
	return &Output{dir: dir, rowsFile: f}, nil
}

// AppendRows writes aggregate rows to rows.csv, emitting the header on the
// first write only.
func (o *Output) AppendRows(rows []sim.Row) error {
	if o == nil || len(rows) == 0 {
		return nil
	}

	if !o.rowsHeaderWritten {
		if err := gocsv.Marshal(rows, o.rowsFile); err != nil {
			return fmt.Errorf("writing rows: %w", err)
		}
		o.rowsHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, o.rowsFile); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	return nil
}

// WriteChart renders the environment chart for the rows and saves it as
// environment.png.
func (o *Output) WriteChart(rows []sim.Row) error {
	if o == nil {
		return nil
	}
	pngBytes, err := EnvironmentChart(rows)
	if err != nil {
		return err
	}
	path := filepath.Join(o.dir, "environment.png")
	if err := os.WriteFile(path, pngBytes, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteSnapshot renders the grid snapshot and saves it as grid.png.
func (o *Output) WriteSnapshot(s sim.Snapshot) error {
	if o == nil {
		return nil
	}
	pngBytes, err := SnapshotPNG(s)
	if err != nil {
		return err
	}
	path := filepath.Join(o.dir, "grid.png")
	if err := os.WriteFile(path, pngBytes, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Dir returns the output directory path.
func (o *Output) Dir() string {
	if o == nil {
		return ""
	}
	return o.dir
}

// Close flushes and closes the output files.
func (o *Output) Close() error {
	if o == nil || o.rowsFile == nil {
		return nil
	}
	return o.rowsFile.Close()
}
