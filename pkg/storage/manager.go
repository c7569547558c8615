package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"f1scraper/pkg/logger"
	"f1scraper/pkg/table"
)

// utf8BOM marks the CSV artifacts as UTF-8 for spreadsheet tools.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Manager writes dataset tables as CSV artifacts into a fixed output
// directory. The directory is created eagerly at construction, so an
// unwritable destination fails before any network traffic.
type Manager struct {
	outputDir string
	logger    logger.Logger
}

// NewManager creates a storage manager, creating the output directory
// if it does not exist.
func NewManager(outputDir string, log logger.Logger) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Manager{outputDir: outputDir, logger: log}, nil
}

// OutputDir returns the output directory path.
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// Path returns the artifact path for a dataset name.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.outputDir, name+".csv")
}

// SaveTable writes a table as <name>.csv: UTF-8 with byte-order marker,
// header row of flattened column names, no index column. An empty table
// writes nothing at all.
func (m *Manager) SaveTable(t *table.Table, name string) error {
	if t.IsEmpty() {
		m.logger.WarnWithFields("no data, skipping artifact", map[string]interface{}{
			"dataset": name,
		})
		return nil
	}

	path := m.Path(name)

	// Write to a temp file first so a failed run never leaves a
	// truncated artifact behind.
	tempPath := path + ".tmp"
	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	err = writeCSV(out, t)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	m.logger.InfoWithFields("saved artifact", map[string]interface{}{
		"dataset": name,
		"rows":    t.Len(),
		"columns": len(t.Columns()),
		"path":    path,
	})

	return nil
}

func writeCSV(out *os.File, t *table.Table) error {
	if _, err := out.Write(utf8BOM); err != nil {
		return err
	}

	w := csv.NewWriter(out)
	columns := t.Columns()

	if err := w.Write(columns); err != nil {
		return err
	}

	record := make([]string, len(columns))
	for _, row := range t.Rows() {
		for i, col := range columns {
			// Absent cells render as implicit nulls.
			if v, ok := row.Get(col); ok {
				record[i] = v
			} else {
				record[i] = ""
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
