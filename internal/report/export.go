package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheet = "Sheet1"
	columnWidth = 50
)

// Table is anything that can be written as a header row plus data rows.
type Table interface {
	Columns() []string
	Rows() [][]interface{}
}

// TableWriter persists a table to path.
type TableWriter interface {
	Export(path string, t Table) error
}

// Exporter writes tables to xlsx workbooks.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes t to a new workbook at path, replacing any existing file.
func (e *Exporter) Export(path string, t Table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close workbook: %w", cerr)
		}
	}()

	columns := t.Columns()
	if len(columns) > 0 {
		last, err := excelize.ColumnNumberToName(len(columns))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(exportSheet, "A", last, columnWidth); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.Rows() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// SaveToFile wraps fn so that every result is also exported to path. Export
// failures are logged; the result is returned either way.
func SaveToFile[A any, T Table](w TableWriter, path string, log logrus.FieldLogger, fn func(A) T) func(A) T {
	log = logging.Component(log, "reports")

	return func(arg A) T {
		result := fn(arg)

		log.WithField("file", path).Info("writing report file")
		if err := w.Export(path, result); err != nil {
			log.WithError(err).WithField("file", path).Error("failed to write report file")
			return result
		}
		log.WithField("file", path).Info("report file written")

		return result
	}
}
