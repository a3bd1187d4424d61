package writer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/DhruvM-07/Live-Updating-Excel-File-of-Crypto/internal/model"
)

// dataColWidth is the column width applied to the data sheet.
const dataColWidth = 20

// XLSXWriter rewrites the dashboard workbook at a fixed path.
type XLSXWriter struct {
	path   string
	logger *slog.Logger
}

// NewXLSXWriter creates a writer for the workbook at path.
func NewXLSXWriter(path string, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{path: path, logger: logger}
}

// Name returns the sink name.
func (w *XLSXWriter) Name() string { return "xlsx" }

// Path returns the workbook path.
func (w *XLSXWriter) Path() string { return w.path }

// Persist writes the snapshot's batch and analysis to the workbook.
func (w *XLSXWriter) Persist(ctx context.Context, snap model.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.Write(snap.Batch, snap.Analysis)
}

// Close is a no-op; the workbook is closed after every write.
func (w *XLSXWriter) Close() error { return nil }

// Write replaces the data and analysis sheets and saves the workbook.
func (w *XLSXWriter) Write(batch model.Batch, a model.Analysis) error {
	f, created, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := writeDataSheet(f, batch); err != nil {
		return fmt.Errorf("write %s sheet: %w", DataSheet, err)
	}
	if err := writeAnalysisSheet(f, a); err != nil {
		return fmt.Errorf("write %s sheet: %w", AnalysisSheet, err)
	}

	if err := w.save(f); err != nil {
		return err
	}

	w.logger.Info("excel file updated",
		"path", w.path,
		"rows", len(batch),
		"created", created,
	)
	return nil
}

// open loads the workbook at w.path, or creates one with the data sheet
// as its only sheet.
func (w *XLSXWriter) open() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(w.path)
	if err == nil {
		return f, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, fmt.Errorf("open workbook: %w", err)
	}

	f = excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), DataSheet); err != nil {
		f.Close()
		return nil, false, fmt.Errorf("rename default sheet: %w", err)
	}
	return f, true, nil
}

// save writes f to a temp file beside the target and renames it into place.
func (w *XLSXWriter) save(f *excelize.File) error {
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, ".crypto-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp workbook: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp workbook: %w", err)
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace workbook: %w", err)
	}
	return nil
}

func writeDataSheet(f *excelize.File, batch model.Batch) error {
	idx, err := ensureSheet(f, DataSheet)
	if err != nil {
		return err
	}

	// Everything below the header goes; the header is rewritten in place.
	if err := clearRows(f, DataSheet, 1); err != nil {
		return err
	}
	if err := setRow(f, DataSheet, 1, toAny(DataHeader)); err != nil {
		return err
	}

	for i, r := range batch {
		if err := setRow(f, DataSheet, i+2, dataRow(r)); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(DataSheet, "A", "F", dataColWidth); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	f.SetActiveSheet(idx)
	return nil
}

func writeAnalysisSheet(f *excelize.File, a model.Analysis) error {
	if _, err := ensureSheet(f, AnalysisSheet); err != nil {
		return err
	}
	if err := clearRows(f, AnalysisSheet, 0); err != nil {
		return err
	}

	if err := setRow(f, AnalysisSheet, 1, toAny(AnalysisHeader)); err != nil {
		return err
	}
	for i, m := range AnalysisRows(a) {
		if err := setRow(f, AnalysisSheet, i+2, []any{m.Metric, m.Value}); err != nil {
			return err
		}
	}
	return nil
}

// ensureSheet returns the index of sheet, creating it if absent.
func ensureSheet(f *excelize.File, sheet string) (int, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return 0, fmt.Errorf("lookup sheet: %w", err)
	}
	if idx >= 0 {
		return idx, nil
	}
	idx, err = f.NewSheet(sheet)
	if err != nil {
		return 0, fmt.Errorf("create sheet: %w", err)
	}
	return idx, nil
}

// clearRows removes every row after the first keep rows.
func clearRows(f *excelize.File, sheet string, keep int) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}
	// Bottom-up so row numbers stay valid.
	for r := len(rows); r > keep; r-- {
		if err := f.RemoveRow(sheet, r); err != nil {
			return fmt.Errorf("remove row %d: %w", r, err)
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}
