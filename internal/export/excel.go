// Package export writes processed invoices to a three-sheet XLSX workbook.
//
// The workbook layout is fixed by contract with the downstream audit:
//   - "Dane": one row per invoice, 8 columns
//   - "Pozycje": one row per line item, foreign-keyed by invoice number
//   - "Koszty_surowcow": headers only, reserved for future cost-category
//     breakdowns
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"invoice-processing-service/internal/models"
	apperrors "invoice-processing-service/pkg/errors"
	"invoice-processing-service/pkg/logger"

	"github.com/xuri/excelize/v2"
)

const (
	sheetHeaders   = "Dane"
	sheetItems     = "Pozycje"
	sheetMaterials = "Koszty_surowcow"

	columnWidth = 18
)

var (
	headerColumns = []interface{}{"number", "issue_date", "seller", "buyer", "currency", "total_net", "total_vat", "total_gross"}
	itemColumns   = []interface{}{"invoice_number", "description", "quantity", "unit_price", "net", "vat_rate", "vat", "gross"}
	materialCols  = []interface{}{"invoice_number", "category", "amount", "note"}
)

// ExcelWriter produces the export workbook.
type ExcelWriter struct {
	logger logger.Logger
}

// NewExcelWriter creates a workbook writer.
func NewExcelWriter(log logger.Logger) *ExcelWriter {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &ExcelWriter{logger: log.WithComponent("export")}
}

// Write renders the invoices into the three-sheet workbook at path, creating
// parent directories as needed. Partial output already on disk is not
// touched when workbook construction fails.
func (w *ExcelWriter) Write(invoices []*models.Invoice, path string) error {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetHeaders); err != nil {
		return apperrors.ExportError(path, err)
	}
	if _, err := f.NewSheet(sheetItems); err != nil {
		return apperrors.ExportError(path, err)
	}
	if _, err := f.NewSheet(sheetMaterials); err != nil {
		return apperrors.ExportError(path, err)
	}

	if err := w.writeHeaderSheet(f, invoices); err != nil {
		return apperrors.ExportError(path, err)
	}
	itemRows, err := w.writeItemSheet(f, invoices)
	if err != nil {
		return apperrors.ExportError(path, err)
	}
	if err := f.SetSheetRow(sheetMaterials, "A1", &materialCols); err != nil {
		return apperrors.ExportError(path, err)
	}

	for _, sheet := range []string{sheetHeaders, sheetItems, sheetMaterials} {
		if err := f.SetColWidth(sheet, "A", "H", columnWidth); err != nil {
			return apperrors.ExportError(path, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.ExportError(path, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.ExportError(path, err)
	}

	w.logger.WithFields(logger.Fields{
		"path":       path,
		"invoices":   len(invoices),
		"line_items": itemRows,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Info("Workbook written")
	return nil
}

func (w *ExcelWriter) writeHeaderSheet(f *excelize.File, invoices []*models.Invoice) error {
	if err := f.SetSheetRow(sheetHeaders, "A1", &headerColumns); err != nil {
		return err
	}
	for i, inv := range invoices {
		row := inv.HeaderRow()
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetHeaders, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWriter) writeItemSheet(f *excelize.File, invoices []*models.Invoice) (int, error) {
	if err := f.SetSheetRow(sheetItems, "A1", &itemColumns); err != nil {
		return 0, err
	}
	rowNum := 2
	for _, inv := range invoices {
		for _, li := range inv.LineItems {
			row := inv.ItemRow(li)
			cell := fmt.Sprintf("A%d", rowNum)
			if err := f.SetSheetRow(sheetItems, cell, &row); err != nil {
				return 0, err
			}
			rowNum++
		}
	}
	return rowNum - 2, nil
}
