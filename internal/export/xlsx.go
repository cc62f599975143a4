// Package export renders a finished batch as an XLSX summary workbook.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/legal-intake/internal/pipeline"
)

// BatchXLSX returns an XLSX workbook (as bytes) summarizing one batch run:
// one row per document plus a row per failure.
func BatchXLSX(result pipeline.BatchResult, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		logger.Debug("export.delete_default_sheet", "error", err)
	}

	headers := []string{
		"Source",
		"Status",
		"Document Type",
		"Pages",
		"Method",
		"Cache Hit",
		"Snippet Chars",
		"Elapsed (ms)",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for _, d := range result.Documents {
		write(1, d.Source)
		write(2, "OK")
		write(3, d.DocType.String())
		write(4, d.PageCount)
		write(5, d.Method)
		write(6, d.CacheHit)
		write(7, d.CharsUsed)
		write(8, d.ElapsedMS)
		row++
	}
	for _, e := range result.Errors {
		write(1, e.Source)
		write(2, "ERROR")
		write(9, e.Error)
		row++
	}

	summary := fmt.Sprintf("processed=%d ok=%d errors=%d model=%s generated=%s",
		result.Stats.Processed, result.Stats.OK, result.Stats.Errors,
		result.Model, result.GeneratedAt.Format(time.RFC3339))
	row++
	write(1, summary)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	logger.Info("export.xlsx_rendered",
		"rows", row-1,
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
