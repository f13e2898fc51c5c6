// Package export renders query results as spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"hrdocs/internal/index"
	"hrdocs/internal/query"
	"hrdocs/internal/taxonomy"
)

const (
	DocumentsSheet = "Documents"
	SummarySheet   = "Summary"

	// ContentType is the MIME type of the workbook written by WriteXLSX.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var documentHeader = []any{
	"Document", "Type", "Category", "Parent", "Parent Kind", "File Name",
	"Size", "MIME Type", "Status", "Uploaded At", "Reviewed At", "Notes",
}

// WriteXLSX writes one row per result item to the Documents sheet and the
// per-category counts to the Summary sheet.
func WriteXLSX(w io.Writer, res query.Result, generatedAt time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DocumentsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	if err := f.SetSheetRow(DocumentsSheet, "A1", &documentHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(DocumentsSheet, 1, 1, bold); err != nil {
		return err
	}
	for i, e := range res.Items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := documentRow(e)
		if err := f.SetSheetRow(DocumentsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(DocumentsSheet, "A", "L", 20); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &[]any{"Category", "Documents"}); err != nil {
		return err
	}
	if err := f.SetRowStyle(SummarySheet, 1, 1, bold); err != nil {
		return err
	}
	total := 0
	for i, c := range taxonomy.Categories() {
		n := res.Counts[c]
		total += n
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SummarySheet, cell, &[]any{string(c), n}); err != nil {
			return err
		}
	}
	next := len(taxonomy.Categories()) + 2
	trailer := [][]any{
		{"Total", total},
		{"Exported", res.Total},
		{"Generated At", generatedAt.UTC().Format(time.RFC3339)},
	}
	for i, row := range trailer {
		cell, _ := excelize.CoordinatesToCellName(1, next+i)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SummarySheet, "A", "B", 22); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func documentRow(e index.Entry) []any {
	reviewed := ""
	if e.ReviewedAt != nil {
		reviewed = e.ReviewedAt.UTC().Format(time.RFC3339)
	}
	return []any{
		e.Name,
		taxonomy.LabelOf(e.Type),
		string(e.Category()),
		e.ParentName,
		string(e.ParentKind),
		e.FileName,
		index.SizeLabel(e.FileSize),
		e.MimeType,
		string(e.Status),
		e.UploadedAt.UTC().Format(time.RFC3339),
		reviewed,
		e.Notes,
	}
}
