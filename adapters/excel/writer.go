package excel

import (
	"fmt"

	"orgrecon/domain/table"

	"github.com/xuri/excelize/v2"
)

// dataSheet is the sheet name every artifact workbook uses.
const dataSheet = "Data"

// ArtifactWriter writes derived tables as single-sheet xlsx workbooks with
// stable column order. Implements ports.ArtifactWriter.
type ArtifactWriter struct{}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter() *ArtifactWriter {
	return &ArtifactWriter{}
}

// WriteTable writes t to path as an xlsx workbook.
func (w *ArtifactWriter) WriteTable(path string, t table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), dataSheet)

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(t.Columns))
		for j, c := range t.Columns {
			cells[j] = row[c]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(dataSheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
