package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"orgrecon/domain/core"
	"orgrecon/domain/table"
	"orgrecon/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files into raw sheet grids.
// It implements ports.SheetSource and ports.TableSource.
type DataReader struct {
	log *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader() *DataReader {
	return &DataReader{log: internal.DefaultLogger}
}

// ReadSheets reads every sheet of a workbook as a raw grid, in workbook
// order. A CSV file reads as a single-sheet workbook.
func (r *DataReader) ReadSheets(path string) ([]table.Sheet, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file not found: %s", path)
	}

	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		grid, err := r.readCSV(path)
		if err != nil {
			return nil, err
		}
		return []table.Sheet{{Name: filepath.Base(path), Grid: grid}}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	var sheets []table.Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		sheets = append(sheets, table.Sheet{Name: name, Grid: rows})
	}
	r.log.Debug("[DataReader] read %d sheets from %s", len(sheets), path)
	return sheets, nil
}

// ReadTable reads an already-clean single-table file: first row is the
// header, the rest is data. Used for master mappings and edited rosters.
func (r *DataReader) ReadTable(path string) (table.Table, error) {
	sheets, err := r.ReadSheets(path)
	if err != nil {
		return table.Table{}, err
	}
	if len(sheets) == 0 || len(sheets[0].Grid) == 0 {
		return table.Table{}, fmt.Errorf("%w: %s", core.ErrEmptyInput, path)
	}

	grid := sheets[0].Grid
	columns := make([]string, len(grid[0]))
	seen := make(map[string]bool, len(grid[0]))
	for i, h := range grid[0] {
		name := strings.TrimSpace(h)
		if seen[name] {
			return table.Table{}, core.NewAmbiguousHeaderError(name)
		}
		seen[name] = true
		columns[i] = name
	}

	out := table.Table{Columns: columns}
	for _, cells := range grid[1:] {
		row := make(table.Row, len(columns))
		for i, name := range columns {
			if i < len(cells) {
				row[name] = strings.TrimSpace(cells[i])
			}
		}
		out.Rows = append(out.Rows, row)
	}
	r.log.Debug("[DataReader] table %s: %d columns, %d rows", path, len(columns), out.Len())
	return out, nil
}

func (r *DataReader) readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // raw extracts are ragged
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}
