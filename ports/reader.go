package ports

import (
	"orgrecon/domain/table"
)

// SheetSource reads a raw multi-sheet workbook into grids, preserving sheet
// order so the normalizer's tie-break stays stable. Implementations own all
// file-format concerns; the engine never sees a file path.
type SheetSource interface {
	ReadSheets(path string) ([]table.Sheet, error)
}

// TableSource reads an already-clean single table (header row first), used
// for master mappings and re-submitted edited rosters.
type TableSource interface {
	ReadTable(path string) (table.Table, error)
}
