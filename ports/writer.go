package ports

import (
	"orgrecon/domain/table"
)

// ArtifactWriter persists derived artifacts (roster, joined mapping,
// propagated mapping) as flat tables with stable column order.
type ArtifactWriter interface {
	WriteTable(path string, t table.Table) error
}
