// Package ports defines the interfaces between the application core and
// its adapters: spreadsheet decoding, persistence, and the downstream
// funding workflow.
package ports

import (
	"drawdock/domain/sheet"
)

// SheetDecoder turns a spreadsheet file on disk into the typed grid the
// ingestion heuristics consume. The style grid is nil when the source
// format carries no styling (CSV).
type SheetDecoder interface {
	ReadSheet() (*sheet.Grid, sheet.StyleGrid, error)
}
