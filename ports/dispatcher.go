package ports

import (
	"context"

	"drawdock/domain/core"
	"drawdock/domain/ingest"
)

// FundingDispatcher ships a confirmed extraction to the downstream
// draw-funding workflow
type FundingDispatcher interface {
	Dispatch(ctx context.Context, importID core.ID, importType ingest.ImportType, items []ingest.LineItem) error
}
