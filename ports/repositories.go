package ports

import (
	"context"

	"drawdock/domain/core"
	"drawdock/domain/draw"
)

// BuilderRepository defines the interface for builder storage operations
type BuilderRepository interface {
	Create(ctx context.Context, b *draw.Builder) error
	GetByID(ctx context.Context, id core.ID) (*draw.Builder, error)
	List(ctx context.Context, limit, offset int) ([]*draw.Builder, error)
	Update(ctx context.Context, b *draw.Builder) error
	Delete(ctx context.Context, id core.ID) error
}

// ProjectRepository defines the interface for project storage operations
type ProjectRepository interface {
	Create(ctx context.Context, p *draw.Project) error
	GetByID(ctx context.Context, id core.ID) (*draw.Project, error)
	ListByBuilder(ctx context.Context, builderID core.ID) ([]*draw.Project, error)
	Update(ctx context.Context, p *draw.Project) error
	Delete(ctx context.Context, id core.ID) error
}

// DrawRepository defines the interface for draw request storage operations
type DrawRepository interface {
	Create(ctx context.Context, d *draw.DrawRequest) error
	GetByID(ctx context.Context, id core.ID) (*draw.DrawRequest, error)
	ListByProject(ctx context.Context, projectID core.ID) ([]*draw.DrawRequest, error)
	NextNumber(ctx context.Context, projectID core.ID) (int, error)
	Update(ctx context.Context, d *draw.DrawRequest) error
}

// ImportRepository defines the interface for import record storage
type ImportRepository interface {
	Create(ctx context.Context, imp *draw.Import) error
	GetByID(ctx context.Context, id core.ID) (*draw.Import, error)
	ListByProject(ctx context.Context, projectID core.ID) ([]*draw.Import, error)
	Update(ctx context.Context, imp *draw.Import) error
	UpdateStatus(ctx context.Context, id core.ID, status draw.ImportStatus, errorMsg string) error
}
