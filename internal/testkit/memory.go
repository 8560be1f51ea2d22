package testkit

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"drawdock/domain/core"
	"drawdock/domain/draw"
	"drawdock/domain/sheet"
	"drawdock/ports"
)

// StubDecoder serves a fixed grid, standing in for the file decoder
type StubDecoder struct {
	Grid   *sheet.Grid
	Styles sheet.StyleGrid
	Err    error
}

func (d *StubDecoder) ReadSheet() (*sheet.Grid, sheet.StyleGrid, error) {
	if d.Err != nil {
		return nil, nil, d.Err
	}
	return d.Grid, d.Styles, nil
}

var _ ports.SheetDecoder = (*StubDecoder)(nil)

// MemoryStore holds all aggregates in maps behind one mutex. It
// implements every repository port for service-level tests.
type MemoryStore struct {
	mu       sync.RWMutex
	builders map[core.ID]*draw.Builder
	projects map[core.ID]*draw.Project
	draws    map[core.ID]*draw.DrawRequest
	imports  map[core.ID]*draw.Import
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		builders: make(map[core.ID]*draw.Builder),
		projects: make(map[core.ID]*draw.Project),
		draws:    make(map[core.ID]*draw.DrawRequest),
		imports:  make(map[core.ID]*draw.Import),
	}
}

// Builders returns the store as a BuilderRepository
func (s *MemoryStore) Builders() ports.BuilderRepository { return (*memoryBuilders)(s) }

// Projects returns the store as a ProjectRepository
func (s *MemoryStore) Projects() ports.ProjectRepository { return (*memoryProjects)(s) }

// Draws returns the store as a DrawRepository
func (s *MemoryStore) Draws() ports.DrawRepository { return (*memoryDraws)(s) }

// Imports returns the store as an ImportRepository
func (s *MemoryStore) Imports() ports.ImportRepository { return (*memoryImports)(s) }

type memoryBuilders MemoryStore

func (s *memoryBuilders) Create(ctx context.Context, b *draw.Builder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *b
	s.builders[b.ID] = &copied
	return nil
}

func (s *memoryBuilders) GetByID(ctx context.Context, id core.ID) (*draw.Builder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.builders[id]
	if !ok {
		return nil, fmt.Errorf("builder not found: %s", id)
	}
	copied := *b
	return &copied, nil
}

func (s *memoryBuilders) List(ctx context.Context, limit, offset int) ([]*draw.Builder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*draw.Builder, 0, len(s.builders))
	for _, b := range s.builders {
		copied := *b
		all = append(all, &copied)
	}
	// Name order with limit/offset, matching the SQL repository
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return []*draw.Builder{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (s *memoryBuilders) Update(ctx context.Context, b *draw.Builder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.builders[b.ID]; !ok {
		return fmt.Errorf("builder not found: %s", b.ID)
	}
	copied := *b
	s.builders[b.ID] = &copied
	return nil
}

func (s *memoryBuilders) Delete(ctx context.Context, id core.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.builders, id)
	return nil
}

type memoryProjects MemoryStore

func (s *memoryProjects) Create(ctx context.Context, p *draw.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *p
	s.projects[p.ID] = &copied
	return nil
}

func (s *memoryProjects) GetByID(ctx context.Context, id core.ID) (*draw.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project not found: %s", id)
	}
	copied := *p
	return &copied, nil
}

func (s *memoryProjects) ListByBuilder(ctx context.Context, builderID core.ID) ([]*draw.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*draw.Project
	for _, p := range s.projects {
		if p.BuilderID == builderID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memoryProjects) Update(ctx context.Context, p *draw.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; !ok {
		return fmt.Errorf("project not found: %s", p.ID)
	}
	copied := *p
	s.projects[p.ID] = &copied
	return nil
}

func (s *memoryProjects) Delete(ctx context.Context, id core.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.projects, id)
	return nil
}

type memoryDraws MemoryStore

func (s *memoryDraws) Create(ctx context.Context, d *draw.DrawRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *d
	s.draws[d.ID] = &copied
	return nil
}

func (s *memoryDraws) GetByID(ctx context.Context, id core.ID) (*draw.DrawRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.draws[id]
	if !ok {
		return nil, fmt.Errorf("draw request not found: %s", id)
	}
	copied := *d
	return &copied, nil
}

func (s *memoryDraws) ListByProject(ctx context.Context, projectID core.ID) ([]*draw.DrawRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*draw.DrawRequest
	for _, d := range s.draws {
		if d.ProjectID == projectID {
			copied := *d
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memoryDraws) NextNumber(ctx context.Context, projectID core.ID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := 0
	for _, d := range s.draws {
		if d.ProjectID == projectID && d.Number > max {
			max = d.Number
		}
	}
	return max + 1, nil
}

func (s *memoryDraws) Update(ctx context.Context, d *draw.DrawRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.draws[d.ID]; !ok {
		return fmt.Errorf("draw request not found: %s", d.ID)
	}
	copied := *d
	s.draws[d.ID] = &copied
	return nil
}

type memoryImports MemoryStore

func (s *memoryImports) Create(ctx context.Context, imp *draw.Import) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *imp
	s.imports[imp.ID] = &copied
	return nil
}

func (s *memoryImports) GetByID(ctx context.Context, id core.ID) (*draw.Import, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	imp, ok := s.imports[id]
	if !ok {
		return nil, fmt.Errorf("import not found: %s", id)
	}
	copied := *imp
	return &copied, nil
}

func (s *memoryImports) ListByProject(ctx context.Context, projectID core.ID) ([]*draw.Import, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*draw.Import
	for _, imp := range s.imports {
		if imp.ProjectID == projectID {
			copied := *imp
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *memoryImports) Update(ctx context.Context, imp *draw.Import) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.imports[imp.ID]; !ok {
		return fmt.Errorf("import not found: %s", imp.ID)
	}
	copied := *imp
	s.imports[imp.ID] = &copied
	return nil
}

func (s *memoryImports) UpdateStatus(ctx context.Context, id core.ID, status draw.ImportStatus, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	imp, ok := s.imports[id]
	if !ok {
		return fmt.Errorf("import not found: %s", id)
	}
	imp.Status = status
	imp.ErrorMessage = errorMsg
	return nil
}
