package domain

import "context"

// BatchFilter 为空表示不过滤
type BatchFilter struct {
	Status BatchStatus
	Limit  int
}

type BatchRepository interface {
	Save(ctx context.Context, batch *Batch) error
	FindByID(ctx context.Context, id int64) (*Batch, error)
	FindByCode(ctx context.Context, code string) (*Batch, error)
	List(ctx context.Context, filter BatchFilter) ([]*Batch, error)
	CountByStatus(ctx context.Context) (map[BatchStatus]int, error)
}

type FormulationRepository interface {
	Save(ctx context.Context, f *SubstrateFormulation) error
	FindByID(ctx context.Context, id int64) (*SubstrateFormulation, error)
	List(ctx context.Context) ([]*SubstrateFormulation, error)
}
