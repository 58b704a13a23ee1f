package application

import (
	"context"
	"sort"
	"sync"

	catalogdomain "mycelium/internal/service/catalog/domain"
	orderapp "mycelium/internal/service/order/application"
	"mycelium/internal/service/production/domain"
)

type fakeBatchRepo struct {
	mu      sync.Mutex
	nextID  int64
	batches map[int64]*domain.Batch
}

func newFakeBatchRepo() *fakeBatchRepo {
	return &fakeBatchRepo{batches: map[int64]*domain.Batch{}}
}

func (r *fakeBatchRepo) Save(ctx context.Context, b *domain.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == 0 {
		r.nextID++
		b.ID = r.nextID
	}
	cp := *b
	r.batches[b.ID] = &cp
	return nil
}

func (r *fakeBatchRepo) FindByID(ctx context.Context, id int64) (*domain.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[id]
	if !ok {
		return nil, domain.ErrBatchNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBatchRepo) FindByCode(ctx context.Context, code string) (*domain.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.batches {
		if b.Code == code {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.ErrBatchNotFound
}

func (r *fakeBatchRepo) List(ctx context.Context, filter domain.BatchFilter) ([]*domain.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Batch
	for _, b := range r.batches {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InoculatedAt.After(out[j].InoculatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeBatchRepo) CountByStatus(ctx context.Context) (map[domain.BatchStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[domain.BatchStatus]int{}
	for _, b := range r.batches {
		counts[b.Status]++
	}
	return counts, nil
}

type fakeFormulationRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*domain.SubstrateFormulation
}

func newFakeFormulationRepo() *fakeFormulationRepo {
	return &fakeFormulationRepo{items: map[int64]*domain.SubstrateFormulation{}}
}

func (r *fakeFormulationRepo) Save(ctx context.Context, f *domain.SubstrateFormulation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ID == 0 {
		r.nextID++
		f.ID = r.nextID
	}
	cp := *f
	r.items[f.ID] = &cp
	return nil
}

func (r *fakeFormulationRepo) FindByID(ctx context.Context, id int64) (*domain.SubstrateFormulation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.items[id]
	if !ok {
		return nil, domain.ErrFormulationNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFormulationRepo) List(ctx context.Context) ([]*domain.SubstrateFormulation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.SubstrateFormulation
	for _, f := range r.items {
		cp := *f
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeProducts map[int64]*catalogdomain.Product

func (p fakeProducts) GetProduct(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	if prod, ok := p[id]; ok {
		return prod, nil
	}
	return nil, catalogdomain.ErrProductNotFound
}

type fakeOrders struct {
	orders []orderapp.OrderView
	err    error
}

func (o *fakeOrders) ListRecent(ctx context.Context, limit int) ([]orderapp.OrderView, error) {
	if o.err != nil {
		return nil, o.err
	}
	if len(o.orders) > limit {
		return o.orders[:limit], nil
	}
	return o.orders, nil
}

// statusMoods 按状态给出固定心情
type statusMoods struct{}

func (statusMoods) Evaluate(f domain.MoodFacts) (domain.Mood, error) {
	switch f.Status {
	case domain.StatusContaminated:
		return domain.MoodSick, nil
	case domain.StatusDiscarded:
		return domain.MoodGone, nil
	}
	return domain.MoodGrowing, nil
}
