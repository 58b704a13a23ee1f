package application

import (
	"context"
	"sync"

	"mycelium/internal/service/catalog/domain"
)

type fakeProductRepo struct {
	mu       sync.Mutex
	nextID   int64
	products map[int64]*domain.Product
}

func newFakeProductRepo(products ...*domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[int64]*domain.Product{}}
	for _, p := range products {
		r.Save(context.Background(), p)
	}
	return r
}

func (r *fakeProductRepo) ListActive(ctx context.Context) ([]*domain.Product, error) {
	all, _ := r.ListAll(ctx)
	var out []*domain.Product
	for _, p := range all {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListAll(ctx context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Product
	for id := int64(1); id <= r.nextID; id++ {
		if p, ok := r.products[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) FindBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *fakeProductRepo) Save(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == 0 {
		r.nextID++
		product.ID = r.nextID
	}
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) AdjustStock(ctx context.Context, id int64, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return domain.ErrInsufficientStock
	}
	p.Stock += delta
	return nil
}

type fakeKitSettingsRepo struct {
	settings map[int64]*domain.KitSettings
}

func (r *fakeKitSettingsRepo) FindByProductID(ctx context.Context, productID int64) (*domain.KitSettings, error) {
	s, ok := r.settings[productID]
	if !ok {
		return nil, domain.ErrKitSettingsNotFound
	}
	return s, nil
}

func (r *fakeKitSettingsRepo) Save(ctx context.Context, settings *domain.KitSettings) error {
	if r.settings == nil {
		r.settings = map[int64]*domain.KitSettings{}
	}
	r.settings[settings.ProductID] = settings
	return nil
}
