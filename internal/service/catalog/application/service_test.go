package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"mycelium/internal/pkg/validation"
	"mycelium/internal/service/catalog/domain"
)

func newTestCatalog(products ...*domain.Product) (*CatalogService, *fakeProductRepo, *fakeKitSettingsRepo) {
	repo := newFakeProductRepo(products...)
	settings := &fakeKitSettingsRepo{}
	return NewCatalogService(repo, settings, noop.NewTracerProvider().Tracer("test")), repo, settings
}

func ostra() *domain.Product {
	return &domain.Product{Slug: "kit-ostra", Name: "Kit Ostra Gris", PriceCLP: 14990, WeightGrams: 2500, Stock: 10, Active: true}
}

func TestCatalogService_ListProducts(t *testing.T) {
	hidden := &domain.Product{Slug: "kit-melena", Name: "Kit Melena de León", PriceCLP: 19990, WeightGrams: 2500, Stock: 3}
	svc, _, _ := newTestCatalog(ostra(), hidden)

	active, err := svc.ListProducts(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "kit-ostra", active[0].Slug)

	all, err := svc.ListProducts(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalogService_GetKit(t *testing.T) {
	svc, _, settings := newTestCatalog(ostra())

	kit, err := svc.GetKit(context.Background(), "kit-ostra")
	require.NoError(t, err)
	assert.Nil(t, kit.Settings)

	settings.Save(context.Background(), &domain.KitSettings{ProductID: 1, Species: "Pleurotus ostreatus", SubstrateGrams: 2000, FruitingDays: 14})
	kit, err = svc.GetKit(context.Background(), "kit-ostra")
	require.NoError(t, err)
	require.NotNil(t, kit.Settings)
	assert.Equal(t, "Pleurotus ostreatus", kit.Settings.Species)

	_, err = svc.GetKit(context.Background(), "kit-missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogService_GetKitHidesInactive(t *testing.T) {
	p := ostra()
	p.Active = false
	svc, _, _ := newTestCatalog(p)

	_, err := svc.GetKit(context.Background(), "kit-ostra")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCatalogService_CreateAndUpdate(t *testing.T) {
	svc, repo, _ := newTestCatalog()

	view, err := svc.CreateProduct(context.Background(), &ProductRequest{
		Slug: "kit-shiitake", Name: "Kit Shiitake", PriceCLP: 17990, WeightGrams: 3000, Stock: 5, Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.ID)

	_, err = svc.CreateProduct(context.Background(), &ProductRequest{Slug: "Kit Shiitake", Name: "x", PriceCLP: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	_, err = svc.CreateProduct(context.Background(), &ProductRequest{Slug: "kit-x", Name: "x", PriceCLP: 0})
	assert.ErrorIs(t, err, validation.ErrInvalidRequest)

	updated, err := svc.UpdateProduct(context.Background(), 1, &ProductRequest{
		Slug: "kit-shiitake", Name: "Kit Shiitake XL", PriceCLP: 21990, WeightGrams: 4000, Stock: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Kit Shiitake XL", updated.Name)
	stored, _ := repo.FindByID(context.Background(), 1)
	assert.False(t, stored.Active)
}

func TestCatalogService_Stock(t *testing.T) {
	svc, repo, _ := newTestCatalog(ostra())

	require.NoError(t, svc.ReserveStock(context.Background(), 1, 4))
	p, _ := repo.FindByID(context.Background(), 1)
	assert.Equal(t, 6, p.Stock)

	assert.ErrorIs(t, svc.ReserveStock(context.Background(), 1, 7), domain.ErrInsufficientStock)

	require.NoError(t, svc.ReleaseStock(context.Background(), 1, 4))
	p, _ = repo.FindByID(context.Background(), 1)
	assert.Equal(t, 10, p.Stock)
}

func TestCatalogService_SaveKitSettings(t *testing.T) {
	svc, _, _ := newTestCatalog(ostra())

	view, err := svc.SaveKitSettings(context.Background(), 1, &KitSettingsRequest{
		Species: "Pleurotus ostreatus", SubstrateGrams: 2000, SpawnGrams: 300, FruitingDays: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(300), view.SpawnGrams)

	_, err = svc.SaveKitSettings(context.Background(), 99, &KitSettingsRequest{Species: "x", SubstrateGrams: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
