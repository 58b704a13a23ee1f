package interfaces

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace/noop"

	"mycelium/internal/pkg/validation"
	catalogdomain "mycelium/internal/service/catalog/domain"
	"mycelium/internal/service/production/application"
	"mycelium/internal/service/production/domain"
)

func TestWriteError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrBatchNotFound, http.StatusNotFound},
		{fmt.Errorf("batch 3: %w", domain.ErrBatchNotFound), http.StatusNotFound},
		{catalogdomain.ErrProductNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: empty scan", validation.ErrInvalidRequest), http.StatusBadRequest},
		{domain.ErrInvalidFormulation, http.StatusBadRequest},
		{domain.ErrInvalidTransition, http.StatusConflict},
		{fmt.Errorf("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, tc.err)
		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
	}
}

type emptyBatches struct{}

func (emptyBatches) Save(context.Context, *domain.Batch) error { return nil }
func (emptyBatches) FindByID(context.Context, int64) (*domain.Batch, error) {
	return nil, domain.ErrBatchNotFound
}
func (emptyBatches) FindByCode(context.Context, string) (*domain.Batch, error) {
	return nil, domain.ErrBatchNotFound
}
func (emptyBatches) List(context.Context, domain.BatchFilter) ([]*domain.Batch, error) {
	return nil, nil
}
func (emptyBatches) CountByStatus(context.Context) (map[domain.BatchStatus]int, error) {
	return map[domain.BatchStatus]int{}, nil
}

func TestProductionHandler_Routes(t *testing.T) {
	svc := application.NewProductionService(emptyBatches{}, nil, nil, nil, nil, "", noop.NewTracerProvider().Tracer("test"))
	mux := http.NewServeMux()
	NewProductionHandler(svc).RegisterRoutes(mux)

	cases := []struct {
		method, target string
		want           int
	}{
		{http.MethodGet, "/scan/MY-ABCD1234", http.StatusNotFound},
		{http.MethodGet, "/panel/batches/abc", http.StatusBadRequest},
		{http.MethodGet, "/panel/batches/5", http.StatusNotFound},
		{http.MethodGet, "/panel/batches?limit=x", http.StatusBadRequest},
		{http.MethodGet, "/panel/batches?status=BOGUS", http.StatusBadRequest},
		{http.MethodGet, "/panel/formulations/1/calculate?dryGrams=-3", http.StatusBadRequest},
		{http.MethodPost, "/panel/labels", http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.target)
	}
}
