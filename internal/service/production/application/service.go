// internal/service/production/application/service.go
package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"mycelium/internal/pkg/logger"
	"mycelium/internal/pkg/validation"
	catalogdomain "mycelium/internal/service/catalog/domain"
	"mycelium/internal/service/production/domain"
)

const (
	dashboardRecentBatches = 10
	dashboardRecentOrders  = 10
)

// ProductionService 是生产面板的用例集合
type ProductionService struct {
	batches      domain.BatchRepository
	formulations domain.FormulationRepository
	moods        domain.MoodEngine
	products     ProductLookup
	orders       OrderLister
	tracer       trace.Tracer

	publicBaseURL string
	now           func() time.Time
}

func NewProductionService(
	batches domain.BatchRepository,
	formulations domain.FormulationRepository,
	moods domain.MoodEngine,
	products ProductLookup,
	orders OrderLister,
	publicBaseURL string,
	tracer trace.Tracer,
) *ProductionService {
	return &ProductionService{
		batches:       batches,
		formulations:  formulations,
		moods:         moods,
		products:      products,
		orders:        orders,
		tracer:        tracer,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// CreateBatch 登记一批新接种的菌包并生成标签编码
func (s *ProductionService) CreateBatch(ctx context.Context, req *CreateBatchRequest) (*BatchView, error) {
	ctx, span := s.tracer.Start(ctx, "production.CreateBatch")
	defer span.End()

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.FormulationID > 0 {
		if _, err := s.formulations.FindByID(ctx, req.FormulationID); err != nil {
			return nil, err
		}
	}
	if req.ProductID > 0 {
		if _, err := s.products.GetProduct(ctx, req.ProductID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	inoculatedAt := now
	if req.InoculatedAt != nil {
		inoculatedAt = req.InoculatedAt.UTC()
	}
	batch := &domain.Batch{
		Code:          newBatchCode(),
		ProductID:     req.ProductID,
		Strain:        req.Strain,
		FormulationID: req.FormulationID,
		Status:        domain.StatusInoculated,
		Units:         req.Units,
		InoculatedAt:  inoculatedAt,
		Notes:         req.Notes,
	}
	if err := batch.Validate(); err != nil {
		return nil, err
	}
	if err := s.batches.Save(ctx, batch); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save batch: %w", err)
	}

	logger.Ctx(ctx).Info().Str("code", batch.Code).Str("strain", batch.Strain).Int("units", batch.Units).Msg("batch registered")
	return s.toBatchView(batch)
}

// UpdateStatus 推进批次状态
func (s *ProductionService) UpdateStatus(ctx context.Context, id int64, req *UpdateStatusRequest) (*BatchView, error) {
	ctx, span := s.tracer.Start(ctx, "production.UpdateStatus")
	defer span.End()
	span.SetAttributes(attribute.Int64("batch.id", id), attribute.String("batch.status", req.Status))

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	batch, err := s.batches.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	from := batch.Status
	if err := batch.TransitionTo(domain.BatchStatus(req.Status), req.Note, s.now()); err != nil {
		return nil, err
	}
	if err := s.batches.Save(ctx, batch); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save batch: %w", err)
	}

	logger.Ctx(ctx).Info().Str("code", batch.Code).Str("from", string(from)).Str("to", string(batch.Status)).Msg("batch status changed")
	return s.toBatchView(batch)
}

func (s *ProductionService) GetBatch(ctx context.Context, id int64) (*BatchView, error) {
	batch, err := s.batches.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toBatchView(batch)
}

func (s *ProductionService) ListBatches(ctx context.Context, status string, limit int) ([]BatchView, error) {
	filter := domain.BatchFilter{Status: domain.BatchStatus(status), Limit: limit}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", validation.ErrInvalidRequest, status)
	}
	batches, err := s.batches.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.toBatchViews(batches)
}

// Scan 解析扫码得到的内容；既接受裸编码也接受标签上的完整 URL
func (s *ProductionService) Scan(ctx context.Context, scanned string) (*BatchView, error) {
	ctx, span := s.tracer.Start(ctx, "production.Scan")
	defer span.End()

	code := normalizeScannedCode(scanned)
	span.SetAttributes(attribute.String("batch.code", code))
	if code == "" {
		return nil, fmt.Errorf("%w: empty scan", validation.ErrInvalidRequest)
	}
	batch, err := s.batches.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.toBatchView(batch)
}

// Labels 生成可打印的标签数据，顺序与请求一致
func (s *ProductionService) Labels(ctx context.Context, req *LabelsRequest) ([]LabelView, error) {
	ctx, span := s.tracer.Start(ctx, "production.Labels")
	defer span.End()

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	productNames := map[int64]string{}
	labels := make([]LabelView, 0, len(req.BatchIDs))
	for _, id := range req.BatchIDs {
		batch, err := s.batches.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", id, err)
		}
		name, err := s.productName(ctx, batch.ProductID, productNames)
		if err != nil {
			return nil, err
		}
		labels = append(labels, LabelView{
			Code:         batch.Code,
			ProductName:  name,
			Strain:       batch.Strain,
			InoculatedOn: batch.InoculatedAt.Format("2006-01-02"),
			ScanURL:      s.scanURL(batch.Code),
		})
	}
	return labels, nil
}

// Dashboard 并行加载状态统计、最近批次和最近订单
func (s *ProductionService) Dashboard(ctx context.Context) (*DashboardView, error) {
	ctx, span := s.tracer.Start(ctx, "production.Dashboard")
	defer span.End()

	var (
		counts  map[domain.BatchStatus]int
		batches []*domain.Batch
		view    = &DashboardView{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.batches.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		batches, err = s.batches.List(gctx, domain.BatchFilter{Limit: dashboardRecentBatches})
		return err
	})
	g.Go(func() error {
		var err error
		view.RecentOrders, err = s.orders.ListRecent(gctx, dashboardRecentOrders)
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	view.StatusCounts = make(map[domain.BatchStatus]int, len(domain.AllStatuses))
	for _, st := range domain.AllStatuses {
		view.StatusCounts[st] = counts[st]
		view.TotalBatches += counts[st]
	}
	recent, err := s.toBatchViews(batches)
	if err != nil {
		return nil, err
	}
	view.RecentBatches = recent
	return view, nil
}

func (s *ProductionService) CreateFormulation(ctx context.Context, req *FormulationRequest) (*FormulationView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	f := &domain.SubstrateFormulation{Name: req.Name, HydrationPc: req.HydrationPc, Notes: req.Notes}
	for _, ing := range req.Ingredients {
		f.Ingredients = append(f.Ingredients, domain.Ingredient{Name: ing.Name, Percent: ing.Percent})
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := s.formulations.Save(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save formulation: %w", err)
	}
	view := toFormulationView(f)
	return &view, nil
}

func (s *ProductionService) ListFormulations(ctx context.Context) ([]FormulationView, error) {
	list, err := s.formulations.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]FormulationView, len(list))
	for i, f := range list {
		views[i] = toFormulationView(f)
	}
	return views, nil
}

// CalculateFormulation 按干重计算一份配方的原料和水量
func (s *ProductionService) CalculateFormulation(ctx context.Context, id, totalDryGrams int64) (*domain.FormulationResult, error) {
	f, err := s.formulations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := f.Calculate(totalDryGrams)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *ProductionService) productName(ctx context.Context, productID int64, cache map[int64]string) (string, error) {
	if productID == 0 {
		return "", nil
	}
	if name, ok := cache[productID]; ok {
		return name, nil
	}
	product, err := s.products.GetProduct(ctx, productID)
	switch {
	case err == nil:
		cache[productID] = product.Name
		return product.Name, nil
	case errors.Is(err, catalogdomain.ErrProductNotFound):
		// 商品被删除不影响打印标签
		cache[productID] = ""
		return "", nil
	default:
		return "", err
	}
}

func (s *ProductionService) scanURL(code string) string {
	return s.publicBaseURL + "/scan/" + url.PathEscape(code)
}

func (s *ProductionService) toBatchView(b *domain.Batch) (*BatchView, error) {
	now := s.now()
	mood, err := s.moods.Evaluate(domain.FactsOf(b, now))
	if err != nil {
		return nil, err
	}
	return &BatchView{
		ID:            b.ID,
		Code:          b.Code,
		ProductID:     b.ProductID,
		Strain:        b.Strain,
		FormulationID: b.FormulationID,
		Status:        b.Status,
		Units:         b.Units,
		InoculatedAt:  b.InoculatedAt,
		AgeDays:       b.AgeDays(now),
		Mood:          mood,
		Notes:         b.Notes,
	}, nil
}

func (s *ProductionService) toBatchViews(batches []*domain.Batch) ([]BatchView, error) {
	views := make([]BatchView, 0, len(batches))
	for _, b := range batches {
		v, err := s.toBatchView(b)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

func newBatchCode() string {
	return "MY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// normalizeScannedCode 接受裸批次码或标签上的完整链接，去掉路径、查询参数和锚点
func normalizeScannedCode(scanned string) string {
	scanned = strings.TrimSpace(scanned)
	if u, err := url.Parse(scanned); err == nil {
		scanned = u.Path
	} else if i := strings.IndexAny(scanned, "?#"); i >= 0 {
		scanned = scanned[:i]
	}
	if i := strings.LastIndex(scanned, "/"); i >= 0 {
		scanned = scanned[i+1:]
	}
	return strings.ToUpper(scanned)
}
