// internal/service/shipping/application/service.go
package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mycelium/internal/pkg/bootstrap"
	"mycelium/internal/pkg/logger"
	"mycelium/internal/pkg/metrics"
	"mycelium/internal/service/shipping/domain"
)

// ErrInvalidWeight 表示调用方传入了负的重量
var ErrInvalidWeight = errors.New("total weight must be a non-negative number of grams")

// ShippingService 在纯计算器外面加上校验、追踪和指标
type ShippingService struct {
	calc   *domain.Calculator
	tracer trace.Tracer
}

func NewShippingService(calc *domain.Calculator, tracer trace.Tracer) *ShippingService {
	return &ShippingService{calc: calc, tracer: tracer}
}

// NewCalculatorFromConfig 根据配置构建计算器，配置中没有运费表时使用内置表
func NewCalculatorFromConfig(cfg bootstrap.ShippingConfig) (*domain.Calculator, error) {
	table := domain.DefaultCostTable()
	if len(cfg.Table) > 0 {
		parsed, err := domain.ParseCostTable(cfg.Table)
		if err != nil {
			return nil, err
		}
		table = parsed
	}
	calc, err := domain.NewCalculator(cfg.OriginRegion, table)
	if err != nil {
		return nil, fmt.Errorf("build shipping calculator: %w", err)
	}
	return calc, nil
}

// Quote 计算运费。空购物车（0 克）按约定运费为 0，只要目的地有效即视为已确定。
func (s *ShippingService) Quote(ctx context.Context, region string, totalWeightGrams int64) (domain.Quote, error) {
	ctx, span := s.tracer.Start(ctx, "shipping.Quote")
	defer span.End()

	span.SetAttributes(
		attribute.String("shipping.region", region),
		attribute.Int64("shipping.weight_grams", totalWeightGrams),
	)

	if totalWeightGrams < 0 {
		span.RecordError(ErrInvalidWeight)
		return domain.Quote{}, ErrInvalidWeight
	}

	// 空购物车不收运费，但能否送达仍以运费表为准
	q := s.calc.Quote(region, totalWeightGrams)
	if totalWeightGrams == 0 {
		q.Cost = 0
	}

	span.SetAttributes(
		attribute.String("shipping.zone", string(q.Zone)),
		attribute.String("shipping.size_class", string(q.SizeClass)),
		attribute.Int64("shipping.cost", q.Cost),
		attribute.Bool("shipping.determined", q.Determined),
	)
	metrics.ShippingQuotes.WithLabelValues(string(q.Zone), string(q.SizeClass), strconv.FormatBool(q.Determined)).Inc()

	if !q.Determined {
		logger.Ctx(ctx).Debug().Str("region", region).Int64("weight_grams", totalWeightGrams).Msg("shipping cost not determined")
	}
	return q, nil
}

// Regions 返回可选的目的地列表
func (s *ShippingService) Regions() []domain.Region {
	return domain.Regions()
}

// Origin 返回发货地
func (s *ShippingService) Origin() domain.Region {
	return s.calc.Origin()
}
