// cmd/producer-panel/main.go
package main

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	"mycelium/internal/pkg/bootstrap"
	"mycelium/internal/pkg/database"
	"mycelium/internal/pkg/mq"
	catalogapp "mycelium/internal/service/catalog/application"
	cataloginfra "mycelium/internal/service/catalog/infrastructure"
	catalogif "mycelium/internal/service/catalog/interfaces"
	orderapp "mycelium/internal/service/order/application"
	orderinfra "mycelium/internal/service/order/infrastructure"
	"mycelium/internal/service/order/infrastructure/adapter"
	orderif "mycelium/internal/service/order/interfaces"
	"mycelium/internal/service/order/port"
	productionapp "mycelium/internal/service/production/application"
	"mycelium/internal/service/production/domain"
	productioninfra "mycelium/internal/service/production/infrastructure"
	"mycelium/internal/service/production/infrastructure/rule"
	productionif "mycelium/internal/service/production/interfaces"
)

const (
	serviceName = "producer-panel"

	moodRulesPollInterval = 30 * time.Second
)

var (
	tracer = otel.Tracer(serviceName)
)

func main() {
	bootstrap.Init(serviceName)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName:      serviceName,
		Port:             8082,
		RegisterHandlers: registerHandlers,
	})
}

func registerHandlers(appCtx bootstrap.AppCtx) error {
	cfg := appCtx.Config

	db, err := database.OpenMySQL(cfg.Infra.MySQL)
	if err != nil {
		return err
	}
	appCtx.OnShutdown(func(ctx context.Context) error { return database.Close(db) })
	if err := migrate(db); err != nil {
		return err
	}

	moods, err := rule.NewCELMoodEngine(moodRulesFrom(cfg.Production.MoodRules))
	if err != nil {
		return err
	}
	appCtx.Go(func(ctx context.Context) { watchMoodRules(ctx, moods, cfg.Production.MoodRules) })

	var publisher port.EventPublisher = adapter.NoopEventPublisher{}
	if cfg.App.FeatureFlags.EnableOrderEvents {
		writer := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.OrderEventsTopic)
		appCtx.OnShutdown(func(ctx context.Context) error { return writer.Close() })
		publisher = adapter.NewEventKafkaAdapter(writer)
	}

	catalogService := catalogapp.NewCatalogService(
		cataloginfra.NewGormProductRepository(db),
		cataloginfra.NewGormKitSettingsRepository(db),
		tracer,
	)
	// 面板只查询、确认和取消订单，不需要购物车、运费和支付
	orderService := orderapp.NewOrderApplicationService(orderapp.Dependencies{
		Repo:      orderinfra.NewGormOrderRepository(db),
		Inventory: catalogService,
		Publisher: publisher,
	}, tracer)
	productionService := productionapp.NewProductionService(
		productioninfra.NewGormBatchRepository(db),
		productioninfra.NewGormFormulationRepository(db),
		moods,
		catalogService,
		orderService,
		cfg.App.PublicBaseURL,
		tracer,
	)

	catalogif.NewCatalogHandler(catalogService).RegisterPanelRoutes(appCtx.Mux)
	orderif.NewOrderHandler(orderService).RegisterPanelRoutes(appCtx.Mux)
	productionif.NewProductionHandler(productionService).RegisterRoutes(appCtx.Mux)
	return nil
}

func migrate(db *gorm.DB) error {
	for _, m := range []func(*gorm.DB) error{cataloginfra.AutoMigrate, orderinfra.AutoMigrate, productioninfra.AutoMigrate} {
		if err := m(db); err != nil {
			return err
		}
	}
	return nil
}

func moodRulesFrom(cfgRules []bootstrap.MoodRuleConfig) []rule.MoodRule {
	if len(cfgRules) == 0 {
		return rule.DefaultMoodRules()
	}
	rules := make([]rule.MoodRule, len(cfgRules))
	for i, r := range cfgRules {
		rules[i] = rule.MoodRule{Mood: domain.Mood(r.Mood), Expr: r.Expr}
	}
	return rules
}

// watchMoodRules 定期检查 Nacos 下发的心情规则，有变化时热加载
func watchMoodRules(ctx context.Context, engine *rule.CELMoodEngine, applied []bootstrap.MoodRuleConfig) {
	ticker := time.NewTicker(moodRulesPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		current := bootstrap.GetCurrentConfig().Production.MoodRules
		if slices.Equal(current, applied) {
			continue
		}
		if err := engine.Reload(moodRulesFrom(current)); err != nil {
			log.Error().Err(err).Msg("rejected mood rules update, keeping previous rules")
		} else {
			log.Info().Int("rules", len(current)).Msg("mood rules reloaded")
		}
		// 失败的版本也记下来，避免每个周期重复报错
		applied = current
	}
}
