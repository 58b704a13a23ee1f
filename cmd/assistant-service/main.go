// cmd/assistant-service/main.go
package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"mycelium/internal/pkg/bootstrap"
	"mycelium/internal/pkg/database"
	assistantapp "mycelium/internal/service/assistant/application"
	assistantinfra "mycelium/internal/service/assistant/infrastructure"
	assistantif "mycelium/internal/service/assistant/interfaces"
	catalogapp "mycelium/internal/service/catalog/application"
	cataloginfra "mycelium/internal/service/catalog/infrastructure"
	productionapp "mycelium/internal/service/production/application"
	productioninfra "mycelium/internal/service/production/infrastructure"
	"mycelium/internal/service/production/infrastructure/rule"
)

const (
	serviceName = "assistant-service"
)

var (
	tracer = otel.Tracer(serviceName)
)

func main() {
	bootstrap.Init(serviceName)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName:      serviceName,
		Port:             8084,
		RegisterHandlers: registerHandlers,
	})
}

func registerHandlers(appCtx bootstrap.AppCtx) error {
	cfg := appCtx.Config

	llm, err := assistantinfra.NewGenAIClient(context.Background(), cfg.AI)
	if err != nil {
		return err
	}

	db, err := database.OpenMySQL(cfg.Infra.MySQL)
	if err != nil {
		return err
	}
	appCtx.OnShutdown(func(ctx context.Context) error { return database.Close(db) })

	moods, err := rule.NewCELMoodEngine(rule.DefaultMoodRules())
	if err != nil {
		return err
	}
	catalogService := catalogapp.NewCatalogService(
		cataloginfra.NewGormProductRepository(db),
		cataloginfra.NewGormKitSettingsRepository(db),
		tracer,
	)
	// 只读取批次，不需要订单
	productionService := productionapp.NewProductionService(
		productioninfra.NewGormBatchRepository(db),
		productioninfra.NewGormFormulationRepository(db),
		moods,
		catalogService,
		nil,
		cfg.App.PublicBaseURL,
		tracer,
	)

	assistant := assistantapp.NewAssistantService(llm, productionService, catalogService, tracer)
	routes := http.NewServeMux()
	assistantif.NewAssistantHandler(assistant).RegisterRoutes(routes)
	appCtx.Mux.Handle("/ai/", requireAIFlag(routes))

	log.Info().Str("text_model", cfg.AI.TextModel).Msg("assistant wired")
	return nil
}

// requireAIFlag 在功能开关关闭时直接返回 503，开关可以通过 Nacos 热更新
func requireAIFlag(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !bootstrap.GetCurrentConfig().App.FeatureFlags.EnableAIAssistant {
			http.Error(w, "assistant is disabled", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}
