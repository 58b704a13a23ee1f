// cmd/storefront/main.go
package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"mycelium/internal/pkg/bootstrap"
	"mycelium/internal/pkg/database"
	"mycelium/internal/pkg/httpclient"
	"mycelium/internal/pkg/lock"
	"mycelium/internal/pkg/mq"
	"mycelium/internal/pkg/redis"
	cartapp "mycelium/internal/service/cart/application"
	cartinfra "mycelium/internal/service/cart/infrastructure"
	cartif "mycelium/internal/service/cart/interfaces"
	catalogapp "mycelium/internal/service/catalog/application"
	cataloginfra "mycelium/internal/service/catalog/infrastructure"
	catalogif "mycelium/internal/service/catalog/interfaces"
	orderapp "mycelium/internal/service/order/application"
	orderinfra "mycelium/internal/service/order/infrastructure"
	"mycelium/internal/service/order/infrastructure/adapter"
	orderif "mycelium/internal/service/order/interfaces"
	"mycelium/internal/service/order/port"
	shippingapp "mycelium/internal/service/shipping/application"
)

const (
	serviceName = "storefront"
)

var (
	tracer = otel.Tracer(serviceName)
)

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	bootstrap.Init(serviceName)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName:      serviceName,
		Port:             8080,
		RegisterHandlers: registerHandlers,
	})
}

func registerHandlers(appCtx bootstrap.AppCtx) error {
	cfg := appCtx.Config

	// --- 1. 基础设施 ---
	db, err := database.OpenMySQL(cfg.Infra.MySQL)
	if err != nil {
		return err
	}
	appCtx.OnShutdown(func(ctx context.Context) error { return database.Close(db) })
	if err := cataloginfra.AutoMigrate(db); err != nil {
		return err
	}
	if err := orderinfra.AutoMigrate(db); err != nil {
		return err
	}

	rdb, err := redis.NewClient(context.Background(), cfg.Infra.Redis.Addr, cfg.Infra.Redis.Password, cfg.Infra.Redis.DB)
	if err != nil {
		return err
	}
	appCtx.OnShutdown(func(ctx context.Context) error { return rdb.Close() })

	httpClient := httpclient.NewClient(tracer)

	// --- 2. 出站适配器 ---
	shipping, err := newShippingQuoter(cfg, httpClient)
	if err != nil {
		return err
	}

	var locker lock.Locker = lock.NoopLocker{}
	if cfg.App.FeatureFlags.EnableStockLock {
		zkLocker, err := lock.Connect(cfg.Infra.Zookeeper.Servers, cfg.Infra.Zookeeper.SessionTimeout)
		if err != nil {
			return err
		}
		appCtx.OnShutdown(func(ctx context.Context) error { zkLocker.Close(); return nil })
		locker = zkLocker
	}

	var publisher port.EventPublisher = adapter.NoopEventPublisher{}
	if cfg.App.FeatureFlags.EnableOrderEvents {
		writer := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.OrderEventsTopic)
		appCtx.OnShutdown(func(ctx context.Context) error { return writer.Close() })
		publisher = adapter.NewEventKafkaAdapter(writer)
	}

	var payment port.PaymentGateway = adapter.TransferPaymentGateway{OrderPageBase: cfg.App.PublicBaseURL}
	if cfg.Payment.GatewayURL != "" {
		payment = adapter.NewPaymentHTTPAdapter(httpClient, cfg.Payment.GatewayURL, cfg.Payment.Timeout)
	} else {
		log.Warn().Msg("payment gateway not configured, orders will wait for a bank transfer")
	}

	// --- 3. 应用服务 ---
	catalogService := catalogapp.NewCatalogService(
		cataloginfra.NewGormProductRepository(db),
		cataloginfra.NewGormKitSettingsRepository(db),
		tracer,
	)
	cartService := cartapp.NewCartService(
		cartinfra.NewRedisCartRepository(rdb.GetClient(), cfg.Infra.Redis.CartTTL),
		catalogService,
		shipping,
		tracer,
	)
	orderService := orderapp.NewOrderApplicationService(orderapp.Dependencies{
		Repo:      orderinfra.NewGormOrderRepository(db),
		Carts:     cartService,
		Shipping:  shipping,
		Inventory: catalogService,
		Locker:    locker,
		Payment:   payment,
		Publisher: publisher,
		ReturnURL: cfg.Payment.ReturnURL,
	}, tracer)

	// --- 4. 路由 ---
	catalogif.NewCatalogHandler(catalogService).RegisterStoreRoutes(appCtx.Mux)
	cartif.NewCartHandler(cartService).RegisterRoutes(appCtx.Mux)
	orderif.NewOrderHandler(orderService).RegisterRoutes(appCtx.Mux)

	log.Info().
		Bool("stock_lock", cfg.App.FeatureFlags.EnableStockLock).
		Bool("order_events", cfg.App.FeatureFlags.EnableOrderEvents).
		Msg("storefront wired")
	return nil
}

// newShippingQuoter 配置了 shipping-service 地址时远程调用，否则在进程内计算
func newShippingQuoter(cfg *bootstrap.Config, client *httpclient.Client) (port.ShippingService, error) {
	if cfg.Shipping.ServiceURL != "" {
		return adapter.NewShippingHTTPAdapter(client, cfg.Shipping.ServiceURL), nil
	}
	calc, err := shippingapp.NewCalculatorFromConfig(cfg.Shipping)
	if err != nil {
		return nil, err
	}
	return shippingapp.NewShippingService(calc, tracer), nil
}
