// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"mycelium/internal/pkg/logger"
	"mycelium/internal/pkg/nacos"
	"mycelium/internal/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

var nacosClient *nacos.Client

// AppCtx 是注册路由时可用的公共依赖
type AppCtx struct {
	Mux    *http.ServeMux
	Nacos  *nacos.Client
	Config *Config

	root    context.Context
	wg      *sync.WaitGroup
	closers *[]func(ctx context.Context) error
}

// OnShutdown 注册一个关停钩子，按注册的逆序执行
func (a AppCtx) OnShutdown(fn func(ctx context.Context) error) {
	*a.closers = append(*a.closers, fn)
}

// Go 启动一个后台任务（例如 Kafka 消费者），服务关停时其 context 会被取消
func (a AppCtx) Go(fn func(ctx context.Context)) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		fn(a.root)
	}()
}

// AppInfo 包含了启动一个微服务所需的所有特定信息。
type AppInfo struct {
	ServiceName      string
	Port             int
	RegisterHandlers func(appCtx AppCtx) error
}

// Init 加载配置并初始化日志，所有 main 函数第一步调用。
func Init(serviceName string) *Config {
	cfg, err := LoadConfig(getEnv("CONFIG_PATH", "configs/config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(serviceName, cfg.Log.Level, cfg.Log.Pretty)

	if cfg.Infra.Nacos.Enabled {
		nacosClient, err = nacos.NewClient(cfg.Infra.Nacos.ServerAddrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize nacos client")
		}
		cfg = loadRemoteConfig(nacosClient, cfg)
	}

	setCurrentConfig(cfg)
	return cfg
}

// loadRemoteConfig 合并 Nacos 上的配置，并监听后续变更
func loadRemoteConfig(client *nacos.Client, local *Config) *Config {
	dataID := local.Infra.Nacos.DataID
	content, err := client.GetConfig(dataID)
	if err != nil || content == "" {
		log.Warn().Err(err).Str("data_id", dataID).Msg("remote config unavailable, using local config")
		return local
	}
	merged, err := MergeYAML(local, content)
	if err != nil {
		log.Error().Err(err).Msg("invalid remote config, using local config")
		return local
	}

	err = client.ListenConfig(dataID, func(content string) {
		next, err := MergeYAML(local, content)
		if err != nil {
			log.Error().Err(err).Msg("ignoring invalid remote config update")
			return
		}
		setCurrentConfig(next)
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to listen for remote config changes")
	}
	return merged
}

// StartService 封装了所有微服务的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	cfg := GetCurrentConfig()

	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint, cfg.Infra.Jaeger.SampleRatio)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	root, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		wg      sync.WaitGroup
		closers []func(ctx context.Context) error
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("GET /metrics", promhttp.Handler())

	if info.RegisterHandlers != nil {
		appCtx := AppCtx{Mux: mux, Nacos: nacosClient, Config: cfg, root: root, wg: &wg, closers: &closers}
		if err := info.RegisterHandlers(appCtx); err != nil {
			log.Fatal().Err(err).Msgf("failed to register handlers for %s", info.ServiceName)
		}
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(info.Port),
		Handler:           WithTraceLogger(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Msgf("%s listening on :%d", info.ServiceName, info.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msgf("could not listen on %s", server.Addr)
		}
	}()

	var ip string
	if nacosClient != nil {
		ip, err = GetOutboundIP()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get outbound IP address")
		}
		if err := nacosClient.RegisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to register service with nacos")
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msgf("Shutting down service %s...", info.ServiceName)

	ctx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	// 关停顺序: 注销实例 -> 停止 HTTP -> 停止后台任务 -> 关闭钩子(后进先出) -> Tracer
	if nacosClient != nil {
		if err := nacosClient.DeregisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			log.Error().Err(err).Msg("Error deregistering from Nacos")
		}
		nacosClient.Close()
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down http server")
	}

	cancel()
	wg.Wait()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			log.Error().Err(err).Msg("Error running shutdown hook")
		}
	}

	if err := tp.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down tracer provider")
	}

	log.Info().Msgf("Service %s gracefully shut down.", info.ServiceName)
}

// WithTraceLogger 提取上游的追踪上下文，并把带 trace_id 的 logger 注入到请求 context
func WithTraceLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx = logger.WithTraceID(ctx, tracing.GetTraceIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetOutboundIP 返回本机对外通信使用的 IP，用于服务注册
func GetOutboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
