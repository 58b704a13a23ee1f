// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Init 配置全局 zerolog logger，所有服务在 bootstrap 阶段调用一次。
func Init(serviceName, level string, pretty bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	base := zlog.Logger
	if pretty {
		base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}
	zlog.Logger = base.With().Str("service", serviceName).Logger()
}

// Ctx 从 context 中取出请求级 logger。
// 如果上游没有注入，则退回到全局 logger，保证调用方永远拿到可用的实例。
func Ctx(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &zlog.Logger
	}
	return l
}

// WithTraceID 返回一个携带 trace_id 字段的新 context。
func WithTraceID(ctx context.Context, traceID string) context.Context {
	l := zlog.With().Str("trace_id", traceID).Logger()
	return l.WithContext(ctx)
}
