// cmd/notification-service/main.go
package main

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"mycelium/internal/pkg/bootstrap"
	"mycelium/internal/pkg/mq"
	"mycelium/internal/service/notification/application"
	"mycelium/internal/service/notification/interfaces"
)

const (
	serviceName = "notification-service"
)

var (
	tracer = otel.Tracer(serviceName)
)

func main() {
	bootstrap.Init(serviceName)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8083,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			kafkaCfg := appCtx.Config.Infra.Kafka

			// 启动 Kafka 消费者，HTTP 端口只用于健康检查和指标
			reader := mq.NewKafkaReader(kafkaCfg.Brokers, kafkaCfg.OrderEventsTopic, kafkaCfg.ConsumerGroup)
			appCtx.OnShutdown(func(ctx context.Context) error { return reader.Close() })

			svc := application.NewNotificationService(application.LogSender{}, tracer)
			consumer := interfaces.NewOrderEventsConsumer(reader, svc, tracer)
			appCtx.Go(consumer.Run)

			log.Info().Str("topic", kafkaCfg.OrderEventsTopic).Str("group", kafkaCfg.ConsumerGroup).Msg("notification consumer registered")
			return nil
		},
	})
}
