// cmd/shipping-service/main.go
package main

import (
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"mycelium/internal/pkg/bootstrap"
	"mycelium/internal/service/shipping/application"
	"mycelium/internal/service/shipping/interfaces"
)

const (
	serviceName = "shipping-service"
)

var (
	tracer = otel.Tracer(serviceName)
)

func main() {
	bootstrap.Init(serviceName)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8086,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			calc, err := application.NewCalculatorFromConfig(appCtx.Config.Shipping)
			if err != nil {
				return err
			}
			service := application.NewShippingService(calc, tracer)
			interfaces.NewShippingHandler(service).RegisterRoutes(appCtx.Mux)

			log.Info().Str("origin", service.Origin().Name).Msg("shipping calculator ready")
			return nil
		},
	})
}
