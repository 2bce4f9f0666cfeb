package main

import (
	"context"
	"os/signal"
	"syscall"

	"overcooked-delivery/config"
	httpapi "overcooked-delivery/order-svc/internal/api/http"
	"overcooked-delivery/order-svc/internal/service"
	"overcooked-delivery/order-svc/internal/storage"

	"github.com/spf13/viper"
)

func main() {
	config.MustLoad("order-svc")
	viper.SetDefault("http.addr", ":8081")
	logger := config.NewLogger()
	defer logger.Sync()

	db := config.MustInitPostgres()
	defer db.Close()

	if err := storage.Migrate(db); err != nil {
		logger.Fatalw("failed to migrate orders schema", "error", err)
	}

	writer := config.NewKafkaWriter(viper.GetString("kafka.order_topic"))
	defer writer.Close()

	orderSvc := service.NewOrderService(
		storage.NewPostgresRepository(db),
		service.DefaultQRGenerator{BaseURL: viper.GetString("tracking.base_url")},
		storage.NewKafkaPublisher(writer),
		logger,
	)
	router := httpapi.NewRouter(httpapi.NewHandler(orderSvc, logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := httpapi.StartServer(ctx, viper.GetString("http.addr"), router, logger); err != nil {
		logger.Fatalw("order service failed", "error", err)
	}
}
