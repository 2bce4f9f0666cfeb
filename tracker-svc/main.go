package main

import (
	"context"
	"os/signal"
	"syscall"

	"overcooked-delivery/config"
	httpapi "overcooked-delivery/tracker-svc/internal/api/http"
	"overcooked-delivery/tracker-svc/internal/service"
	"overcooked-delivery/tracker-svc/internal/storage"

	"github.com/spf13/viper"
)

func main() {
	config.MustLoad("tracker-svc")
	viper.SetDefault("http.addr", ":8085")
	viper.SetDefault("tracking.snapshot_ttl", "72h")
	logger := config.NewLogger()
	defer logger.Sync()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader(viper.GetString("kafka.order_topic"), viper.GetString("kafka.tracker_group"))
	defer reader.Close()

	store := storage.NewStore(rdb, viper.GetDuration("tracking.snapshot_ttl"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go service.NewConsumer(reader, store, logger).Start(ctx)

	router := httpapi.NewRouter(httpapi.NewHandler(service.NewTrackingService(store), logger))
	if err := httpapi.StartServer(ctx, viper.GetString("http.addr"), router, logger); err != nil {
		logger.Fatalw("tracker service failed", "error", err)
	}
}
