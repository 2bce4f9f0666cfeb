package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"overcooked-delivery/api-gateway/internal/gateway"
	"overcooked-delivery/config"

	"github.com/rs/cors"
	"github.com/spf13/viper"
)

func main() {
	config.MustLoad("api-gateway")
	logger := config.NewLogger()
	defer logger.Sync()

	gw := gateway.NewGateway(gateway.Config{
		StorefrontURL: viper.GetString("gateway.storefront_url"),
		OrdersURL:     viper.GetString("gateway.orders_url"),
		TrackerURL:    viper.GetString("gateway.tracker_url"),
		FrontendDir:   viper.GetString("gateway.frontend_dir"),
	}, &http.Client{Timeout: viper.GetDuration("http.client_timeout")}, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   viper.GetStringSlice("http.allowed_origins"),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	srv := &http.Server{Addr: viper.GetString("http.addr"), Handler: c.Handler(gw.SetupRoutes())}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Infow("api gateway starting", "addr", srv.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("api gateway failed", "error", err)
	}
}
