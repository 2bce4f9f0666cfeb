package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"overcooked-delivery/config"
	httpapi "overcooked-delivery/storefront-svc/internal/api/http"
	"overcooked-delivery/storefront-svc/internal/client"
	"overcooked-delivery/storefront-svc/internal/domain"
	"overcooked-delivery/storefront-svc/internal/service"
	"overcooked-delivery/storefront-svc/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

func main() {
	config.MustLoad("storefront-svc")
	viper.SetDefault("http.addr", ":8084")
	logger := config.NewLogger()
	defer logger.Sync()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	pricing := domain.Pricing{
		DeliveryFee: decimal.RequireFromString(viper.GetString("pricing.delivery_fee")),
		TaxRate:     decimal.RequireFromString(viper.GetString("pricing.tax_rate")),
	}

	sessions := storage.NewRedisStorage(rdb, viper.GetDuration("session.ttl"))
	httpClient := &http.Client{Timeout: viper.GetDuration("http.client_timeout")}

	loader := service.NewStorefrontLoader(
		func(sessionID string) service.LocalStorage { return sessions.ForSession(sessionID) },
		client.NewAuthClient(viper.GetString("auth.url"), httpClient),
		pricing,
		logger,
	)
	checkout := service.NewCheckoutService(
		client.NewStripeGateway(viper.GetString("stripe.secret_key"), viper.GetString("pricing.currency")),
		client.NewOrderClient(viper.GetString("orders.url"), httpClient),
		logger,
	)
	cookies := httpapi.NewSessionCookies(
		viper.GetString("session.secret"),
		viper.GetDuration("session.ttl"),
		viper.GetBool("session.secure_cookie"),
	)

	handler := httpapi.NewHandler(loader, checkout, cookies, logger)
	router := httpapi.NewRouter(handler, viper.GetStringSlice("http.allowed_origins"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := httpapi.StartServer(ctx, viper.GetString("http.addr"), router, logger); err != nil {
		logger.Fatalw("storefront service failed", "error", err)
	}
}
