package tests

import (
	"overcooked-delivery/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// cashRequest is 3 x 10.00 plus a 2.99 fee and 8% tax, over a 3.2 km route.
func cashRequest() domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		CustomerID:     "u-1",
		CustomerPhone:  "+49 30 1234567",
		RestaurantID:   "r1",
		RestaurantName: "Ramen Bar",
		Items: []domain.OrderItem{
			{DishID: "a", MenuItemID: "menu-12", Name: "Ramen", Quantity: 3, Price: dec("10")},
		},
		DeliveryAddress: domain.Address{Text: "1 Main St"},
		PaymentMethod:   domain.PaymentCash,
		Totals: domain.Totals{
			Subtotal:    dec("30"),
			DeliveryFee: dec("2.99"),
			Tax:         dec("2.40"),
			Total:       dec("35.39"),

			DistanceKm:      3.2,
			DurationMinutes: 14,
			Fare:            dec("4.50"),
		},
	}
}
