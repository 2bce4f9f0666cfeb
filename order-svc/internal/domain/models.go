package domain

import (
	"time"

	"overcooked-delivery/orderstatus"

	"github.com/shopspring/decimal"
)

const (
	PaymentCash = "CASH"
	PaymentCard = "CARD"
)

type OrderItem struct {
	DishID     string          `json:"id" validate:"required"`
	MenuItemID string          `json:"menuItemId,omitempty"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity" validate:"min=1"`
	Price      decimal.Decimal `json:"price"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Address struct {
	Text      string   `json:"text" validate:"required"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Totals carry the priced amounts and the route estimate made at checkout.
type Totals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	DistanceKm      float64         `json:"distanceKm" validate:"gte=0"`
	DurationMinutes float64         `json:"durationMinutes" validate:"gte=0"`
	Fare            decimal.Decimal `json:"fare"`
}

// CreateOrderRequest is the draft a storefront submits once checkout is done.
type CreateOrderRequest struct {
	CustomerID           string      `json:"customerId" validate:"required"`
	CustomerPhone        string      `json:"customerPhone"`
	RestaurantID         string      `json:"restaurantId" validate:"required"`
	RestaurantName       string      `json:"restaurantName"`
	Items                []OrderItem `json:"items" validate:"required,min=1,dive"`
	DeliveryAddress      Address     `json:"deliveryAddress"`
	DeliveryInstructions string      `json:"deliveryInstructions"`
	PaymentMethod        string      `json:"paymentMethod" validate:"required,oneof=CASH CARD"`
	PaymentReference     string      `json:"paymentReference"`
	Totals               Totals      `json:"totals"`
}

type Order struct {
	ID                   int64                     `json:"id"`
	TrackingID           string                    `json:"trackingId"`
	CustomerID           string                    `json:"customerId"`
	CustomerPhone        string                    `json:"customerPhone,omitempty"`
	RestaurantID         string                    `json:"restaurantId"`
	RestaurantName       string                    `json:"restaurantName,omitempty"`
	Items                []OrderItem               `json:"items,omitempty"`
	DeliveryAddress      Address                   `json:"deliveryAddress"`
	DeliveryInstructions string                    `json:"deliveryInstructions,omitempty"`
	PaymentMethod        string                    `json:"paymentMethod"`
	PaymentReference     string                    `json:"paymentReference,omitempty"`
	Subtotal             decimal.Decimal           `json:"subtotal"`
	DeliveryFee          decimal.Decimal           `json:"deliveryFee"`
	Tax                  decimal.Decimal           `json:"tax"`
	Total                decimal.Decimal           `json:"total"`
	DistanceKm           float64                   `json:"distanceKm"`
	DurationMinutes      float64                   `json:"durationMinutes"`
	DeliveryFare         decimal.Decimal           `json:"deliveryFare"`
	OrderStatus          orderstatus.OrderStatus   `json:"orderStatus"`
	PaymentStatus        orderstatus.PaymentStatus `json:"paymentStatus"`
	QRCode               string                    `json:"qrCode,omitempty"`
	CreatedAt            time.Time                 `json:"createdAt"`
	UpdatedAt            time.Time                 `json:"updatedAt"`
}

// ListFilter narrows ListOrders. Zero fields are ignored.
type ListFilter struct {
	CustomerID   string
	RestaurantID string
	Status       orderstatus.OrderStatus
}

type StatusUpdate struct {
	OrderStatus   *orderstatus.OrderStatus   `json:"orderStatus"`
	PaymentStatus *orderstatus.PaymentStatus `json:"paymentStatus"`
}

// OrderEvent is published on every status change, including creation.
type OrderEvent struct {
	OrderID       int64                     `json:"orderId"`
	TrackingID    string                    `json:"trackingId"`
	RestaurantID  string                    `json:"restaurantId"`
	OrderStatus   orderstatus.OrderStatus   `json:"orderStatus"`
	PaymentStatus orderstatus.PaymentStatus `json:"paymentStatus"`
	OccurredAt    time.Time                 `json:"occurredAt"`
}

func NewOrderEvent(order *Order, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:       order.ID,
		TrackingID:    order.TrackingID,
		RestaurantID:  order.RestaurantID,
		OrderStatus:   order.OrderStatus,
		PaymentStatus: order.PaymentStatus,
		OccurredAt:    at,
	}
}
