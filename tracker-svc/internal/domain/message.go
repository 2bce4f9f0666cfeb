package domain

import (
	"time"

	"overcooked-delivery/orderstatus"
)

// OrderEvent is the message order-svc publishes on every status change.
type OrderEvent struct {
	OrderID       int64                     `json:"orderId"`
	TrackingID    string                    `json:"trackingId"`
	RestaurantID  string                    `json:"restaurantId"`
	OrderStatus   orderstatus.OrderStatus   `json:"orderStatus"`
	PaymentStatus orderstatus.PaymentStatus `json:"paymentStatus"`
	OccurredAt    time.Time                 `json:"occurredAt"`
}

// Snapshot is the latest known state of an order as shown on the tracking page.
type Snapshot struct {
	OrderID              int64                     `json:"orderId"`
	TrackingID           string                    `json:"trackingId"`
	OrderStatus          orderstatus.OrderStatus   `json:"orderStatus"`
	PaymentStatus        orderstatus.PaymentStatus `json:"paymentStatus"`
	OrderStatusDisplay   orderstatus.Presentation  `json:"orderStatusDisplay"`
	PaymentStatusDisplay orderstatus.Presentation  `json:"paymentStatusDisplay"`
	UpdatedAt            time.Time                 `json:"updatedAt"`
}

// NewSnapshot resolves the display of both statuses. Unknown statuses are
// integrity errors.
func NewSnapshot(event OrderEvent) (Snapshot, error) {
	orderDisplay, err := event.OrderStatus.Present()
	if err != nil {
		return Snapshot{}, err
	}
	paymentDisplay, err := event.PaymentStatus.Present()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		OrderID:              event.OrderID,
		TrackingID:           event.TrackingID,
		OrderStatus:          event.OrderStatus,
		PaymentStatus:        event.PaymentStatus,
		OrderStatusDisplay:   orderDisplay,
		PaymentStatusDisplay: paymentDisplay,
		UpdatedAt:            event.OccurredAt,
	}, nil
}
