package domain

import (
	"strings"
	"time"

	"overcooked-delivery/apperr"
	"overcooked-delivery/orderstatus"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToUpper(s)) {
	case PaymentCash:
		return PaymentCash, nil
	case PaymentCard:
		return PaymentCard, nil
	}
	return "", apperr.Validation("unsupported payment method %q", s)
}

type Address struct {
	Text      string   `json:"text"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// DeliveryRoute is the route estimate shown at checkout: distance in
// kilometres, travel time in minutes and the courier fare for the trip.
type DeliveryRoute struct {
	DistanceKm      float64         `json:"distanceKm"`
	DurationMinutes float64         `json:"durationMinutes"`
	Fare            decimal.Decimal `json:"fare"`
}

// DraftTotals are the cart totals frozen at checkout plus the route estimate.
type DraftTotals struct {
	Totals
	DeliveryRoute
}

type OrderDraft struct {
	CustomerID           string        `json:"customerId"`
	CustomerPhone        string        `json:"customerPhone,omitempty"`
	RestaurantID         string        `json:"restaurantId"`
	RestaurantName       string        `json:"restaurantName,omitempty"`
	Items                []CartLine    `json:"items"`
	DeliveryAddress      Address       `json:"deliveryAddress"`
	DeliveryInstructions string        `json:"deliveryInstructions,omitempty"`
	PaymentMethod        PaymentMethod `json:"paymentMethod"`
	PaymentReference     string        `json:"paymentReference,omitempty"`
	Totals               DraftTotals   `json:"totals"`
	// SubmittedOrderID is set once the order API accepted the draft.
	SubmittedOrderID int64 `json:"submittedOrderId,omitempty"`
}

// Clone returns a copy that shares no slices or pointers with d.
func (d OrderDraft) Clone() OrderDraft {
	out := d
	out.Items = append([]CartLine(nil), d.Items...)
	if d.DeliveryAddress.Latitude != nil {
		lat := *d.DeliveryAddress.Latitude
		out.DeliveryAddress.Latitude = &lat
	}
	if d.DeliveryAddress.Longitude != nil {
		lng := *d.DeliveryAddress.Longitude
		out.DeliveryAddress.Longitude = &lng
	}
	return out
}

type PaymentIntentRequest struct {
	Amount       decimal.Decimal
	CustomerName string
	Description  string
	Metadata     map[string]string
}

type PaymentIntent struct {
	ID           string          `json:"paymentIntentId"`
	ClientSecret string          `json:"clientSecret"`
	Status       string          `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
}

const PaymentIntentSucceeded = "succeeded"

// Order is the record returned by the order API after a draft is submitted.
type Order struct {
	ID            int64                     `json:"id"`
	TrackingID    string                    `json:"trackingId"`
	CustomerID    string                    `json:"customerId"`
	RestaurantID  string                    `json:"restaurantId"`
	Total         decimal.Decimal           `json:"total"`
	PaymentMethod PaymentMethod             `json:"paymentMethod"`
	OrderStatus   orderstatus.OrderStatus   `json:"orderStatus"`
	PaymentStatus orderstatus.PaymentStatus `json:"paymentStatus"`
	QRCode        string                    `json:"qrCode,omitempty"`
	CreatedAt     time.Time                 `json:"createdAt"`
}
