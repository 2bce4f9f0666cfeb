// Package orderstatus defines the closed order and payment status sets, how
// each value is presented to users and which transitions between them are legal.
package orderstatus

import (
	"encoding/json"

	"overcooked-delivery/apperr"
)

type OrderStatus string

const (
	Placed         OrderStatus = "PLACED"
	Accepted       OrderStatus = "ACCEPTED"
	Preparing      OrderStatus = "PREPARING"
	ReadyForPickup OrderStatus = "READY_FOR_PICKUP"
	PickedUp       OrderStatus = "PICKED_UP"
	OnTheWay       OrderStatus = "ON_THE_WAY"
	Delivered      OrderStatus = "DELIVERED"
	Cancelled      OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Emphasis is the visual class a status badge is rendered with.
type Emphasis string

const (
	EmphasisNeutral  Emphasis = "neutral"
	EmphasisInfo     Emphasis = "info"
	EmphasisProgress Emphasis = "progress"
	EmphasisWarning  Emphasis = "warning"
	EmphasisSuccess  Emphasis = "success"
	EmphasisDanger   Emphasis = "danger"
)

type Presentation struct {
	Label    string   `json:"label"`
	Emphasis Emphasis `json:"emphasis"`
}

// lifecycle is the forward order of non-cancelled statuses.
var lifecycle = []OrderStatus{Placed, Accepted, Preparing, ReadyForPickup, PickedUp, OnTheWay, Delivered}

func OrderStatuses() []OrderStatus {
	return append(append([]OrderStatus(nil), lifecycle...), Cancelled)
}

func PaymentStatuses() []PaymentStatus {
	return []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded}
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, err := status.Present(); err != nil {
		return "", err
	}
	return status, nil
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if _, err := status.Present(); err != nil {
		return "", err
	}
	return status, nil
}

func (s OrderStatus) Present() (Presentation, error) {
	switch s {
	case Placed:
		return Presentation{Label: "Order placed", Emphasis: EmphasisInfo}, nil
	case Accepted:
		return Presentation{Label: "Accepted", Emphasis: EmphasisInfo}, nil
	case Preparing:
		return Presentation{Label: "Preparing", Emphasis: EmphasisProgress}, nil
	case ReadyForPickup:
		return Presentation{Label: "Ready for pickup", Emphasis: EmphasisWarning}, nil
	case PickedUp:
		return Presentation{Label: "Picked up", Emphasis: EmphasisProgress}, nil
	case OnTheWay:
		return Presentation{Label: "On the way", Emphasis: EmphasisProgress}, nil
	case Delivered:
		return Presentation{Label: "Delivered", Emphasis: EmphasisSuccess}, nil
	case Cancelled:
		return Presentation{Label: "Cancelled", Emphasis: EmphasisDanger}, nil
	}
	return Presentation{}, apperr.Integrity("unknown order status %q", string(s))
}

func (s PaymentStatus) Present() (Presentation, error) {
	switch s {
	case PaymentPending:
		return Presentation{Label: "Payment pending", Emphasis: EmphasisWarning}, nil
	case PaymentPaid:
		return Presentation{Label: "Paid", Emphasis: EmphasisSuccess}, nil
	case PaymentFailed:
		return Presentation{Label: "Payment failed", Emphasis: EmphasisDanger}, nil
	case PaymentRefunded:
		return Presentation{Label: "Refunded", Emphasis: EmphasisNeutral}, nil
	}
	return Presentation{}, apperr.Integrity("unknown payment status %q", string(s))
}

func (s OrderStatus) Terminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether an order may move from s to next. Statuses
// only move forward; any non-terminal order may be cancelled.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() || s == next {
		return false
	}
	if next == Cancelled {
		return true
	}
	from, to := s.rank(), next.rank()
	return from >= 0 && to > from
}

func (s OrderStatus) rank() int {
	for i, status := range lifecycle {
		if status == s {
			return i
		}
	}
	return -1
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPaid, PaymentFailed},
	PaymentFailed:  {PaymentPaid},
	PaymentPaid:    {PaymentRefunded},
}

// CanTransitionTo reports whether a payment may move from s to next.
// REFUNDED is reachable from PAID only.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateOrderTransition returns an integrity error for an illegal move.
func ValidateOrderTransition(from, to OrderStatus) error {
	if _, err := to.Present(); err != nil {
		return err
	}
	if !from.CanTransitionTo(to) {
		return apperr.Integrity("order status cannot change from %s to %s", from, to)
	}
	return nil
}

func ValidatePaymentTransition(from, to PaymentStatus) error {
	if _, err := to.Present(); err != nil {
		return err
	}
	if !from.CanTransitionTo(to) {
		return apperr.Integrity("payment status cannot change from %s to %s", from, to)
	}
	return nil
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParsePaymentStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
