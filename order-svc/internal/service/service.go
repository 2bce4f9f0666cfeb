package service

import (
	"context"
	"fmt"
	"time"

	"overcooked-delivery/apperr"
	"overcooked-delivery/order-svc/internal/domain"
	"overcooked-delivery/orderstatus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	SaveQRCode(ctx context.Context, orderID int64, qr []byte) error
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.ListFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status orderstatus.OrderStatus, payment orderstatus.PaymentStatus) (time.Time, error)
	GetQRCode(ctx context.Context, orderID int64) ([]byte, error)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type OrderServiceInterface interface {
	Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error)
	Get(ctx context.Context, orderID int64) (*domain.Order, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, update domain.StatusUpdate) (*domain.Order, error)
	GetQRCode(ctx context.Context, orderID int64) ([]byte, error)
	QRLink(orderID int64) string
}

type OrderService struct {
	repo      OrderRepository
	qrEncoder QRGenerator
	events    EventPublisher
	logger    *zap.SugaredLogger
	now       func() time.Time
}

func NewOrderService(repo OrderRepository, qr QRGenerator, events EventPublisher, logger *zap.SugaredLogger) *OrderService {
	return &OrderService{repo: repo, qrEncoder: qr, events: events, logger: logger, now: time.Now}
}

// Create stores a new order in PLACED state. Card orders must carry the
// reference of a confirmed payment and start out PAID; cash orders start
// PENDING.
func (s *OrderService) Create(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	if err := checkTotals(req); err != nil {
		return nil, err
	}

	payment := orderstatus.PaymentPending
	switch req.PaymentMethod {
	case domain.PaymentCard:
		if req.PaymentReference == "" {
			return nil, apperr.Validation("card orders require a payment reference")
		}
		payment = orderstatus.PaymentPaid
	case domain.PaymentCash:
	default:
		return nil, apperr.Validation("unsupported payment method %q", req.PaymentMethod)
	}

	order := &domain.Order{
		TrackingID:           uuid.NewString(),
		CustomerID:           req.CustomerID,
		CustomerPhone:        req.CustomerPhone,
		RestaurantID:         req.RestaurantID,
		RestaurantName:       req.RestaurantName,
		Items:                req.Items,
		DeliveryAddress:      req.DeliveryAddress,
		DeliveryInstructions: req.DeliveryInstructions,
		PaymentMethod:        req.PaymentMethod,
		PaymentReference:     req.PaymentReference,
		Subtotal:             req.Totals.Subtotal.Round(2),
		DeliveryFee:          req.Totals.DeliveryFee.Round(2),
		Tax:                  req.Totals.Tax.Round(2),
		Total:                req.Totals.Total.Round(2),
		DistanceKm:           req.Totals.DistanceKm,
		DurationMinutes:      req.Totals.DurationMinutes,
		DeliveryFare:         req.Totals.Fare.Round(2),
		OrderStatus:          orderstatus.Placed,
		PaymentStatus:        payment,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(order.ID); err != nil {
			s.logger.Warnw("qr code generation failed", "order_id", order.ID, "error", err)
		} else if err := s.repo.SaveQRCode(ctx, order.ID, qr); err != nil {
			s.logger.Warnw("failed to store qr code", "order_id", order.ID, "error", err)
		}
	}
	order.QRCode = s.QRLink(order.ID)

	s.publish(ctx, order)
	s.logger.Infow("order created",
		"order_id", order.ID,
		"restaurant_id", order.RestaurantID,
		"payment_method", order.PaymentMethod,
		"total", order.Total.StringFixed(2),
	)
	return order, nil
}

// checkTotals rejects drafts whose subtotal does not match the submitted lines
// or whose total does not add up.
func checkTotals(req domain.CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return apperr.Validation("order has no items")
	}
	subtotal := req.Items[0].LineTotal()
	for _, item := range req.Items[1:] {
		subtotal = subtotal.Add(item.LineTotal())
	}
	if !subtotal.Round(2).Equal(req.Totals.Subtotal.Round(2)) {
		return apperr.Validation("subtotal %s does not match items %s", req.Totals.Subtotal.StringFixed(2), subtotal.StringFixed(2))
	}
	sum := req.Totals.Subtotal.Add(req.Totals.DeliveryFee).Add(req.Totals.Tax)
	if !sum.Round(2).Equal(req.Totals.Total.Round(2)) {
		return apperr.Validation("total %s does not add up", req.Totals.Total.StringFixed(2))
	}
	if !req.Totals.Total.IsPositive() {
		return apperr.Validation("total must be positive")
	}
	if req.Totals.DistanceKm < 0 || req.Totals.DurationMinutes < 0 || req.Totals.Fare.IsNegative() {
		return apperr.Validation("route estimate must not be negative")
	}
	return nil
}

func (s *OrderService) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.QRCode = s.QRLink(order.ID)
	return order, nil
}

func (s *OrderService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Order, error) {
	if filter.Status != "" {
		if _, err := filter.Status.Present(); err != nil {
			return nil, apperr.Validation("unknown status filter %q", filter.Status)
		}
	}
	return s.repo.ListOrders(ctx, filter)
}

// UpdateStatus applies the requested order and/or payment status change after
// checking both transitions against the current record.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, update domain.StatusUpdate) (*domain.Order, error) {
	if update.OrderStatus == nil && update.PaymentStatus == nil {
		return nil, apperr.Validation("nothing to update")
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	next, nextPayment := order.OrderStatus, order.PaymentStatus
	if update.OrderStatus != nil {
		if err := orderstatus.ValidateOrderTransition(order.OrderStatus, *update.OrderStatus); err != nil {
			return nil, err
		}
		next = *update.OrderStatus
	}
	if update.PaymentStatus != nil {
		if err := orderstatus.ValidatePaymentTransition(order.PaymentStatus, *update.PaymentStatus); err != nil {
			return nil, err
		}
		nextPayment = *update.PaymentStatus
	}

	updatedAt, err := s.repo.UpdateStatus(ctx, orderID, next, nextPayment)
	if err != nil {
		return nil, fmt.Errorf("failed to update order %d: %w", orderID, err)
	}

	s.logger.Infow("order status changed",
		"order_id", orderID,
		"from", order.OrderStatus,
		"to", next,
		"payment_status", nextPayment,
	)
	order.OrderStatus, order.PaymentStatus, order.UpdatedAt = next, nextPayment, updatedAt
	order.QRCode = s.QRLink(order.ID)
	s.publish(ctx, order)
	return order, nil
}

// publish is best effort: the order row is the source of truth.
func (s *OrderService) publish(ctx context.Context, order *domain.Order) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishOrderEvent(ctx, domain.NewOrderEvent(order, s.now())); err != nil {
		s.logger.Errorw("failed to publish order event", "order_id", order.ID, "error", err)
	}
}

func (s *OrderService) GetQRCode(ctx context.Context, orderID int64) ([]byte, error) {
	qr, err := s.repo.GetQRCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		if regenerated, err := s.qrEncoder.Generate(orderID); err == nil {
			if err := s.repo.SaveQRCode(ctx, orderID, regenerated); err != nil {
				s.logger.Warnw("failed to cache regenerated qr code", "order_id", orderID, "error", err)
			}
			return regenerated, nil
		}
	}
	return qr, nil
}

func (s *OrderService) QRLink(orderID int64) string {
	return fmt.Sprintf("/api/orders/%d/qrcode", orderID)
}

var _ OrderServiceInterface = (*OrderService)(nil)
