package service

import (
	"context"
	"fmt"
	"strings"

	"overcooked-delivery/apperr"
	"overcooked-delivery/storefront-svc/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BeginCheckout struct {
	Address       domain.Address
	Route         domain.DeliveryRoute
	Instructions  string
	PaymentMethod domain.PaymentMethod
}

type CheckoutServiceInterface interface {
	Begin(ctx context.Context, sf *Storefront, req BeginCheckout) (domain.OrderDraft, error)
	CreatePaymentIntent(ctx context.Context, sf *Storefront) (*domain.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, sf *Storefront, paymentIntentID string) error
	PlaceOrder(ctx context.Context, sf *Storefront) (*domain.Order, error)
	CreateStandaloneIntent(ctx context.Context, amount decimal.Decimal, customerName, description string) (*domain.PaymentIntent, error)
}

// CheckoutService drives a staged draft through payment to order creation.
type CheckoutService struct {
	payments PaymentGateway
	orders   OrderClient
	logger   *zap.SugaredLogger
}

func NewCheckoutService(payments PaymentGateway, orders OrderClient, logger *zap.SugaredLogger) *CheckoutService {
	return &CheckoutService{payments: payments, orders: orders, logger: logger}
}

// Begin stages a draft built from the current cart and signed-in customer.
func (s *CheckoutService) Begin(ctx context.Context, sf *Storefront, req BeginCheckout) (domain.OrderDraft, error) {
	session, ok := sf.Session.Session()
	if !ok {
		return domain.OrderDraft{}, apperr.Authentication(nil)
	}
	method, err := domain.ParsePaymentMethod(string(req.PaymentMethod))
	if err != nil {
		return domain.OrderDraft{}, err
	}
	if strings.TrimSpace(req.Address.Text) == "" {
		return domain.OrderDraft{}, apperr.Validation("delivery address is required")
	}
	if req.Route.DistanceKm < 0 || req.Route.DurationMinutes < 0 || req.Route.Fare.IsNegative() {
		return domain.OrderDraft{}, apperr.Validation("route estimate must not be negative")
	}

	cart := sf.Cart.Snapshot()
	if len(cart.Items) == 0 {
		return domain.OrderDraft{}, apperr.Validation("cart is empty")
	}

	draft := domain.OrderDraft{
		CustomerID:           session.User.ID,
		CustomerPhone:        session.User.Phone,
		RestaurantID:         cart.RestaurantID,
		RestaurantName:       cart.RestaurantName,
		Items:                cart.Items,
		DeliveryAddress:      req.Address,
		DeliveryInstructions: req.Instructions,
		PaymentMethod:        method,
		Totals:               domain.DraftTotals{Totals: cart.Totals, DeliveryRoute: req.Route},
	}
	if err := sf.Checkout.SetDraft(ctx, draft); err != nil {
		return domain.OrderDraft{}, err
	}
	return draft, nil
}

func (s *CheckoutService) CreatePaymentIntent(ctx context.Context, sf *Storefront) (*domain.PaymentIntent, error) {
	draft, ok := sf.Checkout.Draft()
	if !ok {
		return nil, apperr.Validation("no checkout in progress")
	}
	if draft.PaymentMethod != domain.PaymentCard {
		return nil, apperr.Validation("payment intents are only needed for card payments")
	}
	session, ok := sf.Session.Session()
	if !ok {
		return nil, apperr.Authentication(nil)
	}

	return s.payments.CreateIntent(ctx, domain.PaymentIntentRequest{
		Amount:       draft.Totals.Total,
		CustomerName: session.User.Name,
		Description:  describe(draft),
		Metadata: map[string]string{
			"customer_id":   draft.CustomerID,
			"restaurant_id": draft.RestaurantID,
			"session_id":    sf.SessionID,
		},
	})
}

// ConfirmPayment attaches the payment reference once the provider reports the
// intent as succeeded for the staged amount.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, sf *Storefront, paymentIntentID string) error {
	draft, ok := sf.Checkout.Draft()
	if !ok {
		return apperr.Validation("no checkout in progress")
	}
	gen := sf.Checkout.Generation()

	intent, err := s.payments.GetIntent(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	if intent.Status != domain.PaymentIntentSucceeded {
		return apperr.Validation("payment %s is %s, not confirmed", paymentIntentID, intent.Status)
	}
	if !intent.Amount.Equal(draft.Totals.Total.Round(2)) {
		return apperr.Integrity("payment amount %s does not match order total %s", intent.Amount, draft.Totals.Total.Round(2))
	}

	if sf.Checkout.Generation() != gen {
		return apperr.ErrStaleResponse
	}
	return sf.Checkout.SetPaymentReference(ctx, intent.ID)
}

// PlaceOrder submits the staged draft once. The cart and the draft are only
// cleared after the order API accepted it.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sf *Storefront) (*domain.Order, error) {
	draft, ok := sf.Checkout.Draft()
	if !ok {
		return nil, apperr.Validation("no checkout in progress")
	}
	if draft.SubmittedOrderID != 0 {
		if err := s.closeCheckout(ctx, sf, draft.SubmittedOrderID); err != nil {
			return nil, err
		}
		return nil, apperr.Validation("checkout was already submitted as order %d", draft.SubmittedOrderID)
	}
	session, ok := sf.Session.Session()
	if !ok {
		return nil, apperr.Authentication(nil)
	}
	if draft.PaymentMethod == domain.PaymentCard && draft.PaymentReference == "" {
		return nil, apperr.Validation("card payment has not been confirmed")
	}
	gen := sf.Checkout.Generation()

	order, err := s.orders.CreateOrder(ctx, session.AccessToken, draft)
	if err != nil {
		return nil, err
	}

	if sf.Checkout.Generation() != gen {
		s.logger.Warnw("order created for a replaced draft", "order", order.ID, "session", sf.SessionID)
		return nil, apperr.ErrStaleResponse
	}
	if err := s.closeCheckout(ctx, sf, order.ID); err != nil {
		return order, err
	}

	s.logger.Infow("order placed", "order", order.ID, "customer", draft.CustomerID, "total", draft.Totals.Total.StringFixed(2))
	return order, nil
}

// closeCheckout retires a draft the order API has accepted. The draft is
// marked submitted before it is cleared, so a draft that survives a failed
// clear is never sent again.
func (s *CheckoutService) closeCheckout(ctx context.Context, sf *Storefront, orderID int64) error {
	markErr := sf.Checkout.MarkSubmitted(ctx, orderID)
	if err := sf.Checkout.Clear(ctx); err != nil {
		if markErr != nil {
			return fmt.Errorf("order %d was created but checkout could not be closed: %w", orderID, err)
		}
		s.logger.Warnw("submitted checkout draft left staged", "order", orderID, "error", err)
	}
	if err := sf.Cart.Clear(ctx); err != nil {
		s.logger.Errorw("failed to clear cart", "order", orderID, "error", err)
	}
	return nil
}

func (s *CheckoutService) CreateStandaloneIntent(ctx context.Context, amount decimal.Decimal, customerName, description string) (*domain.PaymentIntent, error) {
	if !amount.IsPositive() {
		return nil, apperr.Validation("amount must be positive")
	}
	return s.payments.CreateIntent(ctx, domain.PaymentIntentRequest{
		Amount:       amount,
		CustomerName: customerName,
		Description:  description,
	})
}

func describe(draft domain.OrderDraft) string {
	parts := make([]string, 0, len(draft.Items))
	for _, item := range draft.Items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Name))
	}
	return "Order from restaurant " + draft.RestaurantID + ": " + strings.Join(parts, ", ")
}

var _ CheckoutServiceInterface = (*CheckoutService)(nil)
