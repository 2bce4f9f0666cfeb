package tests

import (
	"context"
	"errors"
	"testing"

	"overcooked-delivery/apperr"
	"overcooked-delivery/orderstatus"
	"overcooked-delivery/storefront-svc/internal/domain"
	"overcooked-delivery/storefront-svc/internal/mocks"
	"overcooked-delivery/storefront-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	sf       *service.Storefront
	payments *mocks.PaymentGateway
	orders   *mocks.OrderClient
	svc      *service.CheckoutService
}

// newCheckoutFixture opens a storefront for a signed-in customer holding
// one line of a=10 x 3 (total 35.39).
func newCheckoutFixture(t *testing.T, signedIn bool) *checkoutFixture {
	t.Helper()
	rs, _ := newRedisStorage(t)
	return newCheckoutFixtureOn(t, signedIn, rs.ForSession("s1"))
}

func newCheckoutFixtureOn(t *testing.T, signedIn bool, st service.LocalStorage) *checkoutFixture {
	t.Helper()
	ctx := context.Background()
	if signedIn {
		storeSession(t, st, customer(), "tok")
	}

	open := func(string) service.LocalStorage { return st }
	loader := service.NewStorefrontLoader(open, mocks.NewAuthClient(t), domain.DefaultPricing(), nopLogger())
	sf, release, err := loader.Open(ctx, "s1", nil)
	require.NoError(t, err)
	t.Cleanup(release)
	require.NoError(t, sf.Cart.AddItem(ctx, line("a", "r1", "10", 3)))

	payments := mocks.NewPaymentGateway(t)
	orders := mocks.NewOrderClient(t)
	return &checkoutFixture{
		sf:       sf,
		payments: payments,
		orders:   orders,
		svc:      service.NewCheckoutService(payments, orders, nopLogger()),
	}
}

func beginRequest(method domain.PaymentMethod) service.BeginCheckout {
	lat, lng := 52.52, 13.405
	return service.BeginCheckout{
		Address:       domain.Address{Text: "1 Main St", Latitude: &lat, Longitude: &lng},
		Route:         domain.DeliveryRoute{DistanceKm: 3.2, DurationMinutes: 14, Fare: dec("4.50")},
		Instructions:  "ring twice",
		PaymentMethod: method,
	}
}

func negativeRoute() service.BeginCheckout {
	req := beginRequest(domain.PaymentCash)
	req.Route.DistanceKm = -1
	return req
}

func TestCheckout_Begin(t *testing.T) {
	tests := []struct {
		name      string
		signedIn  bool
		emptyCart bool
		req       service.BeginCheckout
		wantErr   error
	}{
		{name: "valid card checkout", signedIn: true, req: beginRequest(domain.PaymentCard)},
		{name: "not signed in", signedIn: false, req: beginRequest(domain.PaymentCard), wantErr: apperr.ErrAuthentication},
		{name: "empty cart", signedIn: true, emptyCart: true, req: beginRequest(domain.PaymentCash), wantErr: apperr.ErrValidation},
		{name: "unknown payment method", signedIn: true, req: beginRequest("CRYPTO"), wantErr: apperr.ErrValidation},
		{name: "missing address", signedIn: true, req: service.BeginCheckout{PaymentMethod: domain.PaymentCash}, wantErr: apperr.ErrValidation},
		{name: "negative route distance", signedIn: true, req: negativeRoute(), wantErr: apperr.ErrValidation},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			ctx := context.Background()
			f := newCheckoutFixture(t, testCase.signedIn)
			if testCase.emptyCart {
				require.NoError(t, f.sf.Cart.Clear(ctx))
			}

			draft, err := f.svc.Begin(ctx, f.sf, testCase.req)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				_, staged := f.sf.Checkout.Draft()
				assert.False(t, staged)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u-1", draft.CustomerID)
			assert.Equal(t, "r1", draft.RestaurantID)
			assert.Equal(t, "+49 30 1234567", draft.CustomerPhone)
			assert.True(t, draft.Totals.Total.Equal(dec("35.39")))
			assert.Equal(t, 3.2, draft.Totals.DistanceKm)
			assert.Equal(t, 14.0, draft.Totals.DurationMinutes)
			assert.True(t, draft.Totals.Fare.Equal(dec("4.50")))
			staged, ok := f.sf.Checkout.Draft()
			require.True(t, ok)
			assert.Equal(t, draft.DeliveryAddress.Text, staged.DeliveryAddress.Text)
			assert.True(t, staged.Totals.Fare.Equal(dec("4.50")))
		})
	}
}

func TestCheckout_CardFlow(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t, true)
	_, err := f.svc.Begin(ctx, f.sf, beginRequest(domain.PaymentCard))
	require.NoError(t, err)

	f.payments.On("CreateIntent", mock.Anything, mock.MatchedBy(func(req domain.PaymentIntentRequest) bool {
		return req.Amount.Equal(dec("35.39")) && req.CustomerName == "Ada Diner" && req.Description != ""
	})).Return(&domain.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil).Once()

	intent, err := f.svc.CreatePaymentIntent(ctx, f.sf)
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", intent.ClientSecret)

	_, err = f.svc.PlaceOrder(ctx, f.sf)
	assert.ErrorIs(t, err, apperr.ErrValidation, "order must wait for payment confirmation")

	f.payments.On("GetIntent", mock.Anything, "pi_1").
		Return(&domain.PaymentIntent{ID: "pi_1", Status: domain.PaymentIntentSucceeded, Amount: dec("35.39")}, nil).Once()
	require.NoError(t, f.svc.ConfirmPayment(ctx, f.sf, "pi_1"))

	draft, _ := f.sf.Checkout.Draft()
	assert.Equal(t, "pi_1", draft.PaymentReference)

	f.orders.On("CreateOrder", mock.Anything, "tok", mock.MatchedBy(func(d domain.OrderDraft) bool {
		return d.PaymentReference == "pi_1" && d.PaymentMethod == domain.PaymentCard
	})).Return(&domain.Order{ID: 42, OrderStatus: orderstatus.Placed, PaymentStatus: orderstatus.PaymentPaid}, nil).Once()

	order, err := f.svc.PlaceOrder(ctx, f.sf)

	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)
	_, staged := f.sf.Checkout.Draft()
	assert.False(t, staged)
	assert.Empty(t, f.sf.Cart.Items())
}

func TestCheckout_ConfirmPaymentRejectsUnsettledIntent(t *testing.T) {
	tests := []struct {
		name    string
		intent  *domain.PaymentIntent
		err     error
		wantErr error
	}{
		{
			name:    "still requires payment method",
			intent:  &domain.PaymentIntent{ID: "pi_1", Status: "requires_payment_method", Amount: dec("35.39")},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "amount mismatch",
			intent:  &domain.PaymentIntent{ID: "pi_1", Status: domain.PaymentIntentSucceeded, Amount: dec("1.00")},
			wantErr: apperr.ErrIntegrity,
		},
		{
			name:    "provider unreachable",
			err:     apperr.Network("get payment intent", errors.New("timeout")),
			wantErr: apperr.ErrNetwork,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			ctx := context.Background()
			f := newCheckoutFixture(t, true)
			_, err := f.svc.Begin(ctx, f.sf, beginRequest(domain.PaymentCard))
			require.NoError(t, err)
			f.payments.On("GetIntent", mock.Anything, "pi_1").Return(testCase.intent, testCase.err).Once()

			err = f.svc.ConfirmPayment(ctx, f.sf, "pi_1")

			assert.ErrorIs(t, err, testCase.wantErr)
			draft, _ := f.sf.Checkout.Draft()
			assert.Empty(t, draft.PaymentReference)
		})
	}
}

func TestCheckout_CashOrderFailureKeepsDraftAndCart(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t, true)
	_, err := f.svc.Begin(ctx, f.sf, beginRequest(domain.PaymentCash))
	require.NoError(t, err)

	f.orders.On("CreateOrder", mock.Anything, "tok", mock.Anything).
		Return(nil, apperr.Network("POST /api/orders", errors.New("503"))).Once()

	_, err = f.svc.PlaceOrder(ctx, f.sf)

	assert.ErrorIs(t, err, apperr.ErrNetwork)
	_, staged := f.sf.Checkout.Draft()
	assert.True(t, staged)
	assert.Len(t, f.sf.Cart.Items(), 1)
}

func TestCheckout_DraftReplacedWhileSubmitting(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture(t, true)
	_, err := f.svc.Begin(ctx, f.sf, beginRequest(domain.PaymentCash))
	require.NoError(t, err)

	f.orders.On("CreateOrder", mock.Anything, "tok", mock.Anything).
		Run(func(args mock.Arguments) {
			_, err := f.svc.Begin(ctx, f.sf, beginRequest(domain.PaymentCash))
			require.NoError(t, err)
		}).
		Return(&domain.Order{ID: 7, OrderStatus: orderstatus.Placed, PaymentStatus: orderstatus.PaymentPending}, nil).Once()

	_, err = f.svc.PlaceOrder(ctx, f.sf)

	assert.ErrorIs(t, err, apperr.ErrStaleResponse)
	_, staged := f.sf.Checkout.Draft()
	assert.True(t, staged)
}

// flakyDraftStorage fails writes to the checkout draft key while the flags are set.
type flakyDraftStorage struct {
	service.LocalStorage
	failSet    bool
	failDelete bool
}

func (s *flakyDraftStorage) Set(ctx context.Context, key, value string) error {
	if s.failSet && key == service.KeyCheckoutDraft {
		return errors.New("redis down")
	}
	return s.LocalStorage.Set(ctx, key, value)
}

func (s *flakyDraftStorage) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if s.failDelete && key == service.KeyCheckoutDraft {
			return errors.New("redis down")
		}
	}
	return s.LocalStorage.Delete(ctx, keys...)
}

func TestCheckout_UnclearedDraftIsNotSubmittedTwice(t *testing.T) {
	ctx := context.Background()
	rs, _ := newRedisStorage(t)
	st := &flakyDraftStorage{LocalStorage: rs.ForSession("s1")}
	f := newCheckoutFixtureOn(t, true, st)
	_, err := f.svc.Begin(ctx, f.sf, beginRequest(domain.PaymentCash))
	require.NoError(t, err)

	f.orders.On("CreateOrder", mock.Anything, "tok", mock.Anything).
		Return(&domain.Order{ID: 42, OrderStatus: orderstatus.Placed, PaymentStatus: orderstatus.PaymentPending}, nil).Once()

	st.failDelete = true
	order, err := f.svc.PlaceOrder(ctx, f.sf)
	require.NoError(t, err)
	assert.Equal(t, int64(42), order.ID)
	assert.Empty(t, f.sf.Cart.Items())

	draft, staged := f.sf.Checkout.Draft()
	require.True(t, staged)
	assert.Equal(t, int64(42), draft.SubmittedOrderID)

	_, err = f.svc.PlaceOrder(ctx, f.sf)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "order 42")

	st.failDelete = false
	_, err = f.svc.PlaceOrder(ctx, f.sf)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, staged = f.sf.Checkout.Draft()
	assert.False(t, staged)
}

func TestCheckout_PlaceOrderReportsCreatedOrderWhenCheckoutCannotClose(t *testing.T) {
	ctx := context.Background()
	rs, _ := newRedisStorage(t)
	st := &flakyDraftStorage{LocalStorage: rs.ForSession("s1")}
	f := newCheckoutFixtureOn(t, true, st)
	_, err := f.svc.Begin(ctx, f.sf, beginRequest(domain.PaymentCash))
	require.NoError(t, err)

	f.orders.On("CreateOrder", mock.Anything, "tok", mock.Anything).
		Return(&domain.Order{ID: 43, OrderStatus: orderstatus.Placed, PaymentStatus: orderstatus.PaymentPending}, nil).Once()

	st.failSet, st.failDelete = true, true
	order, err := f.svc.PlaceOrder(ctx, f.sf)

	assert.ErrorIs(t, err, apperr.ErrNetwork)
	assert.Contains(t, err.Error(), "order 43 was created")
	require.NotNil(t, order)
	assert.Equal(t, int64(43), order.ID)
}

func TestCheckout_StandaloneIntent(t *testing.T) {
	f := newCheckoutFixture(t, false)

	_, err := f.svc.CreateStandaloneIntent(context.Background(), dec("0"), "Ada", "nothing")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	f.payments.On("CreateIntent", mock.Anything, mock.MatchedBy(func(req domain.PaymentIntentRequest) bool {
		return req.Amount.Equal(dec("12.5")) && req.CustomerName == "Ada"
	})).Return(&domain.PaymentIntent{ClientSecret: "secret"}, nil).Once()

	intent, err := f.svc.CreateStandaloneIntent(context.Background(), dec("12.50"), "Ada", "Lunch")
	require.NoError(t, err)
	assert.Equal(t, "secret", intent.ClientSecret)
}
