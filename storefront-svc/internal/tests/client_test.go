package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"overcooked-delivery/apperr"
	"overcooked-delivery/orderstatus"
	"overcooked-delivery/storefront-svc/internal/client"
	"overcooked-delivery/storefront-svc/internal/domain"
	"overcooked-delivery/storefront-svc/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
)

func TestAuthClient_Login(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantUser string
	}{
		{
			name:     "success",
			status:   http.StatusOK,
			body:     `{"user":{"id":"u-1","name":"Ada","email":"ada@example.com","type":"Customer","isAdmin":false},"token":"jwt"}`,
			wantUser: "u-1",
		},
		{
			name:    "bad credentials",
			status:  http.StatusUnauthorized,
			body:    `{"error":"invalid credentials"}`,
			wantErr: apperr.ErrAuthentication,
		},
		{
			name:    "backend down",
			status:  http.StatusServiceUnavailable,
			body:    `{"message":"maintenance"}`,
			wantErr: apperr.ErrNetwork,
		},
		{
			name:    "garbage payload",
			status:  http.StatusOK,
			body:    `<html>`,
			wantErr: apperr.ErrIntegrity,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/auth/login", r.URL.Path)
				assert.Equal(t, http.MethodPost, r.Method)
				var creds domain.Credentials
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
				assert.Equal(t, "ada@example.com", creds.Email)
				w.WriteHeader(testCase.status)
				w.Write([]byte(testCase.body))
			}))
			defer srv.Close()

			session, err := client.NewAuthClient(srv.URL+"/", srv.Client()).
				Login(context.Background(), domain.Credentials{Email: "ada@example.com", Password: "pw"})

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, session)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.wantUser, session.User.ID)
			assert.Equal(t, "jwt", session.AccessToken)
		})
	}
}

func TestAuthClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := client.NewAuthClient(url, http.DefaultClient).Login(context.Background(), domain.Credentials{})

	assert.ErrorIs(t, err, apperr.ErrNetwork)
}

func TestOrderClient_CreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "CARD", payload["paymentMethod"])
		assert.Equal(t, "pi_1", payload["paymentReference"])
		assert.Equal(t, "+49 30 1234567", payload["customerPhone"])
		assert.Equal(t, "Ramen Bar", payload["restaurantName"])

		totals := payload["totals"].(map[string]interface{})
		assert.Equal(t, "35.39", totals["total"])
		assert.Equal(t, 3.2, totals["distanceKm"])
		assert.Equal(t, 14.0, totals["durationMinutes"])
		assert.Equal(t, "4.5", totals["fare"])

		item := payload["items"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "menu-12", item["menuItemId"])
		assert.Equal(t, "Ramen Bar", item["restaurantName"])
		assert.Equal(t, "30", item["lineTotal"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":12,"trackingId":"t-12","orderStatus":"PLACED","paymentStatus":"PAID","total":"35.39"}`))
	}))
	defer srv.Close()

	item := line("a", "r1", "10", 3)
	item.MenuItemID = "menu-12"
	item.RestaurantName = "Ramen Bar"
	order, err := client.NewOrderClient(srv.URL, srv.Client()).CreateOrder(context.Background(), "tok", domain.OrderDraft{
		CustomerID:       "u-1",
		CustomerPhone:    "+49 30 1234567",
		RestaurantID:     "r1",
		RestaurantName:   "Ramen Bar",
		Items:            []domain.CartLine{item.WithTotal()},
		PaymentMethod:    domain.PaymentCard,
		PaymentReference: "pi_1",
		Totals: domain.DraftTotals{
			Totals:        domain.Totals{Total: dec("35.39")},
			DeliveryRoute: domain.DeliveryRoute{DistanceKm: 3.2, DurationMinutes: 14, Fare: dec("4.50")},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(12), order.ID)
	assert.Equal(t, orderstatus.Placed, order.OrderStatus)
	assert.Equal(t, orderstatus.PaymentPaid, order.PaymentStatus)
	assert.True(t, order.Total.Equal(dec("35.39")))
}

func TestOrderClient_UnknownStatusIsIntegrityError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":12,"orderStatus":"TELEPORTED","paymentStatus":"PAID"}`))
	}))
	defer srv.Close()

	_, err := client.NewOrderClient(srv.URL, srv.Client()).CreateOrder(context.Background(), "tok", domain.OrderDraft{})

	assert.ErrorIs(t, err, apperr.ErrIntegrity)
}

func TestStripeGateway_CreateIntent(t *testing.T) {
	api := mocks.NewPaymentIntentAPI(t)
	gateway := client.NewStripeGatewayWithAPI(api, "usd")

	api.On("New", mock.MatchedBy(func(p *stripe.PaymentIntentParams) bool {
		return *p.Amount == 3539 &&
			*p.Currency == "usd" &&
			*p.Description == "Order from r1" &&
			p.Metadata["customer_name"] == "Ada" &&
			p.Metadata["restaurant_id"] == "r1"
	})).Return(&stripe.PaymentIntent{
		ID:           "pi_1",
		ClientSecret: "pi_1_secret",
		Status:       stripe.PaymentIntentStatusRequiresPaymentMethod,
		Amount:       3539,
	}, nil).Once()

	intent, err := gateway.CreateIntent(context.Background(), domain.PaymentIntentRequest{
		Amount:       dec("35.39"),
		CustomerName: "Ada",
		Description:  "Order from r1",
		Metadata:     map[string]string{"restaurant_id": "r1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", intent.ClientSecret)
	assert.True(t, intent.Amount.Equal(dec("35.39")))
}

func TestStripeGateway_GetIntent(t *testing.T) {
	api := mocks.NewPaymentIntentAPI(t)
	gateway := client.NewStripeGatewayWithAPI(api, "usd")

	api.On("Get", "pi_1", mock.Anything).Return(&stripe.PaymentIntent{
		ID:     "pi_1",
		Status: stripe.PaymentIntentStatusSucceeded,
		Amount: 1250,
	}, nil).Once()
	api.On("Get", "pi_404", mock.Anything).Return(nil, &stripe.Error{Msg: "No such payment_intent"}).Once()

	intent, err := gateway.GetIntent(context.Background(), "pi_1")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentIntentSucceeded, intent.Status)
	assert.True(t, intent.Amount.Equal(dec("12.50")))

	_, err = gateway.GetIntent(context.Background(), "pi_404")
	assert.ErrorIs(t, err, apperr.ErrNetwork)

	_, err = gateway.GetIntent(context.Background(), "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
