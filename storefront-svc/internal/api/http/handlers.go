package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"overcooked-delivery/apperr"
	"overcooked-delivery/orderstatus"
	"overcooked-delivery/storefront-svc/internal/domain"
	"overcooked-delivery/storefront-svc/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handler struct {
	Loader   service.StorefrontOpener
	Checkout service.CheckoutServiceInterface
	cookies  *SessionCookies
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

func NewHandler(loader service.StorefrontOpener, checkout service.CheckoutServiceInterface, cookies *SessionCookies, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		Loader:   loader,
		Checkout: checkout,
		cookies:  cookies,
		validate: validator.New(),
		logger:   logger,
	}
}

// surfaces lists the role-gated areas and who may enter them besides admins.
var surfaces = map[string][]domain.Role{
	"customer":   {domain.RoleCustomer},
	"driver":     {domain.RoleDriver},
	"restaurant": {domain.RoleRestaurant},
	"admin":      nil,
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/create-payment-intent", h.createPaymentIntent).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.cookies.Middleware, h.withStorefront)

	api.HandleFunc("/cart", h.getCart).Methods("GET")
	api.HandleFunc("/cart", h.clearCart).Methods("DELETE")
	api.HandleFunc("/cart/items", h.addCartItem).Methods("POST")
	api.HandleFunc("/cart/items/{id}", h.updateCartItem).Methods("PATCH")
	api.HandleFunc("/cart/items/{id}", h.removeCartItem).Methods("DELETE")

	api.HandleFunc("/session", h.getSession).Methods("GET")
	api.HandleFunc("/session/login", h.login).Methods("POST")
	api.HandleFunc("/session/logout", h.logout).Methods("POST")

	checkout := api.PathPrefix("/checkout").Subrouter()
	checkout.Use(requireRole(domain.RoleCustomer))
	checkout.HandleFunc("/draft", h.beginCheckout).Methods("POST")
	checkout.HandleFunc("/draft", h.getDraft).Methods("GET")
	checkout.HandleFunc("/draft", h.cancelCheckout).Methods("DELETE")
	checkout.HandleFunc("/payment-method", h.setPaymentMethod).Methods("PUT")
	checkout.HandleFunc("/address", h.setAddress).Methods("PUT")
	checkout.HandleFunc("/payment-intent", h.checkoutPaymentIntent).Methods("POST")
	checkout.HandleFunc("/confirm-payment", h.confirmPayment).Methods("POST")
	checkout.HandleFunc("/place-order", h.placeOrder).Methods("POST")

	for surface, roles := range surfaces {
		sub := api.PathPrefix("/" + surface).Subrouter()
		sub.Use(requireRole(roles...))
		sub.HandleFunc("/whoami", h.whoami(surface)).Methods("GET")
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "storefront-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type cartResponse struct {
	Items          []domain.CartLine `json:"items"`
	RestaurantID   string            `json:"restaurantId,omitempty"`
	RestaurantName string            `json:"restaurantName,omitempty"`
	Totals         domain.Totals     `json:"totals"`
}

func newCartResponse(cart domain.Cart) cartResponse {
	return cartResponse{
		Items:          cart.Items,
		RestaurantID:   cart.RestaurantID,
		RestaurantName: cart.RestaurantName,
		Totals:         cart.Totals.Rounded(),
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newCartResponse(storefrontFrom(r.Context()).Cart.Snapshot()))
}

type addItemRequest struct {
	ID             string          `json:"id" validate:"required"`
	MenuItemID     string          `json:"menuItemId"`
	Name           string          `json:"name" validate:"required"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity" validate:"gte=1"`
	RestaurantID   string          `json:"restaurantId" validate:"required"`
	RestaurantName string          `json:"restaurantName"`
	ImageURL       string          `json:"imageUrl" validate:"omitempty,url"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	sf := storefrontFrom(r.Context())
	err := sf.Cart.AddItem(r.Context(), domain.CartLine{
		ID:             req.ID,
		MenuItemID:     req.MenuItemID,
		Name:           req.Name,
		Price:          req.Price,
		Quantity:       req.Quantity,
		RestaurantID:   req.RestaurantID,
		RestaurantName: req.RestaurantName,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(sf.Cart.Snapshot()))
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=1"`
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if !h.decode(w, r, &req) {
		return
	}
	sf := storefrontFrom(r.Context())
	if err := sf.Cart.UpdateQuantity(r.Context(), mux.Vars(r)["id"], *req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(sf.Cart.Snapshot()))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	sf := storefrontFrom(r.Context())
	if err := sf.Cart.RemoveItem(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(sf.Cart.Snapshot()))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	sf := storefrontFrom(r.Context())
	if err := sf.Cart.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartResponse(sf.Cart.Snapshot()))
}

type sessionResponse struct {
	State    domain.AuthState   `json:"state"`
	Loading  bool               `json:"loading"`
	User     *domain.User       `json:"user,omitempty"`
	Redirect domain.Destination `json:"redirect,omitempty"`
}

func newSessionResponse(snapshot domain.SessionSnapshot) sessionResponse {
	resp := sessionResponse{State: snapshot.State, Loading: snapshot.Loading}
	if snapshot.Session != nil {
		user := snapshot.Session.User
		resp.User = &user
		resp.Redirect = domain.DestinationFor(user)
	}
	return resp
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newSessionResponse(storefrontFrom(r.Context()).Session.Snapshot()))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !h.decode(w, r, &creds) {
		return
	}
	sf := storefrontFrom(r.Context())
	destination, err := sf.Session.Login(r.Context(), creds)
	if err != nil {
		h.logger.Infow("login failed", "email", creds.Email, "error", err)
		writeError(w, err)
		return
	}

	resp := newSessionResponse(sf.Session.Snapshot())
	resp.Redirect = destination
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := storefrontFrom(r.Context()).Session.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addressRequest struct {
	Text      string   `json:"text" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type routeRequest struct {
	DistanceKm      float64         `json:"distanceKm" validate:"gte=0"`
	DurationMinutes float64         `json:"durationMinutes" validate:"gte=0"`
	Fare            decimal.Decimal `json:"fare"`
}

type beginCheckoutRequest struct {
	Address       addressRequest `json:"address"`
	Route         routeRequest   `json:"route"`
	Instructions  string         `json:"instructions" validate:"max=500"`
	PaymentMethod string         `json:"paymentMethod" validate:"required,oneof=CASH CARD"`
}

func (h *Handler) beginCheckout(w http.ResponseWriter, r *http.Request) {
	var req beginCheckoutRequest
	if !h.decode(w, r, &req) {
		return
	}
	draft, err := h.Checkout.Begin(r.Context(), storefrontFrom(r.Context()), service.BeginCheckout{
		Address: domain.Address{
			Text:      req.Address.Text,
			Latitude:  req.Address.Latitude,
			Longitude: req.Address.Longitude,
		},
		Route: domain.DeliveryRoute{
			DistanceKm:      req.Route.DistanceKm,
			DurationMinutes: req.Route.DurationMinutes,
			Fare:            req.Route.Fare,
		},
		Instructions:  req.Instructions,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, draftResponse(draft))
}

func draftResponse(draft domain.OrderDraft) domain.OrderDraft {
	draft.Totals.Totals = draft.Totals.Totals.Rounded()
	draft.Totals.Fare = draft.Totals.Fare.Round(2)
	return draft
}

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	draft, ok := storefrontFrom(r.Context()).Checkout.Draft()
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, draftResponse(draft))
}

func (h *Handler) cancelCheckout(w http.ResponseWriter, r *http.Request) {
	if err := storefrontFrom(r.Context()).Checkout.Clear(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type paymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required,oneof=CASH CARD"`
}

func (h *Handler) setPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	if !h.decode(w, r, &req) {
		return
	}
	sf := storefrontFrom(r.Context())
	if err := sf.Checkout.SetPaymentMethod(r.Context(), domain.PaymentMethod(req.PaymentMethod)); err != nil {
		writeError(w, err)
		return
	}
	draft, _ := sf.Checkout.Draft()
	writeJSON(w, http.StatusOK, draftResponse(draft))
}

type addressDetailsRequest struct {
	Address      string `json:"address" validate:"required"`
	Instructions string `json:"instructions" validate:"max=500"`
}

func (h *Handler) setAddress(w http.ResponseWriter, r *http.Request) {
	var req addressDetailsRequest
	if !h.decode(w, r, &req) {
		return
	}
	sf := storefrontFrom(r.Context())
	if err := sf.Checkout.SetAddressDetails(r.Context(), req.Address, req.Instructions); err != nil {
		writeError(w, err)
		return
	}
	draft, _ := sf.Checkout.Draft()
	writeJSON(w, http.StatusOK, draftResponse(draft))
}

func (h *Handler) checkoutPaymentIntent(w http.ResponseWriter, r *http.Request) {
	intent, err := h.Checkout.CreatePaymentIntent(r.Context(), storefrontFrom(r.Context()))
	if err != nil {
		h.logger.Errorw("failed to create checkout payment intent", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.ID,
	})
}

type confirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	var req confirmPaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	sf := storefrontFrom(r.Context())
	if err := h.Checkout.ConfirmPayment(r.Context(), sf, req.PaymentIntentID); err != nil {
		writeError(w, err)
		return
	}
	draft, _ := sf.Checkout.Draft()
	writeJSON(w, http.StatusOK, draftResponse(draft))
}

type orderResponse struct {
	*domain.Order
	OrderStatusDisplay   orderstatus.Presentation `json:"orderStatusDisplay"`
	PaymentStatusDisplay orderstatus.Presentation `json:"paymentStatusDisplay"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Checkout.PlaceOrder(r.Context(), storefrontFrom(r.Context()))
	if err != nil {
		h.logger.Errorw("failed to place order", "error", err)
		writeError(w, err)
		return
	}

	resp := orderResponse{Order: order}
	if resp.OrderStatusDisplay, err = order.OrderStatus.Present(); err != nil {
		writeError(w, err)
		return
	}
	if resp.PaymentStatusDisplay, err = order.PaymentStatus.Present(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) whoami(surface string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := storefrontFrom(r.Context()).Session.Session()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"surface": surface,
			"user":    session.User,
		})
	}
}

type createPaymentIntentRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	CustomerName string          `json:"customerName"`
	Description  string          `json:"description"`
}

func (h *Handler) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req createPaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	intent, err := h.Checkout.CreateStandaloneIntent(r.Context(), req.Amount, req.CustomerName, req.Description)
	if err != nil {
		h.logger.Errorw("failed to create payment intent", "customer", req.CustomerName, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": intent.ClientSecret})
}

// decode reads and validates a JSON body, answering 400 itself on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON format: " + err.Error()})
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error()})
}
