package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"overcooked-delivery/apperr"
	"overcooked-delivery/tracker-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Tracking service.TrackingServiceInterface
	logger   *zap.SugaredLogger
}

func NewHandler(tracking service.TrackingServiceInterface, logger *zap.SugaredLogger) *Handler {
	return &Handler{Tracking: tracking, logger: logger}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/tracking/{id:[0-9]+}", h.getTracking).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "tracker-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) getTracking(w http.ResponseWriter, r *http.Request) {
	orderID, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	snap, err := h.Tracking.Get(r.Context(), orderID)
	if err != nil {
		code := apperr.HTTPStatus(err)
		if code >= http.StatusInternalServerError {
			h.logger.Errorw("tracking lookup failed", "order_id", orderID, "error", err)
		}
		writeJSON(w, code, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
